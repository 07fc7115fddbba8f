package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"happy-tails/internal/middleware"
	"happy-tails/internal/models"
	"happy-tails/internal/payment"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// Response is the envelope every API response uses
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondOK(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func respondCreated(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: status < 400, Message: message})
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	var ve *models.ValidationError
	var te *models.TimeoutError
	var pe *payment.PaymentError

	switch {
	case errors.As(err, &ve):
		if payment.IsCardField(ve.Field) {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &te):
		return http.StatusGone
	case errors.As(err, &pe):
		return http.StatusPaymentRequired
	case errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrSoldOut),
		errors.Is(err, models.ErrDuplicateEntry):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with the status its type maps to. Server failures
// are logged and their details hidden from the client.
func respondError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		respondMessage(w, status, "Something went wrong. Please try again.")
		return
	}
	respondMessage(w, status, err.Error())
}

// decodeJSON reads a JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return models.NewValidationError("body", "invalid request body")
	}
	return nil
}

// intParam parses a numeric route parameter
func intParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, models.NewValidationError(name, "invalid "+name)
	}
	return id, nil
}

// queryInt reads an optional positive integer query parameter
func queryInt(r *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

// jsonNumber accepts a JSON number or string and keeps its text
type jsonNumber string

func (n *jsonNumber) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*n = jsonNumber(s)
		return nil
	}
	*n = jsonNumber(strings.TrimSpace(string(b)))
	return nil
}
