package handlers

import (
	"net/http"

	"happy-tails/internal/booking"
	"happy-tails/internal/models"
	"happy-tails/internal/payment"
	"happy-tails/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BookingHandler handles ticket booking sessions
type BookingHandler struct {
	bookings services.BookingServiceInterface
	visitor  Visitor
	logger   *zap.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings services.BookingServiceInterface, visitor Visitor, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, visitor: visitor, logger: logger}
}

type startBookingRequest struct {
	EventID int `json:"event_id"`
}

// sessionID returns the booking id in the route when the visitor owns it
func (h *BookingHandler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if id == "" || !h.visitor.OwnsBooking(r, id) {
		respondError(w, r, h.logger, models.ErrSessionNotFound)
		return "", false
	}
	return id, true
}

// Start handles POST /api/bookings
func (h *BookingHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if req.EventID <= 0 {
		respondError(w, r, h.logger, models.NewValidationError("event_id", "event_id is required"))
		return
	}

	view, err := h.bookings.Start(r.Context(), req.EventID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := h.visitor.TrackBooking(w, r, view.ID); err != nil {
		_ = h.bookings.Discard(view.ID)
		respondError(w, r, h.logger, err)
		return
	}
	respondCreated(w, "", view)
}

// Get handles GET /api/bookings/{id}
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.step(h.bookings.Get)(w, r)
}

// Increment handles POST /api/bookings/{id}/tickets/increment
func (h *BookingHandler) Increment(w http.ResponseWriter, r *http.Request) {
	h.step(h.bookings.IncrementTickets)(w, r)
}

// Decrement handles POST /api/bookings/{id}/tickets/decrement
func (h *BookingHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.step(h.bookings.DecrementTickets)(w, r)
}

// Next handles POST /api/bookings/{id}/next
func (h *BookingHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.step(h.bookings.Next)(w, r)
}

// Back handles POST /api/bookings/{id}/back
func (h *BookingHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.step(h.bookings.Back)(w, r)
}

// OpenPayment handles POST /api/bookings/{id}/payment/open
func (h *BookingHandler) OpenPayment(w http.ResponseWriter, r *http.Request) {
	h.step(h.bookings.OpenPayment)(w, r)
}

// ClosePayment handles POST /api/bookings/{id}/payment/close
func (h *BookingHandler) ClosePayment(w http.ResponseWriter, r *http.Request) {
	h.step(h.bookings.ClosePayment)(w, r)
}

func (h *BookingHandler) step(op func(id string) (booking.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.sessionID(w, r)
		if !ok {
			return
		}
		view, err := op(id)
		if err != nil {
			respondError(w, r, h.logger, err)
			return
		}
		respondOK(w, view)
	}
}

// SetBilling handles PUT /api/bookings/{id}/billing
func (h *BookingHandler) SetBilling(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var details booking.BillingDetails
	if err := decodeJSON(w, r, &details); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	view, err := h.bookings.SetBilling(id, details)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondOK(w, view)
}

// Pay handles POST /api/bookings/{id}/pay
func (h *BookingHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req services.PayRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	result, err := h.bookings.Pay(r.Context(), id, req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if result.Booking != nil {
		h.forget(w, r, id)
	}

	message := "Payment successful"
	if result.BookingError != "" {
		message = "Payment successful, but the booking could not be recorded"
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: result})
}

// Discard handles DELETE /api/bookings/{id}
func (h *BookingHandler) Discard(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if err := h.bookings.Discard(id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	h.forget(w, r, id)
	respondMessage(w, http.StatusOK, "booking session discarded")
}

type createTicketsRequest struct {
	SessionID string `json:"session_id"`
}

// CreateTickets handles POST /tickets/{eventId}. It records the booking for a
// paid session the visitor owns; ticket count, billing and payment reference
// all come from the session.
func (h *BookingHandler) CreateTickets(w http.ResponseWriter, r *http.Request) {
	eventID, err := intParam(r, "eventId")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	var body createTicketsRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if body.SessionID == "" || !h.visitor.OwnsBooking(r, body.SessionID) {
		respondError(w, r, h.logger, models.ErrSessionNotFound)
		return
	}

	view, err := h.bookings.Get(body.SessionID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if view.State != booking.StateSucceeded || view.PaymentRef == "" {
		respondError(w, r, h.logger, &payment.PaymentError{Code: "unpaid", Message: "booking has not been paid"})
		return
	}
	if view.EventID != eventID {
		respondError(w, r, h.logger, models.NewValidationError("eventId", "booking session is for a different event"))
		return
	}

	created, err := h.bookings.CreateBooking(r.Context(), &models.BookingCreateRequest{
		EventID:         view.EventID,
		NumberOfTickets: view.TicketCount,
		BillingName:     view.Billing.Name,
		BillingPhone:    view.Billing.Phone,
		BillingEmail:    view.Billing.Email,
		PaymentRef:      view.PaymentRef,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	h.forget(w, r, view.ID)
	respondCreated(w, "booking created", created)
}

// forget drops the visitor's claim on a session whose booking is recorded
func (h *BookingHandler) forget(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.visitor.ForgetBooking(w, r, id); err != nil {
		h.logger.Warn("failed to forget booking session", zap.String("session_id", id), zap.Error(err))
	}
}
