package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"happy-tails/internal/middleware"
	"happy-tails/internal/models"
	"happy-tails/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultAdminPageSize = 20

// AdminHandler serves the admin resource endpoints
type AdminHandler struct {
	admin  services.AdminServiceInterface
	logger *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admin services.AdminServiceInterface, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: logger}
}

// List handles GET /admin/{kind}?limit=&offset=
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultAdminPageSize)
	if limit == 0 || limit > 100 {
		limit = defaultAdminPageSize
	}
	offset := queryInt(r, "offset", 0)

	data, err := h.admin.List(r.Context(), chi.URLParam(r, "kind"), limit, offset)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondOK(w, data)
}

// Detail handles GET /admin/{kind}/{id}
func (h *AdminHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	data, err := h.admin.Detail(r.Context(), chi.URLParam(r, "kind"), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondOK(w, data)
}

// Related handles GET /admin/{kind}/{id}/{related}
func (h *AdminHandler) Related(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	data, err := h.admin.Related(r.Context(), chi.URLParam(r, "kind"), id, chi.URLParam(r, "related"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondOK(w, data)
}

// Update handles PUT /admin/{kind}/{id}. The response echoes the stored
// entity so clients can replace their copy.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, r, h.logger, models.NewValidationError("body", "invalid request body"))
		return
	}

	kind := chi.URLParam(r, "kind")
	data, err := h.admin.Update(r.Context(), kind, id, json.RawMessage(body))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	h.audit(r, "update", kind, id)
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "updated", Data: data})
}

// Delete handles DELETE /admin/{kind}/{id}
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	kind := chi.URLParam(r, "kind")
	if err := h.admin.Delete(r.Context(), kind, id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	h.audit(r, "delete", kind, id)
	respondMessage(w, http.StatusOK, "deleted")
}

// audit logs admin writes with the acting account
func (h *AdminHandler) audit(r *http.Request, action, kind string, id int) {
	fields := []zap.Field{
		zap.String("action", action),
		zap.String("kind", kind),
		zap.Int("id", id),
		zap.String("request_id", middleware.GetRequestID(r.Context())),
	}
	if claims := middleware.GetClaims(r.Context()); claims != nil {
		fields = append(fields, zap.Int("admin_id", claims.UserID))
	}
	h.logger.Info("admin write", fields...)
}
