package handlers

import (
	"net/http"

	"happy-tails/internal/models"
	"happy-tails/internal/pricing"
	"happy-tails/internal/services"

	"go.uber.org/zap"
)

const defaultEventLimit = 50

// CatalogHandler serves product and public event pages
type CatalogHandler struct {
	catalog services.CatalogServiceInterface
	events  services.EventServiceInterface
	logger  *zap.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog services.CatalogServiceInterface, events services.EventServiceInterface, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, events: events, logger: logger}
}

// Product handles GET /api/products/product/{id}
func (h *CatalogHandler) Product(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	product, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondOK(w, product)
}

// Options handles GET /api/products/product/{id}/options?size=&color=
func (h *CatalogHandler) Options(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	size := r.URL.Query().Get("size")
	if size == "" {
		size = pricing.Unselected
	}
	color := r.URL.Query().Get("color")
	if color == "" {
		color = pricing.Unselected
	}

	view, err := h.catalog.Options(r.Context(), id, size, color)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondOK(w, view)
}

// PublicEvents handles GET /api/getPublicEvents
func (h *CatalogHandler) PublicEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultEventLimit)
	if limit == 0 || limit > defaultEventLimit {
		limit = defaultEventLimit
	}

	events, err := h.events.PublicEvents(r.Context(), limit)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	respondOK(w, events)
}

// Event handles GET /events/{id}
func (h *CatalogHandler) Event(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	event, err := h.events.Event(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondOK(w, event)
}
