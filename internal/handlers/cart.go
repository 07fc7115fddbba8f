package handlers

import (
	"net/http"

	"happy-tails/internal/models"
	"happy-tails/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Visitor resolves the anonymous visitor behind a request
type Visitor interface {
	CartID(w http.ResponseWriter, r *http.Request) (string, error)
	TrackBooking(w http.ResponseWriter, r *http.Request, bookingID string) error
	OwnsBooking(r *http.Request, bookingID string) bool
	ForgetBooking(w http.ResponseWriter, r *http.Request, bookingID string) error
}

// CartHandler handles the shopping cart and its checkout
type CartHandler struct {
	cart     services.CartServiceInterface
	checkout services.CheckoutServiceInterface
	visitor  Visitor
	logger   *zap.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cart services.CartServiceInterface, checkout services.CheckoutServiceInterface, visitor Visitor, logger *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, checkout: checkout, visitor: visitor, logger: logger}
}

// updateQuantityRequest keeps quantity raw so "abc" and "-3" reach the clamp
type updateQuantityRequest struct {
	Quantity jsonNumber `json:"quantity"`
}

func (h *CartHandler) cartID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := h.visitor.CartID(w, r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return "", false
	}
	return id, true
}

func itemKey(r *http.Request) (models.CartItemKey, error) {
	productID, err := intParam(r, "productId")
	if err != nil {
		return models.CartItemKey{}, err
	}
	variantID := chi.URLParam(r, "variantId")
	if variantID == "" {
		return models.CartItemKey{}, models.NewValidationError("variantId", "invalid variantId")
	}
	return models.CartItemKey{ProductID: productID, VariantID: variantID}, nil
}

// View handles GET /api/cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	cartID, ok := h.cartID(w, r)
	if !ok {
		return
	}
	view, err := h.cart.View(r.Context(), cartID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondOK(w, view)
}

// Add handles POST /api/cart/items
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req services.AddToCartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	cartID, ok := h.cartID(w, r)
	if !ok {
		return
	}

	view, err := h.cart.Add(r.Context(), cartID, req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "added to cart", Data: view})
}

// UpdateQuantity handles PATCH /api/cart/items/{productId}/{variantId}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	key, err := itemKey(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	var req updateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	cartID, ok := h.cartID(w, r)
	if !ok {
		return
	}

	view, err := h.cart.UpdateQuantity(r.Context(), cartID, key, string(req.Quantity))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondOK(w, view)
}

// Remove handles DELETE /api/cart/items/{productId}/{variantId}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	key, err := itemKey(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	cartID, ok := h.cartID(w, r)
	if !ok {
		return
	}

	view, err := h.cart.Remove(r.Context(), cartID, key)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondOK(w, view)
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cartID, ok := h.cartID(w, r)
	if !ok {
		return
	}
	view, err := h.cart.Clear(r.Context(), cartID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondOK(w, view)
}

// Checkout handles POST /api/cart/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req services.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	cartID, ok := h.cartID(w, r)
	if !ok {
		return
	}

	order, err := h.checkout.Checkout(r.Context(), cartID, req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondCreated(w, "order placed", order)
}
