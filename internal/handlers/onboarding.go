package handlers

import (
	"net/http"

	"happy-tails/internal/models"
	"happy-tails/internal/services"

	"go.uber.org/zap"
)

// OnboardingHandler handles partner signups
type OnboardingHandler struct {
	onboarding services.OnboardingServiceInterface
	logger     *zap.Logger
}

// NewOnboardingHandler creates a new onboarding handler
func NewOnboardingHandler(onboarding services.OnboardingServiceInterface, logger *zap.Logger) *OnboardingHandler {
	return &OnboardingHandler{onboarding: onboarding, logger: logger}
}

// StoreSignup handles POST /auth/storeSignup
func (h *OnboardingHandler) StoreSignup(w http.ResponseWriter, r *http.Request) {
	var req models.StoreSignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	vendor, err := h.onboarding.StoreSignup(r.Context(), &req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	h.logger.Info("store signup", zap.Int("vendor_id", vendor.ID))
	respondCreated(w, "Store registered. Your account is pending approval.", vendor)
}

// EventManagerSignup handles POST /auth/eventManagerSignup
func (h *OnboardingHandler) EventManagerSignup(w http.ResponseWriter, r *http.Request) {
	var req models.EventManagerSignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	manager, err := h.onboarding.EventManagerSignup(r.Context(), &req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	h.logger.Info("event manager signup", zap.Int("event_manager_id", manager.ID))
	respondCreated(w, "Event manager registered. Your account is pending approval.", manager)
}
