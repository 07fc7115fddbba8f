package services

import (
	"context"
	"strings"

	"happy-tails/internal/auth"
	"happy-tails/internal/models"
)

// OnboardingService registers stores and event managers. New partners start
// pending until an admin approves them.
type OnboardingService struct {
	partners PartnerRepository
	hash     func(string) (string, error)
}

// NewOnboardingService creates a new onboarding service
func NewOnboardingService(partners PartnerRepository) *OnboardingService {
	return &OnboardingService{partners: partners, hash: auth.HashPassword}
}

// StoreSignup registers a vendor
func (s *OnboardingService) StoreSignup(ctx context.Context, req *models.StoreSignupRequest) (*models.Vendor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	user := &models.User{
		Name:         strings.TrimSpace(req.OwnerName),
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		Role:         models.RoleVendor,
		IsActive:     true,
	}
	vendor := &models.Vendor{
		StoreName: strings.TrimSpace(req.StoreName),
		OwnerName: strings.TrimSpace(req.OwnerName),
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		GSTNumber: strings.ToUpper(strings.TrimSpace(req.GSTNumber)),
		Status:    models.PartnerPending,
	}

	return s.partners.CreateVendor(ctx, user, vendor)
}

// EventManagerSignup registers an event manager
func (s *OnboardingService) EventManagerSignup(ctx context.Context, req *models.EventManagerSignupRequest) (*models.EventManager, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		Role:         models.RoleEventManager,
		IsActive:     true,
	}
	manager := &models.EventManager{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		Organization: strings.TrimSpace(req.Organization),
		Status:       models.PartnerPending,
	}

	return s.partners.CreateEventManager(ctx, user, manager)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
