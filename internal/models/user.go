package models

import (
	"errors"
	"strings"
	"time"
)

// UserRole represents the role of an account
type UserRole string

const (
	RoleCustomer     UserRole = "customer"
	RoleVendor       UserRole = "vendor"
	RoleEventManager UserRole = "event_manager"
	RoleAdmin        UserRole = "admin"
)

// PartnerStatus is the onboarding status of a store or event manager
type PartnerStatus string

const (
	PartnerPending   PartnerStatus = "pending"
	PartnerApproved  PartnerStatus = "approved"
	PartnerSuspended PartnerStatus = "suspended"
)

// User is a marketplace account. Admin screens list customers from here.
type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Vendor is a store selling products on the marketplace
type Vendor struct {
	ID          int           `json:"id" db:"id"`
	UserID      int           `json:"user_id" db:"user_id"`
	StoreName   string        `json:"store_name" db:"store_name"`
	OwnerName   string        `json:"owner_name" db:"owner_name"`
	Email       string        `json:"email" db:"email"`
	Phone       string        `json:"phone" db:"phone"`
	Address     string        `json:"address" db:"address"`
	GSTNumber   string        `json:"gst_number" db:"gst_number"`
	Status      PartnerStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// EventManager is a partner who hosts events
type EventManager struct {
	ID           int           `json:"id" db:"id"`
	UserID       int           `json:"user_id" db:"user_id"`
	Name         string        `json:"name" db:"name"`
	Email        string        `json:"email" db:"email"`
	Phone        string        `json:"phone" db:"phone"`
	Organization string        `json:"organization" db:"organization"`
	Status       PartnerStatus `json:"status" db:"status"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// StoreSignupRequest is the body of POST /auth/storeSignup
type StoreSignupRequest struct {
	StoreName string `json:"storeName"`
	OwnerName string `json:"ownerName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Address   string `json:"address"`
	GSTNumber string `json:"gstNumber"`
}

// EventManagerSignupRequest is the body of POST /auth/eventManagerSignup
type EventManagerSignupRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	Organization string `json:"organization"`
}

// PartnerUpdateRequest is the admin PUT payload for vendors and event managers
type PartnerUpdateRequest struct {
	Name   *string        `json:"name,omitempty"`
	Phone  *string        `json:"phone,omitempty"`
	Status *PartnerStatus `json:"status,omitempty"`
}

// UserUpdateRequest is the admin PUT payload for customers
type UserUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Validate validates a store signup
func (req *StoreSignupRequest) Validate() error {
	if strings.TrimSpace(req.StoreName) == "" {
		return NewValidationError("storeName", "store name is required")
	}
	if strings.TrimSpace(req.OwnerName) == "" {
		return NewValidationError("ownerName", "owner name is required")
	}
	if err := validateContact(req.Email, req.Phone); err != nil {
		return err
	}
	return validatePassword(req.Password)
}

// Validate validates an event manager signup
func (req *EventManagerSignupRequest) Validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return NewValidationError("name", "name is required")
	}
	if err := validateContact(req.Email, req.Phone); err != nil {
		return err
	}
	return validatePassword(req.Password)
}

// Validate validates a partner update
func (req *PartnerUpdateRequest) Validate() error {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if req.Status != nil {
		switch *req.Status {
		case PartnerPending, PartnerApproved, PartnerSuspended:
		default:
			return errors.New("invalid partner status")
		}
	}
	return nil
}

func validateContact(email, phone string) error {
	if !IsValidEmail(email) {
		return NewValidationError("email", "a valid email is required")
	}
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 10 {
		return NewValidationError("phone", "a valid phone number is required")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return NewValidationError("password", "password must be at least 8 characters long")
	}
	if len(password) > 128 {
		return NewValidationError("password", "password must be less than 128 characters")
	}
	return nil
}
