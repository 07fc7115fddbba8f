// Package payment validates card input and charges it through a payment
// gateway.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"happy-tails/internal/models"
)

// Gateway charges a payment. Implementations return *PaymentError when the
// payment was declined or failed.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*Receipt, error)
	Name() string
}

// ChargeRequest is a single charge
type ChargeRequest struct {
	Reference     string
	Amount        float64 // major currency units
	Currency      string
	Description   string
	Card          Card
	PaymentMethod string // gateway token for the card, when the gateway needs one
	CustomerEmail string
	Metadata      map[string]string
}

// Validate checks the request before it reaches a gateway
func (r ChargeRequest) Validate() error {
	if r.Amount < 0 {
		return models.NewValidationError("amount", "charge amount cannot be negative")
	}
	if r.Amount == 0 {
		return models.NewValidationError("amount", "charge amount must be positive")
	}
	if r.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	return nil
}

// Settle charges req through gw. A zero amount never reaches the gateway and
// is settled with a waived receipt.
func Settle(ctx context.Context, gw Gateway, req ChargeRequest, now time.Time) (*Receipt, error) {
	if req.Amount != 0 {
		return gw.Charge(ctx, req)
	}
	return &Receipt{
		TransactionID: "free_" + req.Reference,
		Gateway:       "none",
		Status:        "waived",
		Currency:      req.Currency,
		CreatedAt:     now,
	}, nil
}

// Receipt is a successful charge
type Receipt struct {
	TransactionID string    `json:"transaction_id"`
	Gateway       string    `json:"gateway"`
	Status        string    `json:"status"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Last4         string    `json:"last4,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// PaymentError is a failed charge. Retryable failures leave the checkout
// where it was so the shopper can submit again.
type PaymentError struct {
	Code      string
	Message   string
	Retryable bool
}

func (e *PaymentError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "payment failed: " + e.Code
}

// IsPaymentError reports whether err is a PaymentError
func IsPaymentError(err error) bool {
	var pe *PaymentError
	return errors.As(err, &pe)
}
