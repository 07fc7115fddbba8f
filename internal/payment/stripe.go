package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// StripeConfig configures the Stripe gateway
type StripeConfig struct {
	SecretKey string
	// PaymentMethod is used when a request carries no token of its own,
	// e.g. pm_card_visa in test mode
	PaymentMethod string
}

// StripeGateway charges through Stripe PaymentIntents, creating and
// confirming the intent in one call
type StripeGateway struct {
	config    StripeConfig
	newIntent func(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// NewStripeGateway creates a Stripe gateway and sets the API key
func NewStripeGateway(config StripeConfig) (*StripeGateway, error) {
	if config.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}

	stripe.Key = config.SecretKey

	return &StripeGateway{config: config, newIntent: paymentintent.New}, nil
}

// Name returns the gateway name
func (g *StripeGateway) Name() string {
	return "stripe"
}

// toMinorUnits converts major units to the smallest currency unit
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Charge creates and confirms a PaymentIntent
func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (*Receipt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	method := req.PaymentMethod
	if method == "" {
		method = g.config.PaymentMethod
	}
	if method == "" {
		return nil, &PaymentError{Code: "missing_payment_method", Message: "no payment method for card"}
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(toMinorUnits(req.Amount)),
		Currency:           stripe.String(strings.ToLower(req.Currency)),
		PaymentMethod:      stripe.String(method),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Confirm:            stripe.Bool(true),
		Metadata:           map[string]string{"reference": req.Reference},
	}
	for k, v := range req.Metadata {
		params.Metadata[k] = v
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.CustomerEmail != "" {
		params.ReceiptEmail = stripe.String(req.CustomerEmail)
	}

	pi, err := g.newIntent(params)
	if err != nil {
		return nil, stripeFailure(err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusProcessing:
	case stripe.PaymentIntentStatusCanceled:
		return nil, &PaymentError{Code: "canceled", Message: "payment was canceled", Retryable: true}
	default:
		return nil, &PaymentError{
			Code:      string(pi.Status),
			Message:   "payment requires further action",
			Retryable: true,
		}
	}

	return &Receipt{
		TransactionID: pi.ID,
		Gateway:       g.Name(),
		Status:        string(pi.Status),
		Amount:        float64(pi.Amount) / 100,
		Currency:      string(pi.Currency),
		Last4:         req.Card.Last4(),
		CreatedAt:     time.Unix(pi.Created, 0),
	}, nil
}

func stripeFailure(err error) *PaymentError {
	var se *stripe.Error
	if errors.As(err, &se) {
		msg := se.Msg
		if msg == "" {
			msg = "payment failed, please try again"
		}
		return &PaymentError{
			Code:      string(se.Code),
			Message:   msg,
			Retryable: se.Type == stripe.ErrorTypeCard || se.HTTPStatusCode >= 500,
		}
	}
	return &PaymentError{Code: "stripe_error", Message: err.Error(), Retryable: true}
}
