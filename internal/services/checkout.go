package services

import (
	"context"
	"strings"
	"time"

	"happy-tails/internal/cart"
	"happy-tails/internal/events"
	"happy-tails/internal/models"
	"happy-tails/internal/payment"
	"happy-tails/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CheckoutService turns a cart into a paid order
type CheckoutService struct {
	store         *cart.Store
	orders        OrderRepository
	gateway       payment.Gateway
	publisher     events.Publisher
	surchargeRate float64
	currency      string
	logger        *zap.Logger
	now           func() time.Time
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(store *cart.Store, orders OrderRepository, gateway payment.Gateway, publisher events.Publisher, surchargeRate float64, currency string, logger *zap.Logger) *CheckoutService {
	if surchargeRate <= 0 {
		surchargeRate = cart.DefaultSurchargeRate
	}
	return &CheckoutService{
		store:         store,
		orders:        orders,
		gateway:       gateway,
		publisher:     publisher,
		surchargeRate: surchargeRate,
		currency:      currency,
		logger:        logger,
		now:           time.Now,
	}
}

// CheckoutRequest is the body of POST /api/cart/checkout
type CheckoutRequest struct {
	CustomerID *int         `json:"customer_id,omitempty"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Card       payment.Card `json:"card"`
}

// Validate checks the customer fields
func (req *CheckoutRequest) Validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return models.NewValidationError("name", "name is required")
	}
	if !models.IsValidEmail(strings.TrimSpace(req.Email)) {
		return models.NewValidationError("email", "a valid email is required")
	}
	return nil
}

// Checkout charges the cart total and records the order. The cart is
// cleared only after the order is stored.
func (s *CheckoutService) Checkout(ctx context.Context, cartID string, req CheckoutRequest) (*models.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "cart.checkout", attribute.String("cart.id", cartID))
	defer span.End()

	items, err := s.store.Items(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.NewValidationError("cart", "cart is empty")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	totals := cart.ComputeTotals(items, s.surchargeRate)
	if totals.Total > 0 {
		if err := payment.ValidateCard(req.Card, s.now()); err != nil {
			return nil, err
		}
	}
	order := &models.Order{
		OrderNumber:   models.GenerateOrderNumber(s.now()),
		CustomerID:    req.CustomerID,
		CustomerName:  strings.TrimSpace(req.Name),
		CustomerEmail: strings.TrimSpace(req.Email),
		Subtotal:      totals.Subtotal,
		Charge:        totals.Charge,
		Total:         totals.Total,
		Status:        models.OrderPaid,
	}
	for _, item := range items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Name:      item.Name,
			Size:      item.Size,
			Color:     item.Color,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
		})
	}

	receipt, err := payment.Settle(ctx, s.gateway, payment.ChargeRequest{
		Reference:     order.OrderNumber,
		Amount:        totals.Total,
		Currency:      s.currency,
		Description:   "Happy Tails order " + order.OrderNumber,
		Card:          req.Card,
		CustomerEmail: order.CustomerEmail,
		Metadata:      map[string]string{"cart_id": cartID},
	}, s.now())
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, err
	}
	order.PaymentRef = receipt.TransactionID

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		telemetry.RecordError(ctx, err)
		s.logger.Error("failed to record order after payment",
			zap.String("order_number", order.OrderNumber),
			zap.String("transaction_id", receipt.TransactionID),
			zap.Error(err))
		return nil, err
	}

	if err := s.store.Clear(ctx, cartID); err != nil {
		s.logger.Warn("failed to clear cart after checkout", zap.String("cart_id", cartID), zap.Error(err))
	}

	if err := s.publisher.Publish(ctx, events.New(events.TypeOrderPlaced, created.OrderNumber, created)); err != nil {
		s.logger.Warn("failed to publish order event", zap.String("order_number", created.OrderNumber), zap.Error(err))
	}

	return created, nil
}
