package services

import (
	"context"
	"fmt"
	"time"

	"happy-tails/internal/booking"
	"happy-tails/internal/events"
	"happy-tails/internal/models"
	"happy-tails/internal/payment"
	"happy-tails/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// BookingConfig configures the booking service
type BookingConfig struct {
	FeeRate       float64
	Currency      string
	RedirectURL   string
	RedirectDelay time.Duration
}

// BookingService drives ticket booking sessions from start to payment
type BookingService struct {
	events    EventRepository
	bookings  BookingRepository
	manager   *booking.Manager
	gateway   payment.Gateway
	publisher events.Publisher
	cfg       BookingConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewBookingService creates a booking service and hooks session expiry into
// the event stream
func NewBookingService(
	eventRepo EventRepository,
	bookingRepo BookingRepository,
	manager *booking.Manager,
	gateway payment.Gateway,
	publisher events.Publisher,
	cfg BookingConfig,
	logger *zap.Logger,
) *BookingService {
	if cfg.FeeRate <= 0 {
		cfg.FeeRate = booking.DefaultFeeRate
	}
	if cfg.RedirectURL == "" {
		cfg.RedirectURL = "/"
	}
	s := &BookingService{
		events:    eventRepo,
		bookings:  bookingRepo,
		manager:   manager,
		gateway:   gateway,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
	manager.OnAbort = s.sessionExpired
	return s
}

// PayRequest is the card form submitted on step 3
type PayRequest struct {
	Card payment.Card `json:"card"`
}

// PayResult tells the client where to go after a successful payment.
// BookingError is set when the charge went through but recording the
// booking failed; the redirect still happens.
type PayResult struct {
	Session       booking.View     `json:"session"`
	Receipt       *payment.Receipt `json:"receipt"`
	Booking       *models.Booking  `json:"booking,omitempty"`
	BookingError  string           `json:"booking_error,omitempty"`
	RedirectURL   string           `json:"redirect_url"`
	RedirectAfter int64            `json:"redirect_after_ms"`
}

// Start opens a booking session for a published event
func (s *BookingService) Start(ctx context.Context, eventID int) (booking.View, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return booking.View{}, err
	}
	if !event.IsPublished() || event.IsPast(s.now()) {
		return booking.View{}, models.NewValidationError("event", "event is not open for booking")
	}

	session, err := s.manager.Start(event)
	if err != nil {
		return booking.View{}, err
	}
	return session.View(), nil
}

// Get returns the current state of a session
func (s *BookingService) Get(id string) (booking.View, error) {
	session, err := s.manager.Get(id)
	if err != nil {
		return booking.View{}, err
	}
	return session.View(), nil
}

// IncrementTickets adds a ticket on step 1
func (s *BookingService) IncrementTickets(id string) (booking.View, error) {
	return s.apply(id, (*booking.Session).IncrementTickets)
}

// DecrementTickets removes a ticket on step 1, never going below one
func (s *BookingService) DecrementTickets(id string) (booking.View, error) {
	return s.apply(id, (*booking.Session).DecrementTickets)
}

// Next moves from the order summary to billing details
func (s *BookingService) Next(id string) (booking.View, error) {
	return s.apply(id, (*booking.Session).Next)
}

// Back returns from billing details to the order summary
func (s *BookingService) Back(id string) (booking.View, error) {
	return s.apply(id, (*booking.Session).Back)
}

// OpenPayment validates billing details and opens the payment step
func (s *BookingService) OpenPayment(id string) (booking.View, error) {
	return s.apply(id, (*booking.Session).ProceedToPayment)
}

// ClosePayment returns to billing details
func (s *BookingService) ClosePayment(id string) (booking.View, error) {
	return s.apply(id, (*booking.Session).ClosePayment)
}

// SetBilling stores the billing form
func (s *BookingService) SetBilling(id string, details booking.BillingDetails) (booking.View, error) {
	session, err := s.manager.Get(id)
	if err != nil {
		return booking.View{}, err
	}
	return session.SetBilling(details)
}

// Discard drops a session the shopper walked away from
func (s *BookingService) Discard(id string) error {
	return s.manager.Discard(id)
}

func (s *BookingService) apply(id string, op func(*booking.Session) (booking.View, error)) (booking.View, error) {
	session, err := s.manager.Get(id)
	if err != nil {
		return booking.View{}, err
	}
	return op(session)
}

// Pay charges the card for the session total. A declined charge leaves the
// session on the payment step so the shopper can try again.
func (s *BookingService) Pay(ctx context.Context, id string, req PayRequest) (*PayResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "booking.pay", attribute.String("booking.session_id", id))
	defer span.End()

	session, err := s.manager.Get(id)
	if err != nil {
		return nil, err
	}

	view, err := session.BeginCharge()
	if err != nil {
		return nil, err
	}

	// free events have nothing to charge the card for
	if view.Quote.GrandTotal > 0 {
		if err := payment.ValidateCard(req.Card, s.now()); err != nil {
			session.EndCharge()
			return nil, err
		}
	}

	receipt, err := payment.Settle(ctx, s.gateway, payment.ChargeRequest{
		Reference:     view.ID,
		Amount:        view.Quote.GrandTotal,
		Currency:      s.cfg.Currency,
		Description:   fmt.Sprintf("%d x %s", view.TicketCount, view.EventTitle),
		Card:          req.Card,
		CustomerEmail: view.Billing.Email,
		Metadata:      map[string]string{"event_id": fmt.Sprint(view.EventID)},
	}, s.now())
	if err != nil {
		session.EndCharge()
		telemetry.RecordError(ctx, err)
		s.logger.Warn("booking payment failed",
			zap.String("session_id", id),
			zap.String("gateway", s.gateway.Name()),
			zap.Error(err))
		return nil, err
	}

	view, err = s.manager.Complete(id, receipt.TransactionID)
	if err != nil {
		// the countdown ran out while the charge was in flight
		s.logger.Error("payment captured for an expired booking session",
			zap.String("session_id", id),
			zap.String("transaction_id", receipt.TransactionID),
			zap.Error(err))
		return nil, err
	}

	result := &PayResult{
		Session:       view,
		Receipt:       receipt,
		RedirectURL:   s.cfg.RedirectURL,
		RedirectAfter: s.cfg.RedirectDelay.Milliseconds(),
	}

	created, err := s.CreateBooking(ctx, &models.BookingCreateRequest{
		EventID:         view.EventID,
		NumberOfTickets: view.TicketCount,
		BillingName:     view.Billing.Name,
		BillingPhone:    view.Billing.Phone,
		BillingEmail:    view.Billing.Email,
		PaymentRef:      receipt.TransactionID,
	})
	if err != nil {
		telemetry.RecordError(ctx, err)
		s.logger.Error("failed to record booking after payment",
			zap.String("session_id", id),
			zap.String("transaction_id", receipt.TransactionID),
			zap.Error(err))
		result.BookingError = err.Error()
		return result, nil
	}
	result.Booking = created

	return result, nil
}

// CreateBooking records a paid booking and reserves its tickets
func (s *BookingService) CreateBooking(ctx context.Context, req *models.BookingCreateRequest) (*models.Booking, error) {
	if req.NumberOfTickets < 1 {
		return nil, models.NewValidationError("numberOfTickets", "at least one ticket is required")
	}
	if req.BookingFeeRate <= 0 {
		req.BookingFeeRate = s.cfg.FeeRate
	}

	created, err := s.bookings.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.New(events.TypeBookingConfirmed, fmt.Sprint(created.EventID), created)); err != nil {
		s.logger.Warn("failed to publish booking event", zap.Int("booking_id", created.ID), zap.Error(err))
	}
	return created, nil
}

func (s *BookingService) sessionExpired(view booking.View) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.publisher.Publish(ctx, events.New(events.TypeBookingAborted, fmt.Sprint(view.EventID), view)); err != nil {
		s.logger.Warn("failed to publish booking abort", zap.String("session_id", view.ID), zap.Error(err))
	}
}
