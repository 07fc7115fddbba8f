// Package booking implements the ticket checkout flow: a three step session
// (order summary, billing details, payment) gated by a countdown.
package booking

import (
	"fmt"
	"strings"
	"sync"

	"happy-tails/internal/models"
	"happy-tails/internal/pricing"
)

// Step is the position of a session in the checkout flow
type Step int

const (
	StepOrderSummary   Step = 1
	StepBillingDetails Step = 2
	StepPayment        Step = 3
)

// State is the lifecycle state of a session
type State string

const (
	StateActive    State = "active"
	StateSucceeded State = "succeeded"
	StateAborted   State = "aborted"
)

const (
	// DefaultCountdown is the number of seconds a shopper has to finish
	DefaultCountdown = 600
	// DefaultFeeRate is the booking fee charged on the ticket amount
	DefaultFeeRate = 0.10
)

// BillingDetails are the contact fields collected on step 2
type BillingDetails struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	AcceptTerms bool   `json:"accept_terms"`
}

// Quote is the derived price of the session
type Quote struct {
	BaseAmount float64 `json:"base_amount"`
	BookingFee float64 `json:"booking_fee"`
	GrandTotal float64 `json:"grand_total"`
}

// ComputeQuote returns base = price * count, fee = round(base * rate) and
// their sum
func ComputeQuote(ticketPrice float64, count int, feeRate float64) Quote {
	base := ticketPrice * float64(count)
	fee := pricing.Surcharge(base, feeRate)
	return Quote{BaseAmount: base, BookingFee: fee, GrandTotal: base + fee}
}

// View is a point-in-time copy of a session
type View struct {
	ID               string         `json:"id"`
	EventID          int            `json:"event_id"`
	EventTitle       string         `json:"event_title"`
	Step             Step           `json:"step"`
	State            State          `json:"state"`
	TicketCount      int            `json:"ticket_count"`
	TicketsLeft      int            `json:"tickets_left"`
	TicketPrice      float64        `json:"ticket_price"`
	Billing          BillingDetails `json:"billing"`
	Quote            Quote          `json:"quote"`
	RemainingSeconds int            `json:"remaining_seconds"`
	PaymentRef       string         `json:"payment_ref,omitempty"`
	Charging         bool           `json:"charging"`
}

// Session is one checkout attempt for an event. All methods are safe for
// concurrent use; the countdown ticks from its own goroutine.
type Session struct {
	mu sync.Mutex

	id          string
	eventID     int
	eventTitle  string
	ticketPrice float64
	ticketsLeft int
	feeRate     float64

	ticketCount int
	billing     BillingDetails
	step        Step
	state       State
	remaining   int
	paymentRef  string
	charging    bool

	abortFired bool
	onAbort    func(View)
}

// Options configure a new session
type Options struct {
	Countdown int
	FeeRate   float64
	OnAbort   func(View)
}

// NewSession starts a session at step 1 with one ticket selected
func NewSession(id string, event *models.Event, opts Options) (*Session, error) {
	left := event.TicketsLeft()
	if left < 1 {
		return nil, models.ErrSoldOut
	}
	if opts.Countdown <= 0 {
		opts.Countdown = DefaultCountdown
	}
	if opts.FeeRate <= 0 {
		opts.FeeRate = DefaultFeeRate
	}

	return &Session{
		id:          id,
		eventID:     event.ID,
		eventTitle:  event.Title,
		ticketPrice: event.TicketPrice,
		ticketsLeft: left,
		feeRate:     opts.FeeRate,
		ticketCount: 1,
		step:        StepOrderSummary,
		state:       StateActive,
		remaining:   opts.Countdown,
		onAbort:     opts.OnAbort,
	}, nil
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// View returns a copy of the current session state
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	return View{
		ID:               s.id,
		EventID:          s.eventID,
		EventTitle:       s.eventTitle,
		Step:             s.step,
		State:            s.state,
		TicketCount:      s.ticketCount,
		TicketsLeft:      s.ticketsLeft,
		TicketPrice:      s.ticketPrice,
		Billing:          s.billing,
		Quote:            ComputeQuote(s.ticketPrice, s.ticketCount, s.feeRate),
		RemainingSeconds: s.remaining,
		PaymentRef:       s.paymentRef,
		Charging:         s.charging,
	}
}

// Pricing returns the quote for the current ticket count
func (s *Session) Pricing() Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeQuote(s.ticketPrice, s.ticketCount, s.feeRate)
}

// checkActive must be called with the lock held
func (s *Session) checkActive() error {
	switch s.state {
	case StateAborted:
		return &models.TimeoutError{SessionID: s.id}
	case StateSucceeded:
		return models.NewValidationError("session", "booking is already complete")
	}
	return nil
}

func (s *Session) checkStep(want Step, action string) error {
	if err := s.checkActive(); err != nil {
		return err
	}
	if s.step != want {
		return models.NewValidationError("step", fmt.Sprintf("cannot %s from step %d", action, s.step))
	}
	return nil
}

// IncrementTickets adds a ticket unless that would exceed the tickets left
func (s *Session) IncrementTickets() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStep(StepOrderSummary, "change tickets"); err != nil {
		return s.viewLocked(), err
	}
	if s.ticketCount+1 > s.ticketsLeft {
		return s.viewLocked(), models.NewValidationError("numberOfTickets",
			fmt.Sprintf("only %d tickets left", s.ticketsLeft))
	}
	s.ticketCount++
	return s.viewLocked(), nil
}

// DecrementTickets removes a ticket, never going below one
func (s *Session) DecrementTickets() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStep(StepOrderSummary, "change tickets"); err != nil {
		return s.viewLocked(), err
	}
	if s.ticketCount > 1 {
		s.ticketCount--
	}
	return s.viewLocked(), nil
}

// SetBilling stores the billing form. Fields survive back navigation.
func (s *Session) SetBilling(details BillingDetails) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkActive(); err != nil {
		return s.viewLocked(), err
	}
	s.billing = BillingDetails{
		Name:        strings.TrimSpace(details.Name),
		Phone:       strings.TrimSpace(details.Phone),
		Email:       strings.TrimSpace(details.Email),
		AcceptTerms: details.AcceptTerms,
	}
	return s.viewLocked(), nil
}

// Next moves from the order summary to billing details
func (s *Session) Next() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStep(StepOrderSummary, "continue"); err != nil {
		return s.viewLocked(), err
	}
	if s.ticketCount < 1 {
		return s.viewLocked(), models.NewValidationError("numberOfTickets", "select at least one ticket")
	}
	s.step = StepBillingDetails
	return s.viewLocked(), nil
}

// Back returns from billing details to the order summary
func (s *Session) Back() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStep(StepBillingDetails, "go back"); err != nil {
		return s.viewLocked(), err
	}
	s.step = StepOrderSummary
	return s.viewLocked(), nil
}

// ProceedToPayment opens the payment step once the billing form is
// complete. The first missing field is reported.
func (s *Session) ProceedToPayment() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStep(StepBillingDetails, "open payment"); err != nil {
		return s.viewLocked(), err
	}
	if err := validateBilling(s.billing); err != nil {
		return s.viewLocked(), err
	}
	s.step = StepPayment
	return s.viewLocked(), nil
}

func validateBilling(b BillingDetails) error {
	switch {
	case b.Name == "":
		return models.NewValidationError("name", "name is required")
	case b.Phone == "":
		return models.NewValidationError("phone", "phone is required")
	case b.Email == "":
		return models.NewValidationError("email", "email is required")
	case !b.AcceptTerms:
		return models.NewValidationError("acceptTerms", "please accept the terms and conditions")
	}
	return nil
}

// ClosePayment returns to billing details without touching the timer or
// the form
func (s *Session) ClosePayment() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStep(StepPayment, "close payment"); err != nil {
		return s.viewLocked(), err
	}
	if s.charging {
		return s.viewLocked(), models.NewValidationError("payment", "payment is in progress")
	}
	s.step = StepBillingDetails
	return s.viewLocked(), nil
}

// BeginCharge marks a payment attempt as in flight and returns the amount to
// charge. Only one attempt may run at a time.
func (s *Session) BeginCharge() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStep(StepPayment, "pay"); err != nil {
		return s.viewLocked(), err
	}
	if s.charging {
		return s.viewLocked(), models.NewValidationError("payment", "payment is in progress")
	}
	s.charging = true
	return s.viewLocked(), nil
}

// EndCharge clears the in-flight flag after a failed attempt so the shopper
// can retry
func (s *Session) EndCharge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.charging = false
}

// Succeed completes the session after a successful payment
func (s *Session) Succeed(paymentRef string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.charging = false
	if err := s.checkStep(StepPayment, "complete payment"); err != nil {
		return s.viewLocked(), err
	}
	s.state = StateSucceeded
	s.paymentRef = paymentRef
	return s.viewLocked(), nil
}

// Tick advances the countdown by one second. When it reaches zero the
// session aborts and the abort callback runs. Both happen at most once no
// matter how many times Tick is called. Tick reports whether this call
// aborted the session.
func (s *Session) Tick() bool {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 || s.abortFired {
		s.mu.Unlock()
		return false
	}

	s.abortFired = true
	s.state = StateAborted
	s.charging = false
	view := s.viewLocked()
	cb := s.onAbort
	s.mu.Unlock()

	if cb != nil {
		cb(view)
	}
	return true
}

// Finished reports whether the session reached a terminal state
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != StateActive
}
