package payment

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SimulatorConfig configures the simulated gateway
type SimulatorConfig struct {
	SuccessRate    float64       // probability of success, 0.0 to 1.0
	Delay          time.Duration // simulated network latency
	FailureReasons []string
}

// DefaultSimulatorConfig returns the checkout defaults
func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{
		SuccessRate: 0.9,
		Delay:       1500 * time.Millisecond,
		FailureReasons: []string{
			"card_declined",
			"insufficient_funds",
			"processing_error",
		},
	}
}

// Simulator is a Gateway with a random outcome. It stands in for a real
// processor in development and tests.
type Simulator struct {
	config SimulatorConfig

	mu   sync.Mutex
	rand func() float64
	rng  *rand.Rand
}

// NewSimulator creates a simulator. rng may be nil.
func NewSimulator(config SimulatorConfig, rng func() float64) *Simulator {
	if config.SuccessRate < 0 {
		config.SuccessRate = 0
	}
	if config.SuccessRate > 1 {
		config.SuccessRate = 1
	}
	if len(config.FailureReasons) == 0 {
		config.FailureReasons = DefaultSimulatorConfig().FailureReasons
	}

	s := &Simulator{config: config, rand: rng}
	if s.rand == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		s.rand = s.rng.Float64
	}
	return s
}

// Name returns the gateway name
func (s *Simulator) Name() string {
	return "simulator"
}

func (s *Simulator) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand()
}

// Charge waits for the configured delay, then succeeds with the configured
// probability
func (s *Simulator) Charge(ctx context.Context, req ChargeRequest) (*Receipt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if s.config.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.config.Delay):
		}
	}

	r := s.roll()
	if r >= s.config.SuccessRate {
		reason := s.config.FailureReasons[int(r*1000)%len(s.config.FailureReasons)]
		return nil, &PaymentError{
			Code:      reason,
			Message:   "payment failed, please try again",
			Retryable: true,
		}
	}

	return &Receipt{
		TransactionID: fmt.Sprintf("sim_txn_%s", uuid.New().String()[:8]),
		Gateway:       s.Name(),
		Status:        "succeeded",
		Amount:        req.Amount,
		Currency:      req.Currency,
		Last4:         req.Card.Last4(),
		CreatedAt:     time.Now(),
	}, nil
}
