package payment

import (
	"fmt"
	"strings"
	"time"
)

// GatewayType selects a Gateway implementation
type GatewayType string

const (
	GatewaySimulator GatewayType = "simulator"
	GatewayStripe    GatewayType = "stripe"
)

// Config selects and configures the gateway
type Config struct {
	Gateway              string
	SimulatorSuccessRate float64
	SimulatorDelay       time.Duration
	StripeSecretKey      string
	StripePaymentMethod  string
}

// NewGateway builds the configured gateway. The simulator is the default.
func NewGateway(cfg Config) (Gateway, error) {
	switch GatewayType(strings.ToLower(cfg.Gateway)) {
	case GatewaySimulator, "":
		sc := DefaultSimulatorConfig()
		sc.SuccessRate = cfg.SimulatorSuccessRate
		sc.Delay = cfg.SimulatorDelay
		return NewSimulator(sc, nil), nil

	case GatewayStripe:
		return NewStripeGateway(StripeConfig{
			SecretKey:     cfg.StripeSecretKey,
			PaymentMethod: cfg.StripePaymentMethod,
		})

	default:
		return nil, fmt.Errorf("unsupported payment gateway: %s", cfg.Gateway)
	}
}
