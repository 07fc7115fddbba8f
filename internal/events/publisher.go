// Package events publishes domain events (bookings, orders) to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// Event types
const (
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingAborted   = "booking.aborted"
	TypeOrderPlaced      = "order.placed"
)

// Event is a domain event. Key selects the partition so events of one
// aggregate stay ordered.
type Event struct {
	Type       string      `json:"event_type"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// New creates an event stamped with the current time
func New(eventType, key string, payload interface{}) Event {
	return Event{Type: eventType, Key: key, OccurredAt: time.Now().UTC(), Payload: payload}
}

// Publisher publishes domain events
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// Producer is the part of *kgo.Client the Kafka publisher uses
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// KafkaPublisher writes events as JSON records to a single topic
type KafkaPublisher struct {
	producer Producer
	topic    string
	logger   *zap.Logger
}

// KafkaConfig configures the Kafka publisher
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// NewKafkaPublisher connects to the brokers
func NewKafkaPublisher(cfg KafkaConfig, logger *zap.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ProducerLinger(5*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	return NewKafkaPublisherWithProducer(client, cfg.Topic, logger), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer Producer, topic string, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

// Publish produces the event and waits for the broker ack
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.Key),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("event_type", event.Type),
			zap.String("key", event.Key),
			zap.Error(err))
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

// Close flushes and closes the client
func (p *KafkaPublisher) Close() {
	p.producer.Close()
}

// LogPublisher logs events instead of sending them. Used when no brokers
// are configured.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a log-only publisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the event
func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.Info("event",
		zap.String("event_type", event.Type),
		zap.String("key", event.Key),
		zap.Any("payload", event.Payload))
	return nil
}

// Close is a no-op
func (p *LogPublisher) Close() {}

// NewPublisher returns a Kafka publisher when brokers are configured and a
// log publisher otherwise
func NewPublisher(cfg KafkaConfig, logger *zap.Logger) (Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return NewLogPublisher(logger), nil
	}
	return NewKafkaPublisher(cfg, logger)
}
