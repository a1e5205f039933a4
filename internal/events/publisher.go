package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventPublisher publishes change-feed events.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// KafkaConfig holds connection settings for the Kafka-backed publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// KafkaEventPublisher publishes events to Kafka through watermill.
type KafkaEventPublisher struct {
	publisher message.Publisher
	topic     string
	logger    *slog.Logger
}

// NewKafkaEventPublisher creates a watermill-kafka publisher.
func NewKafkaEventPublisher(config KafkaConfig, logger *slog.Logger) (*KafkaEventPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   config.Brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return &KafkaEventPublisher{
		publisher: publisher,
		topic:     config.Topic,
		logger:    logger,
	}, nil
}

// Publish marshals the event envelope and sends it to the configured topic.
// The event type rides in metadata so consumers can route without unmarshaling.
func (p *KafkaEventPublisher) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", event.Type)
	msg.Metadata.Set("source", event.Source)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		p.logger.ErrorContext(ctx, "Failed to publish event",
			"error", err,
			"event_type", event.Type,
			"event_id", event.ID)
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	return nil
}

// Close shuts down the underlying publisher.
func (p *KafkaEventPublisher) Close() error {
	return p.publisher.Close()
}

// NoopEventPublisher drops events. Used when no broker is configured so
// mutations still work without a change feed.
type NoopEventPublisher struct {
	logger *slog.Logger
}

func NewNoopEventPublisher(logger *slog.Logger) *NoopEventPublisher {
	return &NoopEventPublisher{logger: logger}
}

func (p *NoopEventPublisher) Publish(ctx context.Context, event *Event) error {
	p.logger.DebugContext(ctx, "Event dropped, no broker configured", "event_type", event.Type)
	return nil
}

func (p *NoopEventPublisher) Close() error { return nil }
