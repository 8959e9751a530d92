package kafkapublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ruudy-sib/hooktrap/internal/config"
	"github.com/ruudy-sib/hooktrap/internal/domain"
	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
	"github.com/ruudy-sib/hooktrap/internal/port/secondary"
)

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// eventDTO is the wire shape of a capture event.
type eventDTO struct {
	WebhookID  int64     `json:"webhook_id"`
	SessionID  string    `json:"session_id"`
	Method     string    `json:"method"`
	Outcome    string    `json:"outcome"`
	CapturedAt time.Time `json:"captured_at"`
}

// Publisher implements secondary.EventPublisher using segmentio/kafka-go.
// Events are keyed by session id so one session stays on one partition.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

// New returns a Kafka publisher when brokers and a topic are configured and a
// no-op publisher otherwise.
func New(cfg *config.Config, logger *zap.Logger) secondary.EventPublisher {
	if !cfg.KafkaEnabled() {
		logger.Info("capture events disabled: kafka brokers or topic not configured")
		return Disabled{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaCaptureTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 100 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}

	logger.Info("kafka publisher initialized",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaCaptureTopic),
	)

	return newPublisher(writer, cfg.KafkaCaptureTopic, logger)
}

func newPublisher(writer messageWriter, topic string, logger *zap.Logger) *Publisher {
	return &Publisher{
		writer: writer,
		topic:  topic,
		logger: logger.Named("kafka-publisher"),
	}
}

// Publish writes one capture event to the configured topic.
func (p *Publisher) Publish(ctx context.Context, event entity.CaptureEvent) error {
	value, err := json.Marshal(eventDTO{
		WebhookID:  event.WebhookID,
		SessionID:  event.SessionID,
		Method:     event.Method,
		Outcome:    string(event.Outcome),
		CapturedAt: event.CapturedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("%w: marshaling event: %v", domain.ErrPublishFailed, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.SessionID),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: writing to topic %q: %v", domain.ErrPublishFailed, p.topic, err)
	}

	p.logger.Debug("capture event published",
		zap.String("topic", p.topic),
		zap.Int64("webhook_id", event.WebhookID),
		zap.Int("value_size", len(value)),
	)

	return nil
}

// Close shuts down the Kafka writer and releases its resources.
func (p *Publisher) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// Disabled is the publisher used when no event stream is configured.
type Disabled struct{}

// Publish discards the event.
func (Disabled) Publish(context.Context, entity.CaptureEvent) error { return nil }

// Close does nothing.
func (Disabled) Close() error { return nil }
