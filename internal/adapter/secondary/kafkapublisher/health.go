package kafkapublisher

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/ruudy-sib/hooktrap/internal/port/secondary"
)

// HealthCheck implements secondary.HealthChecker by dialing the brokers.
type HealthCheck struct {
	brokers []string
}

// NewHealthCheck creates a Kafka health checker.
func NewHealthCheck(brokers []string) secondary.HealthChecker {
	return &HealthCheck{brokers: brokers}
}

// Name returns the name of this health check.
func (h *HealthCheck) Name() string {
	return "kafka"
}

// Check succeeds as soon as one broker accepts a connection.
func (h *HealthCheck) Check(ctx context.Context) error {
	var errs []error
	for _, broker := range h.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", broker, err))
			continue
		}
		return conn.Close()
	}
	if len(errs) == 0 {
		return errors.New("no kafka brokers configured")
	}
	return errors.Join(errs...)
}
