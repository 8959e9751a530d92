package secondary

import "context"

// HealthChecker reports on one backing dependency (the Redis or SQL store, the
// Kafka capture stream) for the /health endpoint.
type HealthChecker interface {
	// Name identifies the dependency in the health report.
	Name() string

	// Check returns an error when the dependency cannot serve requests.
	Check(ctx context.Context) error
}
