package domain

import "time"

const (
	// ServiceName is reported by the homepage metadata endpoint.
	ServiceName = "Webhook Receiver"

	// ServiceVersion is reported by the homepage metadata endpoint.
	ServiceVersion = "1.0.0"

	// TimeoutSimulationDelay is how long a fail-timeout- session blocks before answering.
	TimeoutSimulationDelay = 15 * time.Second

	// SignatureHeader is the normalized header a require-auth- session must carry.
	SignatureHeader = "x-webhook-signature"

	// RetryFailureMethod is the method recorded for every failing stateful-retry attempt,
	// whatever verb the client actually used.
	RetryFailureMethod = "POST"

	// CreatedAtLayout formats record timestamps on the read path.
	CreatedAtLayout = "2006-01-02 15:04:05"

	// DefaultRedisKeyPrefix namespaces every key written by the Redis store.
	DefaultRedisKeyPrefix = "hooktrap:"
)
