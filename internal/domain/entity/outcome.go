package entity

import "time"

// Outcome is the transport-neutral result of handling a capture request:
// an HTTP status and a JSON-serializable payload.
type Outcome struct {
	Status  int
	Payload any
	// Record is the persisted request, if this outcome stored one.
	Record *CapturedRequest
}

// CapturedPayload is returned when a request was stored.
type CapturedPayload struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
	WebhookID string `json:"webhook_id"`
}

// StatusPayload carries a bare status, used by the timeout simulation.
type StatusPayload struct {
	Status string `json:"status"`
}

// ErrorPayload carries a simulated or authentication error message.
type ErrorPayload struct {
	Error string `json:"error"`
}

// RetryFailurePayload is returned for each failing attempt of a stateful retry session.
type RetryFailurePayload struct {
	Error            string `json:"error"`
	Attempt          int    `json:"attempt"`
	WillSucceedAfter int    `json:"will_succeed_after"`
}

// CaptureEventOutcome classifies a published capture event.
type CaptureEventOutcome string

const (
	CaptureEventCaptured         CaptureEventOutcome = "captured"
	CaptureEventSimulatedFailure CaptureEventOutcome = "simulated_failure"
)

// CaptureEvent is emitted on the event stream after a request has been persisted.
type CaptureEvent struct {
	WebhookID  int64
	SessionID  string
	Method     string
	Outcome    CaptureEventOutcome
	CapturedAt time.Time
}
