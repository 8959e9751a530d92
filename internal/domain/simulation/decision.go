package simulation

import (
	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
	"github.com/ruudy-sib/hooktrap/internal/domain/valueobject"
)

// Kind tags the outcome class chosen by the rule engine.
type Kind int

const (
	// KindCapture means no rule short-circuited: persist the request and answer success.
	KindCapture Kind = iota
	// KindSimulatedError is a permanent simulated HTTP error; nothing is persisted.
	KindSimulatedError
	// KindTimeout answers captured_after_timeout after the timeout delay; nothing is persisted.
	KindTimeout
	// KindRetryFailure is a failing stateful-retry attempt; the attempt was persisted.
	KindRetryFailure
	// KindMissingSignature rejects a require-auth- request without a signature.
	KindMissingSignature
)

func (k Kind) String() string {
	switch k {
	case KindCapture:
		return "capture"
	case KindSimulatedError:
		return "simulated_error"
	case KindTimeout:
		return "timeout"
	case KindRetryFailure:
		return "retry_failure"
	case KindMissingSignature:
		return "missing_signature"
	default:
		return "unknown"
	}
}

// Decision is the result of evaluating the rules for one request.
// Only the fields relevant to Kind are set.
type Decision struct {
	Kind Kind
	// Rule names the rule that produced the decision; empty for the default capture.
	Rule string

	// KindSimulatedError
	Status  int
	Message string

	// KindRetryFailure
	Attempt          int
	WillSucceedAfter int
	Record           *entity.CapturedRequest
}

// Input is what the rules see of an inbound request. Headers are already normalized.
type Input struct {
	SessionID valueobject.SessionID
	Method    string
	Headers   map[string]string
	Body      *string
}
