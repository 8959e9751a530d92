package simulation

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ruudy-sib/hooktrap/internal/domain"
	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
)

// Rule is one naming-convention check. Evaluate returns matched=false to let
// the next rule run; a rule may still act (sleep) before falling through.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, in *Input) (Decision, bool, error)
}

// Sleeper blocks the calling goroutine. Simulated waits are never cut short.
type Sleeper func(time.Duration)

// AttemptRecorder persists a failing attempt only while the session is below
// its failure budget. The count and the insert must be atomic per session.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, rec *entity.CapturedRequest, failCount int) (attempts int, recorded bool, err error)
}

// SimulatedError maps a session prefix to a fixed error answer.
type SimulatedError struct {
	Prefix  string
	Message string
	Status  int
}

// SimulatedErrors is the permanent-error table, checked in order.
var SimulatedErrors = []SimulatedError{
	{Prefix: "fail-500-", Message: "Internal Server Error (simulated)", Status: http.StatusInternalServerError},
	{Prefix: "fail-503-", Message: "Service Unavailable (simulated)", Status: http.StatusServiceUnavailable},
	{Prefix: "fail-401-", Message: "Unauthorized (simulated)", Status: http.StatusUnauthorized},
	{Prefix: "fail-403-", Message: "Forbidden (simulated)", Status: http.StatusForbidden},
}

const (
	timeoutPrefix     = "fail-timeout-"
	requireAuthPrefix = "require-auth-"
)

type httpErrorRule struct {
	table []SimulatedError
}

// NewHTTPErrorRule answers fail-<code>- sessions with a fixed error and persists nothing.
func NewHTTPErrorRule(table []SimulatedError) Rule {
	return &httpErrorRule{table: table}
}

func (r *httpErrorRule) Name() string { return "http_error" }

func (r *httpErrorRule) Evaluate(_ context.Context, in *Input) (Decision, bool, error) {
	for _, e := range r.table {
		if !in.SessionID.HasPrefix(e.Prefix) {
			continue
		}
		return Decision{
			Kind:    KindSimulatedError,
			Rule:    r.Name(),
			Status:  e.Status,
			Message: e.Message,
		}, true, nil
	}
	return Decision{}, false, nil
}

type timeoutRule struct {
	sleep Sleeper
	delay time.Duration
}

// NewTimeoutRule blocks fail-timeout- sessions for delay, then answers without persisting.
func NewTimeoutRule(sleep Sleeper, delay time.Duration) Rule {
	return &timeoutRule{sleep: sleep, delay: delay}
}

func (r *timeoutRule) Name() string { return "timeout" }

func (r *timeoutRule) Evaluate(_ context.Context, in *Input) (Decision, bool, error) {
	if !in.SessionID.HasPrefix(timeoutPrefix) {
		return Decision{}, false, nil
	}
	r.sleep(r.delay)
	return Decision{Kind: KindTimeout, Rule: r.Name()}, true, nil
}

type retryRule struct {
	recorder AttemptRecorder
	now      func() time.Time
}

// NewRetryRule fails fail-<N>x-then-ok- sessions until N attempts are stored.
// Each failing attempt is persisted with method POST.
func NewRetryRule(recorder AttemptRecorder, now func() time.Time) Rule {
	return &retryRule{recorder: recorder, now: now}
}

func (r *retryRule) Name() string { return "retry_then_ok" }

func (r *retryRule) Evaluate(ctx context.Context, in *Input) (Decision, bool, error) {
	failCount, ok := in.SessionID.FailThenOkCount()
	if !ok {
		return Decision{}, false, nil
	}

	rec := &entity.CapturedRequest{
		SessionID: in.SessionID.String(),
		Method:    domain.RetryFailureMethod,
		Headers:   in.Headers,
		Body:      in.Body,
		CreatedAt: r.now().UTC(),
	}

	attempts, recorded, err := r.recorder.RecordAttempt(ctx, rec, failCount)
	if err != nil {
		return Decision{}, false, fmt.Errorf("recording attempt: %w", err)
	}
	if !recorded {
		// Failure budget exhausted: the request continues to the remaining rules.
		return Decision{}, false, nil
	}

	return Decision{
		Kind:             KindRetryFailure,
		Rule:             r.Name(),
		Status:           http.StatusInternalServerError,
		Attempt:          attempts + 1,
		WillSucceedAfter: failCount,
		Record:           rec,
	}, true, nil
}

type delayRule struct {
	sleep Sleeper
}

// NewDelayRule blocks delay-<N>s- sessions for N seconds and never matches,
// so the request is captured afterwards. N is not capped.
func NewDelayRule(sleep Sleeper) Rule {
	return &delayRule{sleep: sleep}
}

func (r *delayRule) Name() string { return "delay" }

func (r *delayRule) Evaluate(_ context.Context, in *Input) (Decision, bool, error) {
	if seconds, ok := in.SessionID.DelaySeconds(); ok {
		r.sleep(time.Duration(seconds) * time.Second)
	}
	return Decision{}, false, nil
}

type signatureRule struct{}

// NewSignatureRule rejects require-auth- sessions lacking a non-empty signature header.
// Only presence is checked.
func NewSignatureRule() Rule {
	return signatureRule{}
}

func (signatureRule) Name() string { return "require_signature" }

func (r signatureRule) Evaluate(_ context.Context, in *Input) (Decision, bool, error) {
	if !in.SessionID.HasPrefix(requireAuthPrefix) {
		return Decision{}, false, nil
	}
	if in.Headers[domain.SignatureHeader] != "" {
		return Decision{}, false, nil
	}
	return Decision{
		Kind:   KindMissingSignature,
		Rule:   r.Name(),
		Status: http.StatusUnauthorized,
	}, true, nil
}
