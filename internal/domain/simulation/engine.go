package simulation

import (
	"context"
	"fmt"
	"time"
)

// Engine evaluates rules in order; the first match wins.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine over an ordered rule list.
func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// DefaultRules returns the standard rule chain:
// permanent errors, timeout, stateful retry, delay, signature requirement.
func DefaultRules(recorder AttemptRecorder, sleep Sleeper, timeout time.Duration, now func() time.Time) []Rule {
	return []Rule{
		NewHTTPErrorRule(SimulatedErrors),
		NewTimeoutRule(sleep, timeout),
		NewRetryRule(recorder, now),
		NewDelayRule(sleep),
		NewSignatureRule(),
	}
}

// Evaluate runs the rules against in. When no rule matches the decision is KindCapture.
func (e *Engine) Evaluate(ctx context.Context, in *Input) (Decision, error) {
	for _, rule := range e.rules {
		decision, matched, err := rule.Evaluate(ctx, in)
		if err != nil {
			return Decision{}, fmt.Errorf("rule %s: %w", rule.Name(), err)
		}
		if matched {
			return decision, nil
		}
	}
	return Decision{Kind: KindCapture}, nil
}
