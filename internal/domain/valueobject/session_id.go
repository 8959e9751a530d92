package valueobject

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	failThenOkPattern = regexp.MustCompile(`^fail-(\d+)x-then-ok-`)
	delayPattern      = regexp.MustCompile(`^delay-(\d+)s-`)
)

// SessionID is an opaque, client-chosen session identifier. It is never validated
// or normalized; the helpers below only read naming conventions out of it.
type SessionID struct {
	value string
}

// NewSessionID wraps a raw session identifier.
func NewSessionID(value string) SessionID {
	return SessionID{value: value}
}

// String returns the identifier exactly as received.
func (s SessionID) String() string {
	return s.value
}

// Equals checks equality with another SessionID.
func (s SessionID) Equals(other SessionID) bool {
	return s.value == other.value
}

// HasPrefix reports whether the identifier starts with prefix.
func (s SessionID) HasPrefix(prefix string) bool {
	return strings.HasPrefix(s.value, prefix)
}

// FailThenOkCount extracts N from a "fail-<N>x-then-ok-" identifier.
func (s SessionID) FailThenOkCount() (int, bool) {
	return leadingNumber(failThenOkPattern, s.value)
}

// DelaySeconds extracts N from a "delay-<N>s-" identifier.
func (s SessionID) DelaySeconds() (int, bool) {
	return leadingNumber(delayPattern, s.value)
}

func leadingNumber(pattern *regexp.Regexp, value string) (int, bool) {
	m := pattern.FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// Out of range for int.
		return 0, false
	}
	return n, true
}
