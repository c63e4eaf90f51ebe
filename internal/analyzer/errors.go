// internal/analyzer/errors.go
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ProbeErrorKind identifies the failure class of a probe call
type ProbeErrorKind string

const (
	KindInvalidURL ProbeErrorKind = "INVALID_URL"
	KindTimeout    ProbeErrorKind = "TIMEOUT"
	KindConnection ProbeErrorKind = "CONNECTION"
)

// ProbeError wraps probe failures with their failure class.
// It never crosses the Analyze boundary: the fallback policy converts
// every kind into the synthesized default recommendation.
type ProbeError struct {
	Kind       ProbeErrorKind
	URL        string
	Underlying error
}

// Error implements the error interface
func (e *ProbeError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: probe %s: %v", e.Kind, e.URL, e.Underlying)
	}
	return fmt.Sprintf("%s: probe %s", e.Kind, e.URL)
}

// Unwrap returns the underlying error
func (e *ProbeError) Unwrap() error {
	return e.Underlying
}

// Is checks if the error matches the target
func (e *ProbeError) Is(target error) bool {
	if t, ok := target.(*ProbeError); ok {
		return e.Kind == t.Kind
	}
	return errors.Is(e.Underlying, target)
}

// classifyNetError maps a transport error onto the probe error taxonomy
func classifyNetError(url string, err error) *ProbeError {
	kind := KindConnection

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}

	return &ProbeError{Kind: kind, URL: url, Underlying: err}
}
