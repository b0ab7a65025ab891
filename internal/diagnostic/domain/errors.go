package domain

import "errors"

// ErrorKind classifies why a probe could not deliver a result.
type ErrorKind string

const (
	ErrToolUnavailable    ErrorKind = "tool_unavailable"
	ErrTimeout            ErrorKind = "timeout"
	ErrParse              ErrorKind = "parse_error"
	ErrNetworkUnreachable ErrorKind = "network_unreachable"
	ErrPartialDegradation ErrorKind = "partial_degradation"
)

// ProbeError is the structured failure a probe returns instead of a
// result. For parse errors Raw retains the tool output verbatim so an
// operator can inspect what the parser rejected.
type ProbeError struct {
	Kind    ErrorKind
	Message string
	Raw     string
	Err     error
}

func (e *ProbeError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

func NewProbeError(kind ErrorKind, message string, err error) *ProbeError {
	return &ProbeError{Kind: kind, Message: message, Err: err}
}

func NewParseError(message, raw string, err error) *ProbeError {
	return &ProbeError{Kind: ErrParse, Message: message, Raw: raw, Err: err}
}

// KindOf extracts the failure kind from any error chain. Unclassified
// errors count as network failures: the probe ran but got nothing usable.
func KindOf(err error) ErrorKind {
	var pe *ProbeError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ErrNetworkUnreachable
}
