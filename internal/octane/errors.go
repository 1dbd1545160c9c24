package octane

import (
	"errors"
	"fmt"
)

// Kind classifies an Error so callers can react without parsing messages.
type Kind int

const (
	// KindConfiguration reports missing or malformed connection settings.
	KindConfiguration Kind = iota + 1
	// KindAuthentication is returned for HTTP 401 responses.
	KindAuthentication
	// KindProxyAuthentication is returned for HTTP 407 responses.
	KindProxyAuthentication
	// KindRequest is returned for any other non-2xx response.
	KindRequest
	// KindResponse reports a response body that could not be interpreted.
	KindResponse
	// KindTransport reports network level failures (dial, timeout, reset).
	KindTransport
	// KindPrecondition reports a caller error detected before any request.
	KindPrecondition
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindAuthentication:
		return "authentication"
	case KindProxyAuthentication:
		return "proxy authentication"
	case KindRequest:
		return "request"
	case KindResponse:
		return "response"
	case KindTransport:
		return "transport"
	case KindPrecondition:
		return "precondition"
	default:
		return "unknown"
	}
}

// Error is the single error type surfaced by this package and the
// packages built on top of it.
type Error struct {
	Kind       Kind
	Op         string // e.g. "GET defects/1001" or "reopen"
	Message    string
	StatusCode int    // set for KindRequest
	Body       string // raw server body, set for KindRequest
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Op == "" {
		return "octane: " + msg
	}
	return "octane: " + e.Op + ": " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether any error in err's chain is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return 0
}

func configError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// PreconditionError builds a KindPrecondition error for op.
func PreconditionError(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindPrecondition, Op: op, Message: fmt.Sprintf(format, args...)}
}
