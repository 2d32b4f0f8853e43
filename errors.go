package goOnboard

import (
	"errors"
	"fmt"
)

var (
	// ErrNilIdentityManager is returned by Build when no identity manager was supplied.
	ErrNilIdentityManager = errors.New("identity manager required")
	// ErrNilLocalizer is returned by Build when no localizer was supplied.
	ErrNilLocalizer = errors.New("localizer required")
	// ErrInvalidLocale is returned when a locale identifier cannot be parsed.
	ErrInvalidLocale = errors.New("invalid locale")
	// ErrInvalidConfig wraps every Config.Validate failure.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrEngineNotReady is returned when a nil or unbuilt engine is used.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrValidatorDiscarded is returned by ValidateSync after Discard.
	ErrValidatorDiscarded = errors.New("validator discarded")
)

// Client error kinds, matched by errors.Is against any *ClientError of that kind.
var (
	ErrNetwork     = errors.New("network failure")
	ErrInvalidCode = errors.New("invalid authentication code")
	ErrCodeExpired = errors.New("authentication code expired")
	ErrRateLimited = errors.New("rate limited")
	ErrUnexpected  = errors.New("unexpected identity manager failure")
)

// ClientErrorKind classifies an identity-manager failure.
type ClientErrorKind uint8

const (
	ClientErrorUnexpected ClientErrorKind = iota
	ClientErrorNetwork
	ClientErrorInvalidCode
	ClientErrorCodeExpired
	ClientErrorRateLimited
)

func (k ClientErrorKind) sentinel() error {
	switch k {
	case ClientErrorNetwork:
		return ErrNetwork
	case ClientErrorInvalidCode:
		return ErrInvalidCode
	case ClientErrorCodeExpired:
		return ErrCodeExpired
	case ClientErrorRateLimited:
		return ErrRateLimited
	default:
		return ErrUnexpected
	}
}

// String returns the kind's short name, used in audit events.
func (k ClientErrorKind) String() string {
	switch k {
	case ClientErrorNetwork:
		return "network"
	case ClientErrorInvalidCode:
		return "invalid_code"
	case ClientErrorCodeExpired:
		return "code_expired"
	case ClientErrorRateLimited:
		return "rate_limited"
	default:
		return "unexpected"
	}
}

// ClientError is the failure an identity manager reports for a code exchange.
// goOnboard never inspects it beyond its kind; it is relayed to the caller as-is.
type ClientError struct {
	Kind ClientErrorKind
	Err  error
}

// NewClientError builds a ClientError of kind wrapping cause (which may be nil).
func NewClientError(kind ClientErrorKind, cause error) *ClientError {
	return &ClientError{Kind: kind, Err: cause}
}

func (e *ClientError) Error() string {
	if e.Err == nil {
		return e.Kind.sentinel().Error()
	}
	return fmt.Sprintf("%s: %v", e.Kind.sentinel(), e.Err)
}

func (e *ClientError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *ClientError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// AsClientError returns err itself when it is a *ClientError. Other errors are
// wrapped, keeping the kind of any *ClientError found in their chain and
// ClientErrorUnexpected otherwise, so callers always get a classified failure.
func AsClientError(err error) *ClientError {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*ClientError); ok {
		return ce
	}
	var inner *ClientError
	if errors.As(err, &inner) {
		return NewClientError(inner.Kind, err)
	}
	return NewClientError(ClientErrorUnexpected, err)
}
