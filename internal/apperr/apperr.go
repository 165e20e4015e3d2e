package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the machine-readable category reported to API callers.
type Kind string

const (
	KindUnsupportedChain    Kind = "unsupported_chain"
	KindInvalidRequest      Kind = "invalid_request"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindUpstreamRejected    Kind = "upstream_rejected"
	KindNotAvailable        Kind = "not_available"
	KindOutcomeUnknown      Kind = "outcome_unknown"
	KindDerivation          Kind = "internal_derivation_error"
	KindPaymentSession      Kind = "payment_session_error"
	KindNotFound            Kind = "not_found"
	KindInternal            Kind = "internal"
)

// Error carries a Kind alongside a human-readable message and an optional cause.
// Messages must never contain key material.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, &Error{Kind: k}) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Msg == "" && t.Err == nil
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func UnsupportedChain(chain string) *Error {
	return New(KindUnsupportedChain, "unsupported blockchain %q", chain)
}

func Invalid(format string, args ...any) *Error {
	return New(KindInvalidRequest, format, args...)
}

func Unavailable(err error, msg string) *Error {
	return Wrap(KindUpstreamUnavailable, err, msg)
}

func Rejected(err error, msg string) *Error {
	return Wrap(KindUpstreamRejected, err, msg)
}

func NotAvailable(format string, args ...any) *Error {
	return New(KindNotAvailable, format, args...)
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HasKind reports whether err carries the given kind.
func HasKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps an error to the status code returned by the API.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnsupportedChain, KindInvalidRequest:
		return http.StatusBadRequest
	case KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	case KindUpstreamRejected:
		return http.StatusUnprocessableEntity
	case KindNotAvailable:
		return http.StatusNotImplemented
	case KindOutcomeUnknown:
		return http.StatusAccepted
	case KindPaymentSession:
		return http.StatusBadGateway
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
