// Package clienterr provides the error taxonomy every backend Client
// implementation reports through, plus conversion from gRPC status errors.
package clienterr

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind identifies the category of a backend client failure.
type Kind string

const (
	// NotImplemented means the client does not support the requested operation.
	NotImplemented Kind = "NOT_IMPLEMENTED"
	// NoData means the upstream response had no data where data was required.
	NoData Kind = "NO_DATA"
	// Transport means a network or I/O failure occurred while talking to the backend.
	Transport Kind = "TRANSPORT"
	// Decode means the upstream response could not be parsed.
	Decode Kind = "DECODE"
	// Other is a catch-all for configuration or miscellaneous failures.
	Other Kind = "OTHER"
)

// Severity indicates how an Error should be treated by a caller aggregating errors.
type Severity int

const (
	// SeverityWarning is a per-backend failure that must not abort the operation.
	SeverityWarning Severity = iota
	// SeverityFatal is a failure that must abort the operation (e.g. registry errors).
	SeverityFatal
)

// Error is the structured error type every Client method returns instead of a
// bare error. It carries enough detail for the caller to decide whether to
// drop it (per-backend) or surface it (registry, decode).
type Error struct {
	Kind     Kind
	Message  string
	Backend  string // optional: which backend produced this error
	Cause    error
	Severity Severity
}

func (e *Error) Error() string {
	if e.Backend != "" {
		return fmt.Sprintf("[%s] %s (backend: %s)", e.Kind, e.Message, e.Backend)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with SeverityWarning (the default for per-backend failures).
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Severity: SeverityWarning}
}

// NewFatal creates an Error with SeverityFatal (used by the registry).
func NewFatal(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Severity: SeverityFatal}
}

// Wrap creates an Error that wraps an existing error under the given Kind.
func Wrap(cause error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause, Severity: SeverityWarning}
}

// WithBackend sets the originating backend identifier and returns the error.
func (e *Error) WithBackend(backend string) *Error {
	e.Backend = backend
	return e
}

// Is reports whether err is an *Error with the given Kind.
func Is(err error, kind Kind) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}

// KindOf extracts the Kind from err, or Other if err is not an *Error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return Other
}

// IsFatal reports whether err must abort the whole federated operation.
func IsFatal(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Severity == SeverityFatal
	}
	return false
}

// FromGRPC maps a gRPC status error onto the client error taxonomy, so the
// gRPC backend client reports the same Kind/Severity shape as every other
// transport.
func FromGRPC(err error) *Error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return New(Other, err.Error())
	}
	var kind Kind
	switch st.Code() {
	case codes.Unimplemented:
		kind = NotImplemented
	case codes.NotFound:
		kind = NoData
	case codes.Unavailable, codes.DeadlineExceeded, codes.Aborted:
		kind = Transport
	case codes.Internal:
		kind = Decode
	default:
		kind = Other
	}
	return New(kind, st.Message())
}
