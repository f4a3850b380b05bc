// internal/apperr/apperr.go
//
// Closed error taxonomy shared by every subsystem.
//
// Context
// -------
// Config loading, webhook verification, the mini-app handshake, and the
// logger all funnel failures into one typed error with exactly one Kind.
// Transport layers upstream (HTTP handlers, process bootstrap) switch on
// the Kind alone: Config fails startup, Unauthorized rejects the request,
// Validation rejects the input, Internal is a bug or environment fault.
//
// The set is deliberately closed.  A new failure mode must be assigned to
// one of the existing kinds; growing the set is a breaking change for
// every caller that switches on it.
//
// Notes
// -----
//   - `KindOf` is total: any error that is not an *Error classifies as
//     Internal, so callers never see an unkinded failure.
//   - Errors interoperate with errors.Is/As via Unwrap.

package apperr

import (
	"errors"
	"fmt"
)

//
// Kind
//

// Kind is the stable classification tag attached to every error the
// toolkit produces.  The zero value is Internal so that an accidentally
// unclassified error still lands in the most conservative bucket.
type Kind uint8

const (
	// Internal marks programmer or environment errors (e.g., installing
	// the process-wide logger twice).
	Internal Kind = iota
	// Config marks bad or missing configuration input: absent files,
	// malformed documents, invalid filter expressions, unusable secrets.
	Config
	// Validation marks malformed caller-supplied identifiers.
	Validation
	// Unauthorized marks failed or missing webhook proof.
	Unauthorized
)

// String returns the lowercase name used in logs and API payloads.
func (k Kind) String() string {
	switch k {
	case Config:
		return "config"
	case Validation:
		return "validation"
	case Unauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

//
// Error
//

// Error couples one Kind with a display message and an optional source.
// Construct via New, Newf, or Wrap; the zero value is not meaningful.
type Error struct {
	kind Kind
	msg  string
	err  error // wrapped source, may be nil
}

// New returns an error of the given kind with a fixed message.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Newf returns an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap annotates a source error with a kind and message.  The source is
// reachable through errors.Unwrap, and its description is appended to
// the display message.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

// Kind reports the classification of the error.
func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

//
// classification
//

// KindOf classifies any error value.  Typed errors report their own
// kind; nil input and foreign errors classify as Internal, keeping the
// function total over everything the toolkit can produce.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return Internal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.kind == kind
}
