// Package simerrors defines the closed set of error kinds used across the
// simulation (spec.md section 7). It is a leaf package: every other
// package in this module may import it, and it imports nothing from them.
package simerrors

import "github.com/pkg/errors"

// Kind classifies a simulation error.
type Kind int

const (
	// InvalidInputFile covers malformed CSV, missing fields, or an
	// unreadable path. Fatal at init.
	InvalidInputFile Kind = iota
	// UnknownConfig covers an unrecognized or out-of-range config key.
	// Fatal at init.
	UnknownConfig
	// InvalidPath means a Path could not materialize a wait edge
	// because its endpoints disagree on station or time ordering.
	// Fatal during OD application.
	InvalidPath
	// Unreachable means shortest-path search drained its frontier
	// without finding the target station. Recoverable: the caller
	// marks the passenger stranded.
	Unreachable
	// InvariantViolation marks a broken data-structure invariant.
	// Always a bug; always fatal.
	InvariantViolation
)

func (k Kind) String() string {
	switch k {
	case InvalidInputFile:
		return "InvalidInputFile"
	case UnknownConfig:
		return "UnknownConfig"
	case InvalidPath:
		return "InvalidPath"
	case Unreachable:
		return "Unreachable"
	case InvariantViolation:
		return "InvariantViolation"
	default:
		return "Unknown"
	}
}

// Error wraps a Kind with an operation label and an optional cause.
type Error struct {
	Kind Kind
	Op   string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.Kind.String() + ": " + e.Op + ": " + e.err.Error()
	}
	return e.Kind.String() + ": " + e.Op
}

func (e *Error) Unwrap() error { return e.err }

// New builds an Error of the given kind for operation op, wrapping cause
// (which may be nil) with pkg/errors so callers retain a stack trace.
func New(kind Kind, op string, cause error) *Error {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return &Error{Kind: kind, Op: op, err: cause}
}

// Newf is like New but builds the cause from a format string.
func Newf(kind Kind, op string, format string, args ...interface{}) *Error {
	return New(kind, op, errors.Errorf(format, args...))
}

// Is reports whether err is a simulation Error of the given kind.
func Is(err error, kind Kind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}
