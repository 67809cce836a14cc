package errors

import (
	crdberrors "github.com/cockroachdb/errors"
)

// Code is a stable, machine-readable identifier for a class of failure.
// Codes survive wrapping: CodeOf walks the error chain and returns the
// outermost code it finds.
type Code string

// Configuration error codes. These are fatal for a whole resolution:
// there is no sensible partial result when the descriptor itself cannot
// be understood.
const (
	// CodeConfigNotFound identifies a missing descriptor or ancestor file.
	CodeConfigNotFound Code = "config_not_found"

	// CodeConfigParse identifies a syntactically malformed descriptor.
	CodeConfigParse Code = "config_parse"

	// CodeConfigSchema identifies a descriptor that parsed but violated
	// the descriptor schema.
	CodeConfigSchema Code = "config_schema"

	// CodeConfigCircular identifies a cycle in the extends chain.
	CodeConfigCircular Code = "config_circular"

	// CodeConfigImmutable identifies an attempt to operate on a descriptor
	// that was materialized from a remote or package source and therefore
	// must not be modified in place.
	CodeConfigImmutable Code = "config_immutable"
)

// Reference error codes. These are per-entry: one failing reference is
// reported and counted while sibling entries continue to resolve.
const (
	// CodeRefUnsupported identifies a source reference whose scheme or
	// shape is not recognized.
	CodeRefUnsupported Code = "ref_unsupported"

	// CodeRefFetch identifies a reference that was understood but could
	// not be fetched or installed.
	CodeRefFetch Code = "ref_fetch"
)

// codedError attaches a Code to an error without altering its message.
type codedError struct {
	cause error
	code  Code
}

func (e *codedError) Error() string { return e.cause.Error() }
func (e *codedError) Unwrap() error { return e.cause }

// WithCode attaches a stable machine-readable code to err.
// Returns nil when err is nil.
func WithCode(err error, code Code) error {
	if err == nil {
		return nil
	}
	return &codedError{cause: err, code: code}
}

// CodeOf returns the first code found walking err's chain, or the empty
// string when no code is attached.
func CodeOf(err error) Code {
	var ce *codedError
	if crdberrors.As(err, &ce) {
		return ce.code
	}
	return ""
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}
