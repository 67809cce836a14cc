package errors

import (
	crdberrors "github.com/cockroachdb/errors"
)

// This file re-exports the cockroachdb/errors constructors the rest of the
// codebase uses, so callers import one errors package for sentinels, codes,
// and wrapping alike.

// New creates an error with the given message.
func New(msg string) error {
	return crdberrors.New(msg)
}

// Newf creates an error with a formatted message.
func Newf(format string, args ...any) error {
	return crdberrors.Newf(format, args...)
}

// Wrap annotates err with a message. Returns nil if err is nil.
func Wrap(err error, msg string) error {
	return crdberrors.Wrap(err, msg)
}

// Wrapf annotates err with a formatted message. Returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	return crdberrors.Wrapf(err, format, args...)
}

// WithDetail attaches a user-facing detail string to err.
func WithDetail(err error, detail string) error {
	return crdberrors.WithDetail(err, detail)
}

// WithDetailf attaches a formatted user-facing detail string to err.
func WithDetailf(err error, format string, args ...any) error {
	return crdberrors.WithDetailf(err, format, args...)
}

// WithHint attaches an actionable hint to err.
func WithHint(err error, hint string) error {
	return crdberrors.WithHint(err, hint)
}

// WithHintf attaches a formatted actionable hint to err.
func WithHintf(err error, format string, args ...any) error {
	return crdberrors.WithHintf(err, format, args...)
}

// FlattenHints collects every hint in err's chain into one string.
func FlattenHints(err error) string {
	return crdberrors.FlattenHints(err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return crdberrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return crdberrors.As(err, target)
}

// Unwrap returns the result of calling Unwrap on err, or nil.
func Unwrap(err error) error {
	return crdberrors.Unwrap(err)
}

// Join wraps a list of errors into a single error.
func Join(errs ...error) error {
	return crdberrors.Join(errs...)
}
