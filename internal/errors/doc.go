// Package errors provides error handling conventions for the airc CLI.
//
// This package defines stable machine-readable error codes, an
// ExitError type for CLI exit code handling, and re-exports of the
// cockroachdb/errors constructors used throughout the codebase.
//
// # Error Codes
//
// Fatal configuration and reference errors carry a stable [Code] so that
// callers (and scripts parsing JSON log output) can react to the class of
// failure without matching message text:
//
//	err := errors.WithCode(parseErr, errors.CodeConfigParse)
//	if errors.HasCode(err, errors.CodeConfigParse) { ... }
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. The root command uses it to pick the process exit status:
//
//	var exitErr *aircerrors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
