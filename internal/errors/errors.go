package errors

import "fmt"

// Process exit codes. Zero is implicit success; nonzero codes separate
// "fix your input" from "something in the environment broke" so shell
// scripts can branch on $?.
const (
	// ExitUser is returned for problems the user can fix: bad flags,
	// malformed descriptors, unresolvable references.
	ExitUser = 1

	// ExitSystem is returned for environment failures: I/O errors,
	// missing tools, permission problems.
	ExitSystem = 2
)

// ExitError carries an exit code and an optional suggestion alongside
// the underlying error. The root command unwraps it to choose the
// process exit status and to print the suggestion after the error.
type ExitError struct {
	// Err is the underlying error. It may be nil when only a code and
	// suggestion are meaningful, such as aborting on a declined
	// confirmation prompt.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an actionable next step shown to the user.
	Suggestion string
}

// NewExitError wraps err with an exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// NewUserError wraps err as a user-fixable failure with a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewConfigError wraps a descriptor problem, pointing the user at the
// validate command for the full report.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Run: airc validate",
	}
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap exposes the underlying error to Is and As.
func (e *ExitError) Unwrap() error {
	return e.Err
}
