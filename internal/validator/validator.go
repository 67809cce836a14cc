package validator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity classifies an Issue as blocking or advisory.
type Severity int

const (
	// SeverityError marks a problem that must be fixed before the
	// descriptor can be applied.
	SeverityError Severity = iota
	// SeverityWarning marks a problem that is reported but does not
	// block.
	SeverityWarning
)

// String returns the lowercase name of the severity. Unrecognized
// values render as "error" so they are never silently downgraded.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	default:
		return "error"
	}
}

// MarshalJSON encodes the severity by name rather than by enum value.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Issue is one problem found during validation. Field is a path into
// the offending document, such as "mcp.github.url" or
// "ai.json/skills/reviewer"; document-level issues leave it empty.
type Issue struct {
	Severity Severity `json:"severity"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
	Value    any      `json:"value,omitempty"`
}

// Error renders the issue on a single line so several issues can be
// folded into one error value.
func (i Issue) Error() string {
	var b strings.Builder
	if i.Field != "" {
		b.WriteString(i.Field)
		b.WriteString(": ")
	}
	b.WriteString(i.Message)
	if i.Value != nil {
		fmt.Fprintf(&b, " (got %v)", i.Value)
	}
	return b.String()
}

// Result accumulates issues across validation passes. The zero value
// is ready to use, and all methods tolerate a nil receiver so callers
// can interrogate a Result they never populated.
type Result struct {
	Issues []Issue
}

// AddError records a blocking issue.
func (r *Result) AddError(field, message string, value any) {
	r.add(SeverityError, field, message, value)
}

// AddWarning records an advisory issue.
func (r *Result) AddWarning(field, message string, value any) {
	r.add(SeverityWarning, field, message, value)
}

func (r *Result) add(sev Severity, field, message string, value any) {
	r.Issues = append(r.Issues, Issue{
		Severity: sev,
		Field:    field,
		Message:  message,
		Value:    value,
	})
}

// HasErrors reports whether any blocking issue was recorded.
func (r *Result) HasErrors() bool { return r.has(SeverityError) }

// HasWarnings reports whether any advisory issue was recorded.
func (r *Result) HasWarnings() bool { return r.has(SeverityWarning) }

// Errors returns the blocking issues in the order they were recorded.
func (r *Result) Errors() []Issue { return r.filter(SeverityError) }

// Warnings returns the advisory issues in the order they were
// recorded.
func (r *Result) Warnings() []Issue { return r.filter(SeverityWarning) }

func (r *Result) has(sev Severity) bool {
	if r == nil {
		return false
	}
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			return true
		}
	}
	return false
}

func (r *Result) filter(sev Severity) []Issue {
	if r == nil {
		return nil
	}
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}
