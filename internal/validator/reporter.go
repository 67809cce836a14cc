package validator

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
)

// Format selects how a Reporter renders a Result.
type Format string

const (
	// FormatText renders a human-readable report.
	FormatText Format = "text"
	// FormatJSON renders a machine-readable report.
	FormatJSON Format = "json"
)

// Reporter writes validation results to a stream. Unknown formats fall
// back to text.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter returns a Reporter writing to out.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{out: out, format: format}
}

// Report renders result. A nil result renders nothing.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		return nil
	}
	if r.format == FormatJSON {
		return r.reportJSON(result)
	}
	return r.reportText(result)
}

// jsonReport is the machine-readable shape: a verdict plus the issues
// already split by severity, so consumers never re-filter.
type jsonReport struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

func (r *Reporter) reportJSON(result *Result) error {
	report := jsonReport{
		Valid:    !result.HasErrors(),
		Errors:   result.Errors(),
		Warnings: result.Warnings(),
	}
	// Empty lists encode as [], not null.
	if report.Errors == nil {
		report.Errors = []Issue{}
	}
	if report.Warnings == nil {
		report.Warnings = []Issue{}
	}

	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(report), "encoding validation report")
}

func (r *Reporter) reportText(result *Result) error {
	errs := result.Errors()
	warns := result.Warnings()

	// Warnings alone do not fail validation, only errors do.
	if len(errs) == 0 {
		fmt.Fprintln(r.out, color.GreenString("✓ Validation passed"))
	} else {
		summary := color.RedString("%d error(s)", len(errs))
		if len(warns) > 0 {
			summary += ", " + color.YellowString("%d warning(s)", len(warns))
		}
		fmt.Fprintf(r.out, "Validation failed: %s\n", summary)
	}

	r.writeGroup("Errors:", errs, color.New(color.FgRed))
	r.writeGroup("Warnings:", warns, color.New(color.FgYellow))
	return nil
}

func (r *Reporter) writeGroup(header string, issues []Issue, paint *color.Color) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(r.out, "\n%s\n", header)
	for _, issue := range issues {
		line := "  • "
		if issue.Field != "" {
			line += paint.Sprint(issue.Field) + ": "
		}
		line += issue.Message
		if issue.Value != nil {
			val := clipValue(fmt.Sprintf("%v", issue.Value))
			line += color.New(color.FgHiBlack).Sprintf(" [%s]", val)
		}
		fmt.Fprintln(r.out, line)
	}
}

// clipValue keeps a rendered value short enough that a long URL or
// inlined JSON cannot wrap the report.
func clipValue(s string) string {
	const max = 50
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
