package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/airc-dev/airc/internal/descriptor"
	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/logging"
	"github.com/airc-dev/airc/internal/paths"
	"github.com/airc-dev/airc/internal/source"
	"github.com/airc-dev/airc/internal/validator"
)

var validateFormat string

func init() {
	validateCmd.Flags().StringVar(&validateFormat, "format", "text",
		"output format: text, json")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the descriptor and its extends chain",
	Long: `Validate ai.json and ai.local.json against the descriptor schema,
then resolve the extends chain and report everything that is wrong.

All issues are collected before reporting, so one run shows every
schema violation, parse failure, unreachable ancestor, and extends
cycle instead of stopping at the first.`,
	Example: `  # Validate the current project
  airc validate

  # Machine-readable output
  airc validate --format json

  See Also: airc init, airc apply`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, _ []string) error {
	return runValidateWithWriter(cmd.Context(), os.Stdout)
}

func runValidateWithWriter(ctx context.Context, w io.Writer) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}

	result := &validator.Result{}
	collectDescriptorIssues(result, paths.DescriptorPath(root), true)
	collectDescriptorIssues(result, paths.LocalOverridePath(root), false)

	// Extends resolution needs loadable documents to start from.
	if !result.HasErrors() {
		collectExtendsIssues(ctx, root, result)
	}

	reporter := validator.NewReporter(w, validator.Format(validateFormat))
	if err := reporter.Report(result); err != nil {
		return err
	}

	if result.HasErrors() {
		n := len(result.Errors())
		return errors.NewExitError(
			errors.Newf("validation failed with %d %s", n, plural(n, "error", "errors")),
			errors.ExitUser)
	}
	return nil
}

// collectDescriptorIssues loads one descriptor document and turns its
// failure, if any, into issues. A missing optional document is fine; a
// missing required one is an error.
func collectDescriptorIssues(result *validator.Result, path string, required bool) {
	name := filepath.Base(path)

	_, err := descriptor.Load(path)
	if err == nil {
		return
	}

	if errors.Is(err, os.ErrNotExist) {
		if required {
			result.AddError(name, "descriptor not found; run 'airc init' to create one", nil)
		}
		return
	}

	var schemaErr *descriptor.SchemaError
	if errors.As(err, &schemaErr) {
		for _, issue := range schemaErr.Issues {
			result.AddError(name+issue.Field, issue.Message, nil)
		}
		return
	}

	var parseErr *descriptor.ParseError
	if errors.As(err, &parseErr) {
		field := name
		if parseErr.Line > 0 {
			field = fmt.Sprintf("%s:%d:%d", name, parseErr.Line, parseErr.Col)
		}
		result.AddError(field, fmt.Sprintf("invalid JSON: %v", errors.Unwrap(parseErr)), nil)
		return
	}

	result.AddError(name, err.Error(), nil)
}

// collectExtendsIssues resolves the extends chain and reports cycles,
// unreachable ancestors, and ancestor documents that fail validation.
func collectExtendsIssues(ctx context.Context, root string, result *validator.Result) {
	log := logging.FromContext(ctx)

	src, err := source.NewResolver(root)
	if err != nil {
		result.AddError("extends", err.Error(), nil)
		return
	}

	res := descriptor.NewResolver(src)
	defer func() {
		if err := res.Cleanup(); err != nil {
			log.Warn("cleaning up extends downloads", "error", err)
		}
	}()

	if _, err := res.Resolve(ctx, root); err != nil {
		var circErr *descriptor.CircularError
		var schemaErr *descriptor.SchemaError
		switch {
		case errors.As(err, &circErr):
			result.AddError("extends", circErr.Error(), nil)
		case errors.As(err, &schemaErr):
			for _, issue := range schemaErr.Issues {
				result.AddError(filepath.Base(schemaErr.Path)+issue.Field, issue.Message, nil)
			}
		default:
			result.AddError("extends", err.Error(), nil)
		}
	}
}
