package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/airc-dev/airc/internal/apply"
	"github.com/airc-dev/airc/internal/descriptor"
	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/errors"
)

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show descriptor and editor sync state",
	Long: `Resolve the descriptor and compare each editor's files with the
desired state, without writing anything.

An editor is in sync when a fresh apply would change nothing. Drift
means files are missing, were edited by hand, or the descriptor moved
on since the last apply.`,
	Example: `  # Show status for every detected editor
  airc status

  # Status for one editor
  airc status --editor claude-code

  # Machine-readable output
  airc status --json

  See Also: airc plan, airc apply`,
	RunE: runStatus,
}

// statusOutput is the JSON shape of the status report.
type statusOutput struct {
	Project        string               `json:"project"`
	LocalOverrides bool                 `json:"local_overrides"`
	Entries        statusEntries        `json:"entries"`
	EntryErrors    []string             `json:"entry_errors,omitempty"`
	Editors        []editorStatusOutput `json:"editors"`
}

// statusEntries counts the active entries per capability.
type statusEntries struct {
	Skills   int `json:"skills"`
	Rules    int `json:"rules"`
	Prompts  int `json:"prompts"`
	MCP      int `json:"mcp"`
	Hooks    int `json:"hooks"`
	Disabled int `json:"disabled"`
}

// editorStatusOutput is one editor's sync state.
type editorStatusOutput struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Detected         bool   `json:"detected"`
	Pending          int    `json:"pending_changes"`
	Creates          int    `json:"creates"`
	Updates          int    `json:"updates"`
	Deletes          int    `json:"deletes"`
	UnsupportedHooks int    `json:"unsupported_hooks,omitempty"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	return runStatusWithWriter(cmd.Context(), os.Stdout)
}

func runStatusWithWriter(ctx context.Context, w io.Writer) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	env := editors.NewEnv(root)
	eds, err := selectEditors(env)
	if err != nil {
		return err
	}

	runner := apply.NewRunner(root, eds,
		apply.WithDryRun(true),
		apply.WithConcurrency(toolConfig().Concurrency))
	res, err := runner.Run(ctx)
	if err != nil {
		if errors.HasCode(err, errors.CodeConfigNotFound) {
			return errors.NewUserError(err, "Run 'airc init' to create a descriptor")
		}
		return err
	}

	output := collectStatus(root, env, eds, res)

	if statusJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(output), "encoding status")
	}
	renderStatus(w, output)
	return nil
}

// collectStatus flattens a dry-run result into the status report.
// Reports line up with eds by index: the runner plans editors in
// targeting order.
func collectStatus(root string, env editors.Env, eds []editors.Editor, res *apply.Result) *statusOutput {
	m := res.Merged
	output := &statusOutput{
		Project:        root,
		LocalOverrides: m.HasLocalOverrides,
		Entries: statusEntries{
			Skills:  len(descriptor.Active(m.Skills)),
			Rules:   len(descriptor.Active(m.Rules)),
			Prompts: len(descriptor.Active(m.Prompts)),
			MCP:     len(descriptor.Active(m.MCP)),
			Hooks:   len(descriptor.Active(m.Hooks)),
			Disabled: len(descriptor.DisabledNames(m.Skills)) +
				len(descriptor.DisabledNames(m.Rules)) +
				len(descriptor.DisabledNames(m.Prompts)) +
				len(descriptor.DisabledNames(m.MCP)) +
				len(descriptor.DisabledNames(m.Hooks)),
		},
	}
	for _, e := range res.EntryErrors {
		output.EntryErrors = append(output.EntryErrors, e.Error())
	}

	for i, report := range res.Reports {
		entry := editorStatusOutput{
			ID:               report.Editor,
			Name:             editorDisplayName(report.Editor),
			Pending:          len(report.Changes),
			UnsupportedHooks: len(report.Unsupported),
		}
		if i < len(eds) {
			entry.Detected = eds[i].Detected(env)
		}
		for _, c := range report.Changes {
			switch c.Action {
			case editors.ActionCreate:
				entry.Creates++
			case editors.ActionUpdate:
				entry.Updates++
			case editors.ActionDelete:
				entry.Deletes++
			}
		}
		output.Editors = append(output.Editors, entry)
	}
	return output
}

func renderStatus(w io.Writer, output *statusOutput) {
	fmt.Fprintf(w, "%sProject:%s %s\n", colorBold, colorReset, output.Project)
	descriptorLine := "ai.json"
	if output.LocalOverrides {
		descriptorLine += " + ai.local.json"
	}
	fmt.Fprintf(w, "%sDescriptor:%s %s\n", colorBold, colorReset, descriptorLine)
	fmt.Fprintf(w, "%sEntries:%s %d skills, %d rules, %d prompts, %d MCP servers, %d hooks",
		colorBold, colorReset,
		output.Entries.Skills, output.Entries.Rules, output.Entries.Prompts,
		output.Entries.MCP, output.Entries.Hooks)
	if output.Entries.Disabled > 0 {
		fmt.Fprintf(w, " %s(%d disabled)%s", colorGray, output.Entries.Disabled, colorReset)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sEDITOR%s\t%sDETECTED%s\t%sSTATE%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	pending := 0
	for _, e := range output.Editors {
		detected := colorGray + "-" + colorReset
		if e.Detected {
			detected = colorGreen + "✓" + colorReset
		}

		state := colorGreen + "in sync" + colorReset
		if e.Pending > 0 {
			pending += e.Pending
			state = fmt.Sprintf("%s%d pending (%d create, %d update, %d delete)%s",
				colorYellow, e.Pending, e.Creates, e.Updates, e.Deletes, colorReset)
		}
		if e.UnsupportedHooks > 0 {
			state += fmt.Sprintf(" %s[%d %s unsupported]%s",
				colorGray, e.UnsupportedHooks, plural(e.UnsupportedHooks, "hook", "hooks"), colorReset)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, detected, state)
	}
	tw.Flush()

	if len(output.EntryErrors) > 0 {
		fmt.Fprintln(w)
		for _, msg := range output.EntryErrors {
			fmt.Fprintf(w, "%s✗ %s%s\n", colorRed, msg, colorReset)
		}
	}

	if pending > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Run 'airc plan' to see pending changes, 'airc apply' to write them.")
	}
}
