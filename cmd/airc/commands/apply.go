package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/airc-dev/airc/internal/apply"
	"github.com/airc-dev/airc/internal/backup"
	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/editors/registry"
	"github.com/airc-dev/airc/internal/errors"
)

var (
	applyDryRun bool
	applyYes    bool
	applyForce  bool
)

func init() {
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false,
		"preview changes without writing anything")
	applyCmd.Flags().BoolVarP(&applyYes, "yes", "y", false,
		"overwrite existing files without prompting")
	applyCmd.Flags().BoolVarP(&applyForce, "force", "f", false,
		"write even when the pre-overwrite snapshot fails (implies --yes)")
	rootCmd.AddCommand(applyCmd)
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Compile the descriptor and write editor configurations",
	Long: `Resolve the project descriptor and write each targeted editor's
native configuration files.

The descriptor's extends chain is flattened first, then every skill,
rule, prompt, MCP server, and hook reference is fetched and parsed.
Each editor's strategy compares the desired files with what is on disk
and only differing files are written. Files about to be overwritten
are snapshotted under .airc/backups first.

A failing reference does not stop the run: the entry is reported and
the remaining entries still apply. Files written by hand into managed
locations are replaced; everything else is left alone.`,
	Example: `  # Compile for every detected editor
  airc apply

  # Preview without writing
  airc apply --dry-run

  # Target specific editors
  airc apply --editor cursor --editor zed

  # Skip the overwrite prompt (CI)
  airc apply --yes

  See Also: airc plan, airc status, airc prune`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runApply(cmd.Context(), os.Stdout, applyDryRun)
	},
}

// runApply drives the pipeline for both apply and plan; plan passes
// dryRun unconditionally.
func runApply(ctx context.Context, w io.Writer, dryRun bool) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	env := editors.NewEnv(root)
	eds, err := selectEditors(env)
	if err != nil {
		return err
	}

	tc := toolConfig()
	opts := []apply.Option{
		apply.WithDryRun(dryRun),
		apply.WithConcurrency(tc.Concurrency),
		apply.WithForce(applyForce),
		apply.WithBackups(backup.NewManager(root,
			backup.WithRetention(tc.Backup.RetentionCount))),
	}
	if !dryRun && !applyYes && !applyForce {
		opts = append(opts, apply.WithConfirm(func(res *apply.Result) bool {
			fmt.Fprintln(w, "The following files will be overwritten (a snapshot is saved first):")
			for _, p := range res.Overwrites() {
				fmt.Fprintf(w, "  %s\n", displayPath(root, p))
			}
			return confirm("Continue?")
		}))
	}

	runner := apply.NewRunner(root, eds, opts...)
	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if res.Aborted {
		fmt.Fprintln(w, "Aborted")
		return nil
	}

	renderResult(w, root, res)

	if n := len(res.EntryErrors); n > 0 {
		return errors.NewUserError(
			errors.Newf("%d %s failed to resolve", n, plural(n, "entry", "entries")),
			"Check the reported entries in ai.json, then re-run 'airc apply'")
	}
	return nil
}

// renderResult prints one editor section per report, then entry errors,
// warnings, and a summary line.
func renderResult(w io.Writer, root string, res *apply.Result) {
	for i, report := range res.Reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s%s%s\n", colorCyan+colorBold, editorDisplayName(report.Editor), colorReset)

		if len(report.Changes) == 0 && len(report.Unsupported) == 0 {
			fmt.Fprintf(w, "  %s(no changes)%s\n", colorGray, colorReset)
			continue
		}
		for _, c := range report.Changes {
			glyph, col := changeGlyph(c.Action)
			path := displayPath(root, c.Path)
			if c.IsDir {
				path += string(os.PathSeparator)
			}
			fmt.Fprintf(w, "  %s%s %-6s%s %s\n", col, glyph, c.Action, colorReset, path)
		}
		for _, u := range report.Unsupported {
			fmt.Fprintf(w, "  %s! skipped hook %s: %s%s\n", colorYellow, u.Hook.Name, u.Reason, colorReset)
		}
	}

	if len(res.EntryErrors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%sEntry errors:%s\n", colorBold, colorReset)
		for _, e := range res.EntryErrors {
			fmt.Fprintf(w, "  %s✗ %s/%s: %v%s\n", colorRed, e.Capability, e.Name, e.Err, colorReset)
		}
	}

	if len(res.Warnings) > 0 {
		fmt.Fprintln(w)
		for _, warning := range res.Warnings {
			fmt.Fprintf(w, "%s! %s%s\n", colorYellow, warning, colorReset)
		}
	}

	fmt.Fprintln(w)
	created, updated, deleted := res.Counts()
	switch {
	case res.DryRun && res.TotalChanges() == 0:
		fmt.Fprintf(w, "%s✓ Everything up to date%s\n", colorGreen, colorReset)
	case res.DryRun:
		fmt.Fprintf(w, "Plan: %d to create, %d to update, %d to delete\n", created, updated, deleted)
		fmt.Fprintln(w, "Dry run: nothing was written. Run 'airc apply' to apply.")
	case res.TotalChanges() == 0:
		fmt.Fprintf(w, "%s✓ Everything up to date%s\n", colorGreen, colorReset)
	default:
		fmt.Fprintf(w, "%s✓ Applied %d %s (%d created, %d updated, %d deleted)%s\n",
			colorGreen, res.TotalChanges(), plural(res.TotalChanges(), "change", "changes"),
			created, updated, deleted, colorReset)
		if res.SnapshotID != "" {
			fmt.Fprintf(w, "%sSnapshot %s saved under .airc/backups%s\n", colorGray, res.SnapshotID, colorReset)
		}
	}
}

// changeGlyph maps an action to its listing glyph and color.
func changeGlyph(a editors.Action) (string, string) {
	switch a {
	case editors.ActionCreate:
		return "+", colorGreen
	case editors.ActionDelete:
		return "-", colorRed
	default:
		return "~", colorYellow
	}
}

// editorDisplayName resolves an editor id to its display name, falling
// back to the id itself.
func editorDisplayName(id string) string {
	ed, err := registry.Get(id)
	if err != nil {
		return id
	}
	return ed.DisplayName()
}
