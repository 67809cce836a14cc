package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/airc-dev/airc/internal/apply"
	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/tracking"
)

var (
	pruneDryRun bool
	pruneForce  bool
)

func init() {
	pruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", false,
		"show stale entries without changing anything")
	pruneCmd.Flags().BoolVarP(&pruneForce, "force", "f", false,
		"remove orphaned artifacts without prompting")
	rootCmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Reconcile the global tracking registry",
	Long: `Check every tracked global artifact against the projects that
installed it, and clean up what no longer has a living owner.

Entries whose projects partially vanished are rewritten to the
survivors. Entries whose projects are all gone are orphaned: their
registry records are removed and, after confirmation, the artifacts
they wrote into user-scope files are deleted. An artifact modified
since airc wrote it is never deleted, only reported.`,
	Example: `  # Inspect without changing anything
  airc prune --dry-run

  # Reconcile, prompting before orphan removal
  airc prune

  # Reconcile without prompting
  airc prune --force

  See Also: airc apply, airc status`,
	RunE: runPrune,
}

func runPrune(cmd *cobra.Command, _ []string) error {
	return runPruneWithWriter(cmd.Context(), os.Stdout)
}

func runPruneWithWriter(ctx context.Context, w io.Writer) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	env := editors.NewEnv(root)
	store := tracking.NewStore()

	f, err := store.Load()
	if err != nil {
		return err
	}
	scan := tracking.Scan(f)
	if !scan.HasWork() {
		fmt.Fprintf(w, "%s✓ Tracking registry is clean%s\n", colorGreen, colorReset)
		return nil
	}

	renderScan(w, f, scan)

	if pruneDryRun {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Dry run: nothing was changed.")
		return nil
	}

	removeOrphans := false
	if len(scan.Orphaned) > 0 {
		if pruneForce {
			removeOrphans = true
		} else {
			fmt.Fprintln(w)
			removeOrphans = confirm(fmt.Sprintf("Remove %d orphaned %s and their global artifacts?",
				len(scan.Orphaned), plural(len(scan.Orphaned), "entry", "entries")))
		}
	}

	res, err := apply.Reconcile(ctx, store, env, removeOrphans)
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	if n := len(res.Rewritten); n > 0 {
		fmt.Fprintf(w, "%s✓ Rewrote %d %s to surviving projects%s\n",
			colorGreen, n, plural(n, "entry", "entries"), colorReset)
	}
	for _, key := range res.DeletedArtifacts {
		fmt.Fprintf(w, "%s✓ Deleted artifact for %s%s\n", colorGreen, key, colorReset)
	}
	for _, key := range res.RemovedEntries {
		fmt.Fprintf(w, "%s✓ Removed entry %s%s\n", colorGreen, key, colorReset)
	}
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "%s! %s%s\n", colorYellow, warning, colorReset)
	}
	if len(scan.Orphaned) > 0 && !removeOrphans {
		fmt.Fprintln(w, "Orphaned entries kept. Re-run with --force to remove them.")
	}
	return nil
}

// renderScan lists what the registry scan found, before anything is
// touched.
func renderScan(w io.Writer, f *tracking.File, scan *tracking.ScanResult) {
	if len(scan.Partial) > 0 {
		fmt.Fprintf(w, "%sEntries with vanished projects:%s\n", colorBold, colorReset)
		keys := make([]string, 0, len(scan.Partial))
		for key := range scan.Partial {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(w, "  %s %s-> keeps %s%s\n",
				key, colorGray, strings.Join(scan.Partial[key], ", "), colorReset)
		}
	}

	if len(scan.Orphaned) > 0 {
		if len(scan.Partial) > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%sOrphaned entries (no project left):%s\n", colorBold, colorReset)
		for _, key := range scan.Orphaned {
			line := key
			if entry := f.Entries[key]; entry != nil && entry.Path != "" {
				line += "  " + entry.Path
			}
			fmt.Fprintf(w, "  %s\n", truncate(line, 100))
		}
	}
}
