package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/paths"
)

var (
	cleanPackages bool
	cleanBackups  bool
	cleanAll      bool
)

func init() {
	cleanCmd.Flags().BoolVar(&cleanPackages, "packages", false,
		"remove downloaded packages and git leftovers")
	cleanCmd.Flags().BoolVar(&cleanBackups, "backups", false,
		"remove pre-overwrite snapshots")
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false,
		"remove downloads and snapshots")
	rootCmd.AddCommand(cleanCmd)
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached downloads and snapshots",
	Long: `Remove the project's cached state under .airc.

Git downloads are ephemeral and cleaned after every operation; clean
sweeps up what a crashed run left behind. Installed packages persist
across runs and are only removed on request, as is the snapshot
history. Everything removed here is re-fetched or re-created on the
next apply.`,
	Example: `  # Remove downloaded packages and stale git checkouts
  airc clean --packages

  # Remove pre-overwrite snapshots
  airc clean --backups

  # Remove both
  airc clean --all

  See Also: airc apply`,
	RunE: runClean,
}

func runClean(_ *cobra.Command, _ []string) error {
	return runCleanWithWriter(os.Stdout)
}

func runCleanWithWriter(w io.Writer) error {
	if !cleanPackages && !cleanBackups && !cleanAll {
		return errors.NewUserError(nil, "Specify --packages, --backups, or --all")
	}

	root, err := projectRoot()
	if err != nil {
		return err
	}

	var targets []string
	if cleanPackages || cleanAll {
		targets = append(targets, paths.CacheDir(root))
	}
	if cleanBackups || cleanAll {
		targets = append(targets, paths.BackupDir(root))
	}

	for _, target := range targets {
		if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(w, "%s(nothing at %s)%s\n", colorGray, displayPath(root, target), colorReset)
			continue
		}
		if err := os.RemoveAll(target); err != nil {
			return errors.Wrapf(err, "removing %s", target)
		}
		fmt.Fprintf(w, "%s✓ Removed %s%s\n", colorGreen, displayPath(root, target), colorReset)
	}
	return nil
}
