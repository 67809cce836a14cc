package apply

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/logging"
	"github.com/airc-dev/airc/internal/paths"
	"github.com/airc-dev/airc/pkg/fileutil"
)

// write snapshots everything about to be overwritten, then applies the
// planned changes. A snapshot failure aborts before any file is
// touched, unless force downgrades it to a warning.
func (r *Runner) write(ctx context.Context, result *Result) error {
	log := logging.FromContext(ctx)

	if overwrites := result.Overwrites(); len(overwrites) > 0 {
		manifest, err := r.backups.Snapshot(overwrites)
		switch {
		case err != nil && r.force:
			result.warnf("snapshot failed, writing without one: %v", err)
		case err != nil:
			return errors.Wrap(err, "snapshotting files before overwrite")
		case manifest != nil:
			result.SnapshotID = manifest.ID
			log.Debug("snapshot taken", "id", manifest.ID, "files", len(manifest.Files))
		}
	}

	for _, report := range result.Reports {
		for _, change := range report.Changes {
			if err := applyChange(change); err != nil {
				return errors.Wrapf(err, "applying %s change for %s", change.Action, report.Editor)
			}
			log.Debug("change applied",
				"editor", report.Editor, "action", string(change.Action), "path", change.Path)
		}
	}
	return nil
}

// Overwrites lists the distinct paths the plan would overwrite, sorted.
// Freshly created paths are excluded: they need no snapshot and no
// confirmation.
func (r *Result) Overwrites() []string {
	seen := make(map[string]bool)
	var overwrite []string
	for _, report := range r.Reports {
		for _, c := range report.Changes {
			if c.Action != editors.ActionUpdate || seen[c.Path] {
				continue
			}
			seen[c.Path] = true
			overwrite = append(overwrite, c.Path)
		}
	}
	sort.Strings(overwrite)
	return overwrite
}

// applyChange performs one planned change on disk.
func applyChange(c editors.FileChange) error {
	switch c.Action {
	case editors.ActionCreate, editors.ActionUpdate:
		if c.IsDir {
			return fileutil.CopyTree(c.SourceDir, c.Path)
		}
		if err := paths.EnsureDir(filepath.Dir(c.Path), 0o755); err != nil {
			return err
		}
		return fileutil.AtomicWriteFile(c.Path, []byte(c.Content), 0o644)
	case editors.ActionDelete:
		if c.IsDir {
			return os.RemoveAll(c.Path)
		}
		if err := os.Remove(c.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	default:
		return errors.Newf("unknown change action %q", c.Action)
	}
}
