package apply

import (
	"context"
	"fmt"
	"os"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/editors/registry"
	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/logging"
	"github.com/airc-dev/airc/internal/tracking"
)

// ReconcileResult reports what reconciliation changed.
type ReconcileResult struct {
	// Rewritten maps entry keys to the surviving projects they were
	// rewritten to.
	Rewritten map[string][]string

	// RemovedEntries are the fully orphaned keys removed from the
	// registry.
	RemovedEntries []string

	// DeletedArtifacts are the global files or entries deleted because
	// they still matched what airc last wrote.
	DeletedArtifacts []string

	// Warnings are artifacts left in place and other non-fatal
	// problems.
	Warnings []string
}

func (r *ReconcileResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Reconcile scans the registry against the filesystem. Entries that
// lost some projects are rewritten to the survivors. When removeOrphans
// is set, entries whose projects are all gone are removed, and their
// global artifacts deleted if still unmodified since airc wrote them.
// Callers gate removeOrphans behind confirmation.
func Reconcile(ctx context.Context, store *tracking.Store, env editors.Env, removeOrphans bool) (*ReconcileResult, error) {
	log := logging.FromContext(ctx)
	result := &ReconcileResult{Rewritten: make(map[string][]string)}

	f, err := store.Load()
	if err != nil {
		return nil, err
	}
	scan := tracking.Scan(f)
	if !scan.HasWork() {
		return result, nil
	}

	var removals []string
	if removeOrphans {
		for _, key := range scan.Orphaned {
			entry := f.Entries[key]
			deleted, err := removeArtifact(env, entry, result)
			if err != nil {
				result.warnf("removing artifact for %s: %v", key, err)
			} else if deleted {
				result.DeletedArtifacts = append(result.DeletedArtifacts, key)
			}
			removals = append(removals, key)
		}
	}

	err = store.Update(func(f *tracking.File) error {
		for key, survivors := range scan.Partial {
			if entry, ok := f.Entries[key]; ok {
				entry.Projects = survivors
				result.Rewritten[key] = survivors
			}
		}
		for _, key := range removals {
			delete(f.Entries, key)
			result.RemovedEntries = append(result.RemovedEntries, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("reconciliation complete",
		"rewritten", len(result.Rewritten),
		"removed", len(result.RemovedEntries),
		"artifacts_deleted", len(result.DeletedArtifacts))
	return result, nil
}

// removeArtifact deletes the orphaned entry's global artifact, provided
// it still matches the checksum recorded at install time. A modified
// artifact is left in place with a warning; the registry entry is
// removed either way.
func removeArtifact(env editors.Env, entry *tracking.Entry, result *ReconcileResult) (bool, error) {
	ed, err := registry.Get(entry.Editor)
	if err != nil {
		result.warnf("%s: %v; leaving artifact in place", entry.Key(), err)
		return false, nil
	}

	switch entry.Type {
	case "mcp":
		strategy, ok := ed.MCP().(editors.GlobalMCP)
		if !ok {
			result.warnf("%s: editor has no global mcp config; leaving artifact in place", entry.Key())
			return false, nil
		}
		value, found, err := strategy.ReadServerValue(env, entry.Name)
		if err != nil {
			return false, err
		}
		if !found {
			return false, nil
		}
		sum, err := fingerprint(value)
		if err != nil {
			return false, err
		}
		if entry.Checksum != "" && sum != entry.Checksum {
			result.warnf("%s: server %q was modified after airc wrote it; leaving it in place", entry.Key(), entry.Name)
			return false, nil
		}
		changes, err := strategy.PlanServerRemoval(env, entry.Name)
		if err != nil {
			return false, err
		}
		for _, change := range changes {
			if err := applyChange(change); err != nil {
				return false, err
			}
		}
		return len(changes) > 0, nil

	case "prompts":
		path := entry.Path
		if path == "" {
			if global, ok := ed.Prompts().(editors.GlobalPrompts); ok {
				path = global.PromptPath(env, entry.Name)
			}
		}
		if path == "" {
			result.warnf("%s: no recorded path; leaving artifact in place", entry.Key())
			return false, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return false, nil
			}
			return false, err
		}
		if entry.Checksum != "" && tracking.Checksum(data) != entry.Checksum {
			result.warnf("%s: %s was modified after airc wrote it; leaving it in place", entry.Key(), path)
			return false, nil
		}
		if err := os.Remove(path); err != nil {
			return false, err
		}
		return true, nil

	default:
		result.warnf("%s: unknown artifact type %q; leaving artifact in place", entry.Key(), entry.Type)
		return false, nil
	}
}
