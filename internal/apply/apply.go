package apply

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/airc-dev/airc/internal/backup"
	"github.com/airc-dev/airc/internal/descriptor"
	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/logging"
	"github.com/airc-dev/airc/internal/materialize"
	"github.com/airc-dev/airc/internal/source"
	"github.com/airc-dev/airc/internal/tracking"
)

// Runner executes the pipeline for one project.
type Runner struct {
	root    string
	editors []editors.Editor
	env     editors.Env
	store   *tracking.Store
	backups *backup.Manager
	limit   int
	dryRun  bool
	force   bool
	confirm func(*Result) bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithDryRun stops the pipeline after planning.
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) {
		r.dryRun = dryRun
	}
}

// WithConcurrency bounds the materialization fan-out.
func WithConcurrency(limit int) Option {
	return func(r *Runner) {
		r.limit = limit
	}
}

// WithStore overrides the tracking store.
func WithStore(store *tracking.Store) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithEnv overrides the editor environment.
func WithEnv(env editors.Env) Option {
	return func(r *Runner) {
		r.env = env
	}
}

// WithBackups overrides the snapshot manager.
func WithBackups(mgr *backup.Manager) Option {
	return func(r *Runner) {
		r.backups = mgr
	}
}

// WithConfirm installs a callback invoked after planning when the plan
// overwrites existing files. Returning false aborts before anything is
// written. A nil callback proceeds without asking.
func WithConfirm(fn func(*Result) bool) Option {
	return func(r *Runner) {
		r.confirm = fn
	}
}

// WithForce downgrades a snapshot failure from an abort to a warning,
// so the write proceeds without the pre-overwrite safety net.
func WithForce(force bool) Option {
	return func(r *Runner) {
		r.force = force
	}
}

// NewRunner creates a runner targeting the given editors. The project
// root is stored absolute: tracking entries record it, and a relative
// path would break later liveness checks from other directories.
func NewRunner(projectRoot string, eds []editors.Editor, opts ...Option) *Runner {
	if abs, err := filepath.Abs(projectRoot); err == nil {
		projectRoot = abs
	}
	r := &Runner{
		root:    projectRoot,
		editors: eds,
		env:     editors.NewEnv(projectRoot),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.store == nil {
		r.store = tracking.NewStore()
	}
	if r.backups == nil {
		r.backups = backup.NewManager(projectRoot)
	}
	return r
}

// EditorReport is one editor's slice of the plan.
type EditorReport struct {
	// Editor is the editor's identifier.
	Editor string

	// Changes are the planned file changes, sorted.
	Changes []editors.FileChange

	// Unsupported lists hooks the editor could not express.
	Unsupported []editors.UnsupportedHook
}

// Result is the outcome of one pipeline run.
type Result struct {
	// Merged is the resolved descriptor.
	Merged *descriptor.Merged

	// EntryErrors are the isolated per-entry materialization failures.
	EntryErrors []materialize.EntryError

	// Reports holds one report per targeted editor, in targeting order.
	Reports []EditorReport

	// SnapshotID identifies the pre-overwrite snapshot, when one was
	// taken.
	SnapshotID string

	// DryRun records whether the changes were written or only planned.
	DryRun bool

	// Aborted records that the confirmation callback declined and
	// nothing was written.
	Aborted bool

	// Warnings are non-fatal problems from the write and tracking
	// phases.
	Warnings []string
}

// TotalChanges counts the planned changes across all editors.
func (r *Result) TotalChanges() int {
	n := 0
	for _, report := range r.Reports {
		n += len(report.Changes)
	}
	return n
}

// Counts tallies planned changes by action.
func (r *Result) Counts() (created, updated, deleted int) {
	for _, report := range r.Reports {
		for _, c := range report.Changes {
			switch c.Action {
			case editors.ActionCreate:
				created++
			case editors.ActionUpdate:
				updated++
			case editors.ActionDelete:
				deleted++
			}
		}
	}
	return created, updated, deleted
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Run executes the pipeline. Descriptor-level failures abort the run;
// per-entry materialization failures are carried in the result and do
// not stop sibling entries or the write phase.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	log := logging.FromContext(ctx)

	src, err := source.NewResolver(r.root)
	if err != nil {
		return nil, err
	}

	des := descriptor.NewResolver(src)
	merged, err := des.Resolve(ctx, r.root)
	if err != nil {
		return nil, err
	}

	result := &Result{Merged: merged, DryRun: r.dryRun}
	defer func() {
		if err := des.Cleanup(); err != nil {
			log.Warn("cleaning up extends downloads", "error", err)
		}
	}()

	mat := materialize.New(src, r.limit)
	defer func() {
		if err := mat.Cleanup(); err != nil {
			log.Warn("cleaning up materialized downloads", "error", err)
		}
	}()

	matRes, err := mat.Run(ctx, merged)
	if err != nil {
		return nil, err
	}
	result.EntryErrors = matRes.Errors

	for _, ed := range r.editors {
		report, err := planEditor(r.env, ed, &matRes.Model)
		if err != nil {
			return nil, errors.Wrapf(err, "planning changes for %s", ed.ID())
		}
		result.Reports = append(result.Reports, report)
	}

	if r.dryRun {
		return result, nil
	}

	if r.confirm != nil && len(result.Overwrites()) > 0 && !r.confirm(result) {
		result.Aborted = true
		return result, nil
	}

	if err := r.write(ctx, result); err != nil {
		return nil, err
	}
	r.track(ctx, result, &matRes.Model)

	log.Info("apply complete",
		"editors", len(r.editors),
		"changes", result.TotalChanges(),
		"entry_errors", len(result.EntryErrors))
	return result, nil
}
