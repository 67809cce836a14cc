// Package materialize turns a merged descriptor into concrete content.
//
// Each active entry's reference is resolved through the source
// resolver, its content parsed (frontmatter + body) and validated, and
// template variables interpolated. Entries are independent, so they
// materialize under a bounded fan-out; one failing entry is reported
// and isolated while its siblings proceed.
package materialize

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/airc-dev/airc/internal/descriptor"
	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/logging"
	"github.com/airc-dev/airc/internal/mcp"
	"github.com/airc-dev/airc/internal/model"
	"github.com/airc-dev/airc/internal/source"
	"github.com/airc-dev/airc/pkg/fanout"
)

// namePattern constrains entry names that become file names on disk.
var namePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Model is the fully materialized configuration handed to editor
// strategies. Slices are sorted by name for deterministic output.
type Model struct {
	Skills  []model.Skill
	Rules   []model.Rule
	Prompts []model.Prompt
	MCP     *mcp.Config
	Hooks   []model.Hook
}

// EntryError records one entry that failed to materialize.
type EntryError struct {
	// Capability is the descriptor map the entry came from.
	Capability string

	// Name is the entry's key within that map.
	Name string

	Err error
}

func (e EntryError) Error() string {
	return fmt.Sprintf("%s/%s: %v", e.Capability, e.Name, e.Err)
}

// Result carries the materialized model plus the isolated per-entry
// failures. A non-empty Errors list does not invalidate Model: sibling
// entries still materialized.
type Result struct {
	Model  Model
	Errors []EntryError
}

// Materializer resolves and parses descriptor entries.
type Materializer struct {
	resolver *source.Resolver
	limit    int

	mu       sync.Mutex
	cleanups []func() error
}

// New creates a materializer. limit bounds the resolution fan-out; zero
// falls back to the package default.
func New(resolver *source.Resolver, limit int) *Materializer {
	return &Materializer{resolver: resolver, limit: limit}
}

// Run materializes every active entry of merged. Disabled entries never
// reach resolution. The returned error is non-nil only when the context
// was cancelled; per-entry failures live in Result.Errors.
//
// Materialized skill trees may live in ephemeral download slots: the
// model is only valid until Cleanup runs.
func (m *Materializer) Run(ctx context.Context, merged *descriptor.Merged) (*Result, error) {
	vars := Vars(merged.Root)
	res := &Result{}

	res.Model.Skills = runBatch(ctx, m, "skills", merged.Skills, &res.Errors,
		func(ctx context.Context, t task) (model.Skill, error) {
			return m.materializeSkill(ctx, t, vars)
		})
	sort.Slice(res.Model.Skills, func(i, j int) bool { return res.Model.Skills[i].Name < res.Model.Skills[j].Name })

	res.Model.Rules = runBatch(ctx, m, "rules", merged.Rules, &res.Errors,
		func(ctx context.Context, t task) (model.Rule, error) {
			return m.materializeRule(ctx, t, vars)
		})
	sort.Slice(res.Model.Rules, func(i, j int) bool { return res.Model.Rules[i].Name < res.Model.Rules[j].Name })

	res.Model.Prompts = runBatch(ctx, m, "prompts", merged.Prompts, &res.Errors,
		func(ctx context.Context, t task) (model.Prompt, error) {
			return m.materializePrompt(ctx, t, vars)
		})
	sort.Slice(res.Model.Prompts, func(i, j int) bool { return res.Model.Prompts[i].Name < res.Model.Prompts[j].Name })

	servers := runBatch(ctx, m, "mcp", merged.MCP, &res.Errors,
		func(ctx context.Context, t task) (*mcp.Server, error) {
			return m.materializeServer(ctx, t, vars)
		})
	res.Model.MCP = mcp.NewConfig()
	for _, s := range servers {
		res.Model.MCP.Servers[s.Name] = s
	}

	res.Model.Hooks = runBatch(ctx, m, "hooks", merged.Hooks, &res.Errors,
		func(ctx context.Context, t task) (model.Hook, error) {
			return m.materializeHook(ctx, t, vars)
		})
	sort.Slice(res.Model.Hooks, func(i, j int) bool { return res.Model.Hooks[i].Name < res.Model.Hooks[j].Name })

	if err := ctx.Err(); err != nil {
		return res, err
	}

	if len(res.Errors) > 0 {
		log := logging.FromContext(ctx)
		for _, entryErr := range res.Errors {
			log.Warn("entry failed to materialize",
				"capability", entryErr.Capability, "name", entryErr.Name, "error", entryErr.Err)
		}
	}
	return res, nil
}

// Cleanup deletes ephemeral downloads fetched during materialization.
// Call once the model's content has been fully consumed.
func (m *Materializer) Cleanup() error {
	m.mu.Lock()
	cleanups := m.cleanups
	m.cleanups = nil
	m.mu.Unlock()

	var errs []error
	for _, fn := range cleanups {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Materializer) addCleanup(fn func() error) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanups = append(m.cleanups, fn)
}

// task is one (name, entry) pair queued for materialization.
type task struct {
	name  string
	entry descriptor.Entry
}

// runBatch fans one capability's active entries out to fn, folding
// failures into errs keyed by entry name. Results keep name order.
func runBatch[R any](ctx context.Context, m *Materializer, capability string, entries map[string]descriptor.Entry, errs *[]EntryError, fn func(context.Context, task) (R, error)) []R {
	active := descriptor.Active(entries)
	if len(active) == 0 {
		return nil
	}

	tasks := make([]task, 0, len(active))
	for name, entry := range active {
		tasks = append(tasks, task{name: name, entry: entry})
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].name < tasks[j].name })

	results := fanout.Map(ctx, tasks, m.limit, fn)

	out := make([]R, 0, len(results))
	for i, r := range results {
		if r.Err != nil {
			*errs = append(*errs, EntryError{Capability: capability, Name: tasks[i].name, Err: r.Err})
			continue
		}
		out = append(out, r.Value)
	}
	return out
}

// resolveRef resolves an entry's reference, registering any cleanup.
func (m *Materializer) resolveRef(ctx context.Context, t task, wantDir bool) (source.Ref, string, error) {
	ref, err := source.FromValue(t.entry.Raw())
	if err != nil {
		return source.Ref{}, "", err
	}

	resolved, err := m.resolver.Resolve(ctx, ref, source.Options{Name: t.name, WantDir: wantDir})
	if err != nil {
		return source.Ref{}, "", err
	}
	m.addCleanup(resolved.Cleanup)
	return ref, resolved.Location, nil
}

// validateEntryName rejects names that cannot become safe file names.
func validateEntryName(name string) error {
	if !namePattern.MatchString(name) {
		return errors.Newf("invalid name %q: must be lowercase alphanumeric with single hyphens between segments", name)
	}
	return nil
}
