package descriptor

import (
	"context"
	"os"
	"path/filepath"

	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/logging"
	"github.com/airc-dev/airc/internal/paths"
	"github.com/airc-dev/airc/internal/source"
)

// Resolver flattens a descriptor's extends chain into one merged
// configuration.
//
// Resolution is depth-first and strictly sequential: every ancestor is
// fully resolved before its entries merge, because later merges depend
// on earlier results. Remote ancestors are downloaded through the
// source resolver; their ephemeral downloads stay on disk until
// Cleanup runs, since the merged configuration's rebased references
// point into them.
type Resolver struct {
	src      *source.Resolver
	cleanups []func() error
}

// NewResolver creates a resolver fetching remote ancestors through src.
func NewResolver(src *source.Resolver) *Resolver {
	return &Resolver{src: src}
}

// chainNode is one step on the resolution path. id is the canonical
// identity used for cycle detection; display is what diagnostics show.
type chainNode struct {
	id      string
	display string
}

// Resolve loads the project descriptor at root, flattens its extends
// chain, and merges the local override file last.
//
// A reference reappearing on the current resolution path fails with a
// CircularError carrying the full chain. The local override may not
// itself extend: it is merged verbatim after everything else.
func (r *Resolver) Resolve(ctx context.Context, root string) (*Merged, error) {
	descPath := paths.DescriptorPath(root)
	d, err := Load(descPath)
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(descPath)
	if err != nil {
		return nil, errors.Wrap(err, "resolving descriptor path")
	}
	base := filepath.Dir(absPath)

	merged := &Merged{Root: root}
	stack := []chainNode{{id: absPath, display: descPath}}
	if err := r.resolveNode(ctx, d, base, base, stack, &merged.Descriptor); err != nil {
		return nil, err
	}

	localPath := paths.LocalOverridePath(root)
	if _, statErr := os.Stat(localPath); statErr == nil {
		override, err := Load(localPath)
		if err != nil {
			return nil, err
		}
		if len(override.Extends) > 0 {
			return nil, errors.WithCode(
				errors.Newf("%s may not extend other configurations", paths.LocalOverrideFile),
				errors.CodeConfigImmutable)
		}
		merged.Descriptor.apply(override)
		merged.HasLocalOverrides = true
		logging.FromContext(ctx).Debug("merged local overrides", "path", localPath)
	}

	merged.Extends = nil
	return merged, nil
}

// resolveNode resolves d's ancestors into `into`, then merges d's own
// entries. base is the directory d was loaded from; entries of nodes
// loaded away from projectBase are rebased so their relative references
// stay valid after merging.
func (r *Resolver) resolveNode(ctx context.Context, d *Descriptor, base, projectBase string, stack []chainNode, into *Descriptor) error {
	for i, ext := range d.Extends {
		if ext.IsDisabled() {
			return errors.WithCode(
				errors.New("false is not a valid extends entry"),
				errors.CodeConfigParse)
		}

		ref, err := source.FromValue(ext.Raw())
		if err != nil {
			return errors.Wrapf(err, "extends[%d]", i)
		}
		display := ref.String()

		file, err := r.ancestorFile(ctx, ref, base)
		if err != nil {
			return errors.Wrapf(err, "extends %q", display)
		}

		id := file
		if ref.Kind != source.KindLocal {
			id = ref.String()
		}

		for idx, node := range stack {
			if node.id != id {
				continue
			}
			chain := make([]string, 0, len(stack)-idx+1)
			for _, n := range stack[idx:] {
				chain = append(chain, n.display)
			}
			chain = append(chain, stack[idx].display)
			return newCircularError(chain)
		}

		parent, err := Load(file)
		if err != nil {
			return errors.Wrapf(err, "extends %q", display)
		}

		logging.FromContext(ctx).Debug("resolving ancestor", "ref", display, "file", file)

		next := make([]chainNode, len(stack), len(stack)+1)
		copy(next, stack)
		next = append(next, chainNode{id: id, display: display})
		if err := r.resolveNode(ctx, parent, filepath.Dir(file), projectBase, next, into); err != nil {
			return err
		}
	}

	node := d
	if base != projectBase {
		node = d.rebased(base)
	}
	into.apply(node)
	return nil
}

// ancestorFile resolves an extends reference to the descriptor file it
// names. A reference pointing at a directory means the descriptor file
// inside it. Ephemeral downloads register their cleanup with the
// resolver instead of running it here: the content is still needed for
// materialization.
func (r *Resolver) ancestorFile(ctx context.Context, ref source.Ref, base string) (string, error) {
	if ref.Kind == source.KindLocal {
		loc := filepath.FromSlash(ref.Path)
		if !filepath.IsAbs(loc) {
			loc = filepath.Join(base, loc)
		}
		info, err := os.Stat(loc)
		if err != nil {
			return "", errors.WithCode(errors.Newf("extends target not found: %s", loc), errors.CodeConfigNotFound)
		}
		if info.IsDir() {
			loc = filepath.Join(loc, paths.DescriptorFile)
		}
		return filepath.Clean(loc), nil
	}

	resolved, err := r.src.Resolve(ctx, ref, source.Options{})
	if err != nil {
		return "", err
	}
	if resolved.Cleanup != nil {
		r.cleanups = append(r.cleanups, resolved.Cleanup)
	}

	loc := resolved.Location
	if info, err := os.Stat(loc); err == nil && info.IsDir() {
		loc = filepath.Join(loc, paths.DescriptorFile)
	}
	return loc, nil
}

// Cleanup deletes the ephemeral downloads fetched while resolving the
// chain. Call it once the merged configuration has been fully consumed:
// rebased references from remote ancestors point into the downloads.
func (r *Resolver) Cleanup() error {
	var errs []error
	for _, fn := range r.cleanups {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	r.cleanups = nil
	return errors.Join(errs...)
}

// rebased returns a copy of d whose relative local references are
// anchored at base. Remote references and subpaths are untouched; they
// are location-independent.
func (d *Descriptor) rebased(base string) *Descriptor {
	return &Descriptor{
		Schema:  d.Schema,
		Skills:  rebaseEntries(d.Skills, base),
		Rules:   rebaseEntries(d.Rules, base),
		Prompts: rebaseEntries(d.Prompts, base),
		MCP:     rebaseEntries(d.MCP, base),
		Hooks:   rebaseEntries(d.Hooks, base),
	}
}

func rebaseEntries(m map[string]Entry, base string) map[string]Entry {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]Entry, len(m))
	for name, entry := range m {
		out[name] = entry.rebased(base)
	}
	return out
}

// rebased anchors a relative local reference at base. Strings only
// qualify when they use the local-path shorthand; in object form the
// path field is a subpath whenever remote fields are present, and
// subpaths never move.
func (e Entry) rebased(base string) Entry {
	switch v := e.value.(type) {
	case string:
		if source.IsLocalPath(v) && !filepath.IsAbs(v) {
			return Entry{value: filepath.Join(base, filepath.FromSlash(v))}
		}
	case map[string]any:
		p, ok := v["path"].(string)
		if !ok || filepath.IsAbs(p) {
			return e
		}
		for _, key := range []string{"git", "version", "package", "registry"} {
			if _, remote := v[key]; remote {
				return e
			}
		}
		clone := make(map[string]any, len(v))
		for k, val := range v {
			clone[k] = val
		}
		clone["path"] = filepath.Join(base, filepath.FromSlash(p))
		return Entry{value: clone}
	}
	return e
}
