// Package source resolves descriptor references to local filesystem
// locations.
//
// A reference names content in one of three places: a path inside the
// project, a remote git repository, or a package registry. Resolution
// turns the reference into a directory or file on disk, downloading or
// installing as needed. Git downloads land in an ephemeral cache slot
// the caller must clean up; registry installs land in a persistent
// project-scoped cache keyed by package name.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/git"
	"github.com/airc-dev/airc/internal/logging"
	"github.com/airc-dev/airc/internal/npm"
	"github.com/airc-dev/airc/internal/paths"
)

// Resolved is the outcome of resolving a reference.
type Resolved struct {
	// Location is the file or directory holding the referenced content.
	Location string

	// Cleanup removes ephemeral state created during resolution. Nil
	// when resolution created nothing ephemeral. Callers must invoke it
	// once the content has been consumed, on success and failure alike.
	Cleanup func() error
}

// Options adjusts how a reference is resolved.
type Options struct {
	// Name is the descriptor entry name the reference was declared
	// under. Registry references without an explicit package field
	// install the package of this name.
	Name string

	// WantDir requires the resolved location to be a directory.
	WantDir bool
}

// Resolver resolves references for a single project root.
type Resolver struct {
	projectRoot string
}

// NewResolver creates a resolver rooted at projectRoot.
func NewResolver(projectRoot string) (*Resolver, error) {
	if projectRoot == "" {
		return nil, paths.ErrProjectRootRequired
	}
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, errors.Wrap(err, "resolving project root")
	}
	return &Resolver{projectRoot: abs}, nil
}

// Resolve materializes ref and returns its local location.
//
// Failures carry the offending reference so callers can report which
// descriptor entry broke without re-deriving it.
func (r *Resolver) Resolve(ctx context.Context, ref Ref, opts Options) (*Resolved, error) {
	log := logging.FromContext(ctx)
	log.Debug("resolving reference", "ref", ref.String(), "kind", string(ref.Kind))

	var (
		resolved *Resolved
		err      error
	)
	switch ref.Kind {
	case KindLocal:
		resolved, err = r.resolveLocal(ref, opts)
	case KindGit:
		resolved, err = r.resolveGit(ctx, ref, opts)
	case KindRegistry:
		resolved, err = r.resolveRegistry(ctx, ref, opts)
	default:
		return nil, errors.WithCode(
			errors.Newf("unsupported reference kind %q", ref.Kind),
			errors.CodeRefUnsupported)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "resolving %q", ref.String())
	}

	log.Debug("reference resolved", "ref", ref.String(), "location", resolved.Location)
	return resolved, nil
}

// resolveLocal verifies the path exists inside or relative to the
// project root. Nothing is downloaded, so there is nothing to clean up.
func (r *Resolver) resolveLocal(ref Ref, opts Options) (*Resolved, error) {
	location := filepath.FromSlash(ref.Path)
	if !filepath.IsAbs(location) {
		location = filepath.Join(r.projectRoot, location)
	}

	if err := verifyLocation(location, opts.WantDir); err != nil {
		return nil, err
	}
	return &Resolved{Location: location}, nil
}

// resolveGit downloads the repository into a deterministic cache slot,
// replacing any previous download. The returned cleanup deletes the
// slot: git content never outlives the operation that fetched it.
func (r *Resolver) resolveGit(ctx context.Context, ref Ref, opts Options) (*Resolved, error) {
	slot := filepath.Join(paths.GitCacheDir(r.projectRoot), slotName(ref))
	if err := paths.EnsureDir(filepath.Dir(slot), 0o755); err != nil {
		return nil, errors.WithCode(errors.Wrap(err, "creating git cache"), errors.CodeRefFetch)
	}

	if err := git.CloneAt(ctx, ref.Repo, ref.GitRef, slot); err != nil {
		// A partial clone must not poison the next download.
		_ = os.RemoveAll(slot)
		return nil, errors.WithCode(err, errors.CodeRefFetch)
	}

	cleanup := func() error { return os.RemoveAll(slot) }

	location, err := joinSubpath(slot, ref.Subpath)
	if err == nil {
		err = verifyLocation(location, opts.WantDir)
	}
	if err != nil {
		_ = cleanup()
		return nil, err
	}

	return &Resolved{Location: location, Cleanup: cleanup}, nil
}

// resolveRegistry locates a registry package. With a version range the
// package is installed into the persistent package cache; a cached
// install is reused without touching the network only while its
// installed version still satisfies the range. Without a version the
// package must already exist in the project's node_modules tree.
func (r *Resolver) resolveRegistry(ctx context.Context, ref Ref, opts Options) (*Resolved, error) {
	pkg := ref.Package
	if pkg == "" {
		pkg = opts.Name
	}
	if pkg == "" {
		return nil, errors.WithCode(
			errors.New("registry reference has no package name"),
			errors.CodeRefUnsupported)
	}

	var root string
	if ref.Version == "" {
		root = filepath.Join(paths.NodeModulesDir(r.projectRoot), filepath.FromSlash(pkg))
		if _, err := os.Stat(root); err != nil {
			return nil, errors.WithHintf(
				errors.WithCode(errors.Newf("package %q not found in node_modules", pkg), errors.CodeRefFetch),
				"Add a version to the reference so %s can install %q automatically", paths.AppName, pkg)
		}
	} else {
		prefix := filepath.Join(paths.PackageCacheDir(r.projectRoot), sanitizeSlot(pkg))

		// The package cache is keyed by name and kept between runs: a
		// present install wins over the network while it still
		// satisfies the requested range.
		root = npm.InstalledRoot(prefix, pkg)
		if satisfiesRange(root, ref.Version) {
			logging.FromContext(ctx).Debug("reusing cached package", "package", pkg, "range", ref.Version)
		} else {
			installed, ierr := npm.Install(ctx, pkg, ref.Version, ref.Registry, prefix)
			if ierr != nil {
				return nil, errors.WithCode(ierr, errors.CodeRefFetch)
			}
			root = installed
		}
	}

	location, err := joinSubpath(root, ref.Subpath)
	if err != nil {
		return nil, err
	}
	if err := verifyLocation(location, opts.WantDir); err != nil {
		return nil, err
	}
	return &Resolved{Location: location}, nil
}

// satisfiesRange reports whether the install at root carries a version
// inside rng. Installs whose version cannot be determined do not
// satisfy: reinstalling beats serving a package of unknown vintage.
func satisfiesRange(root, rng string) bool {
	installed, err := npm.InstalledVersion(root)
	if err != nil {
		return false
	}
	constraint, err := semver.NewConstraint(rng)
	if err != nil {
		return false
	}
	version, err := semver.NewVersion(installed)
	if err != nil {
		return false
	}
	return constraint.Check(version)
}

// verifyLocation checks the resolved path exists and matches the
// expected filesystem type.
func verifyLocation(location string, wantDir bool) error {
	info, err := os.Stat(location)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.WithCode(errors.Newf("%s does not exist", location), errors.CodeRefFetch)
		}
		return errors.WithCode(errors.Wrapf(err, "inspecting %s", location), errors.CodeRefFetch)
	}
	if wantDir && !info.IsDir() {
		return errors.WithCode(errors.Newf("%s is a file, expected a directory", location), errors.CodeRefFetch)
	}
	return nil
}

// joinSubpath appends a slash-separated subpath to root, rejecting
// segments that would escape it.
func joinSubpath(root, subpath string) (string, error) {
	if subpath == "" {
		return root, nil
	}
	joined := filepath.Join(root, filepath.FromSlash(subpath))
	if joined != root && !strings.HasPrefix(joined, root+string(filepath.Separator)) {
		return "", errors.WithCode(
			errors.Newf("subpath %q escapes the downloaded tree", subpath),
			errors.CodeRefUnsupported)
	}
	return joined, nil
}

// slotChars matches characters that need replacing in cache slot names.
var slotChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// slotName builds the deterministic cache slot for a git reference:
// a readable repo+ref prefix plus a short hash of the full reference
// string, so distinct references never share a slot even when the
// readable prefix collides.
func slotName(ref Ref) string {
	gitRef := ref.GitRef
	if gitRef == "" {
		gitRef = "HEAD"
	}
	readable := sanitizeSlot(repoIdentity(ref.Repo) + "-" + gitRef)

	sum := sha256.Sum256([]byte(ref.String()))
	return readable + "-" + hex.EncodeToString(sum[:])[:8]
}

// repoIdentity reduces a clone URL to its host-and-path core.
func repoIdentity(repo string) string {
	if i := strings.Index(repo, "://"); i != -1 {
		repo = repo[i+3:]
	}
	repo = strings.TrimPrefix(repo, "git@")
	repo = strings.TrimSuffix(repo, ".git")
	return repo
}

// sanitizeSlot makes s safe as a single path segment, capped so slot
// names stay manageable.
func sanitizeSlot(s string) string {
	s = slotChars.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-.")
	const maxLen = 64
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	if s == "" {
		s = "ref"
	}
	return s
}
