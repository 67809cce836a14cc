package source

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/git"
)

// Kind identifies where a reference's content lives.
type Kind string

const (
	// KindLocal is a path inside (or relative to) the project.
	KindLocal Kind = "local"

	// KindGit is a remote git repository, optionally pinned to a ref.
	KindGit Kind = "git"

	// KindRegistry is a package-registry entry, optionally pinned to a
	// version range.
	KindRegistry Kind = "registry"
)

// Ref is a parsed source reference. Immutable once parsed; the zero
// value is not a valid reference.
type Ref struct {
	// Kind selects which of the remaining fields apply.
	Kind Kind

	// Path is the local path (KindLocal).
	Path string

	// Repo is the clone URL (KindGit).
	Repo string

	// GitRef is the pinned branch, tag, or commit. Empty means the
	// remote HEAD (KindGit).
	GitRef string

	// Subpath points inside the downloaded tree or installed package
	// (KindGit, KindRegistry).
	Subpath string

	// Package is the registry package name. Empty means the entry name
	// the reference was declared under (KindRegistry).
	Package string

	// Version is the semver range to install. Empty means the package
	// must already be present in the project's package tree (KindRegistry).
	Version string

	// Registry overrides the default registry URL (KindRegistry).
	Registry string

	raw string
}

// String returns the reference in canonical string form. Two references
// with the same String are the same logical reference; the resolver's
// cache keys and the extends resolver's cycle detection both build on
// this identity.
func (r Ref) String() string {
	if r.raw != "" {
		return r.raw
	}

	switch r.Kind {
	case KindLocal:
		return r.Path
	case KindGit:
		s := r.Repo
		if r.GitRef != "" {
			s += "#" + r.GitRef
		}
		if r.Subpath != "" {
			if r.GitRef == "" {
				s += "#HEAD"
			}
			s += "/" + r.Subpath
		}
		return s
	case KindRegistry:
		s := r.Package
		if r.Version != "" {
			if s != "" {
				s += "@"
			}
			s += r.Version
		}
		if r.Registry != "" {
			s += " (" + r.Registry + ")"
		}
		return s
	}
	return ""
}

// IsLocalPath reports whether s uses the local-path shorthand: a
// relative path starting with ./ or ../, or an absolute path.
func IsLocalPath(s string) bool {
	return strings.HasPrefix(s, "./") ||
		strings.HasPrefix(s, "../") ||
		strings.HasPrefix(s, "/")
}

// Parse interprets the string shorthand grammar:
//
//	./relative/path or /abs/path        local
//	github:org/repo#ref/optional/sub    git (shorthand)
//	https://host/org/repo.git#ref       git (full URL)
//	^1.2.0, ~2.x, 1.0.0 ...             registry version range
//
// Anything else fails with a ref_unsupported code.
func Parse(s string) (Ref, error) {
	if s == "" {
		return Ref{}, errors.WithCode(errors.New("empty source reference"), errors.CodeRefUnsupported)
	}

	if IsLocalPath(s) {
		return Ref{Kind: KindLocal, Path: s, raw: s}, nil
	}

	if after, ok := strings.CutPrefix(s, "github:"); ok {
		ref, err := parseGitHubShorthand(after)
		if err != nil {
			return Ref{}, errors.WithCode(errors.Wrapf(err, "parsing %q", s), errors.CodeRefUnsupported)
		}
		ref.raw = s
		return ref, nil
	}

	if git.IsURL(s) {
		ref := parseGitURL(s)
		ref.raw = s
		return ref, nil
	}

	if _, err := semver.NewConstraint(s); err == nil {
		return Ref{Kind: KindRegistry, Version: s, raw: s}, nil
	}

	return Ref{}, errors.WithCode(
		errors.Newf("unsupported source reference %q (expected ./path, github:org/repo, a git URL, or a semver range)", s),
		errors.CodeRefUnsupported)
}

// parseGitHubShorthand parses "org/repo[/sub...][#ref[/sub...]]".
// Subpath segments may sit before the #, after the ref, or both.
func parseGitHubShorthand(s string) (Ref, error) {
	spec, frag, _ := strings.Cut(s, "#")

	segments := splitPath(spec)
	if len(segments) < 2 {
		return Ref{}, errors.New("github shorthand needs org/repo")
	}
	org, repo := segments[0], segments[1]
	if org == "" || repo == "" {
		return Ref{}, errors.New("github shorthand needs org/repo")
	}
	sub := segments[2:]

	var gitRef string
	if frag != "" {
		fragSegments := splitPath(frag)
		gitRef = fragSegments[0]
		sub = append(sub, fragSegments[1:]...)
	}

	return Ref{
		Kind:    KindGit,
		Repo:    fmt.Sprintf("https://github.com/%s/%s.git", org, repo),
		GitRef:  gitRef,
		Subpath: strings.Join(sub, "/"),
	}, nil
}

// parseGitURL parses a full git URL with an optional "#ref[/sub...]"
// fragment.
func parseGitURL(s string) Ref {
	repo, frag, _ := strings.Cut(s, "#")

	ref := Ref{Kind: KindGit, Repo: repo}
	if frag != "" {
		fragSegments := splitPath(frag)
		ref.GitRef = fragSegments[0]
		ref.Subpath = strings.Join(fragSegments[1:], "/")
	}
	return ref
}

// splitPath splits on "/" dropping empty segments.
func splitPath(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "/") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FromObject interprets the explicit object form of a reference:
//
//	{"path": "./x"}                                  local
//	{"git": "<url>", "ref": "...", "path": "sub"}    git; path is a subpath
//	{"version": "^1.0", "registry": "...", "package": "...", "path": "sub"}
//
// The registry form with no version means "must already be installed".
func FromObject(obj map[string]any) (Ref, error) {
	str := func(key string) (string, error) {
		v, ok := obj[key]
		if !ok {
			return "", nil
		}
		s, ok := v.(string)
		if !ok {
			return "", errors.Newf("field %q must be a string, got %T", key, v)
		}
		return s, nil
	}

	gitURL, err := str("git")
	if err != nil {
		return Ref{}, errors.WithCode(err, errors.CodeRefUnsupported)
	}
	version, err := str("version")
	if err != nil {
		return Ref{}, errors.WithCode(err, errors.CodeRefUnsupported)
	}
	registry, err := str("registry")
	if err != nil {
		return Ref{}, errors.WithCode(err, errors.CodeRefUnsupported)
	}
	pkg, err := str("package")
	if err != nil {
		return Ref{}, errors.WithCode(err, errors.CodeRefUnsupported)
	}
	path, err := str("path")
	if err != nil {
		return Ref{}, errors.WithCode(err, errors.CodeRefUnsupported)
	}
	gitRef, err := str("ref")
	if err != nil {
		return Ref{}, errors.WithCode(err, errors.CodeRefUnsupported)
	}

	switch {
	case gitURL != "":
		if version != "" || registry != "" || pkg != "" {
			return Ref{}, errors.WithCode(
				errors.New("git and registry fields are mutually exclusive in a source reference"),
				errors.CodeRefUnsupported)
		}
		return Ref{Kind: KindGit, Repo: gitURL, GitRef: gitRef, Subpath: strings.Trim(path, "/")}, nil

	case version != "" || registry != "" || pkg != "":
		if version != "" {
			if _, cerr := semver.NewConstraint(version); cerr != nil {
				return Ref{}, errors.WithCode(
					errors.Wrapf(cerr, "invalid version range %q", version),
					errors.CodeRefUnsupported)
			}
		}
		return Ref{
			Kind:     KindRegistry,
			Package:  pkg,
			Version:  version,
			Registry: registry,
			Subpath:  strings.Trim(path, "/"),
		}, nil

	case path != "":
		return Ref{Kind: KindLocal, Path: path}, nil
	}

	return Ref{}, errors.WithCode(
		errors.New("source reference object needs a path, git, or version field"),
		errors.CodeRefUnsupported)
}

// FromValue interprets a descriptor entry value as a reference: a
// string uses the shorthand grammar, a map the object form.
func FromValue(value any) (Ref, error) {
	switch v := value.(type) {
	case string:
		return Parse(v)
	case map[string]any:
		return FromObject(v)
	}
	return Ref{}, errors.WithCode(
		errors.Newf("source reference must be a string or object, got %T", value),
		errors.CodeRefUnsupported)
}
