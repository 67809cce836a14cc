// Package npm shells out to the npm binary for package-registry installs.
//
// Installs land in a project-scoped cache directory keyed by package name.
// Unlike git downloads the cache is persistent: installed packages stay
// until the user clears them explicitly.
package npm

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrNpmNotFound indicates the npm binary is not on PATH.
var ErrNpmNotFound = errors.New("npm binary not found")

// Install installs pkg at version under prefix and returns the installed
// package root (<prefix>/node_modules/<pkg>). A non-empty registry
// overrides the default registry URL.
//
// The install is idempotent from npm's point of view: re-installing the
// same version into the same prefix is a no-op resolve.
func Install(ctx context.Context, pkg, version, registry, prefix string) (string, error) {
	if _, err := exec.LookPath("npm"); err != nil {
		return "", ErrNpmNotFound
	}

	if err := os.MkdirAll(prefix, 0o755); err != nil {
		return "", errors.Wrap(err, "creating install prefix")
	}

	args := []string{
		"install",
		"--prefix", prefix,
		"--no-save",
		"--no-audit",
		"--no-fund",
		"--loglevel=error",
	}
	if registry != "" {
		args = append(args, "--registry", registry)
	}
	args = append(args, pkg+"@"+version)

	if err := run(ctx, args...); err != nil {
		return "", errors.Wrapf(err, "installing %s@%s", pkg, version)
	}

	root := InstalledRoot(prefix, pkg)
	if _, err := os.Stat(root); err != nil {
		return "", errors.Wrapf(err, "install of %s@%s left no package root", pkg, version)
	}
	return root, nil
}

// InstalledRoot returns where npm places pkg under prefix.
func InstalledRoot(prefix, pkg string) string {
	return filepath.Join(prefix, "node_modules", filepath.FromSlash(pkg))
}

// InstalledVersion reads the concrete version of the package installed
// at root from its manifest.
func InstalledVersion(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return "", errors.Wrap(err, "reading package manifest")
	}

	var manifest struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", errors.Wrap(err, "parsing package manifest")
	}
	if manifest.Version == "" {
		return "", errors.Newf("package manifest at %s has no version", root)
	}
	return manifest.Version, nil
}

// run executes npm non-interactively, capturing combined output for
// error context.
func run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "npm", args...)
	cmd.Env = append(os.Environ(),
		// Keep npm from blocking resolution on stdin or update chatter.
		"NPM_CONFIG_UPDATE_NOTIFIER=false",
		"CI=true",
	)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		if msg != "" {
			return errors.Wrapf(err, "npm %s: %s", args[0], msg)
		}
		return errors.Wrapf(err, "npm %s", args[0])
	}
	return nil
}
