// Package git shells out to the git binary for reference downloads.
//
// airc never keeps git working copies: every download lands in an
// ephemeral cache slot that the source resolver deletes once the
// consuming operation finishes.
package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrGitNotFound indicates the git binary is not on PATH.
var ErrGitNotFound = errors.New("git binary not found")

// IsURL reports whether s looks like a git repository URL:
// anything with a scheme, a .git suffix, or an SSH-style git@ prefix.
func IsURL(s string) bool {
	if strings.Contains(s, "://") {
		return true
	}
	if strings.HasSuffix(s, ".git") {
		return true
	}
	return strings.HasPrefix(s, "git@")
}

// CloneAt downloads url at ref into dest, replacing anything already
// there. An empty ref means the remote HEAD. The download is shallow
// when possible; a ref that is not a branch or tag (a commit sha) falls
// back to a full clone plus checkout.
//
// Output is captured, not streamed: a failure carries git's stderr.
// Interactive credential prompts are disabled so a missing credential
// fails fast instead of hanging the resolution.
func CloneAt(ctx context.Context, url, ref, dest string) error {
	// A ref that looks like an option would be parsed by git instead
	// of checked out; there is no safe way to pass it through.
	if strings.HasPrefix(ref, "-") {
		return errors.Newf("invalid git ref %q", ref)
	}

	if _, err := exec.LookPath("git"); err != nil {
		return ErrGitNotFound
	}

	// Force-replace: downloads are never incrementally updated.
	if err := os.RemoveAll(dest); err != nil {
		return errors.Wrap(err, "clearing download slot")
	}

	args := []string{"clone", "--depth=1", "--quiet"}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	// The separator keeps a hostile URL from being read as an option.
	args = append(args, "--", url, dest)

	if err := run(ctx, "", args...); err != nil {
		if ref == "" {
			return errors.Wrapf(err, "cloning %s", url)
		}
		// --branch only accepts branches and tags; retry with a full
		// clone and checkout for commit shas.
		if shaErr := cloneAtSha(ctx, url, ref, dest); shaErr != nil {
			return errors.Wrapf(shaErr, "cloning %s at %s", url, ref)
		}
	}

	return nil
}

func cloneAtSha(ctx context.Context, url, ref, dest string) error {
	if err := os.RemoveAll(dest); err != nil {
		return errors.Wrap(err, "clearing download slot")
	}
	if err := run(ctx, "", "clone", "--quiet", "--", url, dest); err != nil {
		return err
	}
	return run(ctx, dest, "checkout", "--quiet", ref)
}

// run executes git with prompts disabled, capturing combined output for
// error context. A non-empty dir runs the command inside that directory.
func run(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Env = append(os.Environ(),
		"GIT_TERMINAL_PROMPT=0",
		"GIT_ASKPASS=echo",
	)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		if msg != "" {
			return errors.Wrapf(err, "git %s: %s", args[0], msg)
		}
		return errors.Wrapf(err, "git %s", args[0])
	}
	return nil
}
