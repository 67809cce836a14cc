// Package fileutil provides the file primitives airc builds on: atomic
// writes, size-capped reads, and directory copies.
package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/airc-dev/airc/internal/errors"
)

// AtomicWriteFile replaces path with data via a temp file and rename,
// so an interrupted write never leaves a half-written file behind. The
// parent directory must exist; perm applies to the final file.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) (err error) {
	// The temp file lives next to the target so the rename cannot
	// cross filesystems.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".airc-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err = tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting permissions")
	}
	// Close errors matter: some filesystems report write failures here.
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "replacing target file")
	}
	return nil
}

// AtomicWriteJSON writes v to path atomically as 2-space-indented JSON
// with a trailing newline, created 0644. The parent directory must
// exist.
func AtomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}
	data = append(data, '\n')
	return AtomicWriteFile(path, data, 0o644)
}
