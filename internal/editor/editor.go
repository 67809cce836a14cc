// Package editor launches the user's preferred text editor.
package editor

import (
	"os"
	"os/exec"

	"github.com/airc-dev/airc/internal/errors"
)

// Open launches the user's editor on path and waits for it to exit.
// The terminal is handed to the editor for the duration.
func Open(path string) error {
	name := detect()

	cmd := exec.Command(name, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return errors.Wrapf(cmd.Run(), "running %s", name)
}

// detect picks the editor command: $EDITOR, then $VISUAL, then nano
// when installed, then vi.
func detect() string {
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	if v := os.Getenv("VISUAL"); v != "" {
		return v
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
