package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/airc-dev/airc/internal/editors/registry"
)

func TestRunEditors_ListsEveryEditor(t *testing.T) {
	withProject(t)
	t.Setenv("HOME", t.TempDir())

	var buf bytes.Buffer
	if err := runEditorsWithWriter(&buf); err != nil {
		t.Fatalf("runEditorsWithWriter: %v", err)
	}

	got := buf.String()
	for _, id := range registry.IDs() {
		if !strings.Contains(got, id) {
			t.Errorf("output missing editor %q:\n%s", id, got)
		}
	}
}

func TestRunEditors_CapabilityColumns(t *testing.T) {
	withProject(t)
	t.Setenv("HOME", t.TempDir())

	var buf bytes.Buffer
	if err := runEditorsWithWriter(&buf); err != nil {
		t.Fatalf("runEditorsWithWriter: %v", err)
	}

	got := buf.String()
	// The matrix distinguishes native skill directories from pointer
	// rules, and project MCP files from user-wide ones.
	for _, want := range []string{"native", "pointer", "project", "user"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing capability marker %q:\n%s", want, got)
		}
	}
}
