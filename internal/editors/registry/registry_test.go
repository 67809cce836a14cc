package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/errors"
)

func TestAllEditorsHaveCompleteStrategies(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range All() {
		if e.ID() == "" || e.DisplayName() == "" {
			t.Errorf("editor %T has empty identity", e)
		}
		if seen[e.ID()] {
			t.Errorf("duplicate editor id %q", e.ID())
		}
		seen[e.ID()] = true

		// Every editor carries a strategy per capability, supported or not.
		if e.Rules() == nil || e.MCP() == nil || e.Skills() == nil || e.Prompts() == nil || e.Hooks() == nil {
			t.Errorf("editor %s is missing a strategy", e.ID())
		}
		if !e.Rules().Supported() {
			t.Errorf("editor %s must support rules", e.ID())
		}
		if !e.MCP().Supported() {
			t.Errorf("editor %s must support mcp", e.ID())
		}
		if !e.Skills().Supported() {
			t.Errorf("editor %s must support skills", e.ID())
		}
	}
	if len(seen) != 8 {
		t.Errorf("editor count = %d, want 8", len(seen))
	}
}

func TestGet(t *testing.T) {
	e, err := Get("cursor")
	if err != nil {
		t.Fatalf("Get(cursor) error: %v", err)
	}
	if e.ID() != "cursor" {
		t.Errorf("ID = %q", e.ID())
	}

	_, err = Get("emacs")
	if err == nil {
		t.Fatal("Get(emacs) succeeded")
	}
	if hints := errors.FlattenHints(err); !strings.Contains(hints, "claude-code") {
		t.Errorf("hint %q does not list supported editors", hints)
	}
}

func TestResolveDeduplicates(t *testing.T) {
	got, err := Resolve([]string{"zed", "cursor", "zed"})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(got) != 2 || got[0].ID() != "zed" || got[1].ID() != "cursor" {
		t.Errorf("Resolve() = %v", got)
	}
}

func TestDetect(t *testing.T) {
	env := editors.Env{ProjectRoot: t.TempDir(), Home: t.TempDir()}
	if detected := Detect(env); len(detected) != 0 {
		t.Fatalf("Detect() = %v in empty project", detected)
	}

	if err := os.MkdirAll(filepath.Join(env.ProjectRoot, ".cursor"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(env.ProjectRoot, ".kiro"), 0o755); err != nil {
		t.Fatal(err)
	}

	detected := Detect(env)
	ids := make([]string, len(detected))
	for i, e := range detected {
		ids[i] = e.ID()
	}
	if len(ids) != 2 || ids[0] != "cursor" || ids[1] != "kiro" {
		t.Errorf("Detect() = %v, want [cursor kiro]", ids)
	}
}
