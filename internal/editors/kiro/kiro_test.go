package kiro

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/model"
)

func TestRuleRoundTrip(t *testing.T) {
	tests := []struct {
		name          string
		rule          model.Rule
		wantInclusion string
	}{
		{
			name: "always",
			rule: model.Rule{
				Name:       "base",
				Content:    "Core guidance.",
				Activation: model.Activation{Mode: model.ActivationAlways},
			},
			wantInclusion: "always",
		},
		{
			name: "glob",
			rule: model.Rule{
				Name:       "go-style",
				Content:    "Run gofmt.",
				Activation: model.Activation{Mode: model.ActivationGlob, Globs: []string{"**/*.go"}},
			},
			wantInclusion: "fileMatch",
		},
		{
			name: "auto becomes manual with description",
			rule: model.Rule{
				Name:       "db",
				Content:    "Use migrations.",
				Activation: model.Activation{Mode: model.ActivationAuto, Description: "when changing schema"},
			},
			wantInclusion: "manual",
		},
		{
			name: "manual",
			rule: model.Rule{
				Name:       "release",
				Content:    "Cut from main.",
				Activation: model.Activation{Mode: model.ActivationManual},
			},
			wantInclusion: "manual",
		},
	}

	s := rulesStrategy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := s.Format(tt.rule)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}
			if !strings.Contains(content, "inclusion: "+tt.wantInclusion) {
				t.Errorf("inclusion %q missing:\n%s", tt.wantInclusion, content)
			}
			if !s.Detect([]byte(content)) {
				t.Error("Detect() = false on formatted output")
			}

			got, err := s.Parse(tt.rule.Name, []byte(content))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if len(got) != 1 || !reflect.DeepEqual(got[0], tt.rule) {
				t.Errorf("round-trip:\ngot  %+v\nwant %+v", got, tt.rule)
			}
		})
	}
}

func TestHooksPartialSupport(t *testing.T) {
	env := editors.Env{ProjectRoot: t.TempDir(), Home: t.TempDir()}
	hooks := []model.Hook{
		{Name: "on-prompt", Event: model.EventUserPromptSubmit, Command: "Check the style guide first."},
		{Name: "guard", Event: model.EventPreToolUse, Command: "guard.sh"},
	}

	changes, unsupported, err := New().Hooks().Plan(env, hooks)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	if len(changes) != 1 {
		t.Fatalf("changes = %v, want one hook file", changes)
	}
	want := filepath.Join(env.ProjectRoot, ".kiro", "hooks", "on-prompt.kiro.hook")
	if changes[0].Path != want {
		t.Errorf("Path = %q, want %q", changes[0].Path, want)
	}

	var doc struct {
		Enabled bool   `json:"enabled"`
		Name    string `json:"name"`
		When    struct {
			Type string `json:"type"`
		} `json:"when"`
		Then struct {
			Type   string `json:"type"`
			Prompt string `json:"prompt"`
		} `json:"then"`
	}
	if err := json.Unmarshal([]byte(changes[0].Content), &doc); err != nil {
		t.Fatalf("content is not JSON: %v", err)
	}
	if !doc.Enabled || doc.When.Type != "userTriggered" || doc.Then.Type != "askAgent" {
		t.Errorf("hook file = %+v", doc)
	}
	if doc.Then.Prompt != "Check the style guide first." {
		t.Errorf("prompt = %q", doc.Then.Prompt)
	}

	if len(unsupported) != 1 || unsupported[0].Hook.Name != "guard" {
		t.Errorf("unsupported = %v, want the pre_tool_use hook", unsupported)
	}
}

func TestMCPPath(t *testing.T) {
	env := editors.Env{ProjectRoot: t.TempDir(), Home: t.TempDir()}
	want := filepath.Join(env.ProjectRoot, ".kiro", "settings", "mcp.json")
	if got := New().MCP().Path(env); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}
