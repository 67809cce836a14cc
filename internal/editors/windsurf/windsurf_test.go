package windsurf

import (
	"reflect"
	"strings"
	"testing"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/mcp"
	"github.com/airc-dev/airc/internal/model"
)

func TestRuleRoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		rule        model.Rule
		wantTrigger string
	}{
		{
			name: "always",
			rule: model.Rule{
				Name:       "base",
				Content:    "Core guidance.",
				Activation: model.Activation{Mode: model.ActivationAlways},
			},
			wantTrigger: "always_on",
		},
		{
			name: "auto",
			rule: model.Rule{
				Name:       "db",
				Content:    "Use migrations.",
				Activation: model.Activation{Mode: model.ActivationAuto, Description: "when changing schema"},
			},
			wantTrigger: "model_decision",
		},
		{
			name: "glob",
			rule: model.Rule{
				Name:       "go-style",
				Content:    "Run gofmt.",
				Activation: model.Activation{Mode: model.ActivationGlob, Globs: []string{"**/*.go", "go.mod"}},
			},
			wantTrigger: "glob",
		},
		{
			name: "manual",
			rule: model.Rule{
				Name:       "release",
				Content:    "Cut from main.",
				Activation: model.Activation{Mode: model.ActivationManual},
			},
			wantTrigger: "manual",
		},
	}

	s := rulesStrategy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := s.Format(tt.rule)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}
			if !strings.Contains(content, "trigger: "+tt.wantTrigger) {
				t.Errorf("trigger %q missing:\n%s", tt.wantTrigger, content)
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

func TestParseRejectsUnknownTrigger(t *testing.T) {
	content := "---\ntrigger: psychic\n---\nbody\n"
	if _, err := (rulesStrategy{}).Parse("x", []byte(content)); err == nil {
		t.Fatal("Parse() accepted an unknown trigger")
	}
}

func TestMCPIsGlobalOnly(t *testing.T) {
	env := editors.Env{ProjectRoot: t.TempDir(), Home: t.TempDir()}
	e := New()
	if !e.MCP().GlobalOnly() {
		t.Fatal("windsurf MCP must be global-only")
	}

	cfg := mcp.NewConfig()
	cfg.Servers["search"] = &mcp.Server{Name: "search", Command: "npx"}

	changes, err := e.MCP().Plan(env, cfg)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("changes = %v, want one", changes)
	}
	if !changes[0].Global {
		t.Error("change not marked global")
	}
	if !strings.Contains(changes[0].Path, ".codeium") {
		t.Errorf("Path = %q, want the Codeium config", changes[0].Path)
	}
	if strings.HasPrefix(changes[0].Path, env.ProjectRoot) {
		t.Error("global config placed inside the project")
	}
}

func TestCapabilityMatrix(t *testing.T) {
	e := New()
	if e.Prompts().Supported() || e.Hooks().Supported() {
		t.Error("windsurf supports neither prompts nor hooks")
	}
	if e.Skills().Native() {
		t.Error("windsurf skills must be pointer-style")
	}
}
