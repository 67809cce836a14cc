package copilot

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/mcp"
	"github.com/airc-dev/airc/internal/model"
)

func TestRuleRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rule model.Rule
	}{
		{
			name: "always",
			rule: model.Rule{
				Name:       "base",
				Content:    "Core guidance.",
				Activation: model.Activation{Mode: model.ActivationAlways},
			},
		},
		{
			name: "auto",
			rule: model.Rule{
				Name:       "db",
				Content:    "Use migrations.",
				Activation: model.Activation{Mode: model.ActivationAuto, Description: "when changing schema"},
			},
		},
		{
			name: "glob",
			rule: model.Rule{
				Name:       "go-style",
				Content:    "Run gofmt.",
				Activation: model.Activation{Mode: model.ActivationGlob, Globs: []string{"**/*.go", "go.mod"}},
			},
		},
		{
			name: "manual",
			rule: model.Rule{
				Name:       "release",
				Content:    "Cut from main.",
				Activation: model.Activation{Mode: model.ActivationManual},
			},
		},
	}

	s := rulesStrategy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := s.Format(tt.rule)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
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

func TestFormatAlwaysUsesApplyToAll(t *testing.T) {
	content, err := rulesStrategy{}.Format(model.Rule{
		Name:       "x",
		Content:    "c",
		Activation: model.Activation{Mode: model.ActivationAlways},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(content, `applyTo: "**"`) && !strings.Contains(content, "applyTo: '**'") {
		t.Errorf("applyTo missing:\n%s", content)
	}
}

func TestManualRuleHasNoFrontmatter(t *testing.T) {
	content, err := rulesStrategy{}.Format(model.Rule{
		Name:       "x",
		Content:    "Reference me explicitly.",
		Activation: model.Activation{Mode: model.ActivationManual},
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(content, "---") {
		t.Errorf("manual rule grew frontmatter:\n%s", content)
	}
}

func TestRulePaths(t *testing.T) {
	paths := (rulesStrategy{}).Paths()
	if paths.Dir != ".github/instructions" || paths.Extension != ".instructions.md" {
		t.Errorf("Paths() = %+v", paths)
	}
}

func TestMCPUsesServersKey(t *testing.T) {
	env := editors.Env{ProjectRoot: t.TempDir(), Home: t.TempDir()}
	cfg := mcp.NewConfig()
	cfg.Servers["search"] = &mcp.Server{Name: "search", Command: "npx"}

	changes, err := New().MCP().Plan(env, cfg)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("changes = %v, want one", changes)
	}
	if changes[0].Path != filepath.Join(env.ProjectRoot, ".vscode", "mcp.json") {
		t.Errorf("Path = %q", changes[0].Path)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(changes[0].Content), &doc); err != nil {
		t.Fatalf("content is not JSON: %v", err)
	}
	if _, ok := doc["servers"]; !ok {
		t.Errorf("servers key missing: %v", doc)
	}
	if _, ok := doc["mcpServers"]; ok {
		t.Error("copilot must use servers, not mcpServers")
	}
}

func TestPromptFileNaming(t *testing.T) {
	env := editors.Env{ProjectRoot: t.TempDir(), Home: t.TempDir()}
	prompts := []model.Prompt{{Name: "review", Description: "Reviews diffs", Content: "Review."}}

	changes, err := New().Prompts().Plan(env, prompts)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("changes = %v, want one", changes)
	}
	want := filepath.Join(env.ProjectRoot, ".github", "prompts", "review.prompt.md")
	if changes[0].Path != want {
		t.Errorf("Path = %q, want %q", changes[0].Path, want)
	}
	if !strings.Contains(changes[0].Content, "description: Reviews diffs") {
		t.Errorf("description missing:\n%s", changes[0].Content)
	}
}
