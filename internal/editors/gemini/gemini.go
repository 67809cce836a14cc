// Package gemini implements the Gemini CLI strategies: GEMINI.md rules,
// TOML command files, and the user-scope settings.json MCP config.
package gemini

import (
	"os"
	"strings"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/mcp"
	"github.com/airc-dev/airc/internal/model"
)

// Editor is the Gemini CLI variant.
type Editor struct {
	rules editors.SingleFileRules
}

// New returns the Gemini editor.
func New() *Editor {
	return &Editor{rules: editors.SingleFileRules{Filename: "GEMINI.md"}}
}

func (e *Editor) ID() string          { return "gemini" }
func (e *Editor) DisplayName() string { return "Gemini CLI" }

func (e *Editor) Detected(env editors.Env) bool {
	for _, marker := range []string{".gemini", "GEMINI.md"} {
		if _, err := os.Stat(env.ProjectPath(marker)); err == nil {
			return true
		}
	}
	return false
}

func (e *Editor) Rules() editors.RulesStrategy     { return e.rules }
func (e *Editor) MCP() editors.MCPStrategy         { return mcpStrategy{} }
func (e *Editor) Skills() editors.SkillsStrategy   { return editors.PointerSkills{} }
func (e *Editor) Prompts() editors.PromptsStrategy { return promptsStrategy{} }
func (e *Editor) Hooks() editors.HooksStrategy     { return editors.NoHooks{} }

// mcpStrategy merges servers into ~/.gemini/settings.json. Gemini reads
// MCP config from user scope only.
type mcpStrategy struct{}

func (mcpStrategy) Supported() bool  { return true }
func (mcpStrategy) GlobalOnly() bool { return true }

func (mcpStrategy) Path(env editors.Env) string {
	return env.HomePath(".gemini", "settings.json")
}

func (s mcpStrategy) Plan(env editors.Env, cfg *mcp.Config) ([]editors.FileChange, error) {
	return editors.PlanMCPDocument(s.Path(env), cfg, "mcpServers", nil, true)
}

func (s mcpStrategy) ReadServerValue(env editors.Env, name string) (any, bool, error) {
	return editors.ReadJSONServerValue(s.Path(env), "mcpServers", name)
}

func (s mcpStrategy) PlanServerRemoval(env editors.Env, name string) ([]editors.FileChange, error) {
	return editors.PlanJSONServerRemoval(s.Path(env), "mcpServers", name, true)
}

// promptsStrategy writes one TOML command file per prompt under
// .gemini/commands.
type promptsStrategy struct{}

func (promptsStrategy) Supported() bool { return true }

func (promptsStrategy) Plan(env editors.Env, prompts []model.Prompt) ([]editors.FileChange, error) {
	var changes []editors.FileChange
	for _, p := range prompts {
		doc := map[string]any{"prompt": strings.TrimSpace(p.Content)}
		if p.Description != "" {
			doc["description"] = p.Description
		}
		path := env.ProjectPath(".gemini", "commands", p.Name+".toml")
		change, ok, err := editors.PlanTOMLFile(path, doc, editors.CapPrompts, false)
		if err != nil {
			return nil, err
		}
		if ok {
			changes = append(changes, change)
		}
	}
	return changes, nil
}
