// Package codex implements the Codex CLI strategies: AGENTS.md rules,
// user-scope prompts, and mcp_servers tables in ~/.codex/config.toml.
package codex

import (
	"os"
	"strings"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/mcp"
	"github.com/airc-dev/airc/internal/model"
)

// Editor is the Codex variant.
type Editor struct {
	rules editors.SingleFileRules
}

// New returns the Codex editor.
func New() *Editor {
	return &Editor{rules: editors.SingleFileRules{Filename: "AGENTS.md"}}
}

func (e *Editor) ID() string          { return "codex" }
func (e *Editor) DisplayName() string { return "Codex" }

func (e *Editor) Detected(env editors.Env) bool {
	if _, err := os.Stat(env.ProjectPath("AGENTS.md")); err == nil {
		return true
	}
	_, err := os.Stat(env.HomePath(".codex"))
	return err == nil
}

func (e *Editor) Rules() editors.RulesStrategy     { return e.rules }
func (e *Editor) MCP() editors.MCPStrategy         { return mcpStrategy{} }
func (e *Editor) Skills() editors.SkillsStrategy   { return editors.PointerSkills{} }
func (e *Editor) Prompts() editors.PromptsStrategy { return promptsStrategy{} }
func (e *Editor) Hooks() editors.HooksStrategy     { return editors.NoHooks{} }

// mcpStrategy merges servers into ~/.codex/config.toml as
// [mcp_servers.<name>] tables. Codex has no project-scope config.
type mcpStrategy struct{}

func (mcpStrategy) Supported() bool  { return true }
func (mcpStrategy) GlobalOnly() bool { return true }

func (mcpStrategy) Path(env editors.Env) string {
	return env.HomePath(".codex", "config.toml")
}

func (s mcpStrategy) Plan(env editors.Env, cfg *mcp.Config) ([]editors.FileChange, error) {
	if cfg == nil || len(cfg.Servers) == 0 {
		return nil, nil
	}

	path := s.Path(env)
	doc, err := editors.ReadTOMLFile(path)
	if err != nil {
		return nil, err
	}

	section, _ := doc["mcp_servers"].(map[string]any)
	if section == nil {
		section = map[string]any{}
	}
	for _, server := range cfg.Active() {
		section[server.Name] = serverTable(server)
	}
	doc["mcp_servers"] = section

	change, ok, err := editors.PlanTOMLFile(path, doc, editors.CapMCP, true)
	if err != nil || !ok {
		return nil, err
	}
	return []editors.FileChange{change}, nil
}

func (s mcpStrategy) ReadServerValue(env editors.Env, name string) (any, bool, error) {
	doc, err := editors.ReadTOMLFile(s.Path(env))
	if err != nil {
		return nil, false, err
	}
	section, _ := doc["mcp_servers"].(map[string]any)
	value, ok := section[name]
	return value, ok, nil
}

func (s mcpStrategy) PlanServerRemoval(env editors.Env, name string) ([]editors.FileChange, error) {
	path := s.Path(env)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}

	doc, err := editors.ReadTOMLFile(path)
	if err != nil {
		return nil, err
	}
	section, _ := doc["mcp_servers"].(map[string]any)
	if _, ok := section[name]; !ok {
		return nil, nil
	}
	delete(section, name)
	doc["mcp_servers"] = section

	change, ok, err := editors.PlanTOMLFile(path, doc, editors.CapMCP, true)
	if err != nil || !ok {
		return nil, err
	}
	return []editors.FileChange{change}, nil
}

func serverTable(s *mcp.Server) map[string]any {
	table := map[string]any{}
	if s.Command != "" {
		table["command"] = s.Command
	}
	if len(s.Args) > 0 {
		table["args"] = s.Args
	}
	if s.URL != "" {
		table["url"] = s.URL
	}
	if len(s.Env) > 0 {
		table["env"] = s.Env
	}
	return table
}

// promptsStrategy writes one markdown prompt per file under the
// user-scope ~/.codex/prompts directory. Codex reads plain markdown, so
// the description is not representable and only the body is written.
type promptsStrategy struct{}

func (promptsStrategy) Supported() bool { return true }

func (promptsStrategy) PromptPath(env editors.Env, name string) string {
	return env.HomePath(".codex", "prompts", name+".md")
}

func (s promptsStrategy) Plan(env editors.Env, prompts []model.Prompt) ([]editors.FileChange, error) {
	var changes []editors.FileChange
	for _, p := range prompts {
		change, ok, err := editors.PlanFile(s.PromptPath(env, p.Name), strings.TrimSpace(p.Content)+"\n", editors.CapPrompts, true)
		if err != nil {
			return nil, err
		}
		if ok {
			changes = append(changes, change)
		}
	}
	return changes, nil
}
