// Package zed implements the Zed editor strategies: a root-level .rules
// file and context_servers entries in .zed/settings.json.
package zed

import (
	"os"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/mcp"
)

// Editor is the Zed variant.
type Editor struct {
	rules editors.SingleFileRules
}

// New returns the Zed editor.
func New() *Editor {
	return &Editor{rules: editors.SingleFileRules{Filename: ".rules"}}
}

func (e *Editor) ID() string          { return "zed" }
func (e *Editor) DisplayName() string { return "Zed" }

func (e *Editor) Detected(env editors.Env) bool {
	for _, marker := range []string{".zed", ".rules"} {
		if _, err := os.Stat(env.ProjectPath(marker)); err == nil {
			return true
		}
	}
	return false
}

func (e *Editor) Rules() editors.RulesStrategy     { return e.rules }
func (e *Editor) MCP() editors.MCPStrategy         { return mcpStrategy{} }
func (e *Editor) Skills() editors.SkillsStrategy   { return editors.PointerSkills{} }
func (e *Editor) Prompts() editors.PromptsStrategy { return editors.NoPrompts{} }
func (e *Editor) Hooks() editors.HooksStrategy     { return editors.NoHooks{} }

// mcpStrategy merges servers into .zed/settings.json under
// context_servers. Zed wraps local servers in a command object with a
// path key; remote servers keep the generic shape.
type mcpStrategy struct{}

func (mcpStrategy) Supported() bool  { return true }
func (mcpStrategy) GlobalOnly() bool { return false }

func (mcpStrategy) Path(env editors.Env) string {
	return env.ProjectPath(".zed", "settings.json")
}

func (s mcpStrategy) Plan(env editors.Env, cfg *mcp.Config) ([]editors.FileChange, error) {
	return editors.PlanMCPDocument(s.Path(env), cfg, "context_servers", serverValue, false)
}

func serverValue(s *mcp.Server) (any, error) {
	if !s.IsLocal() {
		return editors.ServerValue(s)
	}
	command := map[string]any{"path": s.Command}
	if len(s.Args) > 0 {
		command["args"] = s.Args
	}
	if len(s.Env) > 0 {
		command["env"] = s.Env
	}
	return map[string]any{"command": command}, nil
}
