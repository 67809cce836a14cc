// Package cursor implements the Cursor editor strategies: .mdc rule
// files under .cursor/rules and a project-scope mcp.json.
package cursor

import (
	"bytes"
	"os"
	"strings"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/mcp"
	"github.com/airc-dev/airc/internal/model"
	"github.com/airc-dev/airc/pkg/frontmatter"
)

// Editor is the Cursor variant.
type Editor struct{}

// New returns the Cursor editor.
func New() *Editor { return &Editor{} }

func (e *Editor) ID() string          { return "cursor" }
func (e *Editor) DisplayName() string { return "Cursor" }

func (e *Editor) Detected(env editors.Env) bool {
	for _, marker := range []string{".cursor", ".cursorrules"} {
		if _, err := os.Stat(env.ProjectPath(marker)); err == nil {
			return true
		}
	}
	return false
}

func (e *Editor) Rules() editors.RulesStrategy     { return rulesStrategy{} }
func (e *Editor) MCP() editors.MCPStrategy         { return mcpStrategy{} }
func (e *Editor) Skills() editors.SkillsStrategy   { return editors.PointerSkills{} }
func (e *Editor) Prompts() editors.PromptsStrategy { return editors.NoPrompts{} }
func (e *Editor) Hooks() editors.HooksStrategy     { return editors.NoHooks{} }

// ruleMatter is the .mdc frontmatter. Cursor reads globs as a
// comma-separated string and expects alwaysApply to always be present.
type ruleMatter struct {
	Description string `yaml:"description,omitempty"`
	Globs       string `yaml:"globs,omitempty"`
	AlwaysApply bool   `yaml:"alwaysApply"`
}

// rulesStrategy writes one .mdc file per rule.
type rulesStrategy struct{}

func (rulesStrategy) Supported() bool { return true }

func (rulesStrategy) Paths() editors.RulePaths {
	return editors.RulePaths{Dir: ".cursor/rules", Extension: ".mdc"}
}

func (rulesStrategy) Format(r model.Rule) (string, error) {
	matter := ruleMatter{
		Description: r.Activation.Description,
		Globs:       strings.Join(r.Activation.Globs, ","),
		AlwaysApply: r.Activation.Mode == model.ActivationAlways,
	}
	data, err := frontmatter.Format(matter, strings.TrimSpace(r.Content)+"\n")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (rulesStrategy) Parse(name string, content []byte) ([]model.Rule, error) {
	var matter ruleMatter
	body, err := frontmatter.Parse(bytes.NewReader(content), &matter)
	if err != nil {
		return nil, err
	}

	activation := model.Activation{Description: matter.Description}
	switch {
	case matter.AlwaysApply:
		activation.Mode = model.ActivationAlways
	case matter.Globs != "":
		activation.Mode = model.ActivationGlob
		for _, g := range strings.Split(matter.Globs, ",") {
			if g = strings.TrimSpace(g); g != "" {
				activation.Globs = append(activation.Globs, g)
			}
		}
	case matter.Description != "":
		activation.Mode = model.ActivationAuto
	default:
		activation.Mode = model.ActivationManual
	}

	return []model.Rule{{
		Name:       name,
		Content:    strings.TrimSpace(string(body)),
		Activation: activation,
	}}, nil
}

func (rulesStrategy) Detect(content []byte) bool {
	var matter map[string]any
	if err := frontmatter.ParseHeader(bytes.NewReader(content), &matter); err != nil {
		return false
	}
	for _, key := range []string{"alwaysApply", "globs", "description"} {
		if _, ok := matter[key]; ok {
			return true
		}
	}
	return false
}

func (s rulesStrategy) Plan(env editors.Env, rules []model.Rule) ([]editors.FileChange, error) {
	var changes []editors.FileChange
	for _, r := range rules {
		content, err := s.Format(r)
		if err != nil {
			return nil, err
		}
		path := env.ProjectPath(".cursor", "rules", r.Name+".mdc")
		change, ok, err := editors.PlanFile(path, content, editors.CapRules, false)
		if err != nil {
			return nil, err
		}
		if ok {
			changes = append(changes, change)
		}
	}
	return changes, nil
}

// mcpStrategy writes project-scope servers to .cursor/mcp.json. The
// user-scope alternative is ~/.cursor/mcp.json.
type mcpStrategy struct{}

func (mcpStrategy) Supported() bool  { return true }
func (mcpStrategy) GlobalOnly() bool { return false }

func (mcpStrategy) Path(env editors.Env) string {
	return env.ProjectPath(".cursor", "mcp.json")
}

func (s mcpStrategy) Plan(env editors.Env, cfg *mcp.Config) ([]editors.FileChange, error) {
	return editors.PlanMCPDocument(s.Path(env), cfg, "mcpServers", nil, false)
}
