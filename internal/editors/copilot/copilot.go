// Package copilot implements the GitHub Copilot strategies: instructions
// files under .github/instructions, prompt files under .github/prompts,
// and a .vscode/mcp.json server config.
package copilot

import (
	"bytes"
	"os"
	"strings"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/mcp"
	"github.com/airc-dev/airc/internal/model"
	"github.com/airc-dev/airc/pkg/frontmatter"
)

// applyToAll is the applyTo pattern for rules attached to every request.
const applyToAll = "**"

// Editor is the GitHub Copilot variant.
type Editor struct{}

// New returns the Copilot editor.
func New() *Editor { return &Editor{} }

func (e *Editor) ID() string          { return "copilot" }
func (e *Editor) DisplayName() string { return "GitHub Copilot" }

func (e *Editor) Detected(env editors.Env) bool {
	for _, marker := range []string{
		".github/copilot-instructions.md",
		".github/instructions",
		".vscode",
	} {
		if _, err := os.Stat(env.ProjectPath(marker)); err == nil {
			return true
		}
	}
	return false
}

func (e *Editor) Rules() editors.RulesStrategy     { return rulesStrategy{} }
func (e *Editor) MCP() editors.MCPStrategy         { return mcpStrategy{} }
func (e *Editor) Skills() editors.SkillsStrategy   { return editors.PointerSkills{} }
func (e *Editor) Prompts() editors.PromptsStrategy { return promptsStrategy{} }
func (e *Editor) Hooks() editors.HooksStrategy     { return editors.NoHooks{} }

// ruleMatter is the .instructions.md frontmatter.
type ruleMatter struct {
	ApplyTo     string `yaml:"applyTo,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// rulesStrategy writes one instructions file per rule. Copilot has no
// manual trigger; manual rules become bare markdown the user references
// explicitly.
type rulesStrategy struct{}

func (rulesStrategy) Supported() bool { return true }

func (rulesStrategy) Paths() editors.RulePaths {
	return editors.RulePaths{Dir: ".github/instructions", Extension: ".instructions.md"}
}

func (rulesStrategy) Format(r model.Rule) (string, error) {
	body := strings.TrimSpace(r.Content) + "\n"

	matter := ruleMatter{Description: r.Activation.Description}
	switch r.Activation.Mode {
	case model.ActivationAlways:
		matter.ApplyTo = applyToAll
	case model.ActivationGlob:
		matter.ApplyTo = strings.Join(r.Activation.Globs, ",")
	}
	if matter == (ruleMatter{}) {
		return body, nil
	}

	data, err := frontmatter.Format(matter, body)
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
	case matter.ApplyTo == applyToAll:
		activation.Mode = model.ActivationAlways
	case matter.ApplyTo != "":
		activation.Mode = model.ActivationGlob
		for _, g := range strings.Split(matter.ApplyTo, ",") {
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
	for _, key := range []string{"applyTo", "description"} {
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
		path := env.ProjectPath(".github", "instructions", r.Name+".instructions.md")
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

// mcpStrategy writes servers to .vscode/mcp.json under the servers key.
type mcpStrategy struct{}

func (mcpStrategy) Supported() bool  { return true }
func (mcpStrategy) GlobalOnly() bool { return false }

func (mcpStrategy) Path(env editors.Env) string {
	return env.ProjectPath(".vscode", "mcp.json")
}

func (s mcpStrategy) Plan(env editors.Env, cfg *mcp.Config) ([]editors.FileChange, error) {
	return editors.PlanMCPDocument(s.Path(env), cfg, "servers", nil, false)
}

// promptsStrategy writes one prompt file per prompt under
// .github/prompts.
type promptsStrategy struct{}

func (promptsStrategy) Supported() bool { return true }

func (promptsStrategy) Plan(env editors.Env, prompts []model.Prompt) ([]editors.FileChange, error) {
	var changes []editors.FileChange
	for _, p := range prompts {
		content, err := formatPrompt(p)
		if err != nil {
			return nil, err
		}
		path := env.ProjectPath(".github", "prompts", p.Name+".prompt.md")
		change, ok, err := editors.PlanFile(path, content, editors.CapPrompts, false)
		if err != nil {
			return nil, err
		}
		if ok {
			changes = append(changes, change)
		}
	}
	return changes, nil
}

func formatPrompt(p model.Prompt) (string, error) {
	body := strings.TrimSpace(p.Content) + "\n"
	if p.Description == "" {
		return body, nil
	}
	matter := struct {
		Description string `yaml:"description"`
	}{Description: p.Description}
	data, err := frontmatter.Format(matter, body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
