// Package windsurf implements the Windsurf editor strategies: trigger
// frontmatter rule files and the user-scope Codeium MCP config.
package windsurf

import (
	"bytes"
	"os"
	"strings"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/mcp"
	"github.com/airc-dev/airc/internal/model"
	"github.com/airc-dev/airc/pkg/frontmatter"
)

// Editor is the Windsurf variant.
type Editor struct{}

// New returns the Windsurf editor.
func New() *Editor { return &Editor{} }

func (e *Editor) ID() string          { return "windsurf" }
func (e *Editor) DisplayName() string { return "Windsurf" }

func (e *Editor) Detected(env editors.Env) bool {
	for _, marker := range []string{".windsurf", ".windsurfrules"} {
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

// Windsurf trigger names per activation mode.
const (
	triggerAlways = "always_on"
	triggerModel  = "model_decision"
	triggerGlob   = "glob"
	triggerManual = "manual"
)

// ruleMatter is the .windsurf/rules frontmatter.
type ruleMatter struct {
	Trigger     string `yaml:"trigger"`
	Description string `yaml:"description,omitempty"`
	Globs       string `yaml:"globs,omitempty"`
}

// rulesStrategy writes one markdown file per rule with a trigger header.
type rulesStrategy struct{}

func (rulesStrategy) Supported() bool { return true }

func (rulesStrategy) Paths() editors.RulePaths {
	return editors.RulePaths{Dir: ".windsurf/rules", Extension: ".md"}
}

func (rulesStrategy) Format(r model.Rule) (string, error) {
	matter := ruleMatter{Description: r.Activation.Description}
	switch r.Activation.Mode {
	case model.ActivationAlways:
		matter.Trigger = triggerAlways
	case model.ActivationAuto:
		matter.Trigger = triggerModel
	case model.ActivationGlob:
		matter.Trigger = triggerGlob
		matter.Globs = strings.Join(r.Activation.Globs, ",")
	case model.ActivationManual:
		matter.Trigger = triggerManual
	default:
		return "", errors.Newf("unknown activation mode %q", r.Activation.Mode)
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
	switch matter.Trigger {
	case triggerAlways, "":
		activation.Mode = model.ActivationAlways
	case triggerModel:
		activation.Mode = model.ActivationAuto
	case triggerGlob:
		activation.Mode = model.ActivationGlob
		for _, g := range strings.Split(matter.Globs, ",") {
			if g = strings.TrimSpace(g); g != "" {
				activation.Globs = append(activation.Globs, g)
			}
		}
	case triggerManual:
		activation.Mode = model.ActivationManual
	default:
		return nil, errors.Newf("unknown trigger %q", matter.Trigger)
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
	_, ok := matter["trigger"]
	return ok
}

func (s rulesStrategy) Plan(env editors.Env, rules []model.Rule) ([]editors.FileChange, error) {
	var changes []editors.FileChange
	for _, r := range rules {
		content, err := s.Format(r)
		if err != nil {
			return nil, err
		}
		path := env.ProjectPath(".windsurf", "rules", r.Name+".md")
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

// mcpStrategy writes servers to the user-scope Codeium config. Windsurf
// has no project-scope MCP file.
type mcpStrategy struct{}

func (mcpStrategy) Supported() bool  { return true }
func (mcpStrategy) GlobalOnly() bool { return true }

func (mcpStrategy) Path(env editors.Env) string {
	return env.HomePath(".codeium", "windsurf", "mcp_config.json")
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
