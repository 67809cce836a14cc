// Package kiro implements the Kiro editor strategies: steering files
// with inclusion frontmatter, a project-scope MCP config, and
// user-triggered agent hooks.
package kiro

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

// Kiro inclusion values.
const (
	inclusionAlways    = "always"
	inclusionFileMatch = "fileMatch"
	inclusionManual    = "manual"
)

// Editor is the Kiro variant.
type Editor struct{}

// New returns the Kiro editor.
func New() *Editor { return &Editor{} }

func (e *Editor) ID() string          { return "kiro" }
func (e *Editor) DisplayName() string { return "Kiro" }

func (e *Editor) Detected(env editors.Env) bool {
	_, err := os.Stat(env.ProjectPath(".kiro"))
	return err == nil
}

func (e *Editor) Rules() editors.RulesStrategy     { return rulesStrategy{} }
func (e *Editor) MCP() editors.MCPStrategy         { return mcpStrategy{} }
func (e *Editor) Skills() editors.SkillsStrategy   { return editors.PointerSkills{} }
func (e *Editor) Prompts() editors.PromptsStrategy { return editors.NoPrompts{} }
func (e *Editor) Hooks() editors.HooksStrategy     { return hooksStrategy{} }

// ruleMatter is the steering file frontmatter. Kiro has no
// model-decision trigger, so auto rules are written as manual with the
// description preserved and recovered from it when parsing.
type ruleMatter struct {
	Inclusion        string `yaml:"inclusion"`
	FileMatchPattern string `yaml:"fileMatchPattern,omitempty"`
	Description      string `yaml:"description,omitempty"`
}

// rulesStrategy writes one steering file per rule.
type rulesStrategy struct{}

func (rulesStrategy) Supported() bool { return true }

func (rulesStrategy) Paths() editors.RulePaths {
	return editors.RulePaths{Dir: ".kiro/steering", Extension: ".md"}
}

func (rulesStrategy) Format(r model.Rule) (string, error) {
	matter := ruleMatter{Description: r.Activation.Description}
	switch r.Activation.Mode {
	case model.ActivationAlways:
		matter.Inclusion = inclusionAlways
	case model.ActivationGlob:
		matter.Inclusion = inclusionFileMatch
		matter.FileMatchPattern = strings.Join(r.Activation.Globs, ",")
	case model.ActivationAuto, model.ActivationManual:
		matter.Inclusion = inclusionManual
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
	switch matter.Inclusion {
	case inclusionAlways, "":
		activation.Mode = model.ActivationAlways
	case inclusionFileMatch:
		activation.Mode = model.ActivationGlob
		for _, g := range strings.Split(matter.FileMatchPattern, ",") {
			if g = strings.TrimSpace(g); g != "" {
				activation.Globs = append(activation.Globs, g)
			}
		}
	case inclusionManual:
		if matter.Description != "" {
			activation.Mode = model.ActivationAuto
		} else {
			activation.Mode = model.ActivationManual
		}
	default:
		return nil, errors.Newf("unknown inclusion %q", matter.Inclusion)
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
	_, ok := matter["inclusion"]
	return ok
}

func (s rulesStrategy) Plan(env editors.Env, rules []model.Rule) ([]editors.FileChange, error) {
	var changes []editors.FileChange
	for _, r := range rules {
		content, err := s.Format(r)
		if err != nil {
			return nil, err
		}
		path := env.ProjectPath(".kiro", "steering", r.Name+".md")
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

// mcpStrategy writes servers to .kiro/settings/mcp.json.
type mcpStrategy struct{}

func (mcpStrategy) Supported() bool  { return true }
func (mcpStrategy) GlobalOnly() bool { return false }

func (mcpStrategy) Path(env editors.Env) string {
	return env.ProjectPath(".kiro", "settings", "mcp.json")
}

func (s mcpStrategy) Plan(env editors.Env, cfg *mcp.Config) ([]editors.FileChange, error) {
	return editors.PlanMCPDocument(s.Path(env), cfg, "mcpServers", nil, false)
}

// hookEvents is Kiro's partial event table. Kiro agent hooks fire on
// user action, so only the prompt-submission event translates.
var hookEvents = editors.HookEventMap{
	model.EventUserPromptSubmit: "userTriggered",
}

// hooksStrategy writes one .kiro.hook file per translatable hook.
type hooksStrategy struct{}

func (hooksStrategy) Supported() bool { return true }

func (hooksStrategy) Plan(env editors.Env, hooks []model.Hook) ([]editors.FileChange, []editors.UnsupportedHook, error) {
	mapped, unsupported := hookEvents.Translate(hooks)

	var changes []editors.FileChange
	for _, h := range mapped {
		doc := map[string]any{
			"enabled": true,
			"name":    h.Hook.Name,
			"version": "1",
			"when":    map[string]any{"type": h.Event},
			"then":    map[string]any{"type": "askAgent", "prompt": h.Hook.Command},
		}
		path := env.ProjectPath(".kiro", "hooks", h.Hook.Name+".kiro.hook")
		change, ok, err := editors.PlanJSONFile(path, doc, editors.CapHooks, false)
		if err != nil {
			return nil, unsupported, err
		}
		if ok {
			changes = append(changes, change)
		}
	}
	return changes, unsupported, nil
}
