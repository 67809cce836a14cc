// Package claudecode implements the Claude Code editor strategies:
// CLAUDE.md rules, native skill directories, slash-command prompts,
// project-scope MCP config, and settings.json hooks.
package claudecode

import (
	"os"
	"strings"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/mcp"
	"github.com/airc-dev/airc/internal/model"
	"github.com/airc-dev/airc/pkg/frontmatter"
)

// Editor is the Claude Code variant.
type Editor struct {
	rules editors.SingleFileRules
}

// New returns the Claude Code editor.
func New() *Editor {
	return &Editor{rules: editors.SingleFileRules{Filename: "CLAUDE.md"}}
}

func (e *Editor) ID() string          { return "claude-code" }
func (e *Editor) DisplayName() string { return "Claude Code" }

func (e *Editor) Detected(env editors.Env) bool {
	for _, marker := range []string{".claude", "CLAUDE.md"} {
		if _, err := os.Stat(env.ProjectPath(marker)); err == nil {
			return true
		}
	}
	return false
}

func (e *Editor) Rules() editors.RulesStrategy     { return e.rules }
func (e *Editor) MCP() editors.MCPStrategy         { return mcpStrategy{} }
func (e *Editor) Skills() editors.SkillsStrategy   { return editors.NativeSkills{Dir: ".claude/skills"} }
func (e *Editor) Prompts() editors.PromptsStrategy { return promptsStrategy{} }
func (e *Editor) Hooks() editors.HooksStrategy     { return hooksStrategy{} }

// mcpStrategy writes project-scope servers to .mcp.json under the
// mcpServers key. The user-scope alternative is ~/.claude.json.
type mcpStrategy struct{}

func (mcpStrategy) Supported() bool  { return true }
func (mcpStrategy) GlobalOnly() bool { return false }

func (mcpStrategy) Path(env editors.Env) string {
	return env.ProjectPath(".mcp.json")
}

func (s mcpStrategy) Plan(env editors.Env, cfg *mcp.Config) ([]editors.FileChange, error) {
	return editors.PlanMCPDocument(s.Path(env), cfg, "mcpServers", nil, false)
}

// promptsStrategy writes one slash command per prompt under
// .claude/commands.
type promptsStrategy struct{}

func (promptsStrategy) Supported() bool { return true }

func (promptsStrategy) Plan(env editors.Env, prompts []model.Prompt) ([]editors.FileChange, error) {
	var changes []editors.FileChange
	for _, p := range prompts {
		content, err := formatPrompt(p)
		if err != nil {
			return nil, err
		}
		path := env.ProjectPath(".claude", "commands", p.Name+".md")
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

// hookEvents maps the generic vocabulary to Claude Code's PascalCase
// event names. Every generic event has a native equivalent.
var hookEvents = editors.HookEventMap{
	model.EventPreToolUse:       "PreToolUse",
	model.EventPostToolUse:      "PostToolUse",
	model.EventUserPromptSubmit: "UserPromptSubmit",
	model.EventNotification:     "Notification",
	model.EventStop:             "Stop",
	model.EventSubagentStop:     "SubagentStop",
	model.EventPreCompact:       "PreCompact",
	model.EventSessionStart:     "SessionStart",
	model.EventSessionEnd:       "SessionEnd",
}

// hooksStrategy merges hook definitions into .claude/settings.json.
type hooksStrategy struct{}

func (hooksStrategy) Supported() bool { return true }

func (hooksStrategy) Plan(env editors.Env, hooks []model.Hook) ([]editors.FileChange, []editors.UnsupportedHook, error) {
	if len(hooks) == 0 {
		return nil, nil, nil
	}
	mapped, unsupported := hookEvents.Translate(hooks)

	path := env.ProjectPath(".claude", "settings.json")
	doc, err := editors.ReadJSONFile(path)
	if err != nil {
		return nil, unsupported, err
	}
	doc["hooks"] = buildHookSection(mapped)

	change, ok, err := editors.PlanJSONFile(path, doc, editors.CapHooks, false)
	if err != nil || !ok {
		return nil, unsupported, err
	}
	return []editors.FileChange{change}, unsupported, nil
}

// buildHookSection groups hooks by event, then by tool matcher, in the
// shape Claude Code reads:
//
//	{"PreToolUse": [{"matcher": "Bash", "hooks": [{"type": "command", ...}]}]}
func buildHookSection(mapped []editors.TranslatedHook) map[string]any {
	byEvent := map[string][]editors.TranslatedHook{}
	for _, h := range mapped {
		byEvent[h.Event] = append(byEvent[h.Event], h)
	}

	section := map[string]any{}
	for _, generic := range model.Events() {
		event := hookEvents[generic]
		group, ok := byEvent[event]
		if !ok {
			continue
		}

		var matchers []string
		byMatcher := map[string][]model.Hook{}
		for _, h := range group {
			m := h.Hook.Matcher
			if _, seen := byMatcher[m]; !seen {
				matchers = append(matchers, m)
			}
			byMatcher[m] = append(byMatcher[m], h.Hook)
		}

		var entries []any
		for _, m := range matchers {
			var commands []any
			for _, h := range byMatcher[m] {
				cmd := map[string]any{"type": "command", "command": h.Command}
				if h.TimeoutSeconds > 0 {
					cmd["timeout"] = h.TimeoutSeconds
				}
				commands = append(commands, cmd)
			}
			entry := map[string]any{"hooks": commands}
			if m != "" {
				entry["matcher"] = m
			}
			entries = append(entries, entry)
		}
		section[event] = entries
	}
	return section
}
