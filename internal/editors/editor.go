package editors

import (
	"path/filepath"

	"github.com/airc-dev/airc/internal/mcp"
	"github.com/airc-dev/airc/internal/model"
	"github.com/airc-dev/airc/internal/paths"
)

// Capability names one translatable slice of the configuration model.
type Capability string

const (
	CapRules   Capability = "rules"
	CapMCP     Capability = "mcp"
	CapSkills  Capability = "skills"
	CapPrompts Capability = "prompts"
	CapHooks   Capability = "hooks"
)

// Capabilities lists all capabilities in a stable order.
func Capabilities() []Capability {
	return []Capability{CapRules, CapMCP, CapSkills, CapPrompts, CapHooks}
}

// Env locates the two scopes an editor's files live in: the project tree
// and the user's home directory. Home is overridable so tests never touch
// the real one.
type Env struct {
	ProjectRoot string
	Home        string
}

// NewEnv returns an Env rooted at projectRoot with the user's home.
func NewEnv(projectRoot string) Env {
	return Env{ProjectRoot: projectRoot, Home: paths.Home()}
}

// ProjectPath joins elem under the project root.
func (e Env) ProjectPath(elem ...string) string {
	return filepath.Join(append([]string{e.ProjectRoot}, elem...)...)
}

// HomePath joins elem under the home directory.
func (e Env) HomePath(elem ...string) string {
	return filepath.Join(append([]string{e.Home}, elem...)...)
}

// Editor is one supported editor: an identifier plus a strategy per
// capability. Strategies for capabilities the editor cannot express
// report Supported() == false and callers skip them.
type Editor interface {
	// ID is the stable identifier used in flags, config, and tracking.
	ID() string

	// DisplayName is the human-readable editor name.
	DisplayName() string

	// Detected reports whether the project shows signs of this editor
	// (marker directories or files).
	Detected(env Env) bool

	Rules() RulesStrategy
	MCP() MCPStrategy
	Skills() SkillsStrategy
	Prompts() PromptsStrategy
	Hooks() HooksStrategy
}

// RulesStrategy translates rules to and from one editor's layout.
type RulesStrategy interface {
	Supported() bool

	// Plan compares the desired rules with what is on disk and returns
	// the changes needed.
	Plan(env Env, rules []model.Rule) ([]FileChange, error)

	// Format renders one rule in this editor's dialect. Single-file
	// layouts render one section; per-file layouts render one file.
	Format(r model.Rule) (string, error)

	// Parse recovers rules from formatted content. name seeds the rule
	// name for per-file layouts and is ignored by single-file layouts.
	Parse(name string, content []byte) ([]model.Rule, error)

	// Detect reports whether content looks like this editor's dialect.
	Detect(content []byte) bool

	// Paths describes where this editor keeps rule files.
	Paths() RulePaths
}

// RulePaths is the static layout of an editor's rules.
type RulePaths struct {
	// Dir is the project-relative rules directory for per-file layouts,
	// empty for single-file layouts.
	Dir string

	// File is the project-relative rules file for single-file layouts,
	// empty for per-file layouts.
	File string

	// Extension is the rule file extension including the dot.
	Extension string
}

// MCPStrategy translates MCP server definitions into one editor's
// configuration file.
type MCPStrategy interface {
	Supported() bool

	// Plan merges the desired servers into the editor's config file,
	// preserving unrelated keys already present.
	Plan(env Env, cfg *mcp.Config) ([]FileChange, error)

	// Path is the config file the editor reads, resolved against env.
	Path(env Env) string

	// GlobalOnly reports whether the editor only reads a user-scope
	// file. Writes to it are gated by the tracking layer.
	GlobalOnly() bool
}

// SkillsStrategy places materialized skill trees for one editor.
type SkillsStrategy interface {
	Supported() bool

	// Native reports whether the editor understands skill directories
	// directly. Non-native editors receive pointer rules instead.
	Native() bool

	// Plan returns the directory changes needed plus any synthesized
	// pointer rules the caller must feed through the rules strategy.
	Plan(env Env, skills []model.Skill) ([]FileChange, []model.Rule, error)
}

// PromptsStrategy translates reusable prompts for one editor.
type PromptsStrategy interface {
	Supported() bool
	Plan(env Env, prompts []model.Prompt) ([]FileChange, error)
}

// HooksStrategy translates lifecycle hooks for one editor.
type HooksStrategy interface {
	Supported() bool

	// Plan returns the changes needed plus the hooks this editor cannot
	// express. Unmapped hooks are reported, never silently dropped.
	Plan(env Env, hooks []model.Hook) ([]FileChange, []UnsupportedHook, error)
}

// NoPrompts is the strategy for editors without a prompt concept.
type NoPrompts struct{}

func (NoPrompts) Supported() bool                                { return false }
func (NoPrompts) Plan(Env, []model.Prompt) ([]FileChange, error) { return nil, nil }

// NoHooks is the strategy for editors without hook support. Every hook
// is reported unsupported so the caller can surface the skip.
type NoHooks struct{}

func (NoHooks) Supported() bool { return false }

func (NoHooks) Plan(_ Env, hooks []model.Hook) ([]FileChange, []UnsupportedHook, error) {
	var unsupported []UnsupportedHook
	for _, h := range hooks {
		unsupported = append(unsupported, UnsupportedHook{Hook: h, Reason: "editor has no hook support"})
	}
	return nil, unsupported, nil
}
