// Package model defines the editor-independent configuration model.
//
// Skills, rules, prompts, and hooks materialized from a project descriptor
// are expressed in these types; editor strategies translate them into each
// editor's native on-disk format.
package model

import (
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ActivationMode says when an editor should bring a rule into context.
type ActivationMode string

const (
	// ActivationAlways attaches the rule to every request.
	ActivationAlways ActivationMode = "always"

	// ActivationAuto lets the model decide based on the rule's description.
	ActivationAuto ActivationMode = "auto"

	// ActivationGlob attaches the rule when matching files are referenced.
	ActivationGlob ActivationMode = "glob"

	// ActivationManual attaches the rule only on explicit mention.
	ActivationManual ActivationMode = "manual"
)

// ValidActivationMode reports whether m is one of the defined modes.
func ValidActivationMode(m ActivationMode) bool {
	switch m {
	case ActivationAlways, ActivationAuto, ActivationGlob, ActivationManual:
		return true
	}
	return false
}

// Activation describes a rule's trigger. Description accompanies
// ActivationAuto; Globs accompany ActivationGlob.
type Activation struct {
	Mode        ActivationMode `yaml:"mode" json:"mode"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Globs       []string       `yaml:"globs,omitempty" json:"globs,omitempty"`
}

// Rule is one unit of agent guidance.
type Rule struct {
	// Name identifies the rule; it becomes the file name for editors
	// with per-rule files and the section heading for single-file editors.
	Name string

	// Content is the rule's markdown body.
	Content string

	// Activation says when the rule applies.
	Activation Activation
}

// Prompt is a reusable prompt (a "slash command" on most editors).
type Prompt struct {
	Name        string
	Description string
	Content     string
}

// Skill is a materialized skill: a manifest plus a directory tree that
// may carry scripts, references, and assets.
type Skill struct {
	// SkillMeta is the parsed manifest frontmatter.
	SkillMeta

	// Body is the manifest's markdown instructions.
	Body string

	// BasePath is the on-disk root of the materialized skill tree. It is
	// owned by the resolution that produced it and is only guaranteed to
	// exist until that resolution's cleanup runs.
	BasePath string

	// SourceKind records where the skill came from (local, git, registry).
	SourceKind string
}

// SkillMeta is the YAML frontmatter of a SKILL.md manifest.
type SkillMeta struct {
	// Name is the skill identifier: 1-64 chars, lowercase alphanumeric
	// plus hyphens, no doubled, leading, or trailing hyphen.
	Name string `yaml:"name" json:"name"`

	// Description says what the skill does and when to use it.
	Description string `yaml:"description" json:"description"`

	// License is an SPDX identifier.
	License string `yaml:"license,omitempty" json:"license,omitempty"`

	// Compatibility lists the agents the skill is known to work with.
	Compatibility []string `yaml:"compatibility,omitempty" json:"compatibility,omitempty"`

	// Metadata holds free-form key-value pairs (author, version, ...).
	Metadata map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`

	// AllowedTools lists tool permissions the skill needs.
	AllowedTools ToolList `yaml:"allowed-tools,omitempty" json:"allowed-tools,omitempty"`
}

// ToolList is a list of tool permissions. YAML accepts either a sequence
// or a single space-delimited string.
type ToolList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *ToolList) UnmarshalYAML(value *yaml.Node) error {
	var multi []string
	if err := value.Decode(&multi); err == nil {
		*t = multi
		return nil
	}

	var single string
	if err := value.Decode(&single); err == nil {
		if single == "" {
			*t = nil
			return nil
		}
		for part := range strings.SplitSeq(single, " ") {
			part = strings.TrimSpace(part)
			if part != "" {
				*t = append(*t, part)
			}
		}
		return nil
	}

	return errors.Newf("allowed-tools must be a string or list of strings, got %s", value.Tag)
}

// String returns the space-delimited form.
func (t ToolList) String() string {
	return strings.Join(t, " ")
}
