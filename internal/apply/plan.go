package apply

import (
	"sort"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/materialize"
	"github.com/airc-dev/airc/internal/model"
)

// planEditor plans every capability for one editor. Skills are planned
// first: pointer-style editors surface each skill through a synthesized
// rule, which must join the real rules before the rules file is
// rendered.
func planEditor(env editors.Env, ed editors.Editor, m *materialize.Model) (EditorReport, error) {
	report := EditorReport{Editor: ed.ID()}

	rules := m.Rules
	if strategy := ed.Skills(); strategy.Supported() {
		changes, pointerRules, err := strategy.Plan(env, m.Skills)
		if err != nil {
			return report, errors.Wrap(err, "skills")
		}
		report.Changes = append(report.Changes, changes...)
		if len(pointerRules) > 0 {
			rules = mergeRules(rules, pointerRules)
		}
	}

	if strategy := ed.Rules(); strategy.Supported() {
		changes, err := strategy.Plan(env, rules)
		if err != nil {
			return report, errors.Wrap(err, "rules")
		}
		report.Changes = append(report.Changes, changes...)
	}

	if strategy := ed.MCP(); strategy.Supported() {
		changes, err := strategy.Plan(env, m.MCP)
		if err != nil {
			return report, errors.Wrap(err, "mcp")
		}
		report.Changes = append(report.Changes, changes...)
	}

	if strategy := ed.Prompts(); strategy.Supported() {
		changes, err := strategy.Plan(env, m.Prompts)
		if err != nil {
			return report, errors.Wrap(err, "prompts")
		}
		report.Changes = append(report.Changes, changes...)
	}

	// Hook strategies translate what they can and report the rest, so
	// the plan runs even for editors without hook support: their
	// strategy returns every hook as unsupported.
	hookChanges, unsupported, err := ed.Hooks().Plan(env, m.Hooks)
	if err != nil {
		return report, errors.Wrap(err, "hooks")
	}
	report.Changes = append(report.Changes, hookChanges...)
	report.Unsupported = append(report.Unsupported, unsupported...)

	editors.SortChanges(report.Changes)
	return report, nil
}

// mergeRules combines materialized rules with synthesized pointer
// rules, keeping name order stable across runs.
func mergeRules(rules, pointers []model.Rule) []model.Rule {
	combined := make([]model.Rule, 0, len(rules)+len(pointers))
	combined = append(combined, rules...)
	combined = append(combined, pointers...)
	sort.Slice(combined, func(i, j int) bool { return combined[i].Name < combined[j].Name })
	return combined
}
