package editors

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/model"
	"github.com/airc-dev/airc/pkg/fileutil"
	"github.com/airc-dev/airc/pkg/structcmp"
)

// Region markers delimit the managed block inside a shared rules file.
// Text outside the block belongs to the user and is never touched.
const (
	beginMarker = "<!-- airc:begin -->"
	endMarker   = "<!-- airc:end -->"
)

// activationPrefix opens the per-section comment that carries a rule's
// activation through formats with no native metadata.
const activationPrefix = "<!-- activation: "

// SingleFileRules writes all rules into one root-level file as managed
// sections. Several editors share this layout under different filenames
// (CLAUDE.md, AGENTS.md, GEMINI.md, .rules).
type SingleFileRules struct {
	// Filename is the project-relative rules file.
	Filename string
}

func (s SingleFileRules) Supported() bool { return true }

// Paths reports the single-file layout.
func (s SingleFileRules) Paths() RulePaths {
	return RulePaths{File: s.Filename, Extension: filepath.Ext(s.Filename)}
}

// Detect reports whether content carries a managed block.
func (s SingleFileRules) Detect(content []byte) bool {
	return bytes.Contains(content, []byte(beginMarker))
}

// Format renders one rule as a section. Non-default activation is kept
// in a comment so it survives a round-trip.
func (s SingleFileRules) Format(r model.Rule) (string, error) {
	var b strings.Builder
	b.WriteString("## ")
	b.WriteString(r.Name)
	b.WriteString("\n")
	if comment := activationComment(r.Activation); comment != "" {
		b.WriteString(comment)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(r.Content))
	b.WriteString("\n")
	return b.String(), nil
}

// Parse recovers the rules from a managed block. The name argument is
// ignored; section headings carry the names.
func (s SingleFileRules) Parse(_ string, content []byte) ([]model.Rule, error) {
	region := string(content)
	if i := strings.Index(region, beginMarker); i >= 0 {
		region = region[i+len(beginMarker):]
		if j := strings.Index(region, endMarker); j >= 0 {
			region = region[:j]
		}
	}

	var rules []model.Rule
	var current *model.Rule
	var body []string
	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(strings.Join(body, "\n"))
		rules = append(rules, *current)
		current, body = nil, nil
	}

	for _, line := range strings.Split(region, "\n") {
		switch {
		case strings.HasPrefix(line, "## "):
			flush()
			current = &model.Rule{
				Name:       strings.TrimSpace(strings.TrimPrefix(line, "## ")),
				Activation: model.Activation{Mode: model.ActivationAlways},
			}
		case current != nil && len(body) == 0 && strings.HasPrefix(line, activationPrefix):
			act, err := parseActivationComment(line)
			if err != nil {
				return nil, err
			}
			current.Activation = act
		case current != nil:
			if line != "" || len(body) > 0 {
				body = append(body, line)
			}
		}
	}
	flush()
	return rules, nil
}

// Plan splices the managed block into the existing file, or removes it
// when no rules remain.
func (s SingleFileRules) Plan(env Env, rules []model.Rule) ([]FileChange, error) {
	path := env.ProjectPath(s.Filename)

	existing, err := fileutil.ReadFileWithLimit(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	exists := err == nil

	region, err := s.formatRegion(rules)
	if err != nil {
		return nil, err
	}

	if !exists {
		if region == "" {
			return nil, nil
		}
		return []FileChange{{
			Path:     path,
			Action:   ActionCreate,
			Content:  region + "\n",
			Category: CapRules,
		}}, nil
	}

	updated := spliceRegion(string(existing), region)
	if structcmp.EqualText(updated, string(existing)) {
		return nil, nil
	}
	return []FileChange{{
		Path:     path,
		Action:   ActionUpdate,
		Content:  updated,
		Category: CapRules,
	}}, nil
}

// formatRegion renders all rules inside the markers. No rules yields "".
func (s SingleFileRules) formatRegion(rules []model.Rule) (string, error) {
	if len(rules) == 0 {
		return "", nil
	}
	var b strings.Builder
	b.WriteString(beginMarker)
	b.WriteString("\n")
	for _, r := range rules {
		section, err := s.Format(r)
		if err != nil {
			return "", err
		}
		b.WriteString("\n")
		b.WriteString(section)
	}
	b.WriteString("\n")
	b.WriteString(endMarker)
	return b.String(), nil
}

// spliceRegion replaces the managed block inside existing content,
// appends one when absent, or removes it when region is empty.
func spliceRegion(existing, region string) string {
	begin := strings.Index(existing, beginMarker)
	end := strings.Index(existing, endMarker)

	if begin < 0 || end < begin {
		if region == "" {
			return existing
		}
		out := existing
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		if out != "" {
			out += "\n"
		}
		return out + region + "\n"
	}

	before := existing[:begin]
	after := existing[end+len(endMarker):]
	if region == "" {
		return strings.TrimLeft(before+strings.TrimPrefix(after, "\n"), "\n")
	}
	return before + region + after
}

// activationComment encodes a non-default activation. Always-on rules
// need no marker.
func activationComment(a model.Activation) string {
	switch a.Mode {
	case model.ActivationAuto:
		if a.Description == "" {
			return activationPrefix + "auto -->"
		}
		return activationPrefix + "auto " + a.Description + " -->"
	case model.ActivationGlob:
		return activationPrefix + "glob " + strings.Join(a.Globs, ",") + " -->"
	case model.ActivationManual:
		return activationPrefix + "manual -->"
	}
	return ""
}

// parseActivationComment inverts activationComment.
func parseActivationComment(line string) (model.Activation, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(line, activationPrefix), " -->")
	mode, rest, _ := strings.Cut(inner, " ")
	switch model.ActivationMode(mode) {
	case model.ActivationAuto:
		return model.Activation{Mode: model.ActivationAuto, Description: rest}, nil
	case model.ActivationGlob:
		var globs []string
		for _, g := range strings.Split(rest, ",") {
			if g = strings.TrimSpace(g); g != "" {
				globs = append(globs, g)
			}
		}
		return model.Activation{Mode: model.ActivationGlob, Globs: globs}, nil
	case model.ActivationManual:
		return model.Activation{Mode: model.ActivationManual}, nil
	}
	return model.Activation{}, errors.Newf("unrecognized activation marker %q", line)
}
