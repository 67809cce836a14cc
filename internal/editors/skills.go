package editors

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/airc-dev/airc/internal/model"
	"github.com/airc-dev/airc/internal/paths"
	"github.com/airc-dev/airc/pkg/fileutil"
)

// NativeSkills serves editors that understand skill directories: each
// skill tree is mirrored into the editor's skill directory as-is.
type NativeSkills struct {
	// Dir is the project-relative directory skills live in.
	Dir string
}

func (n NativeSkills) Supported() bool { return true }
func (n NativeSkills) Native() bool    { return true }

func (n NativeSkills) Plan(env Env, skills []model.Skill) ([]FileChange, []model.Rule, error) {
	var changes []FileChange
	for _, s := range skills {
		dst := env.ProjectPath(n.Dir, s.Name)
		change, ok, err := planTree(s.BasePath, dst)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			changes = append(changes, change)
		}
	}
	return changes, nil, nil
}

// PointerSkills serves editors without a skill concept: the tree is
// copied into the project's shared skill directory and a synthesized
// rule tells the agent where the manifest lives.
type PointerSkills struct{}

func (PointerSkills) Supported() bool { return true }
func (PointerSkills) Native() bool    { return false }

func (PointerSkills) Plan(env Env, skills []model.Skill) ([]FileChange, []model.Rule, error) {
	var changes []FileChange
	var rules []model.Rule
	for _, s := range skills {
		dst := filepath.Join(paths.PointerSkillDir(env.ProjectRoot), s.Name)
		change, ok, err := planTree(s.BasePath, dst)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			changes = append(changes, change)
		}
		rules = append(rules, pointerRule(s))
	}
	return changes, rules, nil
}

// planTree compares the skill tree with its destination mirror. ok is
// false when the mirror is already identical.
func planTree(src, dst string) (FileChange, bool, error) {
	change := FileChange{
		Path:      dst,
		Action:    ActionCreate,
		IsDir:     true,
		SourceDir: src,
		Category:  CapSkills,
	}

	if _, err := os.Stat(dst); err != nil {
		if os.IsNotExist(err) {
			return change, true, nil
		}
		return FileChange{}, false, err
	}

	equal, err := fileutil.EqualTrees(src, dst)
	if err != nil {
		return FileChange{}, false, err
	}
	if equal {
		return FileChange{}, false, nil
	}
	change.Action = ActionUpdate
	return change, true, nil
}

// pointerRule synthesizes the rule that points the agent at a copied
// skill tree.
func pointerRule(s model.Skill) model.Rule {
	rel := strings.Join([]string{paths.ProjectDir, "skills", s.Name}, "/")
	content := fmt.Sprintf(
		"%s\n\nThis capability is provided by the %q skill. Before using it, read %s/SKILL.md for the full instructions and resolve any relative paths in that file against %s/.",
		strings.TrimSpace(s.Description), s.Name, rel, rel,
	)
	return model.Rule{
		Name:    "skill-" + s.Name,
		Content: content,
		Activation: model.Activation{
			Mode:        model.ActivationAuto,
			Description: s.Description,
		},
	}
}
