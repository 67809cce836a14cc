package materialize

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/model"
	"github.com/airc-dev/airc/internal/toolperm"
	"github.com/airc-dev/airc/pkg/fileutil"
	"github.com/airc-dev/airc/pkg/frontmatter"
)

// ManifestFile is the manifest a skill tree must carry at its root.
const ManifestFile = "SKILL.md"

const maxSkillNameLength = 64

// materializeSkill resolves a skill entry to a directory tree and
// parses its manifest. The manifest's frontmatter is required: a tree
// without a well-formed SKILL.md is not a skill.
func (m *Materializer) materializeSkill(ctx context.Context, t task, vars map[string]string) (model.Skill, error) {
	if !t.entry.IsRef() {
		return model.Skill{}, errors.New("skills must reference a directory (inline definitions are not supported)")
	}

	ref, location, err := m.resolveRef(ctx, t, true)
	if err != nil {
		return model.Skill{}, err
	}

	manifestPath := filepath.Join(location, ManifestFile)
	data, err := fileutil.ReadFileWithLimit(manifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Skill{}, errors.Newf("no %s at %s", ManifestFile, location)
		}
		return model.Skill{}, errors.Wrapf(err, "reading %s", manifestPath)
	}

	var meta model.SkillMeta
	body, err := frontmatter.MustParse(bytes.NewReader(data), &meta)
	if err != nil {
		return model.Skill{}, errors.Wrapf(err, "parsing %s", manifestPath)
	}

	if err := validateSkillMeta(&meta); err != nil {
		return model.Skill{}, errors.Wrapf(err, "validating %s", manifestPath)
	}

	return model.Skill{
		SkillMeta:  meta,
		Body:       Interpolate(strings.TrimSpace(string(body)), vars),
		BasePath:   location,
		SourceKind: string(ref.Kind),
	}, nil
}

// validateSkillMeta enforces the manifest requirements: a well-formed
// name, a meaningful description, and parseable tool permissions.
func validateSkillMeta(meta *model.SkillMeta) error {
	var errs []error

	switch {
	case meta.Name == "":
		errs = append(errs, errors.New("name is required"))
	case len(meta.Name) > maxSkillNameLength:
		errs = append(errs, errors.Newf("name %q exceeds %d characters", meta.Name, maxSkillNameLength))
	case !namePattern.MatchString(meta.Name):
		errs = append(errs, skillNameError(meta.Name))
	}

	if strings.TrimSpace(meta.Description) == "" {
		errs = append(errs, errors.New("description is required"))
	}

	if _, err := toolperm.ParseList(meta.AllowedTools); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// skillNameError picks the most specific complaint for a bad name.
func skillNameError(name string) error {
	switch {
	case strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-"):
		return errors.Newf("name %q cannot start or end with a hyphen", name)
	case strings.Contains(name, "--"):
		return errors.Newf("name %q cannot contain consecutive hyphens", name)
	case strings.ToLower(name) != name:
		return errors.Newf("name %q must be lowercase", name)
	default:
		return errors.Newf("name %q must be lowercase alphanumeric with single hyphens between segments", name)
	}
}
