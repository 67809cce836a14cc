package materialize

import (
	"bytes"
	"context"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/model"
	"github.com/airc-dev/airc/pkg/fileutil"
	"github.com/airc-dev/airc/pkg/frontmatter"
)

// ruleMatter is the optional frontmatter of a rule file in canonical
// form. Files without frontmatter default to always-on rules.
type ruleMatter struct {
	Activation  string   `yaml:"activation"`
	Description string   `yaml:"description"`
	Globs       globList `yaml:"globs"`
}

// globList accepts a YAML sequence or a comma-separated string.
type globList []string

func (g *globList) UnmarshalYAML(value *yaml.Node) error {
	var multi []string
	if err := value.Decode(&multi); err == nil {
		*g = multi
		return nil
	}

	var single string
	if err := value.Decode(&single); err == nil {
		*g = splitList(single)
		return nil
	}

	return errors.Newf("globs must be a string or list of strings, got %s", value.Tag)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// materializeRule produces one rule from a file reference or an inline
// definition.
func (m *Materializer) materializeRule(ctx context.Context, t task, vars map[string]string) (model.Rule, error) {
	if err := validateEntryName(t.name); err != nil {
		return model.Rule{}, err
	}

	if obj, ok := t.entry.Object(); ok && !t.entry.IsRef() {
		return inlineRule(t.name, obj, vars)
	}

	_, location, err := m.resolveRef(ctx, t, false)
	if err != nil {
		return model.Rule{}, err
	}
	if info, err := os.Stat(location); err == nil && info.IsDir() {
		return model.Rule{}, errors.Newf("%s is a directory, expected a rule file", location)
	}

	data, err := fileutil.ReadFileWithLimit(location)
	if err != nil {
		return model.Rule{}, errors.Wrapf(err, "reading %s", location)
	}

	var matter ruleMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &matter)
	if err != nil {
		return model.Rule{}, errors.Wrapf(err, "parsing %s", location)
	}

	activation, err := inferActivation(matter.Activation, matter.Description, matter.Globs)
	if err != nil {
		return model.Rule{}, errors.Wrapf(err, "in %s", location)
	}

	return model.Rule{
		Name:       t.name,
		Content:    Interpolate(strings.TrimSpace(string(body)), vars),
		Activation: activation,
	}, nil
}

// inlineRule builds a rule from a descriptor-embedded definition.
func inlineRule(name string, obj map[string]any, vars map[string]string) (model.Rule, error) {
	content, ok := obj["content"].(string)
	if !ok || strings.TrimSpace(content) == "" {
		return model.Rule{}, errors.New("inline rule needs a non-empty content field")
	}

	mode, err := stringField(obj, "activation")
	if err != nil {
		return model.Rule{}, err
	}
	description, err := stringField(obj, "description")
	if err != nil {
		return model.Rule{}, err
	}
	globs, err := stringListField(obj, "globs")
	if err != nil {
		return model.Rule{}, err
	}

	activation, err := inferActivation(mode, description, globs)
	if err != nil {
		return model.Rule{}, err
	}

	return model.Rule{
		Name:       name,
		Content:    Interpolate(strings.TrimSpace(content), vars),
		Activation: activation,
	}, nil
}

// inferActivation resolves the activation variant. An explicit mode
// wins; otherwise globs imply glob activation, a description implies
// auto, and a bare rule is always-on.
func inferActivation(mode, description string, globs []string) (model.Activation, error) {
	if mode != "" {
		parsed := model.ActivationMode(mode)
		if !model.ValidActivationMode(parsed) {
			return model.Activation{}, errors.Newf("invalid activation %q (want always, auto, glob, or manual)", mode)
		}
		if parsed == model.ActivationGlob && len(globs) == 0 {
			return model.Activation{}, errors.New("glob activation needs at least one glob pattern")
		}
		return model.Activation{Mode: parsed, Description: description, Globs: globs}, nil
	}

	switch {
	case len(globs) > 0:
		return model.Activation{Mode: model.ActivationGlob, Description: description, Globs: globs}, nil
	case description != "":
		return model.Activation{Mode: model.ActivationAuto, Description: description}, nil
	default:
		return model.Activation{Mode: model.ActivationAlways}, nil
	}
}

// stringField reads an optional string field from an inline definition.
func stringField(obj map[string]any, key string) (string, error) {
	v, ok := obj[key]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.Newf("field %q must be a string, got %T", key, v)
	}
	return s, nil
}

// stringListField reads an optional list-of-strings field, accepting a
// single string as a one-element list.
func stringListField(obj map[string]any, key string) ([]string, error) {
	v, ok := obj[key]
	if !ok {
		return nil, nil
	}
	switch val := v.(type) {
	case string:
		return splitList(val), nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, errors.Newf("field %q must contain strings, got %T", key, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, errors.Newf("field %q must be a string or list of strings, got %T", key, v)
}
