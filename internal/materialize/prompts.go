package materialize

import (
	"bytes"
	"context"
	"os"
	"strings"

	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/model"
	"github.com/airc-dev/airc/pkg/fileutil"
	"github.com/airc-dev/airc/pkg/frontmatter"
)

// promptMatter is the optional frontmatter of a prompt file.
type promptMatter struct {
	Description string `yaml:"description"`
}

// materializePrompt produces one prompt from a file reference or an
// inline definition.
func (m *Materializer) materializePrompt(ctx context.Context, t task, vars map[string]string) (model.Prompt, error) {
	if err := validateEntryName(t.name); err != nil {
		return model.Prompt{}, err
	}

	if obj, ok := t.entry.Object(); ok && !t.entry.IsRef() {
		return inlinePrompt(t.name, obj, vars)
	}

	_, location, err := m.resolveRef(ctx, t, false)
	if err != nil {
		return model.Prompt{}, err
	}
	if info, err := os.Stat(location); err == nil && info.IsDir() {
		return model.Prompt{}, errors.Newf("%s is a directory, expected a prompt file", location)
	}

	data, err := fileutil.ReadFileWithLimit(location)
	if err != nil {
		return model.Prompt{}, errors.Wrapf(err, "reading %s", location)
	}

	var matter promptMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &matter)
	if err != nil {
		return model.Prompt{}, errors.Wrapf(err, "parsing %s", location)
	}

	return model.Prompt{
		Name:        t.name,
		Description: matter.Description,
		Content:     Interpolate(strings.TrimSpace(string(body)), vars),
	}, nil
}

// inlinePrompt builds a prompt from a descriptor-embedded definition.
func inlinePrompt(name string, obj map[string]any, vars map[string]string) (model.Prompt, error) {
	content, ok := obj["content"].(string)
	if !ok || strings.TrimSpace(content) == "" {
		return model.Prompt{}, errors.New("inline prompt needs a non-empty content field")
	}
	description, err := stringField(obj, "description")
	if err != nil {
		return model.Prompt{}, err
	}

	return model.Prompt{
		Name:        name,
		Description: description,
		Content:     Interpolate(strings.TrimSpace(content), vars),
	}, nil
}
