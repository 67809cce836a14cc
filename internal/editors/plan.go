package editors

import (
	"encoding/json"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"

	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/pkg/fileutil"
	"github.com/airc-dev/airc/pkg/structcmp"
)

// PlanFile compares content with the file at path and returns the change
// needed. ok is false when the file already holds equivalent text.
func PlanFile(path, content string, category Capability, global bool) (FileChange, bool, error) {
	change := FileChange{
		Path:     path,
		Action:   ActionCreate,
		Content:  content,
		Category: category,
		Global:   global,
	}

	existing, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return change, true, nil
		}
		return FileChange{}, false, err
	}

	if structcmp.EqualText(string(existing), content) {
		return FileChange{}, false, nil
	}
	change.Action = ActionUpdate
	return change, true, nil
}

// PlanJSONFile renders doc as indented JSON and compares it structurally
// with the file at path. An existing file that fails to parse is treated
// as different and overwritten.
func PlanJSONFile(path string, doc map[string]any, category Capability, global bool) (FileChange, bool, error) {
	rendered, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return FileChange{}, false, errors.Wrapf(err, "encoding %s", path)
	}
	content := string(rendered) + "\n"

	change := FileChange{
		Path:     path,
		Action:   ActionCreate,
		Content:  content,
		Category: category,
		Global:   global,
	}

	existing, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return change, true, nil
		}
		return FileChange{}, false, err
	}

	// Re-parse the rendered form so both sides carry the decoder's types.
	var current, desired any
	if err := json.Unmarshal(jsonc.ToJSON(existing), &current); err == nil {
		if err := json.Unmarshal(rendered, &desired); err == nil && structcmp.Equal(current, desired) {
			return FileChange{}, false, nil
		}
	}
	change.Action = ActionUpdate
	return change, true, nil
}

// PlanTOMLFile renders doc as TOML and compares it structurally with the
// file at path.
func PlanTOMLFile(path string, doc map[string]any, category Capability, global bool) (FileChange, bool, error) {
	rendered, err := toml.Marshal(doc)
	if err != nil {
		return FileChange{}, false, errors.Wrapf(err, "encoding %s", path)
	}

	change := FileChange{
		Path:     path,
		Action:   ActionCreate,
		Content:  string(rendered),
		Category: category,
		Global:   global,
	}

	existing, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return change, true, nil
		}
		return FileChange{}, false, err
	}

	var current map[string]any
	if err := toml.Unmarshal(existing, &current); err == nil {
		var desired map[string]any
		if err := toml.Unmarshal(rendered, &desired); err == nil && structcmp.Equal(toPlain(current), toPlain(desired)) {
			return FileChange{}, false, nil
		}
	}
	change.Action = ActionUpdate
	return change, true, nil
}

// ReadJSONFile parses the JSON or JSONC document at path into a generic
// map. A missing file yields an empty map.
func ReadJSONFile(path string) (map[string]any, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	doc := map[string]any{}
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return doc, nil
}

// ReadTOMLFile parses the TOML document at path into a generic map. A
// missing file yields an empty map.
func ReadTOMLFile(path string) (map[string]any, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	doc := map[string]any{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return doc, nil
}

// toPlain normalizes nested map types the TOML decoder produces so
// structcmp sees map[string]any throughout.
func toPlain(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = toPlain(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = toPlain(val)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = toPlain(val)
		}
		return out
	default:
		return v
	}
}
