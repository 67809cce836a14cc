package editors

import (
	"os"

	"github.com/airc-dev/airc/internal/errors"
)

// GlobalMCP is implemented by MCP strategies whose servers land in a
// shared user-scope file. The extra methods let the tracking layer
// fingerprint what a write produced and later remove one server without
// touching the rest of the file.
type GlobalMCP interface {
	MCPStrategy

	// ReadServerValue returns the decoded value currently stored for
	// the named server, with ok=false when the file or entry is absent.
	ReadServerValue(env Env, name string) (value any, ok bool, err error)

	// PlanServerRemoval plans rewriting the config without the named
	// server. Nothing is planned when the server is not present.
	PlanServerRemoval(env Env, name string) ([]FileChange, error)
}

// GlobalPrompts is implemented by prompt strategies that write
// user-scope files, one per prompt.
type GlobalPrompts interface {
	PromptsStrategy

	// PromptPath returns where the named prompt is stored.
	PromptPath(env Env, name string) string
}

// ReadJSONServerValue reads the value stored under key/name in the JSON
// config at path.
func ReadJSONServerValue(path, key, name string) (any, bool, error) {
	doc, err := ReadJSONFile(path)
	if err != nil {
		return nil, false, err
	}
	section, _ := doc[key].(map[string]any)
	value, ok := section[name]
	return value, ok, nil
}

// PlanJSONServerRemoval plans deleting name from the section under key
// in the JSON config at path. A missing file or missing entry plans
// nothing.
func PlanJSONServerRemoval(path, key, name string, global bool) ([]FileChange, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}

	doc, err := ReadJSONFile(path)
	if err != nil {
		return nil, err
	}
	section, _ := doc[key].(map[string]any)
	if _, ok := section[name]; !ok {
		return nil, nil
	}
	delete(section, name)
	doc[key] = section

	change, ok, err := PlanJSONFile(path, doc, CapMCP, global)
	if err != nil || !ok {
		return nil, err
	}
	return []FileChange{change}, nil
}
