package editors

import (
	"encoding/json"

	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/mcp"
)

// ServerValue converts a server to the generic map form editors embed in
// their JSON configs.
func ServerValue(s *mcp.Server) (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding server %s", s.Name)
	}
	value := map[string]any{}
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, errors.Wrapf(err, "encoding server %s", s.Name)
	}
	return value, nil
}

// PlanMCPDocument merges the active servers into the JSON config at
// path under key, preserving every other key the file already carries.
// transform converts one server to the editor's value shape; nil uses
// ServerValue.
func PlanMCPDocument(path string, cfg *mcp.Config, key string, transform func(*mcp.Server) (any, error), global bool) ([]FileChange, error) {
	if cfg == nil || len(cfg.Servers) == 0 {
		return nil, nil
	}
	if transform == nil {
		transform = func(s *mcp.Server) (any, error) { return ServerValue(s) }
	}

	doc, err := ReadJSONFile(path)
	if err != nil {
		return nil, err
	}

	section, _ := doc[key].(map[string]any)
	if section == nil {
		section = map[string]any{}
	}
	for _, s := range cfg.Active() {
		value, err := transform(s)
		if err != nil {
			return nil, err
		}
		section[s.Name] = value
	}
	doc[key] = section

	change, ok, err := PlanJSONFile(path, doc, CapMCP, global)
	if err != nil || !ok {
		return nil, err
	}
	return []FileChange{change}, nil
}
