package materialize

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/mcp"
	"github.com/airc-dev/airc/internal/validator"
	"github.com/airc-dev/airc/pkg/fileutil"
)

// materializeServer produces one canonical MCP server from an inline
// definition or a referenced JSON file.
func (m *Materializer) materializeServer(ctx context.Context, t task, vars map[string]string) (*mcp.Server, error) {
	var (
		server *mcp.Server
		err    error
	)

	if obj, ok := t.entry.Object(); ok && !t.entry.IsRef() {
		server, err = mcp.ServerFromValue(t.name, obj)
	} else {
		server, err = m.serverFromFile(ctx, t)
	}
	if err != nil {
		return nil, err
	}

	interpolateServer(server, vars)

	if result := validateServer(server); result != nil {
		return nil, result
	}
	return server, nil
}

// serverFromFile resolves a reference to a JSON document holding either
// a single server object or a server collection keyed by name.
func (m *Materializer) serverFromFile(ctx context.Context, t task) (*mcp.Server, error) {
	_, location, err := m.resolveRef(ctx, t, false)
	if err != nil {
		return nil, err
	}

	data, err := fileutil.ReadFileWithLimit(location)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", location)
	}

	var doc map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", location)
	}

	// A bare server object carries its own command or url; otherwise the
	// document is a collection and the entry name selects from it.
	if _, isServer := doc["command"]; isServer {
		return mcp.ServerFromValue(t.name, doc)
	}
	if _, isServer := doc["url"]; isServer {
		return mcp.ServerFromValue(t.name, doc)
	}

	for _, collection := range []string{"mcpServers", "servers"} {
		servers, ok := doc[collection].(map[string]any)
		if !ok {
			continue
		}
		value, ok := servers[t.name].(map[string]any)
		if !ok {
			return nil, errors.Newf("%s has no server named %q", location, t.name)
		}
		return mcp.ServerFromValue(t.name, value)
	}

	return nil, errors.Newf("%s is neither a server object nor a server collection", location)
}

// interpolateServer expands template variables in the fields that
// commonly embed paths.
func interpolateServer(s *mcp.Server, vars map[string]string) {
	s.Command = Interpolate(s.Command, vars)
	s.Args = interpolateSlice(s.Args, vars)
	s.URL = Interpolate(s.URL, vars)
	s.Env = interpolateMap(s.Env, vars)
	s.Headers = interpolateMap(s.Headers, vars)
}

// validateServer runs the canonical server checks, folding any issues
// into one error.
func validateServer(s *mcp.Server) error {
	result := &validator.Result{}
	s.Validate(result)
	if !result.HasErrors() {
		return nil
	}

	var msgs []string
	for _, issue := range result.Errors() {
		msgs = append(msgs, issue.Error())
	}
	return errors.New(strings.Join(msgs, "; "))
}
