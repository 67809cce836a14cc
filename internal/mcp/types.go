package mcp

import (
	"encoding/json"
	"sort"
)

// Transport values for MCP server communication.
const (
	// TransportStdio is local process communication over stdin/stdout.
	// The default when a Command is set.
	TransportStdio = "stdio"

	// TransportSSE is remote communication over Server-Sent Events.
	// The default when only a URL is set.
	TransportSSE = "sse"
)

// Server is the canonical configuration of one MCP server.
type Server struct {
	// Name is the server identifier, mirrored from the map key.
	Name string `json:"-"`

	// Command is the executable for stdio servers.
	Command string `json:"command,omitempty"`

	// Args are passed to Command.
	Args []string `json:"args,omitempty"`

	// URL is the endpoint for remote servers.
	URL string `json:"url,omitempty"`

	// Transport is "stdio" or "sse"; empty means inferred.
	Transport string `json:"transport,omitempty"`

	// Env is the environment for the server process.
	Env map[string]string `json:"env,omitempty"`

	// Headers are sent on remote transport connections.
	Headers map[string]string `json:"headers,omitempty"`

	// Disabled marks the server as configured but inactive.
	Disabled bool `json:"disabled,omitempty"`

	// unknown holds fields this version does not model, preserved across
	// a parse/format round-trip.
	unknown map[string]json.RawMessage
}

// IsLocal reports whether the server runs as a local process.
func (s *Server) IsLocal() bool {
	if s.Transport == TransportStdio {
		return true
	}
	return s.Transport == "" && s.Command != ""
}

// IsRemote reports whether the server is reached over the network.
func (s *Server) IsRemote() bool {
	if s.Transport == TransportSSE {
		return true
	}
	return s.Transport == "" && s.URL != "" && s.Command == ""
}

// EffectiveTransport returns the declared transport, or the one inferred
// from Command/URL when none is declared.
func (s *Server) EffectiveTransport() string {
	switch {
	case s.Transport != "":
		return s.Transport
	case s.URL != "" && s.Command == "":
		return TransportSSE
	case s.Command != "":
		return TransportStdio
	default:
		return ""
	}
}

// knownServerFields are the keys UnmarshalJSON lifts out of the raw map.
var knownServerFields = []string{"command", "args", "url", "transport", "env", "headers", "disabled"}

// MarshalJSON emits known fields in canonical form plus any preserved
// unknown fields. Known fields win on key collisions.
func (s *Server) MarshalJSON() ([]byte, error) {
	result := make(map[string]any, len(s.unknown)+len(knownServerFields))

	for k, v := range s.unknown {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return nil, err
		}
		result[k] = val
	}

	if s.Command != "" {
		result["command"] = s.Command
	}
	if len(s.Args) > 0 {
		result["args"] = s.Args
	}
	if s.URL != "" {
		result["url"] = s.URL
	}
	if s.Transport != "" {
		result["transport"] = s.Transport
	}
	if len(s.Env) > 0 {
		result["env"] = s.Env
	}
	if len(s.Headers) > 0 {
		result["headers"] = s.Headers
	}
	if s.Disabled {
		result["disabled"] = s.Disabled
	}

	return json.Marshal(result)
}

// UnmarshalJSON captures unknown fields alongside the known ones.
func (s *Server) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	targets := map[string]any{
		"command":   &s.Command,
		"args":      &s.Args,
		"url":       &s.URL,
		"transport": &s.Transport,
		"env":       &s.Env,
		"headers":   &s.Headers,
		"disabled":  &s.Disabled,
	}
	for _, field := range knownServerFields {
		v, ok := raw[field]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, targets[field]); err != nil {
			return err
		}
		delete(raw, field)
	}

	// The canonical name lives in the map key, but tolerate an embedded one.
	if v, ok := raw["name"]; ok {
		if err := json.Unmarshal(v, &s.Name); err != nil {
			return err
		}
		delete(raw, "name")
	}

	if len(raw) > 0 {
		s.unknown = raw
	}
	return nil
}

// Config is a set of canonical MCP servers keyed by name.
type Config struct {
	Servers map[string]*Server `json:"servers"`

	unknown map[string]json.RawMessage
}

// NewConfig creates an empty Config.
func NewConfig() *Config {
	return &Config{Servers: make(map[string]*Server)}
}

// Names returns the server names sorted for deterministic output.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Servers))
	for name := range c.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Active returns the servers that are not disabled, in name order.
func (c *Config) Active() []*Server {
	var active []*Server
	for _, name := range c.Names() {
		if s := c.Servers[name]; !s.Disabled {
			active = append(active, s)
		}
	}
	return active
}

// MarshalJSON emits servers plus preserved unknown top-level fields.
func (c *Config) MarshalJSON() ([]byte, error) {
	result := make(map[string]any, len(c.unknown)+1)

	for k, v := range c.unknown {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return nil, err
		}
		result[k] = val
	}
	result["servers"] = c.Servers

	return json.Marshal(result)
}

// UnmarshalJSON captures unknown top-level fields and mirrors map keys
// into each server's Name.
func (c *Config) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if serversData, ok := raw["servers"]; ok {
		if err := json.Unmarshal(serversData, &c.Servers); err != nil {
			return err
		}
		delete(raw, "servers")
	}
	for name, s := range c.Servers {
		s.Name = name
	}

	if len(raw) > 0 {
		c.unknown = raw
	}
	return nil
}
