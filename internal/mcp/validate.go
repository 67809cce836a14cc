package mcp

import (
	"strings"

	"github.com/airc-dev/airc/internal/validator"
)

// validTransports are the accepted transport values; empty means inferred.
var validTransports = []string{TransportStdio, TransportSSE, ""}

// Validate checks one server definition and appends issues to result.
// Field paths are prefixed with "mcp.<name>" so descriptor-level reports
// point at the offending entry.
func (s *Server) Validate(result *validator.Result) {
	prefix := "mcp." + s.Name

	hasCommand := s.Command != ""
	hasURL := s.URL != ""

	if !hasCommand && !hasURL {
		result.AddError(prefix, "server needs a command (stdio) or a url (remote)", nil)
	}
	if hasCommand && hasURL {
		result.AddError(prefix, "command and url are mutually exclusive", nil)
	}

	transportOK := false
	for _, t := range validTransports {
		if s.Transport == t {
			transportOK = true
			break
		}
	}
	if !transportOK {
		result.AddError(prefix+".transport", "must be \"stdio\" or \"sse\"", s.Transport)
	}

	if s.Transport == TransportStdio && !hasCommand {
		result.AddError(prefix+".command", "stdio transport requires a command", nil)
	}
	if s.Transport == TransportSSE && !hasURL {
		result.AddError(prefix+".url", "sse transport requires a url", nil)
	}

	if hasURL && !strings.HasPrefix(s.URL, "http://") && !strings.HasPrefix(s.URL, "https://") {
		result.AddError(prefix+".url", "must be an http(s) URL", s.URL)
	}

	if len(s.Headers) > 0 && s.IsLocal() {
		result.AddWarning(prefix+".headers", "headers are ignored for stdio servers", nil)
	}
	if len(s.Env) > 0 && s.IsRemote() {
		result.AddWarning(prefix+".env", "env is ignored for remote servers", nil)
	}
}

// Validate checks every server in the config.
func (c *Config) Validate() *validator.Result {
	result := &validator.Result{}
	for _, name := range c.Names() {
		c.Servers[name].Validate(result)
	}
	return result
}
