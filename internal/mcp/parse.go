package mcp

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	"github.com/airc-dev/airc/internal/errors"
)

// Sentinel errors for parsing.
var (
	// ErrInvalidJSON indicates the input is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON")
)

// ParseError wraps a parse failure with path context.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parsing MCP config %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("parsing MCP config: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads a canonical Config from JSON bytes. Empty input yields an
// empty Config.
func Parse(data []byte) (*Config, error) {
	if len(data) == 0 {
		return NewConfig(), nil
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, errors.Wrapf(ErrInvalidJSON, "%v at offset %d", err, syntaxErr.Offset)
		}
		return nil, errors.Wrapf(ErrInvalidJSON, "%v", err)
	}

	if cfg.Servers == nil {
		cfg.Servers = make(map[string]*Server)
	}
	return &cfg, nil
}

// ParseFile reads a canonical Config from a JSON file. A missing file
// yields an empty Config.
func ParseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewConfig(), nil
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return cfg, nil
}

// ServerFromValue decodes a descriptor's inline server definition.
// The value is the already-decoded JSON object from the descriptor.
func ServerFromValue(name string, value map[string]any) (*Server, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding server %q", name)
	}

	var s Server
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrapf(err, "decoding server %q", name)
	}
	s.Name = name
	return &s, nil
}
