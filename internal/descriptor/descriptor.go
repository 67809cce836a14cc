// Package descriptor loads, validates, and flattens project descriptors.
//
// A descriptor (ai.json) declares skills, rules, prompts, MCP servers,
// and hooks by name, each mapping to a source reference, an inline
// definition, or false for "explicitly disabled". Descriptors inherit
// from ancestors through an extends list; Resolver flattens the chain
// into one merged configuration with no remaining extends.
package descriptor

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/tidwall/jsonc"

	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/pkg/fileutil"
)

// Descriptor is one configuration document. Capability maps hold raw
// entries including disabled ones; filtering happens at merge
// consumption, not at load.
type Descriptor struct {
	Schema  string           `json:"$schema,omitempty"`
	Extends []Entry          `json:"extends,omitempty"`
	Skills  map[string]Entry `json:"skills,omitempty"`
	Rules   map[string]Entry `json:"rules,omitempty"`
	Prompts map[string]Entry `json:"prompts,omitempty"`
	MCP     map[string]Entry `json:"mcp,omitempty"`
	Hooks   map[string]Entry `json:"hooks,omitempty"`
}

// Entry is one named value inside a capability map: false (explicitly
// disabled), a reference string, or an object holding either a
// reference in object form or an inline definition.
//
// false is distinct from absent. An absent entry inherits whatever an
// ancestor defined; a false entry suppresses the name for the whole
// resolution.
type Entry struct {
	value any
}

// NewEntry wraps a raw value as an entry. Intended for tests and
// programmatic construction; decoded entries come from UnmarshalJSON.
func NewEntry(value any) Entry {
	return Entry{value: value}
}

// Disabled wraps false.
func Disabled() Entry {
	return Entry{value: false}
}

// UnmarshalJSON accepts false, a string, or an object. true is rejected
// explicitly: disabling is the only boolean sentinel.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch val := v.(type) {
	case bool:
		if val {
			return errors.New("true is not a valid entry value: use false to disable an inherited entry")
		}
		e.value = false
	case string:
		if val == "" {
			return errors.New("entry reference must not be empty")
		}
		e.value = val
	case map[string]any:
		e.value = val
	default:
		return errors.Newf("entry must be false, a string, or an object, got %T", v)
	}
	return nil
}

// MarshalJSON reproduces the raw value.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.value)
}

// Raw returns the decoded value: false, string, or map[string]any.
func (e Entry) Raw() any { return e.value }

// IsDisabled reports whether the entry is the false sentinel.
func (e Entry) IsDisabled() bool {
	v, ok := e.value.(bool)
	return ok && !v
}

// Ref returns the string reference form, if any.
func (e Entry) Ref() (string, bool) {
	s, ok := e.value.(string)
	return s, ok
}

// Object returns the object form, if any.
func (e Entry) Object() (map[string]any, bool) {
	m, ok := e.value.(map[string]any)
	return m, ok
}

// refObjectKeys are the fields that mark an object as a source
// reference rather than an inline definition.
var refObjectKeys = []string{"path", "git", "version", "package"}

// IsRef reports whether the entry points at external content: a string
// reference, or an object carrying reference fields. Objects without
// reference fields are inline definitions (an MCP server body, an
// inline rule).
func (e Entry) IsRef() bool {
	if _, ok := e.value.(string); ok {
		return true
	}
	m, ok := e.value.(map[string]any)
	if !ok {
		return false
	}
	for _, key := range refObjectKeys {
		if _, present := m[key]; present {
			return true
		}
	}
	return false
}

// Active returns the entries of m that are not explicitly disabled.
// The input map is left untouched: disabled entries stay visible to
// callers that report them.
func Active(m map[string]Entry) map[string]Entry {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]Entry, len(m))
	for name, entry := range m {
		if entry.IsDisabled() {
			continue
		}
		out[name] = entry
	}
	return out
}

// DisabledNames returns the explicitly disabled names in m, sorted.
func DisabledNames(m map[string]Entry) []string {
	var names []string
	for name, entry := range m {
		if entry.IsDisabled() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Load reads, validates, and decodes one descriptor document. The file
// may use JSON-with-comments syntax; comments and trailing commas are
// stripped before parsing, preserving line positions for diagnostics.
//
// Schema violations report every failing field in one pass via
// SchemaError; a syntactically broken document reports line and column
// via ParseError.
func Load(path string) (*Descriptor, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.WithCode(errors.Newf("descriptor not found: %s", path), errors.CodeConfigNotFound)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	return Parse(data, path)
}

// Parse validates and decodes descriptor bytes. path is used for
// diagnostics only.
func Parse(data []byte, path string) (*Descriptor, error) {
	clean := jsonc.ToJSON(data)

	// Syntax first: schema validation needs a decodable document, and a
	// broken one deserves a line/column diagnostic, not a schema dump.
	var probe any
	if err := json.Unmarshal(clean, &probe); err != nil {
		return nil, newParseError(path, clean, err)
	}

	issues, err := validateSchema(clean)
	if err != nil {
		return nil, errors.Wrapf(err, "validating %s", path)
	}
	if len(issues) > 0 {
		return nil, errors.WithCode(&SchemaError{Path: path, Issues: issues}, errors.CodeConfigSchema)
	}

	var d Descriptor
	if err := json.Unmarshal(clean, &d); err != nil {
		return nil, newParseError(path, clean, err)
	}
	return &d, nil
}
