// Package tracking maintains the cross-project registry of globally
// installed artifacts. One entry exists per (editor, type, name); each
// entry lists the projects that reference it. The registry is what lets
// a shared global file (one user-scope MCP config serving many
// projects) survive until the last project stops using it.
package tracking

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"sort"
)

// Entry records one globally installed artifact.
type Entry struct {
	// Editor is the owning editor's identifier.
	Editor string `json:"editor"`

	// Type is the capability that installed the artifact (mcp, prompts).
	Type string `json:"type"`

	// Name identifies the artifact within its type.
	Name string `json:"name"`

	// Projects are the roots of the projects referencing the artifact.
	Projects []string `json:"projects"`

	// Path is the global file the artifact lives in.
	Path string `json:"path,omitempty"`

	// Checksum fingerprints what was written, so removal can tell an
	// untouched artifact from one the user edited since.
	Checksum string `json:"checksum,omitempty"`
}

// Key returns the entry's registry key.
func (e *Entry) Key() string {
	return Key(e.Editor, e.Type, e.Name)
}

// Key builds the composite registry key for an artifact.
func Key(editor, typ, name string) string {
	return fmt.Sprintf("%s/%s/%s", editor, typ, name)
}

// Checksum fingerprints artifact content for later comparison.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// File is the persisted registry.
type File struct {
	Entries map[string]*Entry `json:"entries"`
}

// NewFile returns an empty registry.
func NewFile() *File {
	return &File{Entries: make(map[string]*Entry)}
}

// Keys returns the entry keys in sorted order.
func (f *File) Keys() []string {
	keys := make([]string, 0, len(f.Entries))
	for k := range f.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Record notes that project references the artifact, creating the entry
// on first sight and deduplicating project roots. Path and checksum are
// refreshed to the latest write.
func (f *File) Record(editor, typ, name, project, path, checksum string) *Entry {
	if f.Entries == nil {
		f.Entries = make(map[string]*Entry)
	}
	key := Key(editor, typ, name)
	e, ok := f.Entries[key]
	if !ok {
		e = &Entry{Editor: editor, Type: typ, Name: name}
		f.Entries[key] = e
	}
	if !slices.Contains(e.Projects, project) {
		e.Projects = append(e.Projects, project)
		sort.Strings(e.Projects)
	}
	e.Path = path
	e.Checksum = checksum
	return e
}
