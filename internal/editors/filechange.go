package editors

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Action says what happens to a file.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// FileChange is the atomic unit of strategy output. Strategies return
// changes for the caller to apply or preview; they never write
// themselves.
type FileChange struct {
	// Path is the absolute target path.
	Path string

	Action Action

	// Content is the full new file content. Empty for deletes and
	// directory changes.
	Content string

	// IsDir marks a directory mirror: applying the change copies
	// SourceDir to Path wholesale.
	IsDir bool

	// SourceDir is the tree to copy when IsDir is set.
	SourceDir string

	// Category is the capability that produced the change.
	Category Capability

	// Global marks changes outside the project root (user scope).
	// Applying them goes through the tracking layer.
	Global bool
}

// String renders the change for logs and dry-run output.
func (c FileChange) String() string {
	suffix := ""
	if c.IsDir {
		suffix = string(filepath.Separator)
	}
	return fmt.Sprintf("%s %s%s", c.Action, c.Path, suffix)
}

// SortChanges orders changes by path for deterministic output, project
// scope before user scope.
func SortChanges(changes []FileChange) {
	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Global != changes[j].Global {
			return !changes[i].Global
		}
		return changes[i].Path < changes[j].Path
	})
}
