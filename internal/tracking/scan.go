package tracking

import (
	"os"
	"sort"
)

// ScanResult partitions registry entries by how many of their
// referencing projects still exist on disk.
type ScanResult struct {
	// Partial maps entry keys to the surviving project roots for
	// entries that lost some, but not all, of their projects. The
	// registry is rewritten to the survivors without confirmation.
	Partial map[string][]string

	// Orphaned lists entry keys whose projects are all gone. Removing
	// the artifact itself is destructive and stays behind confirmation.
	Orphaned []string
}

// HasWork reports whether the scan found anything to reconcile.
func (r *ScanResult) HasWork() bool {
	return len(r.Partial) > 0 || len(r.Orphaned) > 0
}

// Scan checks every tracked project root against the filesystem.
func Scan(f *File) *ScanResult {
	result := &ScanResult{Partial: make(map[string][]string)}
	for _, key := range f.Keys() {
		entry := f.Entries[key]
		var alive []string
		for _, project := range entry.Projects {
			if dirExists(project) {
				alive = append(alive, project)
			}
		}
		switch {
		case len(alive) == len(entry.Projects):
		case len(alive) == 0:
			result.Orphaned = append(result.Orphaned, key)
		default:
			result.Partial[key] = alive
		}
	}
	sort.Strings(result.Orphaned)
	return result
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
