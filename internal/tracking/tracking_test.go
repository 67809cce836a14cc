package tracking

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStoreAt(filepath.Join(t.TempDir(), "tracking.json"))

	f, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(f.Entries) != 0 {
		t.Errorf("Entries = %v, want empty", f.Entries)
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store := NewStoreAt(filepath.Join(t.TempDir(), "nested", "tracking.json"))

	f := NewFile()
	f.Record("codex", "mcp", "github", "/work/alpha", "/home/u/.codex/config.toml", "abc123")
	f.Record("codex", "mcp", "github", "/work/beta", "/home/u/.codex/config.toml", "abc123")
	f.Record("gemini", "mcp", "search", "/work/alpha", "/home/u/.gemini/settings.json", "def456")

	if err := store.Save(f); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantKeys := []string{"codex/mcp/github", "gemini/mcp/search"}
	if got := loaded.Keys(); !reflect.DeepEqual(got, wantKeys) {
		t.Errorf("Keys() = %v, want %v", got, wantKeys)
	}

	entry := loaded.Entries["codex/mcp/github"]
	if entry == nil {
		t.Fatal("codex/mcp/github entry missing after round trip")
	}
	wantProjects := []string{"/work/alpha", "/work/beta"}
	if !reflect.DeepEqual(entry.Projects, wantProjects) {
		t.Errorf("Projects = %v, want %v", entry.Projects, wantProjects)
	}
	if entry.Path != "/home/u/.codex/config.toml" {
		t.Errorf("Path = %q", entry.Path)
	}
	if entry.Checksum != "abc123" {
		t.Errorf("Checksum = %q", entry.Checksum)
	}
}

func TestRecordDeduplicatesProjects(t *testing.T) {
	f := NewFile()
	f.Record("zed", "mcp", "fs", "/work/alpha", "", "")
	f.Record("zed", "mcp", "fs", "/work/alpha", "", "")

	entry := f.Entries[Key("zed", "mcp", "fs")]
	if got := len(entry.Projects); got != 1 {
		t.Errorf("len(Projects) = %d, want 1", got)
	}
}

func TestRecordRefreshesChecksum(t *testing.T) {
	f := NewFile()
	f.Record("codex", "prompts", "review", "/work/alpha", "/home/u/.codex/prompts/review.md", "old")
	f.Record("codex", "prompts", "review", "/work/beta", "/home/u/.codex/prompts/review.md", "new")

	entry := f.Entries["codex/prompts/review"]
	if entry.Checksum != "new" {
		t.Errorf("Checksum = %q, want %q", entry.Checksum, "new")
	}
}

func TestRemoveEntry(t *testing.T) {
	store := NewStoreAt(filepath.Join(t.TempDir(), "tracking.json"))

	f := NewFile()
	f.Record("codex", "mcp", "github", "/work/alpha", "", "")
	f.Record("codex", "mcp", "search", "/work/alpha", "", "")
	if err := store.Save(f); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := store.RemoveEntry("codex/mcp/github"); err != nil {
		t.Fatalf("RemoveEntry() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loaded.Keys(); !reflect.DeepEqual(got, []string{"codex/mcp/search"}) {
		t.Errorf("Keys() = %v, want only codex/mcp/search", got)
	}
}

func TestUpdatePersistsChanges(t *testing.T) {
	store := NewStoreAt(filepath.Join(t.TempDir(), "tracking.json"))

	err := store.Update(func(f *File) error {
		f.Record("windsurf", "mcp", "github", "/work/alpha", "", "")
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := loaded.Entries["windsurf/mcp/github"]; !ok {
		t.Error("entry not persisted by Update")
	}
}

func TestScanPartitionsByProjectLiveness(t *testing.T) {
	alive := t.TempDir()
	alsoAlive := t.TempDir()
	dead := filepath.Join(t.TempDir(), "removed")

	f := NewFile()
	f.Record("codex", "mcp", "intact", alive, "", "")
	f.Record("codex", "mcp", "shrunk", alive, "", "")
	f.Record("codex", "mcp", "shrunk", dead, "", "")
	f.Record("gemini", "mcp", "orphan", dead, "", "")
	f.Record("codex", "mcp", "full", alive, "", "")
	f.Record("codex", "mcp", "full", alsoAlive, "", "")

	result := Scan(f)

	if !result.HasWork() {
		t.Fatal("HasWork() = false, want true")
	}
	if !reflect.DeepEqual(result.Orphaned, []string{"gemini/mcp/orphan"}) {
		t.Errorf("Orphaned = %v, want [gemini/mcp/orphan]", result.Orphaned)
	}
	if got, ok := result.Partial["codex/mcp/shrunk"]; !ok || !reflect.DeepEqual(got, []string{alive}) {
		t.Errorf("Partial[codex/mcp/shrunk] = %v, want [%s]", got, alive)
	}
	if _, ok := result.Partial["codex/mcp/intact"]; ok {
		t.Error("fully live entry reported as partial")
	}
	if _, ok := result.Partial["codex/mcp/full"]; ok {
		t.Error("fully live multi-project entry reported as partial")
	}
}

func TestScanCleanRegistry(t *testing.T) {
	alive := t.TempDir()

	f := NewFile()
	f.Record("codex", "mcp", "github", alive, "", "")

	if result := Scan(f); result.HasWork() {
		t.Errorf("HasWork() = true for fully live registry: %+v", result)
	}
}

func TestScanIgnoresFileAtProjectPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := NewFile()
	f.Record("codex", "mcp", "github", file, "", "")

	result := Scan(f)
	if !reflect.DeepEqual(result.Orphaned, []string{"codex/mcp/github"}) {
		t.Errorf("Orphaned = %v, want the file-backed project treated as gone", result.Orphaned)
	}
}

func TestChecksumStable(t *testing.T) {
	a := Checksum([]byte("hello"))
	b := Checksum([]byte("hello"))
	c := Checksum([]byte("world"))

	if a != b {
		t.Errorf("Checksum not deterministic: %q != %q", a, b)
	}
	if a == c {
		t.Error("distinct content produced identical checksums")
	}
	if len(a) != 64 {
		t.Errorf("len(checksum) = %d, want 64 hex chars", len(a))
	}
}
