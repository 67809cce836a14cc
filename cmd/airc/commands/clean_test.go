package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/airc-dev/airc/internal/paths"
)

// withCleanFlags saves and restores the clean command's flag state.
func withCleanFlags(t *testing.T, packages, backups, all bool) {
	t.Helper()
	origPackages, origBackups, origAll := cleanPackages, cleanBackups, cleanAll
	t.Cleanup(func() { cleanPackages, cleanBackups, cleanAll = origPackages, origBackups, origAll })
	cleanPackages, cleanBackups, cleanAll = packages, backups, all
}

func seedCleanDirs(t *testing.T, root string) (cache, backups string) {
	t.Helper()
	cache = paths.CacheDir(root)
	backups = paths.BackupDir(root)
	for _, dir := range []string{cache, backups} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "marker"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return cache, backups
}

func TestRunClean_Packages(t *testing.T) {
	root := withProject(t)
	withCleanFlags(t, true, false, false)
	cache, backups := seedCleanDirs(t, root)

	var buf bytes.Buffer
	if err := runCleanWithWriter(&buf); err != nil {
		t.Fatalf("runCleanWithWriter: %v", err)
	}

	if _, err := os.Stat(cache); !os.IsNotExist(err) {
		t.Errorf("cache dir survived --packages (stat err = %v)", err)
	}
	if _, err := os.Stat(backups); err != nil {
		t.Errorf("backup dir removed by --packages: %v", err)
	}
	if !strings.Contains(buf.String(), "Removed") {
		t.Errorf("output = %q, want a Removed line", buf.String())
	}
}

func TestRunClean_All(t *testing.T) {
	root := withProject(t)
	withCleanFlags(t, false, false, true)
	cache, backups := seedCleanDirs(t, root)

	var buf bytes.Buffer
	if err := runCleanWithWriter(&buf); err != nil {
		t.Fatalf("runCleanWithWriter: %v", err)
	}

	for _, dir := range []string{cache, backups} {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Errorf("%s survived --all (stat err = %v)", dir, err)
		}
	}
}

func TestRunClean_NothingToRemove(t *testing.T) {
	withProject(t)
	withCleanFlags(t, false, false, true)

	var buf bytes.Buffer
	if err := runCleanWithWriter(&buf); err != nil {
		t.Fatalf("runCleanWithWriter: %v", err)
	}
	if !strings.Contains(buf.String(), "nothing at") {
		t.Errorf("output = %q, want nothing-at notes", buf.String())
	}
}

func TestRunClean_RequiresTarget(t *testing.T) {
	withProject(t)
	withCleanFlags(t, false, false, false)

	var buf bytes.Buffer
	if err := runCleanWithWriter(&buf); err == nil {
		t.Fatal("expected an error when no target flag is set")
	}
}
