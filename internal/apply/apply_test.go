package apply

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/editors/claudecode"
	"github.com/airc-dev/airc/internal/editors/codex"
	"github.com/airc-dev/airc/internal/logging"
	"github.com/airc-dev/airc/internal/tracking"
)

const testDescriptor = `{
  // project configuration
  "skills": {"deploy": "./skills/deploy"},
  "rules": {"style": "./rules/style.md"},
  "prompts": {"review": {"description": "Reviews the diff.", "content": "Review the staged changes."}},
  "mcp": {"search": {"command": "npx", "args": ["-y", "@airc/server-search"]}},
  "hooks": {"guard": {"event": "pre_tool_use", "command": "scripts/guard.sh", "matcher": "Bash"}}
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeProject(t *testing.T, root string) {
	t.Helper()
	writeFile(t, filepath.Join(root, "ai.json"), testDescriptor)
	writeFile(t, filepath.Join(root, "skills", "deploy", "SKILL.md"),
		"---\nname: deploy\ndescription: Ships the current branch.\n---\n\nRun the deploy script.\n")
	writeFile(t, filepath.Join(root, "rules", "style.md"), "Write tests first.\n")
}

// newTestRunner wires a runner against a throwaway home directory and
// tracking store.
func newTestRunner(t *testing.T, root string, eds []editors.Editor, opts ...Option) (*Runner, editors.Env, *tracking.Store) {
	t.Helper()
	env := editors.Env{ProjectRoot: root, Home: t.TempDir()}
	store := tracking.NewStoreAt(filepath.Join(t.TempDir(), "tracking.json"))
	opts = append([]Option{WithEnv(env), WithStore(store)}, opts...)
	return NewRunner(root, eds, opts...), env, store
}

// testContext carries a test logger so run output lands in the test log.
func testContext(t *testing.T) context.Context {
	t.Helper()
	return logging.NewContext(context.Background(), logging.ForTest(t))
}

func TestRunnerDryRunPlansWithoutWriting(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root)

	runner, _, _ := newTestRunner(t, root, []editors.Editor{claudecode.New()}, WithDryRun(true))
	result, err := runner.Run(testContext(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !result.DryRun {
		t.Error("result.DryRun = false")
	}
	if result.TotalChanges() == 0 {
		t.Fatal("dry run planned no changes")
	}
	if _, err := os.Stat(filepath.Join(root, "CLAUDE.md")); !os.IsNotExist(err) {
		t.Error("dry run wrote CLAUDE.md")
	}
	if _, err := os.Stat(filepath.Join(root, ".mcp.json")); !os.IsNotExist(err) {
		t.Error("dry run wrote .mcp.json")
	}
}

func TestRunnerApplyWritesEverything(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root)

	runner, env, store := newTestRunner(t, root, []editors.Editor{claudecode.New(), codex.New()})
	result, err := runner.Run(testContext(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.EntryErrors) != 0 {
		t.Fatalf("entry errors: %v", result.EntryErrors)
	}

	claudeMD, err := os.ReadFile(filepath.Join(root, "CLAUDE.md"))
	if err != nil {
		t.Fatalf("CLAUDE.md not written: %v", err)
	}
	if !strings.Contains(string(claudeMD), "## style") {
		t.Errorf("CLAUDE.md missing rule section:\n%s", claudeMD)
	}
	if strings.Contains(string(claudeMD), "skill-deploy") {
		t.Error("native-skill editor got a pointer rule")
	}

	if _, err := os.Stat(filepath.Join(root, ".claude", "skills", "deploy", "SKILL.md")); err != nil {
		t.Errorf("native skill tree not copied: %v", err)
	}

	mcpJSON, err := os.ReadFile(filepath.Join(root, ".mcp.json"))
	if err != nil {
		t.Fatalf(".mcp.json not written: %v", err)
	}
	if !strings.Contains(string(mcpJSON), `"search"`) {
		t.Errorf(".mcp.json missing server:\n%s", mcpJSON)
	}

	settings, err := os.ReadFile(filepath.Join(root, ".claude", "settings.json"))
	if err != nil {
		t.Fatalf("settings.json not written: %v", err)
	}
	if !strings.Contains(string(settings), "PreToolUse") {
		t.Errorf("settings.json missing hook event:\n%s", settings)
	}

	agentsMD, err := os.ReadFile(filepath.Join(root, "AGENTS.md"))
	if err != nil {
		t.Fatalf("AGENTS.md not written: %v", err)
	}
	if !strings.Contains(string(agentsMD), "## skill-deploy") {
		t.Errorf("AGENTS.md missing pointer rule:\n%s", agentsMD)
	}
	if _, err := os.Stat(filepath.Join(root, ".airc", "skills", "deploy", "SKILL.md")); err != nil {
		t.Errorf("pointer skill tree not copied: %v", err)
	}

	codexConfig, err := os.ReadFile(filepath.Join(env.Home, ".codex", "config.toml"))
	if err != nil {
		t.Fatalf("codex config not written: %v", err)
	}
	if !strings.Contains(string(codexConfig), "search") {
		t.Errorf("codex config missing server:\n%s", codexConfig)
	}
	if _, err := os.Stat(filepath.Join(env.Home, ".codex", "prompts", "review.md")); err != nil {
		t.Errorf("codex prompt not written: %v", err)
	}

	f, err := store.Load()
	if err != nil {
		t.Fatalf("loading tracking store: %v", err)
	}
	mcpEntry := f.Entries[tracking.Key("codex", "mcp", "search")]
	if mcpEntry == nil {
		t.Fatal("codex mcp server not tracked")
	}
	if len(mcpEntry.Projects) != 1 || mcpEntry.Projects[0] != root {
		t.Errorf("tracked projects = %v, want [%s]", mcpEntry.Projects, root)
	}
	if mcpEntry.Checksum == "" {
		t.Error("tracked entry has no checksum")
	}
	if f.Entries[tracking.Key("codex", "prompts", "review")] == nil {
		t.Error("codex prompt not tracked")
	}
	for key := range f.Entries {
		if strings.HasPrefix(key, "claude-code/") {
			t.Errorf("project-scope artifact tracked globally: %s", key)
		}
	}

	var codexUnsupported []editors.UnsupportedHook
	for _, report := range result.Reports {
		if report.Editor == "codex" {
			codexUnsupported = report.Unsupported
		}
	}
	if len(codexUnsupported) != 1 || codexUnsupported[0].Hook.Name != "guard" {
		t.Errorf("codex unsupported hooks = %v, want the guard hook", codexUnsupported)
	}
}

func TestRunnerApplyIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root)

	runner, _, _ := newTestRunner(t, root, []editors.Editor{claudecode.New(), codex.New()})
	if _, err := runner.Run(testContext(t)); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	second, err := runner.Run(testContext(t))
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if n := second.TotalChanges(); n != 0 {
		for _, report := range second.Reports {
			for _, c := range report.Changes {
				t.Logf("unexpected change: %s %s", report.Editor, c)
			}
		}
		t.Errorf("second apply planned %d changes, want 0", n)
	}
	if second.SnapshotID != "" {
		t.Errorf("second apply took snapshot %s with nothing to overwrite", second.SnapshotID)
	}
}

func TestRunnerSnapshotsBeforeOverwrite(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root)
	writeFile(t, filepath.Join(root, "CLAUDE.md"), "My own notes.\n")

	runner, _, _ := newTestRunner(t, root, []editors.Editor{claudecode.New()})
	result, err := runner.Run(testContext(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.SnapshotID == "" {
		t.Fatal("no snapshot taken before overwriting CLAUDE.md")
	}

	claudeMD, err := os.ReadFile(filepath.Join(root, "CLAUDE.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(claudeMD), "My own notes.") {
		t.Errorf("user content lost:\n%s", claudeMD)
	}
	if !strings.Contains(string(claudeMD), "## style") {
		t.Errorf("managed region missing:\n%s", claudeMD)
	}

	snapshotDir := filepath.Join(root, ".airc", "backups", result.SnapshotID)
	var foundOriginal bool
	err = filepath.Walk(snapshotDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || info.Name() != "CLAUDE.md" {
			return err
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		if string(data) == "My own notes.\n" {
			foundOriginal = true
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walking snapshot: %v", err)
	}
	if !foundOriginal {
		t.Error("snapshot does not contain the original CLAUDE.md")
	}
}

func TestRunnerConfirmDeclineAborts(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root)
	writeFile(t, filepath.Join(root, "CLAUDE.md"), "My own notes.\n")

	var asked []string
	runner, _, _ := newTestRunner(t, root, []editors.Editor{claudecode.New()},
		WithConfirm(func(r *Result) bool {
			asked = r.Overwrites()
			return false
		}))
	result, err := runner.Run(testContext(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !result.Aborted {
		t.Error("result.Aborted = false after the callback declined")
	}
	if len(asked) != 1 || filepath.Base(asked[0]) != "CLAUDE.md" {
		t.Errorf("confirm saw overwrites %v, want exactly CLAUDE.md", asked)
	}

	data, err := os.ReadFile(filepath.Join(root, "CLAUDE.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "My own notes.\n" {
		t.Errorf("CLAUDE.md changed after decline:\n%s", data)
	}
	if result.SnapshotID != "" {
		t.Errorf("snapshot %s taken after decline", result.SnapshotID)
	}
	if _, err := os.Stat(filepath.Join(root, ".mcp.json")); !os.IsNotExist(err) {
		t.Error("decline still wrote .mcp.json")
	}
}

func TestRunnerConfirmAcceptWrites(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root)
	writeFile(t, filepath.Join(root, "CLAUDE.md"), "My own notes.\n")

	called := 0
	runner, _, _ := newTestRunner(t, root, []editors.Editor{claudecode.New()},
		WithConfirm(func(*Result) bool {
			called++
			return true
		}))
	result, err := runner.Run(testContext(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if called != 1 {
		t.Errorf("confirm called %d times, want 1", called)
	}
	if result.Aborted {
		t.Error("result.Aborted = true after the callback accepted")
	}
	if result.SnapshotID == "" {
		t.Error("no snapshot before the confirmed overwrite")
	}

	claudeMD, err := os.ReadFile(filepath.Join(root, "CLAUDE.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(claudeMD), "## style") {
		t.Errorf("accepted overwrite not applied:\n%s", claudeMD)
	}
}

func TestRunnerConfirmSkippedWhenOnlyCreating(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root)

	runner, _, _ := newTestRunner(t, root, []editors.Editor{claudecode.New()},
		WithConfirm(func(*Result) bool {
			t.Error("confirm called for a plan with no overwrites")
			return false
		}))
	result, err := runner.Run(testContext(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Aborted {
		t.Error("result.Aborted = true without a decline")
	}
	if _, err := os.Stat(filepath.Join(root, "CLAUDE.md")); err != nil {
		t.Errorf("creates not written: %v", err)
	}
}

func TestRunnerSnapshotFailureAborts(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root)
	writeFile(t, filepath.Join(root, "CLAUDE.md"), "My own notes.\n")
	// A file where the snapshot directory belongs makes every capture
	// fail.
	writeFile(t, filepath.Join(root, ".airc", "backups"), "not a directory")

	runner, _, _ := newTestRunner(t, root, []editors.Editor{claudecode.New()})
	_, err := runner.Run(testContext(t))
	if err == nil {
		t.Fatal("Run() succeeded with an unusable snapshot directory")
	}

	data, readErr := os.ReadFile(filepath.Join(root, "CLAUDE.md"))
	if readErr != nil {
		t.Fatal(readErr)
	}
	if string(data) != "My own notes.\n" {
		t.Errorf("CLAUDE.md overwritten without a snapshot:\n%s", data)
	}
}

func TestRunnerForceWritesWithoutSnapshot(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root)
	writeFile(t, filepath.Join(root, "CLAUDE.md"), "My own notes.\n")
	writeFile(t, filepath.Join(root, ".airc", "backups"), "not a directory")

	runner, _, _ := newTestRunner(t, root, []editors.Editor{claudecode.New()}, WithForce(true))
	result, err := runner.Run(testContext(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.SnapshotID != "" {
		t.Errorf("SnapshotID = %s with a broken snapshot directory", result.SnapshotID)
	}
	var warned bool
	for _, w := range result.Warnings {
		if strings.Contains(w, "snapshot failed") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("Warnings = %v, want a snapshot failure warning", result.Warnings)
	}

	claudeMD, err := os.ReadFile(filepath.Join(root, "CLAUDE.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(claudeMD), "## style") {
		t.Errorf("forced write did not land:\n%s", claudeMD)
	}
}

func TestResultOverwrites(t *testing.T) {
	result := &Result{Reports: []EditorReport{
		{Editor: "a", Changes: []editors.FileChange{
			{Path: "/p/b.txt", Action: editors.ActionUpdate},
			{Path: "/p/a.txt", Action: editors.ActionUpdate},
			{Path: "/p/new.txt", Action: editors.ActionCreate},
			{Path: "/p/old.txt", Action: editors.ActionDelete},
		}},
		{Editor: "b", Changes: []editors.FileChange{
			{Path: "/p/a.txt", Action: editors.ActionUpdate},
		}},
	}}

	got := result.Overwrites()
	want := []string{"/p/a.txt", "/p/b.txt"}
	if !slices.Equal(got, want) {
		t.Errorf("Overwrites() = %v, want %v", got, want)
	}
}

func TestRunnerIsolatesEntryFailures(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root)
	writeFile(t, filepath.Join(root, "ai.json"), `{
  "rules": {
    "style": "./rules/style.md",
    "missing": "./rules/nope.md"
  }
}`)

	runner, _, _ := newTestRunner(t, root, []editors.Editor{claudecode.New()})
	result, err := runner.Run(testContext(t))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.EntryErrors) != 1 || result.EntryErrors[0].Name != "missing" {
		t.Fatalf("EntryErrors = %v, want exactly the missing rule", result.EntryErrors)
	}

	claudeMD, err := os.ReadFile(filepath.Join(root, "CLAUDE.md"))
	if err != nil {
		t.Fatalf("surviving rule not written: %v", err)
	}
	if !strings.Contains(string(claudeMD), "## style") {
		t.Errorf("CLAUDE.md missing surviving rule:\n%s", claudeMD)
	}
}
