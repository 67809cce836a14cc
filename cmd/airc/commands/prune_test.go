package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/airc-dev/airc/internal/tracking"
)

func TestRenderScan(t *testing.T) {
	f := tracking.NewFile()
	f.Record("codex", "mcp", "github", "/gone/project", "/home/u/.codex/config.toml", "abc")
	f.Record("gemini", "mcp", "search", "/gone/project", "/home/u/.gemini/settings.json", "def")
	f.Record("gemini", "mcp", "search", "/alive/project", "/home/u/.gemini/settings.json", "def")

	scan := &tracking.ScanResult{
		Partial:  map[string][]string{"gemini/mcp/search": {"/alive/project"}},
		Orphaned: []string{"codex/mcp/github"},
	}

	var buf bytes.Buffer
	renderScan(&buf, f, scan)
	got := buf.String()

	if !strings.Contains(got, "gemini/mcp/search") {
		t.Errorf("output missing the partial entry:\n%s", got)
	}
	if !strings.Contains(got, "keeps /alive/project") {
		t.Errorf("output missing the surviving project:\n%s", got)
	}
	if !strings.Contains(got, "Orphaned") {
		t.Errorf("output missing the orphan section:\n%s", got)
	}
	if !strings.Contains(got, "codex/mcp/github") {
		t.Errorf("output missing the orphaned key:\n%s", got)
	}
	if !strings.Contains(got, "/home/u/.codex/config.toml") {
		t.Errorf("output missing the orphaned artifact path:\n%s", got)
	}
}

func TestRenderScan_PartialOnly(t *testing.T) {
	f := tracking.NewFile()
	f.Record("windsurf", "mcp", "db", "/alive", "/home/u/.codeium/windsurf/mcp_config.json", "aaa")

	scan := &tracking.ScanResult{
		Partial: map[string][]string{"windsurf/mcp/db": {"/alive"}},
	}

	var buf bytes.Buffer
	renderScan(&buf, f, scan)
	got := buf.String()

	if strings.Contains(got, "Orphaned") {
		t.Errorf("orphan section rendered with no orphans:\n%s", got)
	}
	if !strings.Contains(got, "vanished projects") {
		t.Errorf("output missing the partial section header:\n%s", got)
	}
}
