package mcp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestServer_RoundTripPreservesUnknownFields(t *testing.T) {
	input := `{
		"command": "npx",
		"args": ["-y", "@x/server-github"],
		"env": {"GITHUB_TOKEN": "secret"},
		"futureField": {"nested": true},
		"timeout": 30
	}`

	var s Server
	if err := json.Unmarshal([]byte(input), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if s.Command != "npx" {
		t.Errorf("Command = %q, want npx", s.Command)
	}
	if len(s.Args) != 2 {
		t.Errorf("Args = %v, want 2 entries", s.Args)
	}

	out, err := json.Marshal(&s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	if _, ok := decoded["futureField"]; !ok {
		t.Errorf("futureField dropped on round-trip: %s", out)
	}
	if decoded["timeout"] != float64(30) {
		t.Errorf("timeout = %v, want 30", decoded["timeout"])
	}
}

func TestServer_TransportInference(t *testing.T) {
	tests := []struct {
		name       string
		server     Server
		wantLocal  bool
		wantRemote bool
		want       string
	}{
		{
			name:      "command only",
			server:    Server{Command: "npx"},
			wantLocal: true,
			want:      TransportStdio,
		},
		{
			name:       "url only",
			server:     Server{URL: "https://mcp.example.com/sse"},
			wantRemote: true,
			want:       TransportSSE,
		},
		{
			name:      "explicit stdio wins over url",
			server:    Server{URL: "https://x", Transport: TransportStdio},
			wantLocal: true,
			want:      TransportStdio,
		},
		{
			name:   "empty server",
			server: Server{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.server.IsLocal(); got != tt.wantLocal {
				t.Errorf("IsLocal() = %v, want %v", got, tt.wantLocal)
			}
			if got := tt.server.IsRemote(); got != tt.wantRemote {
				t.Errorf("IsRemote() = %v, want %v", got, tt.wantRemote)
			}
			if got := tt.server.EffectiveTransport(); got != tt.want {
				t.Errorf("EffectiveTransport() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_NamesSorted(t *testing.T) {
	cfg := NewConfig()
	cfg.Servers["zulu"] = &Server{Name: "zulu", Command: "z"}
	cfg.Servers["alpha"] = &Server{Name: "alpha", Command: "a"}
	cfg.Servers["mike"] = &Server{Name: "mike", Command: "m", Disabled: true}

	names := cfg.Names()
	want := []string{"alpha", "mike", "zulu"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}

	active := cfg.Active()
	if len(active) != 2 || active[0].Name != "alpha" || active[1].Name != "zulu" {
		t.Errorf("Active() = %v, want [alpha zulu]", active)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`{"servers": {"github": {"command": "npx"}}}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Servers["github"].Name != "github" {
		t.Errorf("Name not mirrored from map key: %q", cfg.Servers["github"].Name)
	}

	empty, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error = %v", err)
	}
	if empty.Servers == nil {
		t.Error("Parse(nil) should initialize Servers")
	}

	if _, err := Parse([]byte(`{bad`)); err == nil {
		t.Error("Parse() with malformed input should fail")
	}
}

func TestParseFile_Missing(t *testing.T) {
	cfg, err := ParseFile(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("ParseFile() on missing file error = %v", err)
	}
	if len(cfg.Servers) != 0 {
		t.Error("missing file should yield an empty config")
	}
}

func TestParseFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ParseFile(path)
	if err == nil {
		t.Fatal("ParseFile() with malformed content should fail")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error should carry the path: %v", err)
	}
}

func TestServerFromValue(t *testing.T) {
	s, err := ServerFromValue("github", map[string]any{
		"command": "npx",
		"args":    []any{"-y", "@x/server-github"},
	})
	if err != nil {
		t.Fatalf("ServerFromValue() error = %v", err)
	}
	if s.Name != "github" || s.Command != "npx" || len(s.Args) != 2 {
		t.Errorf("unexpected server: %+v", s)
	}
}

func TestServer_Validate(t *testing.T) {
	tests := []struct {
		name     string
		server   Server
		wantErrs int
	}{
		{
			name:     "valid stdio",
			server:   Server{Name: "a", Command: "npx", Args: []string{"-y"}},
			wantErrs: 0,
		},
		{
			name:     "valid remote",
			server:   Server{Name: "b", URL: "https://mcp.example.com"},
			wantErrs: 0,
		},
		{
			name:     "neither command nor url",
			server:   Server{Name: "c"},
			wantErrs: 1,
		},
		{
			name:     "both command and url",
			server:   Server{Name: "d", Command: "npx", URL: "https://x"},
			wantErrs: 1,
		},
		{
			name:     "bad transport",
			server:   Server{Name: "e", Command: "npx", Transport: "pigeon"},
			wantErrs: 1,
		},
		{
			name:     "stdio without command",
			server:   Server{Name: "f", URL: "https://x", Transport: TransportStdio},
			wantErrs: 1,
		},
		{
			name:     "non-http url",
			server:   Server{Name: "g", URL: "ftp://files.example.com"},
			wantErrs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Servers[tt.server.Name] = &tt.server

			result := cfg.Validate()
			if got := len(result.Errors()); got != tt.wantErrs {
				t.Errorf("errors = %d, want %d: %v", got, tt.wantErrs, result.Issues)
			}
		})
	}
}

func TestServer_Validate_Warnings(t *testing.T) {
	cfg := NewConfig()
	cfg.Servers["local"] = &Server{
		Name:    "local",
		Command: "npx",
		Headers: map[string]string{"X-Ignored": "yes"},
	}

	result := cfg.Validate()
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Issues)
	}
	if !result.HasWarnings() {
		t.Error("headers on a stdio server should warn")
	}
}
