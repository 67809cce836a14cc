package frontmatter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

type ruleMeta struct {
	Description string   `yaml:"description"`
	Globs       []string `yaml:"globs,omitempty"`
	Always      bool     `yaml:"always,omitempty"`
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantMeta ruleMeta
		wantBody string
	}{
		{
			name: "valid frontmatter",
			input: `---
description: API conventions
globs:
  - "**/*.go"
---

Use contexts on all handlers.
`,
			wantMeta: ruleMeta{
				Description: "API conventions",
				Globs:       []string{"**/*.go"},
			},
			wantBody: "\nUse contexts on all handlers.\n",
		},
		{
			name:     "no frontmatter returns full content",
			input:    "# Just markdown\n\nNo header here.\n",
			wantMeta: ruleMeta{},
			wantBody: "# Just markdown\n\nNo header here.\n",
		},
		{
			name: "empty frontmatter",
			input: `---
---
Body only.
`,
			wantMeta: ruleMeta{},
			wantBody: "Body only.\n",
		},
		{
			name:     "crlf line endings",
			input:    "---\r\ndescription: win\r\n---\r\nbody\r\n",
			wantMeta: ruleMeta{Description: "win"},
			wantBody: "body\r\n",
		},
		{
			name:     "unclosed frontmatter returns full content",
			input:    "---\ndescription: open\nno close",
			wantMeta: ruleMeta{},
			wantBody: "---\ndescription: open\nno close",
		},
		{
			name:     "delimiter with trailing spaces",
			input:    "---  \ndescription: padded\n---\t\nbody\n",
			wantMeta: ruleMeta{Description: "padded"},
			wantBody: "body\n",
		},
		{
			name:     "closing delimiter without trailing newline",
			input:    "---\nalways: true\n---",
			wantMeta: ruleMeta{Always: true},
			wantBody: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var meta ruleMeta
			body, err := Parse(strings.NewReader(tt.input), &meta)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !equalMeta(meta, tt.wantMeta) {
				t.Errorf("meta = %+v, want %+v", meta, tt.wantMeta)
			}
			if string(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func equalMeta(a, b ruleMeta) bool {
	if a.Description != b.Description || a.Always != b.Always {
		return false
	}
	if len(a.Globs) != len(b.Globs) {
		return false
	}
	for i := range a.Globs {
		if a.Globs[i] != b.Globs[i] {
			return false
		}
	}
	return true
}

func TestParse_InvalidYAML(t *testing.T) {
	input := "---\ndescription: [broken\n---\nbody\n"

	var meta ruleMeta
	if _, err := Parse(strings.NewReader(input), &meta); err == nil {
		t.Error("Parse() expected error for invalid YAML")
	}
}

func TestMustParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "present frontmatter",
			input:   "---\ndescription: ok\n---\nbody\n",
			wantErr: nil,
		},
		{
			name:    "missing frontmatter",
			input:   "just a body\n",
			wantErr: ErrMissingFrontmatter,
		},
		{
			name:    "unclosed frontmatter",
			input:   "---\ndescription: open\n",
			wantErr: ErrUnclosedFrontmatter,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrMissingFrontmatter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var meta ruleMeta
			_, err := MustParse(strings.NewReader(tt.input), &meta)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("MustParse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseHeader(t *testing.T) {
	input := `---
description: header only
globs:
  - "src/**"
---

Large body that should not be unmarshaled.
`

	var meta ruleMeta
	if err := ParseHeader(strings.NewReader(input), &meta); err != nil {
		t.Fatalf("ParseHeader() error = %v", err)
	}
	if meta.Description != "header only" {
		t.Errorf("Description = %q, want %q", meta.Description, "header only")
	}
	if len(meta.Globs) != 1 || meta.Globs[0] != "src/**" {
		t.Errorf("Globs = %v, want [src/**]", meta.Globs)
	}
}

func TestParseHeader_NoFrontmatter(t *testing.T) {
	var meta ruleMeta
	if err := ParseHeader(strings.NewReader("plain body\n"), &meta); err != nil {
		t.Fatalf("ParseHeader() error = %v", err)
	}
	if meta.Description != "" {
		t.Errorf("meta should remain zero, got %+v", meta)
	}
}

func TestParseHeader_Unclosed(t *testing.T) {
	var meta ruleMeta
	err := ParseHeader(strings.NewReader("---\ndescription: x\n"), &meta)
	if !errors.Is(err, ErrUnclosedFrontmatter) {
		t.Errorf("ParseHeader() error = %v, want ErrUnclosedFrontmatter", err)
	}
}

func TestFormat(t *testing.T) {
	meta := ruleMeta{
		Description: "formatted",
		Globs:       []string{"**/*.ts"},
	}

	out, err := Format(meta, "Rule body.")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	s := string(out)
	if !strings.HasPrefix(s, "---\n") {
		t.Errorf("output missing opening delimiter:\n%s", s)
	}
	if !strings.Contains(s, "description: formatted\n") {
		t.Errorf("output missing description field:\n%s", s)
	}
	if !strings.HasSuffix(s, "Rule body.\n") {
		t.Errorf("output missing trailing newline after body:\n%s", s)
	}
}

func TestFormat_EmptyBody(t *testing.T) {
	out, err := Format(ruleMeta{Description: "no body"}, "")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.HasSuffix(string(out), "---\n") {
		t.Errorf("empty-body output should end at closing delimiter:\n%s", out)
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	meta := ruleMeta{
		Description: "round trip",
		Globs:       []string{"a/**", "b/**"},
		Always:      true,
	}
	body := "Line one.\n\nLine two.\n"

	out, err := Format(meta, body)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var got ruleMeta
	gotBody, err := Parse(bytes.NewReader(out), &got)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !equalMeta(got, meta) {
		t.Errorf("meta = %+v, want %+v", got, meta)
	}
	if strings.TrimSpace(string(gotBody)) != strings.TrimSpace(body) {
		t.Errorf("body = %q, want %q (modulo surrounding whitespace)", gotBody, body)
	}
}
