package structcmp

import "testing"

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a    any
		b    any
		want bool
	}{
		{
			name: "identical maps",
			a:    map[string]any{"cmd": "npx", "args": []any{"-y", "server"}},
			b:    map[string]any{"cmd": "npx", "args": []any{"-y", "server"}},
			want: true,
		},
		{
			name: "nested map difference",
			a:    map[string]any{"env": map[string]any{"KEY": "a"}},
			b:    map[string]any{"env": map[string]any{"KEY": "b"}},
			want: false,
		},
		{
			name: "missing key",
			a:    map[string]any{"cmd": "npx", "timeout": 30},
			b:    map[string]any{"cmd": "npx"},
			want: false,
		},
		{
			name: "int vs float64",
			a:    map[string]any{"timeout": 30},
			b:    map[string]any{"timeout": float64(30)},
			want: true,
		},
		{
			name: "int64 vs float64",
			a:    int64(7),
			b:    float64(7),
			want: true,
		},
		{
			name: "different numbers",
			a:    float64(1),
			b:    float64(2),
			want: false,
		},
		{
			name: "slice order matters",
			a:    []any{"a", "b"},
			b:    []any{"b", "a"},
			want: false,
		},
		{
			name: "slice length mismatch",
			a:    []any{"a"},
			b:    []any{"a", "b"},
			want: false,
		},
		{
			name: "typed string slices",
			a:    []string{"x", "y"},
			b:    []string{"x", "y"},
			want: true,
		},
		{
			name: "bools",
			a:    true,
			b:    true,
			want: true,
		},
		{
			name: "bool vs string",
			a:    true,
			b:    "true",
			want: false,
		},
		{
			name: "nils",
			a:    nil,
			b:    nil,
			want: true,
		},
		{
			name: "nil vs empty map",
			a:    nil,
			b:    map[string]any{},
			want: false,
		},
		{
			name: "string vs number",
			a:    "30",
			b:    float64(30),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			// equality is symmetric
			if got := Equal(tt.b, tt.a); got != tt.want {
				t.Errorf("Equal() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqualJSON(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{
			name: "reordered keys",
			a:    `{"command":"npx","args":["-y"],"env":{"A":"1","B":"2"}}`,
			b:    `{"env":{"B":"2","A":"1"},"args":["-y"],"command":"npx"}`,
			want: true,
		},
		{
			name: "whitespace and indentation",
			a:    `{"a": 1}`,
			b:    "{\n  \"a\": 1\n}\n",
			want: true,
		},
		{
			name: "value difference",
			a:    `{"a":1}`,
			b:    `{"a":2}`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EqualJSON([]byte(tt.a), []byte(tt.b))
			if err != nil {
				t.Fatalf("EqualJSON() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EqualJSON() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqualJSON_Invalid(t *testing.T) {
	if _, err := EqualJSON([]byte(`{`), []byte(`{}`)); err == nil {
		t.Error("EqualJSON() expected error for invalid JSON")
	}
	if _, err := EqualJSON([]byte(`{}`), []byte(`nope`)); err == nil {
		t.Error("EqualJSON() expected error for invalid JSON on right side")
	}
}

func TestEqualText(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{
			name: "identical",
			a:    "Use small commits.\n",
			b:    "Use small commits.\n",
			want: true,
		},
		{
			name: "crlf vs lf",
			a:    "line one\r\nline two\r\n",
			b:    "line one\nline two\n",
			want: true,
		},
		{
			name: "trailing whitespace ignored",
			a:    "content",
			b:    "content\n\n",
			want: true,
		},
		{
			name: "leading whitespace ignored",
			a:    "\n\ncontent\n",
			b:    "content\n",
			want: true,
		},
		{
			name: "interior whitespace significant",
			a:    "a\nb",
			b:    "a\n\nb",
			want: false,
		},
		{
			name: "different content",
			a:    "alpha",
			b:    "beta",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EqualText(tt.a, tt.b); got != tt.want {
				t.Errorf("EqualText() = %v, want %v", got, tt.want)
			}
		})
	}
}
