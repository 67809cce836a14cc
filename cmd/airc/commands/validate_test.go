package commands

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/paths"
)

func TestRunValidate_ValidProject(t *testing.T) {
	root := withProject(t)

	valid := `{
	// JSONC comments are allowed in descriptors.
	"rules": {
		"style": {"content": "Prefer table-driven tests."}
	}
}`
	if err := os.WriteFile(paths.DescriptorPath(root), []byte(valid), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := runValidateWithWriter(t.Context(), &buf); err != nil {
		t.Fatalf("runValidateWithWriter: %v\noutput:\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "Validation passed") {
		t.Errorf("output = %q, want a pass message", buf.String())
	}
}

func TestRunValidate_SchemaViolation(t *testing.T) {
	root := withProject(t)

	// Numbers are not valid capability entries.
	if err := os.WriteFile(paths.DescriptorPath(root), []byte(`{"skills": {"x": 42}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err := runValidateWithWriter(t.Context(), &buf)
	if err == nil {
		t.Fatal("runValidateWithWriter succeeded, want validation failure")
	}

	var exitErr *errors.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error %T does not unwrap to ExitError", err)
	}
	if exitErr.Code != errors.ExitUser {
		t.Errorf("exit code = %d, want %d", exitErr.Code, errors.ExitUser)
	}
	if !strings.Contains(buf.String(), "Validation failed") {
		t.Errorf("output = %q, want a failure message", buf.String())
	}
}

func TestRunValidate_MissingDescriptor(t *testing.T) {
	withProject(t)

	var buf bytes.Buffer
	err := runValidateWithWriter(t.Context(), &buf)
	if err == nil {
		t.Fatal("runValidateWithWriter succeeded, want missing-descriptor failure")
	}
	if !strings.Contains(buf.String(), "not found") {
		t.Errorf("output = %q, want a not-found issue", buf.String())
	}
}

func TestRunValidate_BrokenLocalOverride(t *testing.T) {
	root := withProject(t)

	if err := os.WriteFile(paths.DescriptorPath(root), []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.LocalOverridePath(root), []byte(`{"rules": `), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err := runValidateWithWriter(t.Context(), &buf)
	if err == nil {
		t.Fatal("runValidateWithWriter succeeded, want parse failure")
	}
	if !strings.Contains(buf.String(), "ai.local.json") {
		t.Errorf("output = %q, want the local override named", buf.String())
	}
}

func TestRunValidate_CircularExtends(t *testing.T) {
	root := withProject(t)

	if err := os.WriteFile(paths.DescriptorPath(root), []byte(`{"extends": ["./ai.json"]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err := runValidateWithWriter(t.Context(), &buf)
	if err == nil {
		t.Fatal("runValidateWithWriter succeeded, want cycle failure")
	}
	if !strings.Contains(buf.String(), "circular") {
		t.Errorf("output = %q, want the cycle reported", buf.String())
	}
}
