package logging

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/cockroachdb/errors"
)

// Format specifies the output format for log records.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// Config holds the options for building the process logger.
type Config struct {
	// Level is the minimum level; records below it are discarded.
	Level slog.Level
	// Format selects text or JSON output. Unrecognized values fall
	// back to text.
	Format Format
	// Output receives the records. Defaults to os.Stderr when nil.
	Output io.Writer
	// File, when set, duplicates every record to this path as
	// append-only JSON, regardless of Format.
	File string
}

// New builds the logger described by cfg. With cfg.File set, records
// fan out to both the primary handler and the log file.
func New(cfg Config) (*slog.Logger, error) {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var primary slog.Handler
	switch cfg.Format {
	case FormatJSON:
		primary = slog.NewJSONHandler(output, opts)
	default:
		primary = NewHandler(output, opts)
	}

	if cfg.File == "" {
		return slog.New(primary), nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, errors.Wrapf(err, "opening log file %s", cfg.File)
	}
	fileHandler := slog.NewJSONHandler(f, opts)
	return slog.New(NewMultiHandler(primary, fileHandler)), nil
}

// testWriter adapts testing.T to io.Writer so slog output lands in the
// test log.
type testWriter struct {
	t *testing.T
}

func (w *testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	msg := string(p)
	// t.Log appends its own newline.
	if len(msg) > 0 && msg[len(msg)-1] == '\n' {
		msg = msg[:len(msg)-1]
	}
	w.t.Log(msg)
	return len(p), nil
}

// ForTest creates a Trace-level logger whose output appears with the
// test's own log lines (shown on failure or with -v).
func ForTest(t *testing.T) *slog.Logger {
	t.Helper()
	logger, err := New(Config{
		Level:  LevelTrace,
		Output: &testWriter{t: t},
	})
	if err != nil {
		t.Fatalf("building test logger: %v", err)
	}
	return logger
}
