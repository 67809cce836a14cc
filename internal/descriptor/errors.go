package descriptor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/airc-dev/airc/internal/errors"
)

// ParseError reports a syntactically broken descriptor with the line
// and column of the failure.
type ParseError struct {
	Path string
	Line int
	Col  int

	cause error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parsing %s: line %d, column %d: %v", e.Path, e.Line, e.Col, e.cause)
	}
	return fmt.Sprintf("parsing %s: %v", e.Path, e.cause)
}

func (e *ParseError) Unwrap() error { return e.cause }

// newParseError locates the decode failure inside data when the
// underlying error carries a byte offset.
func newParseError(path string, data []byte, cause error) error {
	pe := &ParseError{Path: path, cause: cause}

	var offset int64 = -1
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(cause, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(cause, &typeErr):
		offset = typeErr.Offset
	}
	if offset >= 0 {
		pe.Line, pe.Col = lineCol(data, offset)
	}

	return errors.WithCode(pe, errors.CodeConfigParse)
}

// lineCol converts a byte offset into 1-based line and column numbers.
func lineCol(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// SchemaError reports every schema violation found in one document.
type SchemaError struct {
	Path   string
	Issues []Issue
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s violates the descriptor schema", e.Path)
	for _, issue := range e.Issues {
		b.WriteString("\n  ")
		b.WriteString(issue.String())
	}
	return b.String()
}

// Issue is one (field path, message) schema violation.
type Issue struct {
	// Field is the instance location, e.g. "/mcp/playwright".
	Field string

	// Message describes the violation.
	Message string

	// Keyword is the schema keyword that failed, e.g. "type".
	Keyword string
}

func (i Issue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return i.Field + ": " + i.Message
}

// CircularError reports a cycle in the extends chain. Chain lists the
// references in resolution order, starting and ending with the one
// that reappeared.
type CircularError struct {
	Chain []string
}

func (e *CircularError) Error() string {
	return "circular extends chain: " + strings.Join(e.Chain, " -> ")
}

// newCircularError attaches the stable code for cycle failures.
func newCircularError(chain []string) error {
	return errors.WithCode(&CircularError{Chain: chain}, errors.CodeConfigCircular)
}
