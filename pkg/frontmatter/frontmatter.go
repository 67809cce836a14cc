package frontmatter

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingFrontmatter is returned by MustParse when the content does not
// start with a frontmatter block.
var ErrMissingFrontmatter = errors.New("missing frontmatter")

// ErrUnclosedFrontmatter is returned by MustParse when an opening delimiter
// exists but no closing delimiter follows.
var ErrUnclosedFrontmatter = errors.New("missing closing frontmatter delimiter")

// Parse extracts YAML frontmatter and body content from a reader.
// If no frontmatter is present, matter is left untouched and the full
// content is returned as body. This suits files where frontmatter is
// optional (rules, prompts).
func Parse[T any](r io.Reader, matter *T) (body []byte, err error) {
	return parse(r, matter, false)
}

// MustParse is like Parse but fails when no frontmatter is found.
// This suits files where frontmatter is required (skill manifests).
func MustParse[T any](r io.Reader, matter *T) (body []byte, err error) {
	return parse(r, matter, true)
}

func parse[T any](r io.Reader, matter *T, required bool) ([]byte, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	header, body, found := split(content)
	if !found {
		if required {
			if opens(content) {
				return nil, ErrUnclosedFrontmatter
			}
			return nil, ErrMissingFrontmatter
		}
		return content, nil
	}

	if err := yaml.Unmarshal(header, matter); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}

	return body, nil
}

// split separates a frontmatter header from the body. The opening delimiter
// must be the very first line; the header runs until the next line consisting
// of "---". Both LF and CRLF line endings are handled.
func split(content []byte) (header, body []byte, found bool) {
	first, rest := nextLine(content)
	if !isDelimiter(first) {
		return nil, nil, false
	}

	after := rest
	for len(rest) > 0 {
		before := rest
		var line []byte
		line, rest = nextLine(rest)
		if isDelimiter(line) {
			return after[:len(after)-len(before)], rest, true
		}
	}

	return nil, nil, false
}

// nextLine returns the first line of b without its terminator, and the
// remainder after the terminator.
func nextLine(b []byte) (line, rest []byte) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil
	}
	line = b[:i]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return line, b[i+1:]
}

// isDelimiter reports whether line is a frontmatter delimiter. Trailing
// spaces and tabs are tolerated, leading ones are not.
func isDelimiter(line []byte) bool {
	return string(bytes.TrimRight(line, " \t")) == "---"
}

// opens reports whether content starts with an opening delimiter line.
func opens(content []byte) bool {
	first, _ := nextLine(content)
	return isDelimiter(first)
}

// ParseHeader parses only the frontmatter from the reader, stopping after
// the closing delimiter without consuming the body. Content without an
// opening delimiter is a silent success and matter remains untouched.
func ParseHeader(r io.Reader, matter any) error {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		return scanner.Err()
	}
	if !isDelimiter([]byte(scanner.Text())) {
		return nil
	}

	var buf bytes.Buffer
	for scanner.Scan() {
		line := scanner.Text()
		if isDelimiter([]byte(line)) {
			if err := yaml.Unmarshal(buf.Bytes(), matter); err != nil {
				return fmt.Errorf("parsing frontmatter: %w", err)
			}
			return nil
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}

	if err := scanner.Err(); err != nil {
		return err
	}
	return ErrUnclosedFrontmatter
}

// Format renders matter as a YAML frontmatter block followed by body.
// The header uses 2-space indentation and a blank line separates the
// closing delimiter from the body. The result always ends in a newline.
func Format(matter any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(matter); err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}

	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}
