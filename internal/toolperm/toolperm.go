// Package toolperm parses the tool permission tokens a skill manifest
// declares under allowed-tools.
package toolperm

import (
	"fmt"
	"regexp"

	"github.com/airc-dev/airc/internal/errors"
)

// Permission is one parsed tool permission.
type Permission struct {
	// Name is the tool name (Read, Write, Bash).
	Name string

	// Scope narrows the permission (the "git:*" in "Bash(git:*)").
	// Empty when the token grants the whole tool.
	Scope string
}

// String returns the canonical token form.
func (p Permission) String() string {
	if p.Scope == "" {
		return p.Name
	}
	return p.Name + "(" + p.Scope + ")"
}

// tokenPattern matches "ToolName" or "ToolName(scope)". Tool names are
// PascalCase: an uppercase letter followed by alphanumerics. The scope
// is any non-empty run without a closing parenthesis.
var tokenPattern = regexp.MustCompile(`^([A-Z][a-zA-Z0-9]*)(?:\(([^)]+)\))?$`)

// TokenError reports one malformed allowed-tools token.
type TokenError struct {
	Token string
}

func (e *TokenError) Error() string {
	if e.Token == "" {
		return "empty tool permission"
	}
	return fmt.Sprintf("invalid tool permission %q: tool names are PascalCase, with an optional (scope)", e.Token)
}

// Parse parses a single permission token.
func Parse(token string) (Permission, error) {
	matches := tokenPattern.FindStringSubmatch(token)
	if matches == nil {
		return Permission{}, &TokenError{Token: token}
	}
	return Permission{Name: matches[1], Scope: matches[2]}, nil
}

// ParseList parses every token, collecting the malformed ones into a
// single joined error. The returned permissions are the tokens that did
// parse, so a caller can report all problems in one pass.
func ParseList(tokens []string) ([]Permission, error) {
	perms := make([]Permission, 0, len(tokens))
	var errs []error
	for _, token := range tokens {
		p, err := Parse(token)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		perms = append(perms, p)
	}
	return perms, errors.Join(errs...)
}
