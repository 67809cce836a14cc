// Package registry holds the set of supported editors and resolves
// editor identifiers from flags and configuration.
package registry

import (
	"strings"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/editors/claudecode"
	"github.com/airc-dev/airc/internal/editors/codex"
	"github.com/airc-dev/airc/internal/editors/copilot"
	"github.com/airc-dev/airc/internal/editors/cursor"
	"github.com/airc-dev/airc/internal/editors/gemini"
	"github.com/airc-dev/airc/internal/editors/kiro"
	"github.com/airc-dev/airc/internal/editors/windsurf"
	"github.com/airc-dev/airc/internal/editors/zed"
	"github.com/airc-dev/airc/internal/errors"
)

// All returns every supported editor in stable order.
func All() []editors.Editor {
	return []editors.Editor{
		claudecode.New(),
		cursor.New(),
		windsurf.New(),
		zed.New(),
		codex.New(),
		copilot.New(),
		kiro.New(),
		gemini.New(),
	}
}

// IDs returns the identifiers of every supported editor.
func IDs() []string {
	all := All()
	ids := make([]string, len(all))
	for i, e := range all {
		ids[i] = e.ID()
	}
	return ids
}

// Get resolves one editor by identifier.
func Get(id string) (editors.Editor, error) {
	for _, e := range All() {
		if e.ID() == id {
			return e, nil
		}
	}
	return nil, errors.WithHintf(
		errors.Newf("unknown editor %q", id),
		"Supported editors: %s", strings.Join(IDs(), ", "),
	)
}

// Resolve maps a list of identifiers to editors, rejecting duplicates.
func Resolve(ids []string) ([]editors.Editor, error) {
	seen := map[string]bool{}
	var result []editors.Editor
	for _, id := range ids {
		if seen[id] {
			continue
		}
		e, err := Get(id)
		if err != nil {
			return nil, err
		}
		seen[id] = true
		result = append(result, e)
	}
	return result, nil
}

// Detect returns the editors that show signs of use in the project.
func Detect(env editors.Env) []editors.Editor {
	var detected []editors.Editor
	for _, e := range All() {
		if e.Detected(env) {
			detected = append(detected, e)
		}
	}
	return detected
}
