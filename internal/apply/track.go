package apply

import (
	"context"
	"encoding/json"
	"os"

	"github.com/airc-dev/airc/internal/editors"
	"github.com/airc-dev/airc/internal/logging"
	"github.com/airc-dev/airc/internal/materialize"
	"github.com/airc-dev/airc/internal/tracking"
)

// track records every user-scope artifact this project depends on. A
// project must appear in the registry even when the shared file needed
// no change this run, so recording happens on every real apply, not
// only when something was written. Registry failures degrade to
// warnings: the editor files are already correct at this point.
func (r *Runner) track(ctx context.Context, result *Result, m *materialize.Model) {
	log := logging.FromContext(ctx)

	type record struct {
		editor, typ, name, path, checksum string
	}
	var records []record

	for _, ed := range r.editors {
		if global, ok := ed.MCP().(editors.GlobalMCP); ok && m.MCP != nil {
			for _, s := range m.MCP.Active() {
				value, found, err := global.ReadServerValue(r.env, s.Name)
				if err != nil {
					result.warnf("tracking %s mcp server %q: %v", ed.ID(), s.Name, err)
					continue
				}
				if !found {
					continue
				}
				sum, err := fingerprint(value)
				if err != nil {
					result.warnf("tracking %s mcp server %q: %v", ed.ID(), s.Name, err)
					continue
				}
				records = append(records, record{ed.ID(), "mcp", s.Name, global.Path(r.env), sum})
			}
		}

		if global, ok := ed.Prompts().(editors.GlobalPrompts); ok {
			for _, p := range m.Prompts {
				path := global.PromptPath(r.env, p.Name)
				data, err := os.ReadFile(path)
				if err != nil {
					result.warnf("tracking %s prompt %q: %v", ed.ID(), p.Name, err)
					continue
				}
				records = append(records, record{ed.ID(), "prompts", p.Name, path, tracking.Checksum(data)})
			}
		}
	}

	if len(records) == 0 {
		return
	}

	err := r.store.Update(func(f *tracking.File) error {
		for _, rec := range records {
			f.Record(rec.editor, rec.typ, rec.name, r.root, rec.path, rec.checksum)
		}
		return nil
	})
	if err != nil {
		result.warnf("updating tracking registry: %v", err)
		return
	}
	log.Debug("tracking registry updated", "artifacts", len(records))
}

// fingerprint hashes a decoded config value canonically, so the same
// stored value always produces the same checksum regardless of the
// on-disk formatting around it.
func fingerprint(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return tracking.Checksum(data), nil
}
