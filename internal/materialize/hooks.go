package materialize

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/model"
	"github.com/airc-dev/airc/pkg/fileutil"
)

// materializeHook produces one hook from an inline definition or a
// referenced JSON file. Hooks use the generic event vocabulary; editor
// strategies translate or reject events downstream.
func (m *Materializer) materializeHook(ctx context.Context, t task, vars map[string]string) (model.Hook, error) {
	if err := validateEntryName(t.name); err != nil {
		return model.Hook{}, err
	}

	obj, ok := t.entry.Object()
	if !ok || t.entry.IsRef() {
		var err error
		obj, err = m.hookObjectFromFile(ctx, t)
		if err != nil {
			return model.Hook{}, err
		}
	}

	return hookFromObject(t.name, obj, vars)
}

func (m *Materializer) hookObjectFromFile(ctx context.Context, t task) (map[string]any, error) {
	_, location, err := m.resolveRef(ctx, t, false)
	if err != nil {
		return nil, err
	}

	data, err := fileutil.ReadFileWithLimit(location)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", location)
	}

	var obj map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &obj); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", location)
	}
	return obj, nil
}

// hookFromObject decodes and validates one hook definition.
func hookFromObject(name string, obj map[string]any, vars map[string]string) (model.Hook, error) {
	event, err := stringField(obj, "event")
	if err != nil {
		return model.Hook{}, err
	}
	if event == "" {
		return model.Hook{}, errors.New("hook needs an event field")
	}
	if !model.ValidEvent(model.Event(event)) {
		return model.Hook{}, errors.Newf("unknown event %q (want one of %s)", event, eventList())
	}

	command, err := stringField(obj, "command")
	if err != nil {
		return model.Hook{}, err
	}
	if strings.TrimSpace(command) == "" {
		return model.Hook{}, errors.New("hook needs a command field")
	}

	matcher, err := stringField(obj, "matcher")
	if err != nil {
		return model.Hook{}, err
	}

	timeout := 0
	if v, present := obj["timeout"]; present {
		f, ok := v.(float64)
		if !ok || f != float64(int(f)) || f < 0 {
			return model.Hook{}, errors.Newf("timeout must be a non-negative whole number of seconds, got %v", v)
		}
		timeout = int(f)
	}

	return model.Hook{
		Name:           name,
		Event:          model.Event(event),
		Command:        Interpolate(command, vars),
		Matcher:        matcher,
		TimeoutSeconds: timeout,
	}, nil
}

func eventList() string {
	events := model.Events()
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}
