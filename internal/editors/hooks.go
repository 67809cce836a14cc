package editors

import (
	"fmt"

	"github.com/airc-dev/airc/internal/model"
)

// HookEventMap translates the generic event vocabulary to one editor's
// native event names. Events absent from the map cannot be expressed by
// that editor.
type HookEventMap map[model.Event]string

// TranslatedHook pairs a hook with its editor-native event name.
type TranslatedHook struct {
	Hook  model.Hook
	Event string
}

// UnsupportedHook records a hook an editor could not express and why.
type UnsupportedHook struct {
	Hook   model.Hook
	Reason string
}

func (u UnsupportedHook) String() string {
	return fmt.Sprintf("%s (%s): %s", u.Hook.Name, u.Hook.Event, u.Reason)
}

// Translate splits hooks into the ones this editor can express and the
// ones it cannot. Input order is preserved.
func (m HookEventMap) Translate(hooks []model.Hook) ([]TranslatedHook, []UnsupportedHook) {
	var mapped []TranslatedHook
	var unsupported []UnsupportedHook
	for _, h := range hooks {
		native, ok := m[h.Event]
		if !ok {
			unsupported = append(unsupported, UnsupportedHook{
				Hook:   h,
				Reason: fmt.Sprintf("no native event for %s", h.Event),
			})
			continue
		}
		mapped = append(mapped, TranslatedHook{Hook: h, Event: native})
	}
	return mapped, unsupported
}
