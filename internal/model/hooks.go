package model

// Event is the generic hook event vocabulary. Editor strategies translate
// these to their own event names; events an editor cannot express are
// reported as unsupported rather than silently dropped.
type Event string

const (
	EventPreToolUse       Event = "pre_tool_use"
	EventPostToolUse      Event = "post_tool_use"
	EventUserPromptSubmit Event = "user_prompt_submit"
	EventNotification     Event = "notification"
	EventStop             Event = "stop"
	EventSubagentStop     Event = "subagent_stop"
	EventPreCompact       Event = "pre_compact"
	EventSessionStart     Event = "session_start"
	EventSessionEnd       Event = "session_end"
)

// Events lists the generic vocabulary in a stable order.
func Events() []Event {
	return []Event{
		EventPreToolUse,
		EventPostToolUse,
		EventUserPromptSubmit,
		EventNotification,
		EventStop,
		EventSubagentStop,
		EventPreCompact,
		EventSessionStart,
		EventSessionEnd,
	}
}

// ValidEvent reports whether e belongs to the generic vocabulary.
func ValidEvent(e Event) bool {
	for _, known := range Events() {
		if e == known {
			return true
		}
	}
	return false
}

// Hook runs a command when an agent lifecycle event fires.
type Hook struct {
	// Name identifies the hook within the descriptor.
	Name string

	// Event is the generic event the hook listens for.
	Event Event

	// Command is the shell command to run.
	Command string

	// Matcher restricts tool events to matching tool names. Editors with
	// no matcher concept ignore it.
	Matcher string

	// TimeoutSeconds bounds the command's runtime. Zero means the
	// editor's default.
	TimeoutSeconds int
}
