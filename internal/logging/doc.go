// Package logging configures structured logging for airc on top of log/slog.
//
// The default handler produces compact, colorized text for terminals and
// falls back to plain text when the writer is not a TTY, NO_COLOR is set,
// or TERM=dumb. A JSON handler is available for machine consumption, and
// MultiHandler fans records out to several handlers (terminal plus log
// file).
//
// Attribute values whose keys look secret-bearing (TOKEN, KEY, PASSWORD...)
// or whose values carry a known API-token prefix are masked before they are
// written, so MCP server environments never leak credentials into logs.
//
// Verbosity maps to levels as: 0 → Warn, 1 → Info, 2 → Debug, 3+ → Trace.
package logging
