package logging

import "log/slog"

// LevelTrace sits below slog.LevelDebug for very chatty diagnostics such
// as per-file change planning and cache slot bookkeeping.
const LevelTrace = slog.LevelDebug - 4

// LevelFromVerbosity maps a -v flag count to a log level:
// 0 → Warn, 1 → Info, 2 → Debug, 3 and above → Trace.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	case v == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}
