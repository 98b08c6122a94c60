package logging

// Level represents a diagnostic verbosity level. Values are ordered and
// comparable, matching the scanner's 0..9 verbosity knob: a message logged at
// level L is emitted whenever the configured verbosity is >= L.
type Level uint

const (
	// LevelSilent disables all diagnostic output.
	LevelSilent Level = iota
	// LevelError reports only fatal-class conditions.
	LevelError
	// LevelWarn additionally reports skipped files and directories,
	// including those skipped because of a per-entry I/O error.
	LevelWarn
	// LevelInfo additionally reports phase and scan-level progress.
	LevelInfo
	// LevelDebug additionally reports per-directory traversal.
	LevelDebug
	// LevelTrace additionally reports per-file traversal and per-phase hashing.
	LevelTrace
)

// FromVerbosity maps the 0..9 verbosity knob onto a Level, clamping out of
// range values. Verbosity 0 is silent; anything above 5 behaves like trace.
func FromVerbosity(verbosity int) Level {
	switch {
	case verbosity <= 0:
		return LevelSilent
	case verbosity >= int(LevelTrace):
		return LevelTrace
	default:
		return Level(verbosity)
	}
}

// String provides a human-readable representation of a Level.
func (l Level) String() string {
	switch l {
	case LevelSilent:
		return "silent"
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	default:
		return "unknown"
	}
}
