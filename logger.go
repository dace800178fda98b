package ledscript

// Logger is the narrow verbose-tracing hook both the compiler and the
// executor accept: callers plug in whatever logging they already use
// (or nothing) instead of this module hard-coding one. It mirrors the
// original program's verbose/_log parameter (original_source/interpretor.py).
type Logger func(format string, args ...interface{})

// NopLogger discards everything. It is the default for both Compiler and
// Interpreter when no Logger option is given.
func NopLogger(string, ...interface{}) {}
