package bson

import "log"

// Logger receives diagnostics for conditions that are recoverable (the
// caller gets a typed error back) but still worth a line of output. It
// exists so that a kind-mismatched accessor call leaves a trace even
// though it never panics.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// stdLogger backs DefaultLogger. It is a placeholder until this module
// has a reason to depend on something richer; no example in the
// surrounding codebase reaches for a third-party structured logger for a
// package with no daemon or request loop of its own.
type stdLogger struct{}

func (l *stdLogger) Warnf(format string, args ...interface{}) { log.Printf(format, args...) }

// DefaultLogger is used by every Iterator unless overridden with
// SetLogger.
var DefaultLogger Logger = &stdLogger{}

// logger is the package-level sink accessors warn through.
var logger = DefaultLogger

// SetLogger replaces the Logger used for kind-mismatch diagnostics. Pass
// nil to restore DefaultLogger.
func SetLogger(l Logger) {
	if l == nil {
		l = DefaultLogger
	}
	logger = l
}
