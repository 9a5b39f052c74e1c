package logger

import "codeberg.org/mutker/ryzenctl/internal/errors"

// Logger is the logging surface handed to components that do not use the
// package-level functions directly.
type Logger interface {
	Debug() *LogEvent
	Info() *LogEvent
	Warn() *LogEvent
	Error() *LogEvent
	ErrorWithCode(err errors.Error) *LogEvent
	WarnWithCode(err errors.Error) *LogEvent
	// With returns a logger tagging every event with component.
	With(component string) Logger
}
