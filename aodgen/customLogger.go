package main

import (
	"log/slog"
)

// Logger routes info messages to stdout with the custom text handler
// and errors to stderr as JSON. It satisfies the pkg Logger interface.
type Logger struct {
	InfoLog  *slog.Logger
	ErrorLog *slog.Logger
}

func (l Logger) Info(message string, module string) {
	l.InfoLog.Info(message, "module", module)
}

func (l Logger) Error(message string) {
	l.ErrorLog.Error(message)
}
