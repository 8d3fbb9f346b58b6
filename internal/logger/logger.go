package logger

import (
	"io"
	"log"
)

// Logger is a wrapper around the standard log.Logger that tags each line
// with its level.
type Logger struct {
	*log.Logger
}

// New creates a logger writing to w. A nil w discards everything.
func New(w io.Writer) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{
		Logger: log.New(w, "", log.LstdFlags),
	}
}

// Info logs an informational message.
func (l *Logger) Info(format string, v ...any) {
	l.Printf("INFO: "+format, v...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, v ...any) {
	l.Printf("WARN: "+format, v...)
}

// Error logs an error message.
func (l *Logger) Error(format string, v ...any) {
	l.Printf("ERROR: "+format, v...)
}
