package logger

import (
	"strings"
	"sync"
)

// Log levels accepted in configuration.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	shared *Logger
	once   sync.Once
)

// Get returns the process-wide logger. Only the first call's level is used.
func Get(level string) *Logger {
	once.Do(func() {
		shared = New(level)
	})
	return shared
}

// New builds an independent logger writing to stdout.
func New(level string) *Logger {
	return &Logger{SugaredLogger: newSugared(parseLevel(level))}
}

// ValidLevel reports whether level names a supported log level.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return true
	}
	return false
}
