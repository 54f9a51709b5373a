package logging

import (
	"fmt"
	"sync"
)

// NullLogger is a no-op logger that discards all log messages.
type NullLogger struct{}

// NewNullLogger creates a new NullLogger.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Verbose(format string, args ...interface{}) {}
func (l *NullLogger) Info(format string, args ...interface{})    {}
func (l *NullLogger) Warn(format string, args ...interface{})    {}
func (l *NullLogger) Error(format string, args ...interface{})   {}

// MemoryLogger records formatted messages per level.
type MemoryLogger struct {
	mu       sync.Mutex
	Verboses []string
	Infos    []string
	Warnings []string
	Errors   []string
}

// NewMemoryLogger creates an empty MemoryLogger.
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Verbose(format string, args ...interface{}) {
	l.add(&l.Verboses, format, args)
}

func (l *MemoryLogger) Info(format string, args ...interface{}) {
	l.add(&l.Infos, format, args)
}

func (l *MemoryLogger) Warn(format string, args ...interface{}) {
	l.add(&l.Warnings, format, args)
}

func (l *MemoryLogger) Error(format string, args ...interface{}) {
	l.add(&l.Errors, format, args)
}

func (l *MemoryLogger) add(dst *[]string, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*dst = append(*dst, fmt.Sprintf(format, args...))
}
