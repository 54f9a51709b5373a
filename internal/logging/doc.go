// Package logging provides concrete implementations of the pgframe.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: writes prefixed lines to stderr (or any io.Writer)
//   - NullLogger: discards all messages
//   - MemoryLogger: keeps every line in memory for assertions in tests
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
