package pgframe

// Logger provides a pluggable logging interface for pgframe operations.
// Implementations must be safe for concurrent use by multiple goroutines.
//
// The library never logs and swallows an error: anything passed to Error or
// Warn is also returned to the caller.
type Logger interface {
	// Verbose logs detailed diagnostic information.
	// Only logged when verbose mode is enabled.
	Verbose(format string, args ...interface{})

	// Info logs informational messages about normal operations.
	Info(format string, args ...interface{})

	// Warn logs conditions the caller should know about, such as a replace
	// that dropped a table but failed to recreate it.
	Warn(format string, args ...interface{})

	// Error logs error messages.
	Error(format string, args ...interface{})
}
