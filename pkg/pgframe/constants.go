package pgframe

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Load/dump completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or arguments
	ExitConnectionError = 11 // Failed to connect to database
	ExitApprovalDenied  = 12 // User denied table replacement
	ExitBackendError    = 13 // DDL, COPY or query failed
	ExitConflict        = 14 // Table exists under the fail policy
	ExitDataShape       = 15 // Input data cannot be typed (e.g. empty)
)

const (
	// DefaultForceApprovalCountdown is the countdown duration before a forced replace proceeds.
	DefaultForceApprovalCountdown = 5 * time.Second

	// DefaultRetryInitialDelay is the initial delay before the first connection retry.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the maximum delay between connection retries.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the maximum number of connection retries.
	DefaultRetryMaxAttempts = 3

	// DefaultTimeout bounds a whole CLI load or dump run.
	DefaultTimeout = 10 * time.Minute

	// DefaultSchema is used when a table reference has no schema part.
	DefaultSchema = "public"

	// DefaultDatabase is the database connected to when none is configured.
	DefaultDatabase = "postgres"

	// ApplicationName is reported to the server as application_name.
	ApplicationName = "pgframe"
)
