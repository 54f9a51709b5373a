package pgframe

import (
	"errors"
	"strings"
)

// Sentinel errors for the table writer/reader and the CLI around it.
// Every error returned by a public operation wraps exactly one of them,
// so callers can branch with errors.Is().
//
// Example usage:
//
//	err := svc.Write(ctx, conn, data, ident, pgframe.PolicyFail)
//	if errors.Is(err, pgframe.ErrConflict) {
//	    // table already exists
//	}
var (
	// ErrValidation indicates missing or malformed arguments.
	// Raised before any database interaction.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates the destination table exists under the fail policy.
	ErrConflict = errors.New("table already exists")

	// ErrBackend indicates a failure reported by the database connection:
	// DDL, COPY or query errors.
	ErrBackend = errors.New("backend error")

	// ErrDataShape indicates input the type inference cannot handle,
	// such as a table with no rows.
	ErrDataShape = errors.New("unsupported data shape")

	// ErrInvalidConfig indicates the CLI configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrApprovalDenied indicates the user denied dropping a table.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")
)

// ExitCodeForError returns the exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrBackend):
		return ExitBackendError
	case errors.Is(err, ErrConflict):
		return ExitConflict
	case errors.Is(err, ErrDataShape):
		return ExitDataShape
	}

	errStr := err.Error()

	// cobra does not export typed errors for flag and argument problems
	if strings.HasPrefix(errStr, "unknown flag") ||
		strings.HasPrefix(errStr, "unknown shorthand flag") ||
		strings.HasPrefix(errStr, "unknown command") ||
		strings.HasPrefix(errStr, "accepts ") ||
		strings.HasPrefix(errStr, "missing required argument") ||
		strings.HasPrefix(errStr, "required flag") ||
		strings.HasPrefix(errStr, "invalid argument") ||
		strings.HasPrefix(errStr, "at least one of the flags in the group") ||
		strings.Contains(errStr, "if any flags in the group") {
		return ExitUsageError
	}

	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
