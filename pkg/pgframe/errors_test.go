package pgframe_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vvka-141/pgframe/pkg/pgframe"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, pgframe.ExitSuccess},
		{"validation", fmt.Errorf("table is required: %w", pgframe.ErrValidation), pgframe.ExitConfigError},
		{"invalid config", pgframe.ErrInvalidConfig, pgframe.ExitConfigError},
		{"unsupported auth", pgframe.ErrUnsupportedAuthMethod, pgframe.ExitConfigError},
		{"connection failed", pgframe.ErrConnectionFailed, pgframe.ExitConnectionError},
		{"approval denied", pgframe.ErrApprovalDenied, pgframe.ExitApprovalDenied},
		{"backend", fmt.Errorf("copy failed: %w", pgframe.ErrBackend), pgframe.ExitBackendError},
		{"conflict", fmt.Errorf("public.t: %w", pgframe.ErrConflict), pgframe.ExitConflict},
		{"data shape", pgframe.ErrDataShape, pgframe.ExitDataShape},
		{"unknown flag", errors.New("unknown flag --foo"), pgframe.ExitUsageError},
		{"unknown shorthand flag", errors.New("unknown shorthand flag: 'x'"), pgframe.ExitUsageError},
		{"missing argument", errors.New("missing required argument: <file>"), pgframe.ExitUsageError},
		{"accepts args", errors.New("accepts 1 arg(s), received 0"), pgframe.ExitUsageError},
		{"required flag", errors.New("required flag \"table\" not set"), pgframe.ExitUsageError},
		{"one of group required", errors.New("at least one of the flags in the group [table query] is required"), pgframe.ExitUsageError},
		{"mutually exclusive", errors.New("if any flags in the group [table query] are set none of the others can be; [query table] were all set"), pgframe.ExitUsageError},
		{"invalid argument", errors.New("invalid argument \"abc\" for \"--port\""), pgframe.ExitUsageError},
		{"connection refused text", errors.New("dial tcp: connection refused"), pgframe.ExitConnectionError},
		{"general error", errors.New("something went wrong"), pgframe.ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pgframe.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
