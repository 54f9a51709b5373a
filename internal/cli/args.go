package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequireSourceFile validates that exactly one source file argument is provided.
// Returns a helpful error message with usage and examples if missing or too many.
func RequireSourceFile(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <file>

Usage: %s

Examples:
  %s people.csv --table public.people
  cat people.json | %s - --format json --table people`, cmd.UseLine(), cmd.CommandPath(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}
