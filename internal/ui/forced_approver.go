package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// ForcedApprover approves a table replace after a cancellable countdown.
// Used with --force.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
	sleepFn func(time.Duration)
}

// NewForcedApprover writes its countdown to stderr.
func NewForcedApprover(verbose bool) pgframe.Approver {
	return &ForcedApprover{verbose: verbose, output: os.Stderr, sleepFn: time.Sleep}
}

func (a *ForcedApprover) RequestApproval(ctx context.Context, tableName string) (bool, error) {
	fmt.Fprintf(a.output, "\nDANGER: table %s will be DROPPED and recreated from the input file.\n", tableName)
	fmt.Fprintln(a.output, "Every row currently in it will be lost.")
	fmt.Fprintln(a.output)

	for i := int(pgframe.DefaultForceApprovalCountdown.Seconds()); i > 0; i-- {
		if err := ctx.Err(); err != nil {
			fmt.Fprintln(a.output)
			return false, err
		}
		fmt.Fprintf(a.output, "\rDropping in: %d seconds... (Press Ctrl+C to cancel)", i)
		a.sleepFn(time.Second)
	}
	if err := ctx.Err(); err != nil {
		fmt.Fprintln(a.output)
		return false, err
	}

	fmt.Fprintf(a.output, "\r✓ Proceeding with table replace...                              \n")
	return true, nil
}

var _ pgframe.Approver = (*ForcedApprover)(nil)
