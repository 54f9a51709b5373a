package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// InteractiveApprover asks the user to retype the table name before a replace.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer
}

// NewInteractiveApprover reads from stdin and prompts on stderr.
func NewInteractiveApprover(verbose bool) pgframe.Approver {
	return &InteractiveApprover{verbose: verbose, input: os.Stdin, output: os.Stderr}
}

func (a *InteractiveApprover) RequestApproval(ctx context.Context, tableName string) (bool, error) {
	fmt.Fprintf(a.output, "\n⚠️  WARNING: You are about to DROP and RECREATE the table '%s'\n", tableName)
	fmt.Fprintln(a.output, "This will permanently delete all rows in this table!")
	fmt.Fprintf(a.output, "\nTo confirm, type the table name '%s' and press Enter: ", tableName)

	type result struct {
		line string
		err  error
	}
	// Buffered so the reader goroutine never blocks after a cancellation.
	lines := make(chan result, 1)
	go func() {
		line, err := bufio.NewReader(a.input).ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			lines <- result{err: err}
			return
		}
		lines <- result{line: strings.TrimSpace(line)}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case r := <-lines:
		if r.err != nil {
			return false, fmt.Errorf("failed to read input: %w", r.err)
		}
		if r.line == tableName {
			fmt.Fprintln(a.output, "✓ Confirmed. Proceeding with table replace...")
			return true, nil
		}
		fmt.Fprintf(a.output, "✗ Input '%s' does not match table name '%s'. Operation cancelled.\n", r.line, tableName)
		return false, nil
	}
}

var _ pgframe.Approver = (*InteractiveApprover)(nil)
