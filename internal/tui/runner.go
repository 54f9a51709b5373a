package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vvka-141/pgframe/internal/tui/components"
)

// Task is a unit of work shown behind a spinner. It returns a one-line summary.
type Task func(ctx context.Context) (string, error)

// RunWithSpinner runs task. In interactive mode a spinner is drawn on stderr
// and ctrl+c cancels ctx; otherwise the summary is printed as a plain line.
// The task's error is always returned unchanged.
func RunWithSpinner(ctx context.Context, message string, task Task) error {
	if !IsInteractive() {
		return runPlain(ctx, os.Stderr, task)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := components.NewSpinner(message, DefaultKeyMap().Quit, components.SpinnerStyles{
		Spinner: SpinnerStyle,
		Success: SuccessStyle,
		Error:   ErrorStyle,
	})
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))

	taskErr := make(chan error, 1)
	go func() {
		summary, err := task(ctx)
		taskErr <- err
		program.Send(components.SpinnerDoneMsg{Result: summary, Err: err})
	}()

	final, runErr := program.Run()
	if s, ok := final.(components.Spinner); ok && s.Canceled() {
		cancel()
	}
	err := <-taskErr
	if err == nil && runErr != nil && ctx.Err() == nil {
		return fmt.Errorf("spinner: %w", runErr)
	}
	return err
}

func runPlain(ctx context.Context, w io.Writer, task Task) error {
	summary, err := task(ctx)
	if err != nil {
		return err
	}
	if summary != "" {
		fmt.Fprintln(w, SymbolCheck+" "+summary)
	}
	return nil
}
