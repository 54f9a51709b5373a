package components

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Spinner is a one-line progress indicator that ends with a ✓ or ✗ line.
type Spinner struct {
	spinner  spinner.Model
	message  string
	quit     key.Binding
	done     bool
	canceled bool
	result   string
	err      error
	styles   SpinnerStyles
}

// SpinnerStyles controls the spinner's rendering.
type SpinnerStyles struct {
	Spinner lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

// NewSpinner creates a spinner showing message. quit cancels the run.
func NewSpinner(message string, quit key.Binding, styles SpinnerStyles) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner
	return Spinner{spinner: s, message: message, quit: quit, styles: styles}
}

// SpinnerDoneMsg ends the spinner.
type SpinnerDoneMsg struct {
	Result string
	Err    error
}

func (s Spinner) Init() tea.Cmd {
	return s.spinner.Tick
}

func (s Spinner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SpinnerDoneMsg:
		s.done = true
		s.result = msg.Result
		s.err = msg.Err
		return s, tea.Quit
	case tea.KeyMsg:
		if key.Matches(msg, s.quit) {
			s.canceled = true
			return s, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s Spinner) View() string {
	switch {
	case s.done && s.err != nil:
		return s.styles.Error.Render("✗ "+s.err.Error()) + "\n"
	case s.done:
		return s.styles.Success.Render("✓ "+s.result) + "\n"
	case s.canceled:
		return s.styles.Error.Render("✗ canceled") + "\n"
	}
	return s.spinner.View() + " " + s.message
}

// Canceled reports whether the user pressed the quit key.
func (s Spinner) Canceled() bool {
	return s.canceled
}
