package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// ProgressDisplay is a Bubble Tea model that spins while one request runs.
// Key presses are ignored; the request ends on its own deadline.
type ProgressDisplay struct {
	spinner spinner.Model
	label   string
	start   time.Time
	done    bool
	err     error
	now     func() time.Time
}

type doneMsg struct{ err error }

// NewProgressDisplay creates a display for one labelled request.
func NewProgressDisplay(label string) *ProgressDisplay {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return &ProgressDisplay{
		spinner: s,
		label:   label,
		start:   time.Now(),
		now:     time.Now,
	}
}

// Init implements tea.Model.
func (p *ProgressDisplay) Init() tea.Cmd {
	return p.spinner.Tick
}

// Update implements tea.Model.
func (p *ProgressDisplay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		p.done = true
		p.err = msg.err
		return p, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}

	return p, nil
}

// View implements tea.Model.
func (p *ProgressDisplay) View() string {
	elapsed := p.now().Sub(p.start)
	if p.done {
		return RenderStepDone(p.label, elapsed, p.err) + "\n"
	}
	return fmt.Sprintf("%s %s  %s",
		p.spinner.View(),
		p.label,
		HelpStyle.Render(elapsed.Truncate(time.Second).String()),
	)
}

// RunWithSpinner runs fn while a spinner is shown on stderr. When stderr is
// not a terminal it prints a start and a finish line instead.
func RunWithSpinner(ctx context.Context, label string, fn func(ctx context.Context) error) error {
	if !isTerminal(os.Stderr) {
		return runPlain(ctx, os.Stderr, label, fn)
	}

	p := tea.NewProgram(NewProgressDisplay(label),
		tea.WithOutput(os.Stderr), tea.WithInput(nil), tea.WithoutSignalHandler())
	result := make(chan error, 1)
	go func() {
		err := fn(ctx)
		result <- err
		p.Send(doneMsg{err: err})
	}()

	// A display failure is not the request's failure.
	_, _ = p.Run()
	return <-result
}

func runPlain(ctx context.Context, w io.Writer, label string, fn func(ctx context.Context) error) error {
	start := time.Now()
	fmt.Fprintln(w, RenderStepStart(label))
	err := fn(ctx)
	fmt.Fprintln(w, RenderStepDone(label, time.Since(start), err))
	return err
}

// RenderStepStart is the non-interactive start line.
func RenderStepStart(label string) string {
	return fmt.Sprintf("%s %s", SpinnerStyle.Render("→"), label)
}

// RenderStepDone is the finish line for a request.
func RenderStepDone(label string, elapsed time.Duration, err error) string {
	mark := SuccessStyle.Render("✓")
	if err != nil {
		mark = ErrorStyle.Render("✗")
	}
	return fmt.Sprintf("%s %s  %s", mark, label, HelpStyle.Render(elapsed.Truncate(time.Second).String()))
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
