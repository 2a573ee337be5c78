package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/waabox/plugforge/internal/domain"
)

// ProgressMsg carries one update from the generator into the program.
// It is exported so that tests can inject it directly into AppModel.Update.
type ProgressMsg domain.ProgressUpdate

// DoneMsg is sent when the generation run returns.
type DoneMsg struct {
	Err error
}

var titleStyle = lipgloss.NewStyle().Bold(true)

// AppModel is the root Bubbletea model of the generation progress view.
type AppModel struct {
	title   string
	steps   StepListModel
	spinner spinner.Model
	done    bool
	err     error
	// cancel aborts the run when the user quits early.
	cancel context.CancelFunc
}

// NewAppModel creates the progress model for the planned step ids.
func NewAppModel(title string, plan []string, cancel context.CancelFunc) AppModel {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	return AppModel{
		title:   title,
		steps:   NewStepListModel(plan),
		spinner: sp,
		cancel:  cancel,
	}
}

// Init starts the spinner.
func (m AppModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles progress messages, spinner ticks and key events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProgressMsg:
		m.steps = m.steps.Apply(domain.ProgressUpdate(msg))
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the header, the step list and the outcome once finished.
func (m AppModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(" plugforge  "+m.title) + "\n")
	sb.WriteString("────────────────────────────────────────────────────────────\n")
	spin := ""
	if !m.done {
		spin = m.spinner.View()
	}
	sb.WriteString(m.steps.View(spin))
	if m.done {
		sb.WriteString("\n")
		if m.err != nil {
			sb.WriteString(errorStyle.Render("✗ Project generation failed") + "\n")
			sb.WriteString("  " + m.err.Error() + "\n")
		} else {
			sb.WriteString(completedStyle.Render("✓ Project generated") + "\n")
		}
	} else {
		sb.WriteString("\n q: abort\n")
	}
	return sb.String()
}

// Steps returns the current step list.
func (m AppModel) Steps() StepListModel {
	return m.steps
}

// Run drives generate inside a Bubbletea program and returns its error.
// generate receives a context cancelled when the user aborts and an observer
// that forwards updates to the program.
func Run(ctx context.Context, title string, plan []string, generate func(context.Context, domain.Observer) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewAppModel(title, plan, cancel), tea.WithContext(ctx))
	result := make(chan error, 1)
	go func() {
		err := generate(ctx, func(u domain.ProgressUpdate) {
			p.Send(ProgressMsg(u))
		})
		result <- err
		p.Send(DoneMsg{Err: err})
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running progress view: %w", err)
	}
	return <-result
}
