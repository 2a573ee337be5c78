package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/waabox/plugforge/internal/domain"
)

var (
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#008000", Dark: "#55FF55"})
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D00000", Dark: "#FF5555"}).Bold(true)
	pendingStyle   = lipgloss.NewStyle().Faint(true)
)

var stepTitles = map[string]string{
	domain.StepClonePlugin:  "Clone plugin template",
	domain.StepInitGit:      "Initialize repository",
	domain.StepAddSubmodule: "Attach GUI",
	domain.StepConfigure:    "Write project configuration",
	domain.StepInstallGUI:   "Install GUI dependencies",
	domain.StepIDEConfig:    "Generate IDE configuration",
}

// StepTitle returns the human readable name of a step identifier.
func StepTitle(id string) string {
	if title, ok := stepTitles[id]; ok {
		return title
	}
	return id
}

type stepRow struct {
	id      string
	status  domain.StepStatus
	message string
}

// StepListModel is an immutable model of the generation steps and their status.
type StepListModel struct {
	steps []stepRow
	err   string
}

// NewStepListModel creates a step list with every step pending.
func NewStepListModel(ids []string) StepListModel {
	steps := make([]stepRow, 0, len(ids))
	for _, id := range ids {
		steps = append(steps, stepRow{id: id, status: domain.StatusPending})
	}
	return StepListModel{steps: steps}
}

// Apply returns a new model reflecting u. Updates for unknown steps are appended;
// the terminal error update marks the running step as failed.
func (m StepListModel) Apply(u domain.ProgressUpdate) StepListModel {
	steps := make([]stepRow, len(m.steps))
	copy(steps, m.steps)
	m.steps = steps

	if u.Step == domain.StepError {
		m.err = u.Error
		for i := range m.steps {
			if m.steps[i].status == domain.StatusInProgress {
				m.steps[i].status = domain.StatusError
			}
		}
		return m
	}
	for i := range m.steps {
		if m.steps[i].id == u.Step {
			m.steps[i].status = u.Status
			m.steps[i].message = u.Message
			return m
		}
	}
	m.steps = append(m.steps, stepRow{id: u.Step, status: u.Status, message: u.Message})
	return m
}

// Status returns the status of the step with the given id.
func (m StepListModel) Status(id string) domain.StepStatus {
	for _, s := range m.steps {
		if s.id == id {
			return s.status
		}
	}
	return domain.StatusPending
}

// Err returns the error text of the terminal error update, if any.
func (m StepListModel) Err() string {
	return m.err
}

// View renders the step list. spin is shown next to in-progress steps.
func (m StepListModel) View(spin string) string {
	if len(m.steps) == 0 {
		return "No steps planned."
	}
	var sb strings.Builder
	for _, s := range m.steps {
		icon := statusIcon(s.status)
		if s.status == domain.StatusInProgress && spin != "" {
			icon = spin
		}
		line := fmt.Sprintf("%s %-30s", icon, truncate(StepTitle(s.id), 30))
		if s.status == domain.StatusInProgress && s.message != "" {
			line += " " + s.message
		}
		if s.status == domain.StatusPending {
			line = pendingStyle.Render(line)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func statusIcon(s domain.StepStatus) string {
	switch s {
	case domain.StatusCompleted:
		return completedStyle.Render("✓")
	case domain.StatusError:
		return errorStyle.Render("✗")
	case domain.StatusInProgress:
		return "●"
	case domain.StatusPending:
		return "·"
	default:
		return "?"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
