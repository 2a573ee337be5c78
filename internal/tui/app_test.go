package tui_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/waabox/plugforge/internal/domain"
	"github.com/waabox/plugforge/internal/tui"
)

func TestApp_ProgressMsgUpdatesSteps(t *testing.T) {
	m := tui.NewAppModel("Fuzz Box", hostedPlan, nil)

	updated, _ := m.Update(tui.ProgressMsg{Step: domain.StepClonePlugin, Status: domain.StatusCompleted})
	app := updated.(tui.AppModel)

	if got := app.Steps().Status(domain.StepClonePlugin); got != domain.StatusCompleted {
		t.Errorf("expected clone-plugin completed, got %s", got)
	}
	if !strings.Contains(app.View(), "Fuzz Box") {
		t.Errorf("expected title in view, got:\n%s", app.View())
	}
}

func TestApp_DoneMsgQuitsAndShowsSuccess(t *testing.T) {
	m := tui.NewAppModel("Fuzz Box", hostedPlan, nil)

	updated, cmd := m.Update(tui.DoneMsg{})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg")
	}
	if !strings.Contains(updated.(tui.AppModel).View(), "Project generated") {
		t.Errorf("expected success line, got:\n%s", updated.(tui.AppModel).View())
	}
}

func TestApp_DoneMsgWithErrorShowsFailure(t *testing.T) {
	m := tui.NewAppModel("Fuzz Box", hostedPlan, nil)

	updated, _ := m.Update(tui.DoneMsg{Err: errors.New("install-gui: command failed: npm install")})
	view := updated.(tui.AppModel).View()
	if !strings.Contains(view, "Project generation failed") {
		t.Errorf("expected failure line, got:\n%s", view)
	}
	if !strings.Contains(view, "npm install") {
		t.Errorf("expected error detail, got:\n%s", view)
	}
}

func TestApp_QuitKeyCancelsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := tui.NewAppModel("Fuzz Box", hostedPlan, cancel)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if ctx.Err() == nil {
		t.Error("expected the run context to be cancelled")
	}
}
