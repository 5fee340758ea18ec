package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// confirmState is a yes/no dialog guarding a destructive action.
type confirmState struct {
	prompt string
	detail string
	run    tea.Cmd
}

// handleConfirmKey runs the action on y; any other key cancels.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.confirm
	m.confirm = nil
	if key.Matches(msg, m.keys.Yes) {
		return m, c.run
	}
	return m, nil
}

func (m Model) renderConfirm() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.WarningText.Bold(true).Render(m.confirm.prompt))
	if m.confirm.detail != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.MutedText.Render(m.confirm.detail))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("y confirm · any other key cancels"))
	return m.renderModal(b.String(), 48)
}
