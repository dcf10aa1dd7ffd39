package tui

import "github.com/charmbracelet/lipgloss"

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	parts := []string{
		titleStyle.Render("pupkeep - " + today()),
		m.list.View(),
	}

	if m.errMsg != "" {
		parts = append(parts, errorStyle.Render(m.errMsg))
	} else if m.status != "" {
		parts = append(parts, statusLineStyle.Render(m.status))
	}

	parts = append(parts, m.help.View(m.keys))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
