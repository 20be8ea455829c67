package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the key hints below the body. "?" expands them.
func (m Model) renderHelp() string {
	h := m.help
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning))
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted))
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Faint))
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = h.Styles.ShortDesc
	h.Styles.FullSeparator = h.Styles.ShortSeparator

	footer := h.View(m.keys)
	if h.ShowAll {
		footer += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Faint)).Render("theme "+m.theme.Name)
	}
	return footer
}
