package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	Counts     key.Binding
	Recent     key.Binding
	Menu       key.Binding
	CycleTheme key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Counts: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Threat statistics"),
		),
		Recent: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Last 10 logs"),
		),
		Menu: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Menu"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Cycle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "Toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("3", "q", "ctrl+c"),
			key.WithHelp("3/q", "Exit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Counts, k.Recent, k.Quit, k.Help}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Counts, k.Recent, k.Menu},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
