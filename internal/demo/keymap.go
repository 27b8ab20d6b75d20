package demo

import "github.com/charmbracelet/bubbles/key"

// demoKeyMap defines keybindings for the playground.
type demoKeyMap struct {
	NewPane key.Binding
	Float   key.Binding
	Detach  key.Binding
	Save    key.Binding
	Load    key.Binding
	Render  key.Binding
	Events  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings for the short help view.
func (k demoKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewPane, k.Detach, k.Float, k.Save, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k demoKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NewPane, k.Float, k.Detach},
		{k.Save, k.Load, k.Render},
		{k.Events, k.Help, k.Quit},
	}
}

func defaultDemoKeyMap() demoKeyMap {
	return demoKeyMap{
		NewPane: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new pane"),
		),
		Float: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "float pane"),
		),
		Detach: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "detach hovered"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save layout"),
		),
		Load: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "load layout"),
		),
		Render: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "export png"),
		),
		Events: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "event log"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
