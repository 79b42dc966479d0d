package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Record  key.Binding
	Stop    key.Binding
	Analyze key.Binding
	Abandon key.Binding
	Clear   key.Binding
	Quit    key.Binding
	Up      key.Binding
	Down    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Record: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "record"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		Analyze: key.NewBinding(
			key.WithKeys("a", "enter"),
			key.WithHelp("a/enter", "analyze"),
		),
		Abandon: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "abandon"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Record, k.Stop, k.Analyze, k.Abandon, k.Clear, k.Up, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Record, k.Stop, k.Analyze, k.Abandon, k.Clear},
		{k.Up, k.Down, k.Quit},
	}
}
