package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings shared by every view
type KeyMap struct {
	Quit       key.Binding
	Back       key.Binding
	New        key.Binding
	Enter      key.Binding
	Delete     key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Up         key.Binding
	Down       key.Binding
	Save       key.Binding
	Help       key.Binding
	Status     key.Binding
	Populate   key.Binding
	AddPhase   key.Binding
	AddEpic    key.Binding
	AddTask    key.Binding
	DailyLog   key.Binding
	Logs       key.Binding
	Properties key.Binding
	Theme      key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "select"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Status: key.NewBinding(
			key.WithKeys("s", " "),
			key.WithHelp("s", "cycle status"),
		),
		Populate: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "populate template"),
		),
		AddPhase: key.NewBinding(
			key.WithKeys("P", "ctrl+h"),
			key.WithHelp("P", "add phase"),
		),
		AddEpic: key.NewBinding(
			key.WithKeys("E", "ctrl+j"),
			key.WithHelp("E", "add epic"),
		),
		AddTask: key.NewBinding(
			key.WithKeys("a", "ctrl+l"),
			key.WithHelp("a", "add task"),
		),
		DailyLog: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "daily log"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "view logs"),
		),
		Properties: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "properties"),
		),
		Theme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "theme"),
		),
	}
}
