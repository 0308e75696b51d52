package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle      key.Binding
	Start       key.Binding
	ResetScroll key.Binding
	Faster      key.Binding
	Slower      key.Binding
	MuchFaster  key.Binding
	MuchSlower  key.Binding
	Larger      key.Binding
	Smaller     key.Binding
	Edit        key.Binding
	LeaveEdit   key.Binding
	Open        key.Binding
	Paste       key.Binding
	ClearScript key.Binding
	ResetApp    key.Binding
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Help        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

func newKeyMap(toggleKey string) keyMap {
	return keyMap{
		Toggle:      key.NewBinding(key.WithKeys(toggleKey), key.WithHelp(toggleKey, "start/stop")),
		Start:       key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "start/stop (any mode)")),
		ResetScroll: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "back to top")),
		Faster:      key.NewBinding(key.WithKeys("+", "=", "right", "l"), key.WithHelp("+/→", "faster")),
		Slower:      key.NewBinding(key.WithKeys("-", "_", "left", "h"), key.WithHelp("-/←", "slower")),
		MuchFaster:  key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "faster ×10")),
		MuchSlower:  key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "slower ×10")),
		Larger:      key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "larger text")),
		Smaller:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "smaller text")),
		Edit:        key.NewBinding(key.WithKeys("e", "ctrl+e"), key.WithHelp("e", "edit mode")),
		LeaveEdit:   key.NewBinding(key.WithKeys("esc", "ctrl+e"), key.WithHelp("esc", "leave edit mode")),
		Open:        key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open file")),
		Paste:       key.NewBinding(key.WithKeys("p", "ctrl+v"), key.WithHelp("p", "paste clipboard")),
		ClearScript: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear script")),
		ResetApp:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset app")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "line up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "line down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", "f"), key.WithHelp("pgdn", "page down")),
		Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Faster, k.Slower, k.Edit, k.Open, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Start, k.ResetScroll, k.Faster, k.Slower, k.MuchFaster, k.MuchSlower},
		{k.Larger, k.Smaller, k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Edit, k.LeaveEdit, k.Open, k.Paste, k.ClearScript, k.ResetApp, k.Help, k.Quit},
	}
}

type editKeyMap struct {
	keys keyMap
}

func (k editKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.keys.LeaveEdit, k.keys.Start, k.keys.ForceQuit}
}

func (k editKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
