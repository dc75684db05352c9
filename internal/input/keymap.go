package input

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/h0rv/nanoui/internal/flow"
)

// KeyMap defines the simulator key bindings. The first four stand in for
// the device buttons; the rest control the simulator itself.
type KeyMap struct {
	// Device buttons
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	Cancel  key.Binding

	// Simulator
	Reset key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", "right", "l"),
			key.WithHelp("enter/→", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "left", "h", "backspace"),
			key.WithHelp("esc/←", "cancel"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset device"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Event maps a key press to a device button. ok is false for keys that
// are not device buttons.
func (k KeyMap) Event(msg tea.KeyMsg) (ev flow.Event, ok bool) {
	switch {
	case key.Matches(msg, k.Up):
		return flow.Up, true
	case key.Matches(msg, k.Down):
		return flow.Down, true
	case key.Matches(msg, k.Confirm):
		return flow.Confirm, true
	case key.Matches(msg, k.Cancel):
		return flow.Cancel, true
	}
	return 0, false
}

// ShortHelp returns key bindings to be shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel, k.Help, k.Quit}
}

// FullHelp returns key bindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Confirm, k.Cancel},
		{k.Reset, k.Help, k.Quit},
	}
}
