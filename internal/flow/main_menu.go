package flow

import (
	"fmt"

	"github.com/h0rv/nanoui/internal/screen"
)

type menuItem int

const (
	itemSend menuItem = iota
	itemReceive
	itemAbout
	menuItemCount
)

// mainMenu is the initial flow. Navigation cycles the selection; Confirm on
// Send reviews the oldest pending request, on Receive derives addresses.
type mainMenu struct {
	deps      Deps
	selected  menuItem
	status    string
	showAbout bool
}

func newMainMenu(deps Deps) *mainMenu {
	return &mainMenu{deps: deps}
}

func (m *mainMenu) ID() ID  { return MainMenu }
func (m *mainMenu) sealed() {}

func (m *mainMenu) Enter(payload any) error {
	switch p := payload.(type) {
	case nil:
	case Notice:
		m.status = p.Text()
	default:
		return &PayloadError{Flow: MainMenu, Got: payload}
	}
	return nil
}

func (m *mainMenu) Tick() Outcome { return Continue() }

func (m *mainMenu) Input(ev Event) Outcome {
	switch ev {
	case Up:
		m.selected = (m.selected + menuItemCount - 1) % menuItemCount
		m.showAbout = false
		return Redraw()
	case Down:
		m.selected = (m.selected + 1) % menuItemCount
		m.showAbout = false
		return Redraw()
	case Confirm:
		return m.confirm()
	case Cancel:
		if m.showAbout {
			m.showAbout = false
			return Redraw()
		}
	}
	return Continue()
}

func (m *mainMenu) confirm() Outcome {
	switch m.selected {
	case itemSend:
		tx, ok := m.deps.Store.Peek()
		if !ok {
			m.status = "No pending request"
			return Redraw()
		}
		return Transition(UserConfirm, tx)
	case itemReceive:
		return Transition(GeneratingAddresses, nil)
	case itemAbout:
		m.showAbout = !m.showAbout
		return Redraw()
	}
	return Continue()
}

func (m *mainMenu) Exit() {}

func (m *mainMenu) Screen() screen.Screen {
	lines := []string{
		fmt.Sprintf("Send (%d pending)", m.deps.Store.Pending()),
		"Receive",
		"About",
	}
	status := m.status
	if m.showAbout {
		status = "nanoui " + m.deps.Settings.Version
	}
	return screen.Screen{
		Kind:     screen.KindMenu,
		Title:    "Main menu",
		Lines:    lines,
		Selected: int(m.selected),
		Status:   status,
		Hint:     "up/down select, confirm",
	}
}
