package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/h0rv/nanoui/internal/flow"
	"github.com/h0rv/nanoui/internal/input"
)

// Device is the part of the flow dispatcher the simulator drives.
type Device interface {
	Init() error
	Reset() error
	TimerTick() error
	Input(ev flow.Event) error
	Current() (flow.ID, bool)
	Halted() error
}

// Options configures the simulator.
type Options struct {
	TickInterval time.Duration // Device timer period
	Width        int           // Display width in columns
}

// AppModel is the root Bubble Tea model. It owns no flow state: the
// dispatcher decides what the device shows, and the model only relays
// stimuli and renders the target.
type AppModel struct {
	// Dependencies
	device Device
	target *Target
	trace  *Trace

	keymap input.KeyMap
	help   HelpModel
	opts   Options

	// Current state
	booted   bool
	showHelp bool
	ticks    int
	err      error // Last error returned by the dispatcher
	width    int   // Terminal width, zero until the first resize
}

// NewAppModel creates the simulator model. trace may be nil.
func NewAppModel(device Device, target *Target, trace *Trace, opts Options) AppModel {
	if opts.TickInterval <= 0 {
		opts.TickInterval = 100 * time.Millisecond
	}
	if opts.Width <= 0 {
		opts.Width = 32
	}
	keymap := input.DefaultKeyMap()
	return AppModel{
		device: device,
		target: target,
		trace:  trace,
		keymap: keymap,
		help:   NewHelpModel(keymap),
		opts:   opts,
	}
}

// Init boots the device on the first Update.
func (m AppModel) Init() tea.Cmd {
	return func() tea.Msg { return BootMsg{} }
}

// Update relays messages to the dispatcher.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BootMsg:
		if m.booted {
			return m, nil
		}
		m.booted = true
		if err := m.device.Init(); err != nil {
			report := func() tea.Msg { return ErrorMsg{Err: fmt.Errorf("boot: %w", err)} }
			return m, tea.Batch(report, m.tick())
		}
		return m, m.tick()

	case TickMsg:
		m.ticks++
		m.record(m.device.TimerTick())
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}
	if !m.booted {
		return m, nil
	}
	if key.Matches(msg, m.keymap.Reset) {
		m.err = m.device.Reset()
		return m, nil
	}
	if ev, ok := m.keymap.Event(msg); ok {
		m.record(m.device.Input(ev))
	}
	return m, nil
}

// record keeps the error of a dispatcher call. A halted dispatcher keeps
// returning the same error, which stays on screen until Reset.
func (m *AppModel) record(err error) {
	if err != nil {
		m.err = err
		return
	}
	if m.device.Halted() == nil {
		m.err = nil
	}
}

func (m AppModel) tick() tea.Cmd {
	return tea.Tick(m.opts.TickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// View renders the device, its status line and the key help.
func (m AppModel) View() string {
	var sections []string

	if s, ok := m.target.Screen(); ok {
		sections = append(sections, RenderScreen(s, m.opts.Width))
	} else {
		sections = append(sections, DeviceStyle.Width(m.opts.Width+2).Render("Booting..."))
	}

	sections = append(sections, dimStyle.Render(m.statusLine()))

	if m.err != nil {
		msg := fmt.Sprintf("Error: %v", m.err)
		if flow.IsFatal(m.err) {
			msg += "\nPress r to reset the device"
		}
		sections = append(sections, ErrorStyle.Render(msg))
	}

	if m.showHelp {
		sections = append(sections, m.help.View(m.width))
	} else {
		sections = append(sections, HelpStyle.Render(m.help.ShortView(m.width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m AppModel) statusLine() string {
	parts := []string{}
	if id, ok := m.device.Current(); ok {
		parts = append(parts, id.String())
	}
	parts = append(parts, fmt.Sprintf("tick %d", m.ticks))
	if m.trace != nil {
		if last, ok := m.trace.Last(); ok {
			parts = append(parts, last.String())
		}
	}
	return strings.Join(parts, " | ")
}

// Err returns the last dispatcher error shown.
func (m AppModel) Err() error {
	return m.err
}
