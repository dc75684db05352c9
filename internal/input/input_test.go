package input

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h0rv/nanoui/internal/flow"
)

func TestParse(t *testing.T) {
	steps, err := Parse(" confirm, down ,tick*3,RESET, cancel*2")
	require.NoError(t, err)

	want := []Step{
		{Kind: StepInput, Event: flow.Confirm},
		{Kind: StepInput, Event: flow.Down},
		{Kind: StepTick},
		{Kind: StepTick},
		{Kind: StepTick},
		{Kind: StepReset},
		{Kind: StepInput, Event: flow.Cancel},
		{Kind: StepInput, Event: flow.Cancel},
	}
	assert.Equal(t, want, steps)
}

func TestParse_Empty(t *testing.T) {
	steps, err := Parse("  ")
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestParse_Errors(t *testing.T) {
	for _, script := range []string{"jump", "up,,down", "tick*0", "tick*x", "tick*99999", "*3"} {
		_, err := Parse(script)
		assert.ErrorIs(t, err, ErrBadScript, script)
	}
}

func TestParseEvent(t *testing.T) {
	for _, ev := range flow.Events {
		got, err := ParseEvent(ev.String())
		require.NoError(t, err)
		assert.Equal(t, ev, got)
	}
	_, err := ParseEvent("left")
	assert.ErrorIs(t, err, ErrBadScript)
}

// fakeDriver records what it receives and fails inputs while halted.
type fakeDriver struct {
	log    []string
	halted bool
}

var errHalted = errors.New("halted")

func (f *fakeDriver) Input(ev flow.Event) error {
	f.log = append(f.log, ev.String())
	if f.halted {
		return errHalted
	}
	return nil
}

func (f *fakeDriver) TimerTick() error {
	f.log = append(f.log, "tick")
	return nil
}

func (f *fakeDriver) Reset() error {
	f.log = append(f.log, "reset")
	f.halted = false
	return nil
}

func TestReplay(t *testing.T) {
	steps, err := Parse("up,tick*2,reset,down")
	require.NoError(t, err)

	d := &fakeDriver{}
	var seen []int
	err = Replay(d, steps, func(i int, s Step, err error) {
		seen = append(seen, i)
		assert.NoError(t, err)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"up", "tick", "tick", "reset", "down"}, d.log)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, seen)
}

func TestReplay_ContinuesAfterError(t *testing.T) {
	steps, err := Parse("up,reset,down")
	require.NoError(t, err)

	d := &fakeDriver{halted: true}
	err = Replay(d, steps, nil)
	assert.ErrorIs(t, err, errHalted)
	assert.Equal(t, []string{"up", "reset", "down"}, d.log)
}

func TestKeyMap_Event(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		msg  tea.KeyMsg
		want flow.Event
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, flow.Up},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")}, flow.Up},
		{tea.KeyMsg{Type: tea.KeyDown}, flow.Down},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}, flow.Down},
		{tea.KeyMsg{Type: tea.KeyEnter}, flow.Confirm},
		{tea.KeyMsg{Type: tea.KeyRight}, flow.Confirm},
		{tea.KeyMsg{Type: tea.KeyEsc}, flow.Cancel},
		{tea.KeyMsg{Type: tea.KeyLeft}, flow.Cancel},
	}
	for _, tt := range tests {
		got, ok := km.Event(tt.msg)
		require.True(t, ok, tt.msg.String())
		assert.Equal(t, tt.want, got, tt.msg.String())
	}

	for _, k := range []string{"r", "?", "q", "x"} {
		_, ok := km.Event(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		assert.False(t, ok, k)
	}
}

func TestKeyMap_Help(t *testing.T) {
	km := DefaultKeyMap()
	assert.Len(t, km.ShortHelp(), 4)
	assert.Len(t, km.FullHelp(), 2)
}
