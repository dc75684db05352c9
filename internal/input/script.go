// Package input turns key presses and scripted event sequences into device
// input for the flow dispatcher.
//
// A script is a comma separated list of steps:
//
//	confirm,down,tick*5,reset
//
// Each step is a button (up, down, confirm, cancel), tick or reset,
// optionally repeated with *N. Whitespace around steps is ignored.
package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/h0rv/nanoui/internal/flow"
)

// ErrBadScript indicates a script step that cannot be parsed.
var ErrBadScript = errors.New("bad script")

// MaxRepeat bounds the repeat count of a single step.
const MaxRepeat = 10000

// StepKind is what a script step does.
type StepKind int

const (
	StepInput StepKind = iota // Deliver Event
	StepTick                  // One timer tick
	StepReset                 // Reset the dispatcher
)

// Step is one parsed script step, already expanded: a repeated step
// appears once per repetition.
type Step struct {
	Kind  StepKind
	Event flow.Event
}

func (s Step) String() string {
	switch s.Kind {
	case StepTick:
		return "tick"
	case StepReset:
		return "reset"
	default:
		return s.Event.String()
	}
}

// ParseEvent maps a button name to an event.
func ParseEvent(name string) (flow.Event, error) {
	for _, ev := range flow.Events {
		if strings.EqualFold(name, ev.String()) {
			return ev, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown button %q", ErrBadScript, name)
}

// Parse parses a script. An empty script has no steps.
func Parse(script string) ([]Step, error) {
	var steps []Step
	if strings.TrimSpace(script) == "" {
		return steps, nil
	}
	for i, raw := range strings.Split(script, ",") {
		name, count, err := splitRepeat(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		step, err := parseStep(name)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		for n := 0; n < count; n++ {
			steps = append(steps, step)
		}
	}
	return steps, nil
}

func splitRepeat(raw string) (string, int, error) {
	name, rep, found := strings.Cut(raw, "*")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", 0, fmt.Errorf("%w: empty step", ErrBadScript)
	}
	if !found {
		return name, 1, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(rep))
	if err != nil || n < 1 || n > MaxRepeat {
		return "", 0, fmt.Errorf("%w: repeat %q must be 1..%d", ErrBadScript, rep, MaxRepeat)
	}
	return name, n, nil
}

func parseStep(name string) (Step, error) {
	switch strings.ToLower(name) {
	case "tick":
		return Step{Kind: StepTick}, nil
	case "reset":
		return Step{Kind: StepReset}, nil
	}
	ev, err := ParseEvent(name)
	if err != nil {
		return Step{}, err
	}
	return Step{Kind: StepInput, Event: ev}, nil
}

// Driver receives replayed steps. *flow.Dispatcher implements it.
type Driver interface {
	Input(ev flow.Event) error
	TimerTick() error
	Reset() error
}

// Apply delivers one step to d.
func Apply(d Driver, s Step) error {
	switch s.Kind {
	case StepTick:
		return d.TimerTick()
	case StepReset:
		return d.Reset()
	default:
		return d.Input(s.Event)
	}
}

// Replay applies steps in order, calling after (if set) once per step with
// the step's error. A step error does not stop the replay, since Reset is
// how a halted dispatcher recovers. It returns the first error seen.
func Replay(d Driver, steps []Step, after func(i int, s Step, err error)) error {
	var first error
	for i, s := range steps {
		err := Apply(d, s)
		if err != nil && first == nil {
			first = err
		}
		if after != nil {
			after(i, s, err)
		}
	}
	return first
}
