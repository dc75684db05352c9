package flow

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/h0rv/nanoui/internal/bridge"
)

// Observer is told about every transition after the new flow was entered.
// Reset reports MainMenu as the target.
type Observer func(from, to ID, payload any)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithFactory replaces the flow constructor.
func WithFactory(f Factory) Option {
	return func(d *Dispatcher) { d.factory = f }
}

// WithObserver registers a transition observer.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observer = o }
}

// Dispatcher owns the active flow and performs every transition. It is not
// safe for concurrent use: the device calls it from one event loop.
type Dispatcher struct {
	deps     Deps
	factory  Factory
	observer Observer
	log      *slog.Logger

	current     Flow
	initialized bool
	touched     bool // the active flow saw a tick or input since Enter
	halted      error
	transitions int
}

// NewDispatcher creates a dispatcher. No flow is active until Init.
func NewDispatcher(deps Deps, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		deps:    deps,
		factory: NewFlow,
		log:     deps.Logger,
	}
	if d.log == nil {
		d.log = slog.New(slog.NewTextHandler(io.Discard, nil))
		d.deps.Logger = d.log
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Init installs MainMenu and renders it. Calls after the first are no-ops.
func (d *Dispatcher) Init() error {
	if d.initialized {
		return nil
	}
	d.initialized = true
	d.log.Info("dispatcher init")
	return d.install(MainMenu, nil)
}

// Reset abandons the active flow and returns to MainMenu. It exits the
// active flow first so any pending operation is cancelled, and clears a
// halted state. Resetting a MainMenu that has not been used since it was
// entered does nothing.
func (d *Dispatcher) Reset() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	if d.current == nil {
		d.halted = nil
		return d.install(MainMenu, nil)
	}
	from := d.current.ID()
	if d.halted == nil && from == MainMenu && !d.touched {
		return nil
	}
	d.log.Info("dispatcher reset", "from", from, "halted", d.halted != nil)
	d.current.Exit()
	d.halted = nil
	if err := d.install(MainMenu, nil); err != nil {
		return err
	}
	d.notify(from, MainMenu, nil)
	return nil
}

// TimerTick drains finished operations and forwards one tick to the active
// flow.
func (d *Dispatcher) TimerTick() error {
	if err := d.ready(); err != nil {
		return err
	}
	if dr, ok := d.deps.Bridge.(bridge.Drainer); ok {
		dr.Drain()
	}
	d.touched = true
	return d.apply(d.current.Tick())
}

// Input forwards a user action to the active flow.
func (d *Dispatcher) Input(ev Event) error {
	if err := d.ready(); err != nil {
		return err
	}
	d.touched = true
	return d.apply(d.current.Input(ev))
}

// Current returns the active flow ID. ok is false before Init.
func (d *Dispatcher) Current() (id ID, ok bool) {
	if d.current == nil {
		return 0, false
	}
	return d.current.ID(), true
}

// Halted returns the fatal error that stopped the dispatcher, if any.
func (d *Dispatcher) Halted() error {
	return d.halted
}

// Transitions returns the number of transitions realised so far.
func (d *Dispatcher) Transitions() int {
	return d.transitions
}

func (d *Dispatcher) ready() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	return d.halted
}

func (d *Dispatcher) apply(out Outcome) error {
	switch out.Kind {
	case KindContinue:
		return nil
	case KindRedraw:
		d.render()
		return nil
	case KindTransition:
		return d.transition(out.Target, out.Payload)
	}
	return d.halt(fmt.Errorf("flow: %s returned unknown outcome %d", d.current.ID(), out.Kind))
}

// transition exits the active flow, validates the request against the
// adjacency table, then builds and enters the target. An illegal request
// halts with the exited flow still installed for display; its pending
// operation is already cancelled. Nothing observes the moment between Exit
// and Enter.
func (d *Dispatcher) transition(to ID, payload any) error {
	from := d.current.ID()
	d.current.Exit()
	if !Legal(from, to) {
		err := &IllegalTransitionError{From: from, To: to}
		d.log.Error("illegal transition", "from", from, "to", to)
		return d.halt(err)
	}
	if err := d.install(to, payload); err != nil {
		return err
	}
	d.transitions++
	d.log.Info("flow transition", "from", from, "to", to)
	d.notify(from, to, payload)
	return nil
}

func (d *Dispatcher) install(id ID, payload any) error {
	next := d.factory(id, d.deps)
	if next == nil || next.ID() != id {
		return d.halt(fmt.Errorf("flow: factory returned no flow for %s", id))
	}
	d.current = next
	d.touched = false
	if err := next.Enter(payload); err != nil {
		d.log.Error("flow rejected payload", "flow", id, "error", err)
		return d.halt(err)
	}
	d.render()
	return nil
}

func (d *Dispatcher) halt(err error) error {
	d.halted = err
	return err
}

func (d *Dispatcher) render() {
	if d.deps.Renderer != nil {
		d.deps.Renderer.Draw(d.current.Screen())
	}
}

func (d *Dispatcher) notify(from, to ID, payload any) {
	if d.observer != nil {
		d.observer(from, to, payload)
	}
}
