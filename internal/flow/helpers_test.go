package flow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/h0rv/nanoui/internal/bridge"
	"github.com/h0rv/nanoui/internal/domain"
	"github.com/h0rv/nanoui/internal/screen"
	"github.com/h0rv/nanoui/internal/store"
)

// fakeBridge records every call and resolves handles only when a test says so.
type fakeBridge struct {
	results      map[bridge.Handle]bridge.Result
	consumed     map[bridge.Handle]bool
	cancels      map[bridge.Handle]int
	addressCalls []int
	signCalls    []domain.Transaction
	handles      []bridge.Handle
	drains       int

	// auto, when set, decides the result of every poll of a live handle.
	auto func(h bridge.Handle) bridge.Result
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{
		results:  make(map[bridge.Handle]bridge.Result),
		consumed: make(map[bridge.Handle]bool),
		cancels:  make(map[bridge.Handle]int),
	}
}

func (b *fakeBridge) StartAddressGeneration(count int) bridge.Handle {
	h := bridge.NewHandle(bridge.KindAddressGeneration)
	b.addressCalls = append(b.addressCalls, count)
	b.handles = append(b.handles, h)
	return h
}

func (b *fakeBridge) StartSigning(tx domain.Transaction) bridge.Handle {
	h := bridge.NewHandle(bridge.KindSigning)
	b.signCalls = append(b.signCalls, tx)
	b.handles = append(b.handles, h)
	return h
}

func (b *fakeBridge) Poll(h bridge.Handle) bridge.Result {
	if b.cancels[h] > 0 || b.consumed[h] {
		return bridge.Result{Status: bridge.StatusGone}
	}
	var r bridge.Result
	if b.auto != nil {
		r = b.auto(h)
	} else {
		var ok bool
		r, ok = b.results[h]
		if !ok {
			return bridge.Pending()
		}
	}
	if r.Status == bridge.StatusDone || r.Status == bridge.StatusFailed {
		b.consumed[h] = true
		delete(b.results, h)
	}
	return r
}

func (b *fakeBridge) Cancel(h bridge.Handle) {
	b.cancels[h]++
}

func (b *fakeBridge) Drain() int {
	b.drains++
	return 0
}

func (b *fakeBridge) complete(h bridge.Handle, r bridge.Result) {
	b.results[h] = r
}

func (b *fakeBridge) last() bridge.Handle {
	return b.handles[len(b.handles)-1]
}

func (b *fakeBridge) totalCancels() int {
	n := 0
	for _, c := range b.cancels {
		n += c
	}
	return n
}

// recorder is a render target that keeps every frame.
type recorder struct {
	screens []screen.Screen
}

func (r *recorder) Draw(s screen.Screen) {
	r.screens = append(r.screens, s)
}

func (r *recorder) lastScreen() screen.Screen {
	return r.screens[len(r.screens)-1]
}

type transitionRecord struct {
	from, to ID
	payload  any
}

// harness wires a dispatcher to fakes.
type harness struct {
	d           *Dispatcher
	bridge      *fakeBridge
	render      *recorder
	store       *store.Store
	transitions []transitionRecord
}

func testTransaction() domain.Transaction {
	return domain.Transaction{
		ID:          "req-1",
		Asset:       "XNO",
		Decimals:    6,
		Amount:      1_500_000,
		Fee:         1_000,
		Destination: "xno_3f1c2a9e0b7d4c6a8e5f1b2d3c4a5e6f7a8b9c0d",
		Memo:        "rent",
	}
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		bridge: newFakeBridge(),
		render: &recorder{},
		store:  store.New(),
	}
	_, err := h.store.Enqueue(testTransaction())
	require.NoError(t, err)

	settings := DefaultSettings()
	settings.SuccessTimeoutTicks = 5
	deps := Deps{
		Bridge:   h.bridge,
		Renderer: h.render,
		Store:    h.store,
		Settings: settings,
	}
	opts = append([]Option{WithObserver(func(from, to ID, payload any) {
		h.transitions = append(h.transitions, transitionRecord{from: from, to: to, payload: payload})
	})}, opts...)
	h.d = NewDispatcher(deps, opts...)
	return h
}

func (h *harness) current(t *testing.T) ID {
	t.Helper()
	id, ok := h.d.Current()
	require.True(t, ok, "a flow must be active")
	return id
}

func (h *harness) input(t *testing.T, events ...Event) {
	t.Helper()
	for _, ev := range events {
		require.NoError(t, h.d.Input(ev))
	}
}

func (h *harness) tick(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, h.d.TimerTick())
	}
}

func (h *harness) lastTransition() transitionRecord {
	return h.transitions[len(h.transitions)-1]
}

// toSigning drives a fresh harness from boot to the Signing flow.
func (h *harness) toSigning(t *testing.T) {
	t.Helper()
	require.NoError(t, h.d.Init())
	h.input(t, Confirm, Confirm)
	require.Equal(t, Signing, h.current(t))
}

// countingFlow wraps a real flow and counts Exit calls.
type countingFlow struct {
	Flow
	exits *int
}

func (c countingFlow) Exit() {
	*c.exits++
	c.Flow.Exit()
}

// rogueMenu is a deliberately malformed MainMenu that requests whatever
// outcome the test gives it on Confirm.
type rogueMenu struct {
	*mainMenu
	onConfirm Outcome
}

func (r rogueMenu) Input(ev Event) Outcome {
	if ev == Confirm {
		return r.onConfirm
	}
	return r.mainMenu.Input(ev)
}

func rogueFactory(onConfirm Outcome) Factory {
	return func(id ID, deps Deps) Flow {
		if id == MainMenu {
			return rogueMenu{mainMenu: newMainMenu(deps), onConfirm: onConfirm}
		}
		return NewFlow(id, deps)
	}
}

func bridgeDone(v any) bridge.Result {
	return bridge.Done(v)
}

// rogueSigning is a Signing flow that requests onTick on every tick once
// its operation has started.
type rogueSigning struct {
	*signing
	onTick Outcome
}

func (r rogueSigning) Tick() Outcome {
	return r.onTick
}

func rogueSigningFactory(onTick Outcome) Factory {
	return func(id ID, deps Deps) Flow {
		if id == Signing {
			return rogueSigning{signing: newSigning(deps), onTick: onTick}
		}
		return NewFlow(id, deps)
	}
}
