package flow

import (
	"fmt"

	"github.com/h0rv/nanoui/internal/bridge"
	"github.com/h0rv/nanoui/internal/domain"
	"github.com/h0rv/nanoui/internal/screen"
)

// generatingAddresses starts an address derivation on entry and waits for it
// on ticks. Cancel abandons the operation before leaving.
type generatingAddresses struct {
	deps  Deps
	op    pendingOp
	count int
	frame int
}

func newGeneratingAddresses(deps Deps) *generatingAddresses {
	return &generatingAddresses{deps: deps, op: pendingOp{bridge: deps.Bridge}}
}

func (g *generatingAddresses) ID() ID  { return GeneratingAddresses }
func (g *generatingAddresses) sealed() {}

func (g *generatingAddresses) Enter(payload any) error {
	if payload != nil {
		return &PayloadError{Flow: GeneratingAddresses, Got: payload}
	}
	g.count = g.deps.Settings.AddressCount
	if g.count <= 0 {
		g.count = DefaultSettings().AddressCount
	}
	g.op.start(g.deps.Bridge.StartAddressGeneration(g.count))
	return nil
}

func (g *generatingAddresses) Tick() Outcome {
	r := g.op.poll()
	switch r.Status {
	case bridge.StatusPending:
		g.frame++
		return Redraw()
	case bridge.StatusDone:
		set, ok := r.Value.(domain.AddressSet)
		if !ok {
			return Transition(MainMenu, failedNotice(fmt.Errorf("unexpected result %T", r.Value)))
		}
		g.deps.Store.RecordAddresses(set)
		return Transition(MainMenu, Notice{Kind: NoticeAddresses, Addresses: set})
	case bridge.StatusFailed:
		return Transition(MainMenu, failedNotice(r.Err))
	}
	return Continue()
}

func (g *generatingAddresses) Input(ev Event) Outcome {
	if ev != Cancel {
		return Continue()
	}
	g.op.cancel()
	return Transition(MainMenu, Notice{Kind: NoticeCancelled})
}

func (g *generatingAddresses) Exit() {
	g.op.cancel()
}

func (g *generatingAddresses) Screen() screen.Screen {
	return screen.Screen{
		Kind:     screen.KindProgress,
		Title:    "Generating addresses",
		Lines:    []string{fmt.Sprintf("Deriving %d addresses", g.count)},
		Selected: -1,
		Busy:     true,
		Frame:    g.frame,
		Hint:     "cancel to abort",
	}
}
