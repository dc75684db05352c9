package flow

import (
	"fmt"

	"github.com/h0rv/nanoui/internal/bridge"
	"github.com/h0rv/nanoui/internal/domain"
	"github.com/h0rv/nanoui/internal/screen"
)

// signing starts the signing operation for a confirmed transaction and waits
// for it on ticks.
type signing struct {
	deps  Deps
	op    pendingOp
	tx    domain.Transaction
	frame int
}

func newSigning(deps Deps) *signing {
	return &signing{deps: deps, op: pendingOp{bridge: deps.Bridge}}
}

func (s *signing) ID() ID  { return Signing }
func (s *signing) sealed() {}

func (s *signing) Enter(payload any) error {
	confirmed, ok := payload.(ConfirmedTransaction)
	if !ok || !confirmed.approved {
		return &PayloadError{Flow: Signing, Got: payload}
	}
	s.tx = confirmed.tx
	s.op.start(s.deps.Bridge.StartSigning(s.tx))
	return nil
}

func (s *signing) Tick() Outcome {
	r := s.op.poll()
	switch r.Status {
	case bridge.StatusPending:
		s.frame++
		return Redraw()
	case bridge.StatusDone:
		signed, ok := r.Value.(domain.SignedTransaction)
		if !ok {
			return Transition(MainMenu, failedNotice(fmt.Errorf("unexpected result %T", r.Value)))
		}
		if err := s.deps.Store.RecordSigned(signed); err != nil && s.deps.Logger != nil {
			s.deps.Logger.Warn("record signed transaction", "tx", signed.Transaction.ID, "error", err)
		}
		return Transition(SignedSuccessfully, signed)
	case bridge.StatusFailed:
		return Transition(MainMenu, failedNotice(r.Err))
	}
	return Continue()
}

func (s *signing) Input(ev Event) Outcome {
	if ev != Cancel {
		return Continue()
	}
	s.op.cancel()
	return Transition(MainMenu, Notice{Kind: NoticeCancelled})
}

func (s *signing) Exit() {
	s.op.cancel()
}

func (s *signing) Screen() screen.Screen {
	return screen.Screen{
		Kind:     screen.KindProgress,
		Title:    "Signing",
		Lines:    []string{s.tx.FormatAmount()},
		Selected: -1,
		Busy:     true,
		Frame:    s.frame,
		Hint:     "cancel to abort",
	}
}
