package flow

import (
	"errors"

	"github.com/h0rv/nanoui/internal/bridge"
)

var errHandleLost = errors.New("bridge lost the operation")

// pendingOp tracks the one handle a flow may own. cancel reaches the bridge
// at most once, and never after the result was consumed.
type pendingOp struct {
	bridge      Bridge
	handle      bridge.Handle
	outstanding bool
}

func (p *pendingOp) start(h bridge.Handle) {
	p.handle = h
	p.outstanding = true
}

// poll returns the bridge result. A terminal result releases the handle. A
// Gone result for an outstanding handle is reported as a failure so the
// flow does not wait forever.
func (p *pendingOp) poll() bridge.Result {
	if !p.outstanding {
		return bridge.Result{Status: bridge.StatusGone}
	}
	r := p.bridge.Poll(p.handle)
	switch r.Status {
	case bridge.StatusPending:
		return r
	case bridge.StatusGone:
		p.outstanding = false
		return bridge.Failed(errHandleLost)
	default:
		p.outstanding = false
		return r
	}
}

func (p *pendingOp) cancel() {
	if !p.outstanding {
		return
	}
	p.outstanding = false
	p.bridge.Cancel(p.handle)
}
