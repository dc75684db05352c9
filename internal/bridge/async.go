package bridge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/h0rv/nanoui/internal/domain"
)

// ErrSigningRejected is the failure reported when simulated signing is
// configured to fail.
var ErrSigningRejected = errors.New("secure element rejected the request")

// completionBuffer sizes the completion channel. Workers block on a full
// channel until the next Drain or Close.
const completionBuffer = 16

// Deriver derives receive addresses.
type Deriver interface {
	DeriveAddresses(ctx context.Context, start uint32, count int) (domain.AddressSet, error)
}

// Signer signs a confirmed transaction.
type Signer interface {
	Sign(ctx context.Context, tx domain.Transaction) (domain.SignedTransaction, error)
}

// Options tunes an Async bridge.
type Options struct {
	Delay       time.Duration // Simulated work time before each operation runs
	FailSigning bool          // Report every signing operation as failed
	Logger      *slog.Logger
}

// Stats counts operations over the bridge lifetime.
type Stats struct {
	Started   int64
	Completed int64 // Drained for a live handle
	Cancelled int64
	Stale     int64 // Drained for a cancelled handle and dropped
}

type completion struct {
	handle Handle
	result Result
}

// Async runs operations on goroutines. Start, Poll, Cancel, Drain and Close
// must be called from one goroutine; only the workers run elsewhere, and
// they talk to the bridge through the completion channel alone.
type Async struct {
	deriver Deriver
	signer  Signer
	opts    Options
	log     *slog.Logger

	completions chan completion
	done        chan struct{}
	wg          sync.WaitGroup
	closed      bool

	live  map[Handle]context.CancelFunc
	ready map[Handle]Result

	nextIndex atomic.Uint32
	started   atomic.Int64
	completed atomic.Int64
	cancelled atomic.Int64
	stale     atomic.Int64
}

// NewAsync creates a bridge backed by deriver and signer.
func NewAsync(deriver Deriver, signer Signer, opts Options) *Async {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Async{
		deriver:     deriver,
		signer:      signer,
		opts:        opts,
		log:         log,
		completions: make(chan completion, completionBuffer),
		done:        make(chan struct{}),
		live:        make(map[Handle]context.CancelFunc),
		ready:       make(map[Handle]Result),
	}
}

// StartAddressGeneration derives count addresses at the next unused
// indices. Indices are reserved when the operation starts, so a cancelled
// generation never hands out the same address twice.
func (a *Async) StartAddressGeneration(count int) Handle {
	start := a.nextIndex.Add(uint32(count)) - uint32(count)
	return a.start(KindAddressGeneration, func(ctx context.Context) (any, error) {
		return a.deriver.DeriveAddresses(ctx, start, count)
	})
}

// StartSigning signs tx.
func (a *Async) StartSigning(tx domain.Transaction) Handle {
	return a.start(KindSigning, func(ctx context.Context) (any, error) {
		if a.opts.FailSigning {
			return nil, ErrSigningRejected
		}
		return a.signer.Sign(ctx, tx)
	})
}

func (a *Async) start(kind Kind, work func(ctx context.Context) (any, error)) Handle {
	h := NewHandle(kind)
	if a.closed {
		a.ready[h] = Failed(ErrClosed)
		return h
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.live[h] = cancel
	a.started.Inc()
	a.log.Debug("operation started", "handle", h)

	a.wg.Add(1)
	go a.run(ctx, h, work)
	return h
}

func (a *Async) run(ctx context.Context, h Handle, work func(ctx context.Context) (any, error)) {
	defer a.wg.Done()

	if a.opts.Delay > 0 {
		t := time.NewTimer(a.opts.Delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			a.post(completion{handle: h, result: Failed(ErrCancelled)})
			return
		}
	}

	v, err := work(ctx)
	if err != nil {
		a.post(completion{handle: h, result: Failed(err)})
		return
	}
	a.post(completion{handle: h, result: Done(v)})
}

func (a *Async) post(c completion) {
	select {
	case a.completions <- c:
	case <-a.done:
	}
}

// Drain moves every posted completion into the ready set and returns how
// many belong to live handles. Completions for cancelled handles are
// dropped.
func (a *Async) Drain() int {
	n := 0
	for {
		select {
		case c := <-a.completions:
			if a.accept(c) {
				n++
			}
		default:
			return n
		}
	}
}

func (a *Async) accept(c completion) bool {
	cancel, live := a.live[c.handle]
	if !live {
		a.stale.Inc()
		a.log.Debug("dropped completion", "handle", c.handle, "error", ErrStaleCompletion)
		return false
	}
	cancel()
	delete(a.live, c.handle)
	a.ready[c.handle] = c.result
	a.completed.Inc()
	return true
}

// Poll reports the state of h without blocking. A Done or Failed result is
// returned once.
func (a *Async) Poll(h Handle) Result {
	if r, ok := a.ready[h]; ok {
		delete(a.ready, h)
		return r
	}
	if _, ok := a.live[h]; ok {
		return Pending()
	}
	return Result{Status: StatusGone}
}

// Cancel abandons h. After Cancel, Poll reports Gone for h. Cancelling an
// unknown or finished handle does nothing.
func (a *Async) Cancel(h Handle) {
	if cancel, ok := a.live[h]; ok {
		cancel()
		delete(a.live, h)
		a.cancelled.Inc()
		a.log.Debug("operation cancelled", "handle", h)
		return
	}
	delete(a.ready, h)
}

// Outstanding returns the number of operations not yet drained or cancelled.
func (a *Async) Outstanding() int {
	return len(a.live)
}

// Stats returns the operation counters.
func (a *Async) Stats() Stats {
	return Stats{
		Started:   a.started.Load(),
		Completed: a.completed.Load(),
		Cancelled: a.cancelled.Load(),
		Stale:     a.stale.Load(),
	}
}

// Wait blocks until every started worker has posted its completion.
func (a *Async) Wait() {
	a.wg.Wait()
}

// Settle blocks until every started worker has finished, draining
// completions while it waits so a full channel cannot stall a worker.
func (a *Async) Settle() {
	idle := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(idle)
	}()
	for {
		select {
		case c := <-a.completions:
			a.accept(c)
		case <-idle:
			a.Drain()
			return
		}
	}
}

// Close cancels all live operations and waits for their workers. Operations
// started afterwards fail with ErrClosed.
func (a *Async) Close() {
	if a.closed {
		return
	}
	a.closed = true
	for h, cancel := range a.live {
		cancel()
		delete(a.live, h)
	}
	close(a.done)
	a.wg.Wait()
}
