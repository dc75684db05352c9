// Package bridge hands address derivation and signing work to background
// goroutines and reports their results back to the single UI goroutine.
//
// Results never reach flow state directly. Workers post completions to one
// channel which only Drain reads; Drain is called from the dispatcher's
// timer tick, and Poll only ever looks at what Drain has already collected.
package bridge

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrCancelled is the error a worker sees when its handle was cancelled.
	ErrCancelled = errors.New("operation cancelled")
	// ErrStaleCompletion marks a completion that arrived for a cancelled handle.
	ErrStaleCompletion = errors.New("stale completion")
	// ErrClosed is returned by operations started after Close.
	ErrClosed = errors.New("bridge closed")
)

// Kind identifies the operation a handle refers to.
type Kind int

const (
	KindAddressGeneration Kind = iota + 1
	KindSigning
)

func (k Kind) String() string {
	switch k {
	case KindAddressGeneration:
		return "address-generation"
	case KindSigning:
		return "signing"
	default:
		return "unknown"
	}
}

// Handle is a token for an in-flight operation. The zero Handle refers to
// nothing.
type Handle struct {
	id   uuid.UUID
	kind Kind
}

// NewHandle returns a fresh handle for an operation of the given kind.
func NewHandle(kind Kind) Handle {
	return Handle{id: uuid.New(), kind: kind}
}

// Kind returns the operation kind.
func (h Handle) Kind() Kind { return h.kind }

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool { return h.id == uuid.Nil }

func (h Handle) String() string {
	return h.kind.String() + ":" + h.id.String()
}

// Status is the observable state of an operation.
type Status int

const (
	StatusPending Status = iota // Still running, or finished but not yet drained
	StatusDone                  // Finished successfully; Value holds the result
	StatusFailed                // Finished with Err
	StatusGone                  // Unknown, cancelled, or already consumed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "gone"
	}
}

// Result is what Poll reports. A Done or Failed result is reported once;
// the handle is Gone afterwards.
type Result struct {
	Status Status
	Value  any // domain.AddressSet or domain.SignedTransaction
	Err    error
}

// Pending is the result for an operation that has not completed yet.
func Pending() Result { return Result{Status: StatusPending} }

// Done wraps a successful value.
func Done(v any) Result { return Result{Status: StatusDone, Value: v} }

// Failed wraps an operation error.
func Failed(err error) Result { return Result{Status: StatusFailed, Err: err} }

// Drainer is implemented by bridges that buffer completions until the UI
// goroutine collects them. The dispatcher drains once per timer tick.
type Drainer interface {
	Drain() int
}
