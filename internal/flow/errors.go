package flow

import (
	"errors"
	"fmt"
)

// Sentinel errors for dispatcher and flow conditions.
var (
	// ErrIllegalTransition indicates a flow asked for a successor that the
	// adjacency table does not allow. It is a controller bug and halts the
	// dispatcher until Reset.
	ErrIllegalTransition = errors.New("illegal flow transition")

	// ErrBadPayload indicates a flow was entered with a payload it cannot use.
	ErrBadPayload = errors.New("bad flow payload")

	// ErrOperationFailed wraps failures reported by the operation bridge.
	// These are shown to the user and never returned from lifecycle calls.
	ErrOperationFailed = errors.New("operation failed")

	// ErrNotInitialized is returned by lifecycle calls made before Init.
	ErrNotInitialized = errors.New("dispatcher not initialized")
)

// IllegalTransitionError records the offending request.
type IllegalTransitionError struct {
	From ID
	To   ID
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("flow: %s -> %s: %v", e.From, e.To, ErrIllegalTransition)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// PayloadError records a payload a flow refused in Enter.
type PayloadError struct {
	Flow ID
	Got  any
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("flow: %s: %v: %T", e.Flow, ErrBadPayload, e.Got)
}

func (e *PayloadError) Unwrap() error {
	return ErrBadPayload
}

// IsFatal reports whether err halts the dispatcher.
func IsFatal(err error) bool {
	return errors.Is(err, ErrIllegalTransition) || errors.Is(err, ErrBadPayload)
}
