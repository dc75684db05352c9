// Package store provides the in-memory device state the flows read and
// record into: the queue of pending signing requests, the most recently
// derived address set, and the history of signed transactions.
//
// The store is owned by the UI goroutine and is not safe for concurrent use.
// Every getter returns a copy so callers cannot mutate queued requests.
package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/h0rv/nanoui/internal/domain"
)

var (
	// ErrInvalidRequest indicates a request is missing a field the review
	// screens display.
	ErrInvalidRequest = errors.New("invalid signing request")
	// ErrDuplicateRequest indicates a request id is already queued or signed.
	ErrDuplicateRequest = errors.New("duplicate request id")
	// ErrRequestNotFound indicates no queued request has the given id.
	ErrRequestNotFound = errors.New("request not found")
)

// MaxDecimals bounds Transaction.Decimals; a uint64 has at most 20 digits.
const MaxDecimals = 19

// Store holds device state.
type Store struct {
	queue     []domain.Transaction
	ids       map[string]bool // Every id ever queued, signed or not
	addresses domain.AddressSet
	signed    []domain.SignedTransaction
}

// New creates an empty Store.
func New() *Store {
	return &Store{ids: make(map[string]bool)}
}

// Enqueue validates tx and appends it to the pending queue. A request
// without an id gets a fresh uuid. The queued request is returned.
func (s *Store) Enqueue(tx domain.Transaction) (domain.Transaction, error) {
	if err := Validate(tx); err != nil {
		return domain.Transaction{}, err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if s.ids[tx.ID] {
		return domain.Transaction{}, fmt.Errorf("%w: %s", ErrDuplicateRequest, tx.ID)
	}
	s.ids[tx.ID] = true
	s.queue = append(s.queue, tx)
	return tx, nil
}

// Validate checks the fields the review screens rely on.
func Validate(tx domain.Transaction) error {
	switch {
	case tx.Asset == "":
		return fmt.Errorf("%w: asset is empty", ErrInvalidRequest)
	case tx.Destination == "":
		return fmt.Errorf("%w: destination is empty", ErrInvalidRequest)
	case tx.Amount == 0:
		return fmt.Errorf("%w: amount is zero", ErrInvalidRequest)
	case tx.Decimals < 0 || tx.Decimals > MaxDecimals:
		return fmt.Errorf("%w: decimals %d out of range", ErrInvalidRequest, tx.Decimals)
	}
	return nil
}

// Peek returns the oldest pending request.
func (s *Store) Peek() (domain.Transaction, bool) {
	if len(s.queue) == 0 {
		return domain.Transaction{}, false
	}
	return s.queue[0], true
}

// Pending returns the number of queued requests.
func (s *Store) Pending() int {
	return len(s.queue)
}

// Queue returns a copy of the pending requests, oldest first.
func (s *Store) Queue() []domain.Transaction {
	out := make([]domain.Transaction, len(s.queue))
	copy(out, s.queue)
	return out
}

// RecordAddresses replaces the last derived address set.
func (s *Store) RecordAddresses(set domain.AddressSet) {
	s.addresses = copyAddresses(set)
}

// Addresses returns the last derived address set.
func (s *Store) Addresses() domain.AddressSet {
	return copyAddresses(s.addresses)
}

// RecordSigned removes the signed request from the queue and appends it to
// the history. Returns ErrRequestNotFound if the request is not queued; the
// history is left untouched in that case.
func (s *Store) RecordSigned(signed domain.SignedTransaction) error {
	id := signed.Transaction.ID
	for i, tx := range s.queue {
		if tx.ID != id {
			continue
		}
		s.queue = append(s.queue[:i:i], s.queue[i+1:]...)
		s.signed = append(s.signed, signed)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrRequestNotFound, id)
}

// Signed returns the signed history, oldest first.
func (s *Store) Signed() []domain.SignedTransaction {
	out := make([]domain.SignedTransaction, len(s.signed))
	copy(out, s.signed)
	return out
}

func copyAddresses(set domain.AddressSet) domain.AddressSet {
	if set.Addresses == nil {
		return domain.AddressSet{}
	}
	out := make([]domain.Address, len(set.Addresses))
	copy(out, set.Addresses)
	return domain.AddressSet{Addresses: out}
}
