// Package requests loads pending signing requests from a YAML fixture. The
// simulator uses it in place of the host link, which is out of scope.
//
// A fixture looks like:
//
//	requests:
//	  - id: rent
//	    asset: XNO
//	    decimals: 6
//	    amount: "1.5"
//	    fee: "0.001"
//	    destination: xno_3f1c2a9e0b7d4c6a8e5f1b2d3c4a5e6f7a8b9c0d
//	    memo: rent
//
// Amounts are decimal strings in whole units; they are converted to base
// units with the request's decimals.
package requests

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/h0rv/nanoui/internal/domain"
	"github.com/h0rv/nanoui/internal/store"
)

// ErrEmptyFixture indicates a fixture without any request.
var ErrEmptyFixture = errors.New("fixture has no requests")

// Fixture is the on-disk document.
type Fixture struct {
	Requests []Request `yaml:"requests"`
}

// Request is one signing request as written in a fixture.
type Request struct {
	ID          string `yaml:"id"`
	Asset       string `yaml:"asset"`
	Decimals    int    `yaml:"decimals"`
	Amount      string `yaml:"amount"`
	Fee         string `yaml:"fee"`
	Destination string `yaml:"destination"`
	Memo        string `yaml:"memo"`
}

// Transaction converts r to base units.
func (r Request) Transaction() (domain.Transaction, error) {
	amount, err := domain.ParseUnits(r.Amount, r.Decimals)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("amount: %w", err)
	}
	var fee uint64
	if r.Fee != "" {
		fee, err = domain.ParseUnits(r.Fee, r.Decimals)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("fee: %w", err)
		}
	}
	return domain.Transaction{
		ID:          r.ID,
		Asset:       r.Asset,
		Decimals:    r.Decimals,
		Amount:      amount,
		Fee:         fee,
		Destination: r.Destination,
		Memo:        r.Memo,
	}, nil
}

// Parse decodes a fixture. Unknown keys are rejected, and every request is
// validated the way the store validates it.
func Parse(r io.Reader) ([]domain.Transaction, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFixture
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if len(f.Requests) == 0 {
		return nil, ErrEmptyFixture
	}

	txs := make([]domain.Transaction, 0, len(f.Requests))
	for i, req := range f.Requests {
		tx, err := req.Transaction()
		if err == nil {
			err = store.Validate(tx)
		}
		if err != nil {
			return nil, fmt.Errorf("request %d (%s): %w", i, req.ID, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Load reads and parses the fixture at path.
func Load(path string) ([]domain.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Queue is where loaded requests go.
type Queue interface {
	Enqueue(tx domain.Transaction) (domain.Transaction, error)
}

// Enqueue adds txs to q in order and returns how many were queued. It stops
// at the first rejected request.
func Enqueue(q Queue, txs []domain.Transaction) (int, error) {
	for i, tx := range txs {
		if _, err := q.Enqueue(tx); err != nil {
			return i, err
		}
	}
	return len(txs), nil
}

// Demo returns the built-in requests used when no fixture is configured.
func Demo() []domain.Transaction {
	return []domain.Transaction{
		{
			Asset:       "XNO",
			Decimals:    6,
			Amount:      1_500_000,
			Fee:         1_000,
			Destination: "xno_3f1c2a9e0b7d4c6a8e5f1b2d3c4a5e6f7a8b9c0d",
			Memo:        "rent",
		},
		{
			Asset:       "XNO",
			Decimals:    6,
			Amount:      42_000,
			Destination: "xno_9e8d7c6b5a4f3e2d1c0b9a8f7e6d5c4b3a2f1e0d",
		},
	}
}
