package requests

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h0rv/nanoui/internal/domain"
	"github.com/h0rv/nanoui/internal/store"
)

const fixture = `
requests:
  - id: rent
    asset: XNO
    decimals: 6
    amount: "1.5"
    fee: "0.001"
    destination: xno_3f1c2a9e0b7d4c6a8e5f1b2d3c4a5e6f7a8b9c0d
    memo: rent
  - asset: XNO
    decimals: 6
    amount: "0.042"
    destination: xno_9e8d7c6b5a4f3e2d1c0b9a8f7e6d5c4b3a2f1e0d
`

func TestParse(t *testing.T) {
	txs, err := Parse(strings.NewReader(fixture))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, domain.Transaction{
		ID:          "rent",
		Asset:       "XNO",
		Decimals:    6,
		Amount:      1_500_000,
		Fee:         1_000,
		Destination: "xno_3f1c2a9e0b7d4c6a8e5f1b2d3c4a5e6f7a8b9c0d",
		Memo:        "rent",
	}, txs[0])
	assert.Equal(t, uint64(42_000), txs[1].Amount)
	assert.Zero(t, txs[1].Fee, "fee is optional")
	assert.Empty(t, txs[1].ID, "the store assigns missing ids")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"empty document", "", ErrEmptyFixture},
		{"no requests", "requests: []\n", ErrEmptyFixture},
		{"too many decimals", "requests:\n  - {asset: XNO, decimals: 2, amount: \"1.001\", destination: x}\n", domain.ErrBadAmount},
		{"bad fee", "requests:\n  - {asset: XNO, decimals: 2, amount: \"1\", fee: abc, destination: x}\n", domain.ErrBadAmount},
		{"missing destination", "requests:\n  - {asset: XNO, decimals: 2, amount: \"1\"}\n", store.ErrInvalidRequest},
		{"zero amount", "requests:\n  - {asset: XNO, decimals: 2, amount: \"0\", destination: x}\n", store.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("unknown key", func(t *testing.T) {
		_, err := Parse(strings.NewReader("requests:\n  - {asset: XNO, amount: \"1\", destination: x, colour: red}\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "colour")
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	txs, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnqueue(t *testing.T) {
	s := store.New()
	txs, err := Parse(strings.NewReader(fixture))
	require.NoError(t, err)

	n, err := Enqueue(s, txs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, s.Pending())

	n, err = Enqueue(s, txs[:1])
	assert.ErrorIs(t, err, store.ErrDuplicateRequest)
	assert.Zero(t, n)
}

func TestDemo_IsValid(t *testing.T) {
	s := store.New()
	n, err := Enqueue(s, Demo())
	require.NoError(t, err)
	assert.Equal(t, len(Demo()), n)
}
