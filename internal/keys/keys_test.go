package keys

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h0rv/nanoui/internal/domain"
)

func testSeed() []byte {
	return []byte("0123456789abcdef0123456789abcdef")
}

func testTransaction() domain.Transaction {
	return domain.Transaction{
		ID:          "req-1",
		Asset:       "XNO",
		Decimals:    6,
		Amount:      1_500_000,
		Fee:         1_000,
		Destination: "xno_3f1c2a9e0b7d4c6a8e5f1b2d3c4a5e6f7a8b9c0d",
	}
}

func TestNew_RejectsShortSeed(t *testing.T) {
	_, err := New(make([]byte, MinSeedLen-1))
	assert.ErrorIs(t, err, ErrShortSeed)

	k, err := New(make([]byte, MinSeedLen))
	require.NoError(t, err)
	assert.NotNil(t, k)
}

func TestNew_CopiesSeed(t *testing.T) {
	seed := testSeed()
	k, err := New(seed)
	require.NoError(t, err)
	before, err := k.Address(0)
	require.NoError(t, err)

	seed[0] ^= 0xff
	after, err := k.Address(0)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAddress_Deterministic(t *testing.T) {
	a, err := New(testSeed())
	require.NoError(t, err)
	b, err := New(testSeed())
	require.NoError(t, err)

	addrA, err := a.Address(3)
	require.NoError(t, err)
	addrB, err := b.Address(3)
	require.NoError(t, err)
	assert.Equal(t, addrA, addrB)

	assert.Equal(t, uint32(3), addrA.Index)
	assert.True(t, strings.HasPrefix(addrA.Encoded, AddressPrefix))
	assert.Len(t, addrA.Encoded, len(AddressPrefix)+2*addressBytes)

	other, err := a.Address(4)
	require.NoError(t, err)
	assert.NotEqual(t, addrA.Encoded, other.Encoded)
}

func TestDeriveAddresses(t *testing.T) {
	k, err := New(testSeed())
	require.NoError(t, err)

	set, err := k.DeriveAddresses(context.Background(), 5, 3)
	require.NoError(t, err)
	require.Equal(t, 3, set.Len())
	for i, addr := range set.Addresses {
		assert.Equal(t, uint32(5+i), addr.Index)
		want, err := k.Address(uint32(5 + i))
		require.NoError(t, err)
		assert.Equal(t, want, addr)
	}
}

func TestDeriveAddresses_Cancelled(t *testing.T) {
	k, err := New(testSeed())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = k.DeriveAddresses(ctx, 0, 3)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = k.Sign(ctx, testTransaction())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSign_Verifies(t *testing.T) {
	k, err := New(testSeed())
	require.NoError(t, err)

	signed, err := k.Sign(context.Background(), testTransaction())
	require.NoError(t, err)
	assert.Equal(t, testTransaction(), signed.Transaction)
	assert.Len(t, signed.TxID, 64)
	require.NoError(t, Verify(signed))

	t.Run("tampered amount", func(t *testing.T) {
		tampered := signed
		tampered.Transaction.Amount++
		assert.ErrorIs(t, Verify(tampered), ErrBadSignature)
	})

	t.Run("tampered signature", func(t *testing.T) {
		tampered := signed
		tampered.Signature = append([]byte(nil), signed.Signature...)
		tampered.Signature[0] ^= 0x01
		assert.ErrorIs(t, Verify(tampered), ErrBadSignature)
	})

	t.Run("missing key", func(t *testing.T) {
		tampered := signed
		tampered.PublicKey = nil
		assert.ErrorIs(t, Verify(tampered), ErrBadSignature)
	})
}

func TestSign_KeyMatchesFirstAddress(t *testing.T) {
	k, err := New(testSeed())
	require.NoError(t, err)

	signed, err := k.Sign(context.Background(), testTransaction())
	require.NoError(t, err)
	addr, err := k.Address(SigningIndex)
	require.NoError(t, err)
	assert.Equal(t, addr.Encoded, EncodeAddress(signed.PublicKey))
}
