// Package keys holds the reference key material of the simulated device.
//
// Child keys are derived from the device seed with HKDF-SHA256 and used as
// ed25519 seeds. An address is the blake2b-256 digest of the public key,
// truncated and hex encoded behind AddressPrefix.
package keys

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"

	"github.com/h0rv/nanoui/internal/domain"
)

const (
	// MinSeedLen is the shortest seed a Keyring accepts.
	MinSeedLen = 16
	// AddressPrefix starts every encoded address.
	AddressPrefix = "xno_"
	// SigningIndex is the child key that signs transactions.
	SigningIndex uint32 = 0

	addressBytes = 20
)

var (
	// ErrShortSeed indicates the seed has fewer than MinSeedLen bytes.
	ErrShortSeed = errors.New("seed too short")
	// ErrBadSignature indicates a signed transaction does not verify.
	ErrBadSignature = errors.New("signature does not verify")
)

// Keyring derives child keys from one seed.
type Keyring struct {
	seed []byte
}

// New returns a Keyring for seed. The seed is copied.
func New(seed []byte) (*Keyring, error) {
	if len(seed) < MinSeedLen {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrShortSeed, len(seed), MinSeedLen)
	}
	s := make([]byte, len(seed))
	copy(s, seed)
	return &Keyring{seed: s}, nil
}

// Child derives the private key at index.
func (k *Keyring) Child(index uint32) (ed25519.PrivateKey, error) {
	info := []byte(fmt.Sprintf("nanoui/child/%d", index))
	r := hkdf.New(sha256.New, k.seed, nil, info)
	out := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("derive child %d: %w", index, err)
	}
	return ed25519.NewKeyFromSeed(out), nil
}

// Address returns the encoded address of the child key at index.
func (k *Keyring) Address(index uint32) (domain.Address, error) {
	priv, err := k.Child(index)
	if err != nil {
		return domain.Address{}, err
	}
	return domain.Address{Index: index, Encoded: EncodeAddress(priv.Public().(ed25519.PublicKey))}, nil
}

// DeriveAddresses derives count consecutive addresses starting at start.
// It stops early with ctx.Err() when ctx is cancelled.
func (k *Keyring) DeriveAddresses(ctx context.Context, start uint32, count int) (domain.AddressSet, error) {
	set := domain.AddressSet{Addresses: make([]domain.Address, 0, count)}
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return domain.AddressSet{}, err
		}
		addr, err := k.Address(start + uint32(i))
		if err != nil {
			return domain.AddressSet{}, err
		}
		set.Addresses = append(set.Addresses, addr)
	}
	return set, nil
}

// Sign signs the digest of tx.SigningBytes with the SigningIndex key.
func (k *Keyring) Sign(ctx context.Context, tx domain.Transaction) (domain.SignedTransaction, error) {
	if err := ctx.Err(); err != nil {
		return domain.SignedTransaction{}, err
	}
	priv, err := k.Child(SigningIndex)
	if err != nil {
		return domain.SignedTransaction{}, err
	}
	digest := blake2b.Sum256(tx.SigningBytes())
	return domain.SignedTransaction{
		Transaction: tx,
		TxID:        hex.EncodeToString(digest[:]),
		Signature:   ed25519.Sign(priv, digest[:]),
		PublicKey:   []byte(priv.Public().(ed25519.PublicKey)),
	}, nil
}

// Verify checks that signed carries a valid signature over its transaction.
func Verify(signed domain.SignedTransaction) error {
	if len(signed.PublicKey) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: public key is %d bytes", ErrBadSignature, len(signed.PublicKey))
	}
	digest := blake2b.Sum256(signed.Transaction.SigningBytes())
	if hex.EncodeToString(digest[:]) != signed.TxID {
		return fmt.Errorf("%w: txid mismatch", ErrBadSignature)
	}
	if !ed25519.Verify(ed25519.PublicKey(signed.PublicKey), digest[:], signed.Signature) {
		return ErrBadSignature
	}
	return nil
}

// EncodeAddress renders pub as a display address.
func EncodeAddress(pub ed25519.PublicKey) string {
	sum := blake2b.Sum256(pub)
	return AddressPrefix + hex.EncodeToString(sum[:addressBytes])
}
