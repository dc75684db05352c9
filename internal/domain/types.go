// Package domain defines the value types the device screens display and the
// operations consume. They carry no behavior beyond formatting and a
// canonical byte encoding used for signing.
package domain

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadAmount indicates a decimal amount string cannot be represented in
// base units.
var ErrBadAmount = errors.New("bad amount")

// Transaction is a signing request received from the host.
type Transaction struct {
	ID          string // Request id (uuid), assigned when the request is queued
	Asset       string // Ticker shown on screen (e.g., "XNO")
	Decimals    int    // Number of fractional digits in Amount and Fee
	Amount      uint64 // Amount in base units
	Fee         uint64 // Fee in base units
	Destination string // Destination address as shown to the user
	Memo        string // Optional memo, empty if unset
}

// FormatAmount renders the amount with its asset ticker.
func (t Transaction) FormatAmount() string {
	return FormatUnits(t.Amount, t.Decimals) + " " + t.Asset
}

// FormatFee renders the fee with its asset ticker.
func (t Transaction) FormatFee() string {
	return FormatUnits(t.Fee, t.Decimals) + " " + t.Asset
}

// SigningBytes returns the canonical encoding of the fields the user
// confirms. Two transactions with the same confirmed fields encode the same.
func (t Transaction) SigningBytes() []byte {
	var b []byte
	b = appendField(b, t.ID)
	b = appendField(b, t.Asset)
	b = binary.BigEndian.AppendUint64(b, uint64(t.Decimals))
	b = binary.BigEndian.AppendUint64(b, t.Amount)
	b = binary.BigEndian.AppendUint64(b, t.Fee)
	b = appendField(b, t.Destination)
	b = appendField(b, t.Memo)
	return b
}

func appendField(b []byte, s string) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(len(s)))
	return append(b, s...)
}

// Address is a derived receive address.
type Address struct {
	Index   uint32 // Derivation index
	Encoded string // Display form (prefix + hex)
}

// AddressSet is the result of one address generation operation.
type AddressSet struct {
	Addresses []Address
}

// Len returns the number of addresses in the set.
func (s AddressSet) Len() int {
	return len(s.Addresses)
}

// SignedTransaction is the result of a signing operation.
type SignedTransaction struct {
	Transaction Transaction
	TxID        string // Hex digest of the signed bytes
	Signature   []byte // Raw signature
	PublicKey   []byte // Key that produced Signature
}

// SignaturePrefix returns the first n hex characters of the signature.
func (s SignedTransaction) SignaturePrefix(n int) string {
	hex := fmt.Sprintf("%x", s.Signature)
	if len(hex) <= n {
		return hex
	}
	return hex[:n] + "..."
}

// FormatUnits renders a base-unit amount with the given number of decimals,
// trimming trailing fractional zeros.
func FormatUnits(v uint64, decimals int) string {
	if decimals <= 0 {
		return strconv.FormatUint(v, 10)
	}
	s := strconv.FormatUint(v, 10)
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}
	whole, frac := s[:len(s)-decimals], strings.TrimRight(s[len(s)-decimals:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// ParseUnits converts a decimal string such as "1.5" into base units with
// the given number of decimals. It rejects more fractional digits than
// decimals allows and values that overflow a uint64.
func ParseUnits(s string, decimals int) (uint64, error) {
	s = strings.TrimSpace(s)
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && (!hasFrac || frac == "") {
		return 0, fmt.Errorf("%w: %q", ErrBadAmount, s)
	}
	if len(frac) > decimals {
		return 0, fmt.Errorf("%w: %q has more than %d decimals", ErrBadAmount, s, decimals)
	}
	digits := whole + frac + strings.Repeat("0", decimals-len(frac))
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrBadAmount, s, err)
	}
	return v, nil
}
