package inter

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrMalformedIntent is returned when a bond intent carries a nil or
	// negative amount.
	ErrMalformedIntent = errors.New("malformed bond intent")
)

// PoolID is an opaque 32-byte pool identifier. The ledger never interprets
// its content; pools exist as soon as something references them.
type PoolID common.Hash

// BytesToPoolID converts b into a PoolID, left-padding or truncating to 32
// bytes the way common.Hash does.
func BytesToPoolID(b []byte) PoolID {
	return PoolID(common.BytesToHash(b))
}

// HexToPoolID parses a hex string (with or without 0x prefix) into a PoolID.
func HexToPoolID(s string) PoolID {
	return PoolID(common.HexToHash(s))
}

// Bytes returns the identifier as a byte slice.
func (p PoolID) Bytes() []byte {
	return p[:]
}

// String returns the 0x-prefixed hex form.
func (p PoolID) String() string {
	return common.Hash(p).Hex()
}

// MarshalText implements encoding.TextMarshaler, so PoolIDs render as hex
// in JSON and log output.
func (p PoolID) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PoolID) UnmarshalText(input []byte) error {
	*p = HexToPoolID(string(input))
	return nil
}

// BondID is the 32-byte identifier of one logical bond. It is derived
// deterministically from the instance identity, the owning account and the
// intent tuple (see BondIntent.ID), so the same intent always addresses
// the same bond.
type BondID common.Hash

// BytesToBondID converts b into a BondID.
func BytesToBondID(b []byte) BondID {
	return BondID(common.BytesToHash(b))
}

// HexToBondID parses a hex string into a BondID.
func HexToBondID(s string) BondID {
	return BondID(common.HexToHash(s))
}

// Bytes returns the identifier as a byte slice.
func (id BondID) Bytes() []byte {
	return id[:]
}

// String returns the 0x-prefixed hex form.
func (id BondID) String() string {
	return common.Hash(id).Hex()
}

// MarshalText implements encoding.TextMarshaler.
func (id BondID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *BondID) UnmarshalText(input []byte) error {
	*id = HexToBondID(string(input))
	return nil
}

// BondIntent is the caller-supplied description of a bond: how much to
// lock, into which pool, disambiguated by a nonce. The intent is not
// persisted; it is the input from which the bond identifier is derived,
// and every operation addressing a bond must present the identical tuple.
type BondIntent struct {
	Amount *big.Int
	Pool   PoolID
	Nonce  uint64
}

// Validate checks that the intent is well-formed: the amount must be
// present and non-negative.
func (e BondIntent) Validate() error {
	if e.Amount == nil || e.Amount.Sign() < 0 {
		return ErrMalformedIntent
	}
	return nil
}

// Copy returns a deep copy of the intent. Amount is a pointer type, so a
// plain assignment would share the underlying integer.
func (e BondIntent) Copy() BondIntent {
	cp := e
	if e.Amount != nil {
		cp.Amount = new(big.Int).Set(e.Amount)
	}
	return cp
}
