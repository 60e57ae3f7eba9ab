package inter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rony4d/go-bonding-ledger/utils/cser"
)

// MarshalCSER serializes the intent into the canonical format.
//
// Layout: amount (BigInt), pool (32 fixed bytes), nonce (U64). The
// canonical encoding guarantees a single byte representation per tuple,
// which the identifier derivation below relies on.
func (e BondIntent) MarshalCSER(w *cser.Writer) error {
	if err := e.Validate(); err != nil {
		return err
	}
	w.BigInt(e.Amount)
	w.FixedBytes(e.Pool[:])
	w.U64(e.Nonce)
	return nil
}

// UnmarshalCSER reads an intent back from the canonical format.
func (e *BondIntent) UnmarshalCSER(r *cser.Reader) error {
	e.Amount = r.BigInt()
	r.FixedBytes(e.Pool[:])
	e.Nonce = r.U64()
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (e BondIntent) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(e.MarshalCSER)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (e *BondIntent) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, e.UnmarshalCSER)
}

// ID derives the bond identifier for this intent: the Keccak-256 hash of
// the canonical encoding of (instance, owner, amount, pool, nonce).
// Instance is the identity of the ledger deployment, so identifiers from
// distinct instances never collide; owner is the bonding account. Two
// intents from the same owner that agree on amount, pool and nonce
// produce the same identifier, which is how one logical bond is
// recognized across add, unbond-request, unbond and replace calls.
func (e BondIntent) ID(instance common.Address, owner common.Address) (BondID, error) {
	raw, err := cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
		w.FixedBytes(instance[:])
		w.FixedBytes(owner[:])
		return e.MarshalCSER(w)
	})
	if err != nil {
		return BondID{}, err
	}
	return BondID(crypto.Keccak256Hash(raw)), nil
}
