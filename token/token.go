// Package token abstracts the external asset moved by the bonding ledger.
//
// The ledger never touches balances directly: it pulls value in via
// TransferFrom when a bond activates and pushes value out via Transfer on
// withdrawal. Implementations are the on-chain ERC20 adapter (CallAdapter)
// and an in-memory token for tests and the fake network (MemoryToken).
package token

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrTransferRejected is returned when the token reports failure for a
	// transfer instead of reverting.
	ErrTransferRejected = errors.New("token rejected the transfer")

	// ErrBadTransferResult is returned when the token's return data is
	// neither empty nor a 32-byte boolean.
	ErrBadTransferResult = errors.New("unexpected transfer return data")

	// ErrZeroReceiver is returned for transfers to the zero address. Real
	// tokens commonly revert on them, which is why burned value goes to a
	// dedicated sink account instead.
	ErrZeroReceiver = errors.New("transfer to the zero address")

	// ErrInsufficientBalance is returned by MemoryToken when the sender
	// cannot cover the amount.
	ErrInsufficientBalance = errors.New("insufficient token balance")
)

// Transferor moves custodied value. Implementations are bound to one token
// and one custody account: Transfer spends from custody, TransferFrom pulls
// a third party's funds into an arbitrary receiver.
type Transferor interface {
	// TransferFrom moves amount from the from account to the to account.
	TransferFrom(from, to common.Address, amount *big.Int) error

	// Transfer moves amount from the custody account to the to account.
	Transfer(to common.Address, amount *big.Int) error
}

// interpretTransferResult applies the tolerant ERC20 return convention:
// empty return data means success, a 32-byte word is a boolean flag, and
// anything else is malformed.
func interpretTransferResult(ret []byte) error {
	switch {
	case len(ret) == 0:
		return nil
	case len(ret) == common.HashLength:
		if new(big.Int).SetBytes(ret).Sign() == 0 {
			return ErrTransferRejected
		}
		return nil
	default:
		return ErrBadTransferResult
	}
}
