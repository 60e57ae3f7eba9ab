package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// 4-byte ERC20 method selectors, precomputed from the canonical signatures.
var (
	transferSelector     = crypto.Keccak256([]byte("transfer(address,uint256)"))[:4]
	transferFromSelector = crypto.Keccak256([]byte("transferFrom(address,address,uint256)"))[:4]
)

// Caller executes a message call against a contract on behalf of a sender
// and returns the raw return data.
type Caller interface {
	Call(sender common.Address, to common.Address, input []byte) ([]byte, error)
}

// CallAdapter is a Transferor speaking the ERC20 calling convention to a
// token contract through a Caller. Custody transfers are sent from the
// bound custody account.
type CallAdapter struct {
	token   common.Address
	custody common.Address
	caller  Caller
}

// NewCallAdapter binds the adapter to a token contract and a custody
// account.
func NewCallAdapter(token, custody common.Address, caller Caller) *CallAdapter {
	return &CallAdapter{
		token:   token,
		custody: custody,
		caller:  caller,
	}
}

func padAddress(a common.Address) []byte {
	return common.LeftPadBytes(a.Bytes(), common.HashLength)
}

func padAmount(v *big.Int) []byte {
	return common.LeftPadBytes(v.Bytes(), common.HashLength)
}

// TransferFrom pulls amount from the from account into to, using the
// token's transferFrom method. The from account must have approved the
// custody account beforehand.
func (a *CallAdapter) TransferFrom(from, to common.Address, amount *big.Int) error {
	if to == (common.Address{}) {
		return ErrZeroReceiver
	}
	input := make([]byte, 0, 4+3*common.HashLength)
	input = append(input, transferFromSelector...)
	input = append(input, padAddress(from)...)
	input = append(input, padAddress(to)...)
	input = append(input, padAmount(amount)...)

	ret, err := a.caller.Call(a.custody, a.token, input)
	if err != nil {
		return err
	}
	return interpretTransferResult(ret)
}

// Transfer sends amount from the custody account to to.
func (a *CallAdapter) Transfer(to common.Address, amount *big.Int) error {
	if to == (common.Address{}) {
		return ErrZeroReceiver
	}
	input := make([]byte, 0, 4+2*common.HashLength)
	input = append(input, transferSelector...)
	input = append(input, padAddress(to)...)
	input = append(input, padAmount(amount)...)

	ret, err := a.caller.Call(a.custody, a.token, input)
	if err != nil {
		return err
	}
	return interpretTransferResult(ret)
}
