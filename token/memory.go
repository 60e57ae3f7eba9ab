package token

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// MemoryToken is an in-memory Transferor for tests and the fake network.
// It enforces the same surface rules as a real token: no transfers to the
// zero address, no overdrafts.
type MemoryToken struct {
	custody common.Address

	mu       sync.Mutex
	balances map[common.Address]*big.Int
}

// NewMemoryToken creates an empty token bound to the given custody account.
func NewMemoryToken(custody common.Address) *MemoryToken {
	return &MemoryToken{
		custody:  custody,
		balances: map[common.Address]*big.Int{},
	}
}

// ApplyFakeGenesis credits the same starting balance to each account,
// bootstrapping a fake-network token distribution.
func ApplyFakeGenesis(t *MemoryToken, balance *big.Int, accounts ...common.Address) {
	for _, account := range accounts {
		t.Mint(account, balance)
	}
}

// Mint credits the account, for seeding test balances.
func (t *MemoryToken) Mint(account common.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.credit(account, amount)
}

// BalanceOf returns the account's current balance.
func (t *MemoryToken) BalanceOf(account common.Address) *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if b, ok := t.balances[account]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// TransferFrom moves amount between arbitrary accounts.
func (t *MemoryToken) TransferFrom(from, to common.Address, amount *big.Int) error {
	return t.move(from, to, amount)
}

// Transfer moves amount out of the custody account.
func (t *MemoryToken) Transfer(to common.Address, amount *big.Int) error {
	return t.move(t.custody, to, amount)
}

func (t *MemoryToken) move(from, to common.Address, amount *big.Int) error {
	if to == (common.Address{}) {
		return ErrZeroReceiver
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	have, ok := t.balances[from]
	if !ok {
		have = new(big.Int)
		t.balances[from] = have
	}
	if have.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	have.Sub(have, amount)
	t.credit(to, amount)
	return nil
}

// credit assumes the lock is held.
func (t *MemoryToken) credit(account common.Address, amount *big.Int) {
	if b, ok := t.balances[account]; ok {
		b.Add(b, amount)
		return
	}
	t.balances[account] = new(big.Int).Set(amount)
}
