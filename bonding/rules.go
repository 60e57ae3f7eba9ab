// Package bonding implements the bonding ledger state machine: per-pool
// cumulative slash points, bond lifecycle (add, unbond request, unbond,
// replace) and the proportional withdrawal arithmetic.
//
// This package provides:
//   - Rules: network-level parameters (slash scale, unbonding delay, burn sink)
//   - SlashRegistry: the only writer of per-pool slash points
//   - Ledger: bond state transitions and settlement
//   - Event records consumed by off-chain observers
//
// Every public operation is a single atomic step: preconditions are
// validated against current state, state is mutated, value is moved via
// the external transfer primitive, and a notification record is emitted.
// A failed operation leaves no trace.
package bonding

import (
	"encoding/json"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-bonding-ledger/inter"
)

// Network identification constants
const (
	// MainNetworkID identifies the production deployment.
	MainNetworkID uint64 = 0xfb1

	// TestNetworkID identifies the public test deployment.
	TestNetworkID uint64 = 0xfb2

	// FakeNetworkID identifies local/fake deployments used in testing.
	FakeNetworkID uint64 = 0xfb3
)

var (
	// BurnAddress receives the slashed portion of a bond on exit. It is a
	// fixed, unreachable account distinct from the zero address, because
	// some token implementations refuse transfers to the zero account.
	BurnAddress = common.HexToAddress("0x000000000000000000000000000000000000dEaD")
)

// DefaultMaxSlash returns the slash-point scale constant: 10^18 points
// represent a fully (100%) slashed pool.
func DefaultMaxSlash() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
}

// SlashingRules bounds the slash registry.
type SlashingRules struct {
	// MaxSlash is the cumulative slash-point cap per pool. A pool whose
	// points reach MaxSlash is fully slashed and accepts no new bonds.
	MaxSlash *big.Int
}

// UnbondingRules governs the exit timelock.
type UnbondingRules struct {
	// Delay is the period between an unbonding request and the moment the
	// bond becomes withdrawable. Withdrawal requires the unlock timestamp
	// to have strictly passed.
	Delay inter.Timestamp
}

// Rules describes the complete parameter set of a ledger deployment.
type Rules struct {
	Name      string // human-readable network name ("main", "test", "fake")
	NetworkID uint64 // numeric deployment identifier

	Slashing  SlashingRules
	Unbonding UnbondingRules

	// BurnSink is the account receiving burned value. It must be non-zero.
	BurnSink common.Address
}

// MainNetRules returns the production parameter set: 10^18 scale and the
// full 30 day unbonding delay.
func MainNetRules() Rules {
	return Rules{
		Name:      "main",
		NetworkID: MainNetworkID,
		Slashing: SlashingRules{
			MaxSlash: DefaultMaxSlash(),
		},
		Unbonding: UnbondingRules{
			Delay: inter.Timestamp(30 * 24 * time.Hour),
		},
		BurnSink: BurnAddress,
	}
}

// TestNetRules returns the testnet parameter set. Testnet keeps mainnet
// values so behavior under test matches production.
func TestNetRules() Rules {
	return Rules{
		Name:      "test",
		NetworkID: TestNetworkID,
		Slashing: SlashingRules{
			MaxSlash: DefaultMaxSlash(),
		},
		Unbonding: UnbondingRules{
			Delay: inter.Timestamp(30 * 24 * time.Hour),
		},
		BurnSink: BurnAddress,
	}
}

// FakeNetRules returns accelerated parameters for local development and
// tests: the unbonding delay shrinks from 30 days to 10 minutes.
func FakeNetRules() Rules {
	return Rules{
		Name:      "fake",
		NetworkID: FakeNetworkID,
		Slashing: SlashingRules{
			MaxSlash: DefaultMaxSlash(),
		},
		Unbonding: UnbondingRules{
			Delay: inter.Timestamp(10 * time.Minute),
		},
		BurnSink: BurnAddress,
	}
}

// Validate checks internal consistency of the rules.
func (r Rules) Validate() error {
	if r.Slashing.MaxSlash == nil || r.Slashing.MaxSlash.Sign() <= 0 {
		return ErrInvalidRules
	}
	if r.Unbonding.Delay == 0 {
		return ErrInvalidRules
	}
	if r.BurnSink == (common.Address{}) {
		return ErrInvalidRules
	}
	return nil
}

// Copy creates a deep copy of the Rules. MaxSlash is a *big.Int, so a
// shallow copy would share mutable state.
func (r Rules) Copy() Rules {
	cp := r
	cp.Slashing.MaxSlash = new(big.Int).Set(r.Slashing.MaxSlash)
	return cp
}

// String returns a JSON representation of the Rules for logging and
// config dumps.
func (r Rules) String() string {
	b, _ := json.Marshal(&r)
	return string(b)
}
