package bonding

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-bonding-ledger/bonding/genesis"
	"github.com/rony4d/go-bonding-ledger/inter"
	"github.com/rony4d/go-bonding-ledger/token"
)

var (
	testOwner = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	testPool  = inter.HexToPoolID("0x01")
)

type testEnv struct {
	ledger   *Ledger
	registry *SlashRegistry
	token    *token.MemoryToken
	cfg      genesis.Config
	rules    Rules
	now      inter.Timestamp
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := genesis.FakeConfig()
	rules := FakeNetRules()

	tok := token.NewMemoryToken(cfg.Instance)
	tok.Mint(testOwner, big.NewInt(1000000))

	ledger, err := New(cfg, rules, NewMemStore(), tok, nil)
	require.NoError(t, err)

	return &testEnv{
		ledger:   ledger,
		registry: ledger.Registry(),
		token:    tok,
		cfg:      cfg,
		rules:    rules,
		now:      inter.FromTime(time.Unix(1700000000, 0)),
	}
}

// pass advances the environment clock by d.
func (env *testEnv) pass(d time.Duration) {
	env.now += inter.Timestamp(d)
}

// slash applies points to the test pool as the authority.
func (env *testEnv) slash(t *testing.T, points int64) {
	t.Helper()
	_, err := env.registry.Slash(env.cfg.Authority, testPool, big.NewInt(points), env.now)
	require.NoError(t, err)
}

func intent(amount int64, nonce uint64) inter.BondIntent {
	return inter.BondIntent{Amount: big.NewInt(amount), Pool: testPool, Nonce: nonce}
}

func TestAddBondMovesValueIntoCustody(t *testing.T) {
	env := newTestEnv(t)

	id, err := env.ledger.AddBond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)
	require.NotEqual(t, inter.BondID{}, id)

	require.Equal(t, big.NewInt(999000), env.token.BalanceOf(testOwner))
	require.Equal(t, big.NewInt(1000), env.token.BalanceOf(env.cfg.Instance))
}

func TestAddBondRejectsDuplicate(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.AddBond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)

	_, err = env.ledger.AddBond(testOwner, intent(1000, 0), env.now)
	require.Equal(t, ErrBondAlreadyActive, err)

	// a different nonce is a different bond
	_, err = env.ledger.AddBond(testOwner, intent(1000, 1), env.now)
	require.NoError(t, err)
}

func TestAddBondRejectsFullySlashedPool(t *testing.T) {
	env := newTestEnv(t)

	max := env.rules.Slashing.MaxSlash
	_, err := env.registry.Slash(env.cfg.Authority, testPool, max, env.now)
	require.NoError(t, err)

	_, err = env.ledger.AddBond(testOwner, intent(1000, 0), env.now)
	require.Equal(t, ErrPoolFullySlashed, err)
}

func TestAddBondAbortsOnFailedTransfer(t *testing.T) {
	env := newTestEnv(t)
	pauper := common.HexToAddress("0x00000000000000000000000000000000000000bb")

	_, err := env.ledger.AddBond(pauper, intent(1000, 0), env.now)
	require.ErrorIs(t, err, token.ErrInsufficientBalance)

	// the failed operation left no state and no notification behind
	events, err := env.ledger.Events()
	require.NoError(t, err)
	require.Empty(t, events)

	amount, err := env.ledger.WithdrawAmount(pauper, intent(1000, 0))
	require.NoError(t, err)
	require.Zero(t, amount.Sign())
}

func TestRequestUnbondOnlyOnce(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.AddBond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)

	_, err = env.ledger.RequestUnbond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)

	_, err = env.ledger.RequestUnbond(testOwner, intent(1000, 0), env.now)
	require.Equal(t, ErrBondNotActive, err)
}

func TestRequestUnbondUnknownBond(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.RequestUnbond(testOwner, intent(1000, 0), env.now)
	require.Equal(t, ErrBondNotActive, err)
}

func TestUnbondTimelockIsStrict(t *testing.T) {
	env := newTestEnv(t)
	delay := time.Duration(env.rules.Unbonding.Delay)

	_, err := env.ledger.AddBond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)

	// before any request
	_, err = env.ledger.Unbond(testOwner, intent(1000, 0), env.now)
	require.Equal(t, ErrBondNotUnlocked, err)

	_, err = env.ledger.RequestUnbond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)

	// just before the unlock instant
	env.pass(delay - time.Second)
	_, err = env.ledger.Unbond(testOwner, intent(1000, 0), env.now)
	require.Equal(t, ErrBondNotUnlocked, err)

	// exactly at the unlock instant: still locked
	env.pass(time.Second)
	_, err = env.ledger.Unbond(testOwner, intent(1000, 0), env.now)
	require.Equal(t, ErrBondNotUnlocked, err)

	// strictly past it
	env.pass(time.Nanosecond)
	payout, err := env.ledger.Unbond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1000), payout)
}

func TestUnbondWithoutSlashPaysFullAmount(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.AddBond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)
	_, err = env.ledger.RequestUnbond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)
	env.pass(time.Duration(env.rules.Unbonding.Delay) + time.Second)

	payout, err := env.ledger.Unbond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1000), payout)

	require.Equal(t, big.NewInt(1000000), env.token.BalanceOf(testOwner))
	require.Zero(t, env.token.BalanceOf(env.rules.BurnSink).Sign())
}

// Bond 1000 units into a fresh pool, slash the pool by 2*10^17 of 10^18:
// the payout is 800 and the burned remainder 200.
func TestUnbondBurnsSlashedShare(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.AddBond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)

	env.slash(t, 2e17)

	amount, err := env.ledger.WithdrawAmount(testOwner, intent(1000, 0))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(800), amount)

	_, err = env.ledger.RequestUnbond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)
	env.pass(time.Duration(env.rules.Unbonding.Delay) + time.Second)

	payout, err := env.ledger.Unbond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(800), payout)

	require.Equal(t, big.NewInt(999800), env.token.BalanceOf(testOwner))
	require.Equal(t, big.NewInt(200), env.token.BalanceOf(env.rules.BurnSink))
	require.Zero(t, env.token.BalanceOf(env.cfg.Instance).Sign())
}

// A bond entering a pool already slashed to 2*10^17 is only exposed to
// later slashing: after a further 1*10^17, the payout of 1000 units is
// 1000*(1e18-3e17)/(1e18-2e17) = 875.
func TestWithdrawRelativeToSnapshot(t *testing.T) {
	env := newTestEnv(t)

	env.slash(t, 2e17)

	_, err := env.ledger.AddBond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)

	env.slash(t, 1e17)

	amount, err := env.ledger.WithdrawAmount(testOwner, intent(1000, 0))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(875), amount)
}

func TestWithdrawAmountInactiveBondIsZero(t *testing.T) {
	env := newTestEnv(t)

	amount, err := env.ledger.WithdrawAmount(testOwner, intent(1000, 0))
	require.NoError(t, err)
	require.Zero(t, amount.Sign())
}

func TestBondIdentifierReusableAfterUnbond(t *testing.T) {
	env := newTestEnv(t)

	id1, err := env.ledger.AddBond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)
	_, err = env.ledger.RequestUnbond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)
	env.pass(time.Duration(env.rules.Unbonding.Delay) + time.Second)
	_, err = env.ledger.Unbond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)

	id2, err := env.ledger.AddBond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)
	require.Equal(t, id1, id2)
}

func TestReplaceBondRefreshesSnapshot(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.AddBond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)

	env.slash(t, 2e17)

	// withdrawable is 800; replacing with 800 burns 200 and starts a fresh
	// snapshot at the current pool points
	newID, err := env.ledger.ReplaceBond(testOwner, intent(1000, 0), intent(800, 1), env.now)
	require.NoError(t, err)
	require.NotEqual(t, inter.BondID{}, newID)

	require.Equal(t, big.NewInt(200), env.token.BalanceOf(env.rules.BurnSink))
	require.Equal(t, big.NewInt(800), env.token.BalanceOf(env.cfg.Instance))

	// the new bond is unaffected by the slash that predates it
	amount, err := env.ledger.WithdrawAmount(testOwner, intent(800, 1))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(800), amount)

	// the old identifier is gone
	amount, err = env.ledger.WithdrawAmount(testOwner, intent(1000, 0))
	require.NoError(t, err)
	require.Zero(t, amount.Sign())
}

func TestReplaceBondRejections(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.AddBond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)

	env.slash(t, 2e17)

	// unknown old bond
	_, err = env.ledger.ReplaceBond(testOwner, intent(1000, 9), intent(1000, 10), env.now)
	require.Equal(t, ErrBondNotActive, err)

	// pool mismatch
	other := inter.BondIntent{Amount: big.NewInt(1000), Pool: inter.HexToPoolID("0x02"), Nonce: 1}
	_, err = env.ledger.ReplaceBond(testOwner, intent(1000, 0), other, env.now)
	require.Equal(t, ErrPoolIDMismatch, err)

	// withdrawable is 800, a smaller replacement would shed the slash
	_, err = env.ledger.ReplaceBond(testOwner, intent(1000, 0), intent(799, 1), env.now)
	require.Equal(t, ErrNewBondTooSmall, err)

	// colliding with another active bond
	_, err = env.ledger.AddBond(testOwner, intent(900, 2), env.now)
	require.NoError(t, err)
	_, err = env.ledger.ReplaceBond(testOwner, intent(1000, 0), intent(900, 2), env.now)
	require.Equal(t, ErrBondAlreadyActive, err)
}

func TestReplaceBondAllowedWhileUnbonding(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.AddBond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)
	_, err = env.ledger.RequestUnbond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)

	_, err = env.ledger.ReplaceBond(testOwner, intent(1000, 0), intent(1000, 1), env.now)
	require.NoError(t, err)

	// the replacement starts without a pending request
	_, err = env.ledger.RequestUnbond(testOwner, intent(1000, 1), env.now)
	require.NoError(t, err)
}

func TestNotificationLogOrder(t *testing.T) {
	env := newTestEnv(t)
	delay := time.Duration(env.rules.Unbonding.Delay)

	id, err := env.ledger.AddBond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)
	env.slash(t, 2e17)
	_, err = env.ledger.RequestUnbond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)
	env.pass(delay + time.Second)
	_, err = env.ledger.Unbond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)

	events, err := env.ledger.Events()
	require.NoError(t, err)
	require.Len(t, events, 4)

	added, ok := events[0].(*BondAdded)
	require.True(t, ok)
	require.Equal(t, id, added.Bond)
	require.Equal(t, testOwner, added.Owner)
	require.Zero(t, added.SlashedAtStart.Sign())

	slashed, ok := events[1].(*SlashApplied)
	require.True(t, ok)
	require.Equal(t, testPool, slashed.Pool)
	require.Equal(t, big.NewInt(2e17), slashed.NewTotal)

	requested, ok := events[2].(*UnbondRequested)
	require.True(t, ok)
	require.Equal(t, id, requested.Bond)
	require.NotZero(t, requested.WillUnlock)

	unbonded, ok := events[3].(*Unbonded)
	require.True(t, ok)
	require.Equal(t, id, unbonded.Bond)
	require.Equal(t, big.NewInt(800), unbonded.Payout)
	require.Equal(t, big.NewInt(200), unbonded.Burned)
}

func TestLedgerResumesEventSequence(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.AddBond(testOwner, intent(1000, 0), env.now)
	require.NoError(t, err)

	// reopen the same store with a fresh ledger
	reopened, err := New(env.cfg, env.rules, env.ledger.store, env.token, nil)
	require.NoError(t, err)

	_, err = reopened.AddBond(testOwner, intent(1000, 1), env.now)
	require.NoError(t, err)

	events, err := reopened.Events()
	require.NoError(t, err)
	require.Len(t, events, 2)
}
