package bonding

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-bonding-ledger/bonding/genesis"
	"github.com/rony4d/go-bonding-ledger/inter"
	"github.com/rony4d/go-bonding-ledger/metrics"
	"github.com/rony4d/go-bonding-ledger/token"
)

// Options carries optional Ledger collaborators.
type Options struct {
	Logger  logrus.FieldLogger
	Metrics *metrics.Collectors
}

// Ledger is the bond state machine. All public operations take the calling
// account and the current time explicitly, validate preconditions against
// stored state, and commit their writes in a single batch: a failed
// operation leaves no trace in the store or the notification log.
//
// The ledger is safe for concurrent use; operations serialize on an
// internal mutex, which is what makes validate-then-commit atomic.
type Ledger struct {
	cfg   genesis.Config
	rules Rules
	store *Store
	token token.Transferor

	log  logrus.FieldLogger
	mets *metrics.Collectors

	mu      sync.Mutex
	nextSeq uint64
}

// New creates a Ledger over the given store and transfer primitive.
// opts may be nil.
func New(cfg genesis.Config, rules Rules, store *Store, transferor token.Transferor, opts *Options) (*Ledger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	nextSeq, err := store.NextEventSeq()
	if err != nil {
		return nil, err
	}

	l := &Ledger{
		cfg:     cfg,
		rules:   rules.Copy(),
		store:   store,
		token:   transferor,
		log:     logrus.StandardLogger(),
		nextSeq: nextSeq,
	}
	if opts != nil {
		if opts.Logger != nil {
			l.log = opts.Logger
		}
		l.mets = opts.Metrics
	}
	return l, nil
}

// Rules returns a copy of the active parameter set.
func (l *Ledger) Rules() Rules {
	return l.rules.Copy()
}

// Registry returns the slash registry view over this ledger's state.
func (l *Ledger) Registry() *SlashRegistry {
	return &SlashRegistry{l: l}
}

// Events returns the notification log in append order.
func (l *Ledger) Events() ([]Event, error) {
	return l.store.Events()
}

// AddBond activates the bond described by intent, pulling intent.Amount
// from owner into custody. The returned identifier addresses the bond in
// all later calls made with the identical intent tuple.
func (l *Ledger) AddBond(owner common.Address, intent inter.BondIntent, now inter.Timestamp) (id inter.BondID, err error) {
	defer func() { l.opDone("addBond", err) }()

	id, err = intent.ID(l.cfg.Instance, owner)
	if err != nil {
		return inter.BondID{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, active, err := l.store.GetBond(id)
	if err != nil {
		return inter.BondID{}, err
	}
	if active {
		return inter.BondID{}, ErrBondAlreadyActive
	}
	current, err := l.store.GetSlashPoints(intent.Pool)
	if err != nil {
		return inter.BondID{}, err
	}
	if current.Cmp(l.rules.Slashing.MaxSlash) >= 0 {
		return inter.BondID{}, ErrPoolFullySlashed
	}

	batch := l.store.NewBatch()
	if err := l.store.SetBond(batch, id, BondState{
		SlashedAtStart: current,
		WillUnlock:     0,
	}); err != nil {
		return inter.BondID{}, err
	}
	if err := l.emit(batch, 0, &BondAdded{
		Bond:           id,
		Owner:          owner,
		Amount:         intent.Amount,
		Pool:           intent.Pool,
		Nonce:          intent.Nonce,
		SlashedAtStart: current,
		Time:           now,
	}); err != nil {
		return inter.BondID{}, err
	}

	if err := l.token.TransferFrom(owner, l.cfg.Instance, intent.Amount); err != nil {
		return inter.BondID{}, fmt.Errorf("custody transfer failed: %w", err)
	}
	if err := l.commit(batch, 1); err != nil {
		return inter.BondID{}, err
	}

	l.log.WithFields(logrus.Fields{
		"bond":   id,
		"owner":  owner.Hex(),
		"pool":   intent.Pool,
		"amount": intent.Amount,
	}).Info("bond added")
	if l.mets != nil {
		l.mets.BondsActive.Inc()
	}
	return id, nil
}

// RequestUnbond starts the exit timelock for the addressed bond. It may be
// called only once per bond; the unlock time is now plus the unbonding
// delay.
func (l *Ledger) RequestUnbond(owner common.Address, intent inter.BondIntent, now inter.Timestamp) (id inter.BondID, err error) {
	defer func() { l.opDone("requestUnbond", err) }()

	id, err = intent.ID(l.cfg.Instance, owner)
	if err != nil {
		return inter.BondID{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	state, active, err := l.store.GetBond(id)
	if err != nil {
		return inter.BondID{}, err
	}
	// a pending request counts as "not active" for a second request
	if !active || state.WillUnlock != 0 {
		return inter.BondID{}, ErrBondNotActive
	}

	state.WillUnlock = now + l.rules.Unbonding.Delay

	batch := l.store.NewBatch()
	if err := l.store.SetBond(batch, id, state); err != nil {
		return inter.BondID{}, err
	}
	if err := l.emit(batch, 0, &UnbondRequested{
		Bond:       id,
		Owner:      owner,
		WillUnlock: state.WillUnlock,
		Time:       now,
	}); err != nil {
		return inter.BondID{}, err
	}
	if err := l.commit(batch, 1); err != nil {
		return inter.BondID{}, err
	}

	l.log.WithFields(logrus.Fields{
		"bond":       id,
		"owner":      owner.Hex(),
		"willUnlock": state.WillUnlock.String(),
	}).Info("unbonding requested")
	return id, nil
}

// Unbond settles the addressed bond after its unlock time has strictly
// passed: the slash-adjusted payout goes to owner, the remainder is
// burned, and the bond record is deleted. Returns the payout.
func (l *Ledger) Unbond(owner common.Address, intent inter.BondIntent, now inter.Timestamp) (payout *big.Int, err error) {
	defer func() { l.opDone("unbond", err) }()

	id, err := intent.ID(l.cfg.Instance, owner)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	state, active, err := l.store.GetBond(id)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrBondNotActive
	}
	// the unlock instant itself does not yet qualify
	if state.WillUnlock == 0 || now <= state.WillUnlock {
		return nil, ErrBondNotUnlocked
	}

	current, err := l.store.GetSlashPoints(intent.Pool)
	if err != nil {
		return nil, err
	}
	payout = withdrawableAmount(intent.Amount, current, state.SlashedAtStart, l.rules.Slashing.MaxSlash)
	burned := new(big.Int).Sub(intent.Amount, payout)

	batch := l.store.NewBatch()
	if err := l.store.DeleteBond(batch, id); err != nil {
		return nil, err
	}
	if err := l.emit(batch, 0, &Unbonded{
		Bond:   id,
		Owner:  owner,
		Payout: payout,
		Burned: burned,
		Time:   now,
	}); err != nil {
		return nil, err
	}

	if err := l.settle(owner, payout, burned); err != nil {
		return nil, err
	}
	if err := l.commit(batch, 1); err != nil {
		return nil, err
	}

	l.log.WithFields(logrus.Fields{
		"bond":   id,
		"owner":  owner.Hex(),
		"payout": payout,
		"burned": burned,
	}).Info("bond withdrawn")
	if l.mets != nil {
		l.mets.BondsActive.Dec()
	}
	return payout, nil
}

// ReplaceBond settles the old bond without the unlock-time check and
// immediately activates the new one in the same pool, as one atomic step.
// The old bond's payout is released to owner and the new bond's full
// amount is pulled into custody. The new amount must cover the old bond's
// current withdrawable value, so replacement cannot be used to shed an
// already-incurred slash.
func (l *Ledger) ReplaceBond(owner common.Address, oldIntent, newIntent inter.BondIntent, now inter.Timestamp) (newID inter.BondID, err error) {
	defer func() { l.opDone("replaceBond", err) }()

	oldID, err := oldIntent.ID(l.cfg.Instance, owner)
	if err != nil {
		return inter.BondID{}, err
	}
	newID, err = newIntent.ID(l.cfg.Instance, owner)
	if err != nil {
		return inter.BondID{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	state, active, err := l.store.GetBond(oldID)
	if err != nil {
		return inter.BondID{}, err
	}
	if !active {
		return inter.BondID{}, ErrBondNotActive
	}
	if newIntent.Pool != oldIntent.Pool {
		return inter.BondID{}, ErrPoolIDMismatch
	}

	current, err := l.store.GetSlashPoints(oldIntent.Pool)
	if err != nil {
		return inter.BondID{}, err
	}
	payout := withdrawableAmount(oldIntent.Amount, current, state.SlashedAtStart, l.rules.Slashing.MaxSlash)
	if newIntent.Amount.Cmp(payout) < 0 {
		return inter.BondID{}, ErrNewBondTooSmall
	}
	// embedded activation: the old record is deleted first, so replacing a
	// bond with the identical tuple is legal and refreshes its snapshot
	if newID != oldID {
		_, newActive, err := l.store.GetBond(newID)
		if err != nil {
			return inter.BondID{}, err
		}
		if newActive {
			return inter.BondID{}, ErrBondAlreadyActive
		}
	}
	if current.Cmp(l.rules.Slashing.MaxSlash) >= 0 {
		return inter.BondID{}, ErrPoolFullySlashed
	}
	burned := new(big.Int).Sub(oldIntent.Amount, payout)

	batch := l.store.NewBatch()
	if err := l.store.DeleteBond(batch, oldID); err != nil {
		return inter.BondID{}, err
	}
	if err := l.store.SetBond(batch, newID, BondState{
		SlashedAtStart: current,
		WillUnlock:     0,
	}); err != nil {
		return inter.BondID{}, err
	}
	if err := l.emit(batch, 0, &Unbonded{
		Bond:   oldID,
		Owner:  owner,
		Payout: payout,
		Burned: burned,
		Time:   now,
	}); err != nil {
		return inter.BondID{}, err
	}
	if err := l.emit(batch, 1, &BondAdded{
		Bond:           newID,
		Owner:          owner,
		Amount:         newIntent.Amount,
		Pool:           newIntent.Pool,
		Nonce:          newIntent.Nonce,
		SlashedAtStart: current,
		Time:           now,
	}); err != nil {
		return inter.BondID{}, err
	}

	if err := l.settle(owner, payout, burned); err != nil {
		return inter.BondID{}, err
	}
	if err := l.token.TransferFrom(owner, l.cfg.Instance, newIntent.Amount); err != nil {
		return inter.BondID{}, fmt.Errorf("custody transfer failed: %w", err)
	}
	if err := l.commit(batch, 2); err != nil {
		return inter.BondID{}, err
	}

	l.log.WithFields(logrus.Fields{
		"oldBond":   oldID,
		"newBond":   newID,
		"owner":     owner.Hex(),
		"newAmount": newIntent.Amount,
		"burned":    burned,
	}).Info("bond replaced")
	return newID, nil
}

// WithdrawAmount is the read-only payout query: the value the owner would
// receive if the addressed bond were withdrawn now. Inactive bonds yield
// zero rather than an error.
func (l *Ledger) WithdrawAmount(owner common.Address, intent inter.BondIntent) (*big.Int, error) {
	id, err := intent.ID(l.cfg.Instance, owner)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	state, active, err := l.store.GetBond(id)
	if err != nil {
		return nil, err
	}
	if !active {
		return new(big.Int), nil
	}
	current, err := l.store.GetSlashPoints(intent.Pool)
	if err != nil {
		return nil, err
	}
	return withdrawableAmount(intent.Amount, current, state.SlashedAtStart, l.rules.Slashing.MaxSlash), nil
}

// settle releases the payout to owner and the burned remainder to the
// burn sink.
func (l *Ledger) settle(owner common.Address, payout, burned *big.Int) error {
	if payout.Sign() > 0 {
		if err := l.token.Transfer(owner, payout); err != nil {
			return fmt.Errorf("payout transfer failed: %w", err)
		}
	}
	if burned.Sign() > 0 {
		if err := l.token.Transfer(l.rules.BurnSink, burned); err != nil {
			return fmt.Errorf("burn transfer failed: %w", err)
		}
	}
	return nil
}

// emit stages an event at offset slots past the next free log sequence.
// The caller must be holding the mutex.
func (l *Ledger) emit(batch ethdb.KeyValueWriter, offset uint64, ev Event) error {
	return l.store.AppendEvent(batch, l.nextSeq+offset, ev)
}

// commit writes the staged batch and advances the log sequence by the
// number of staged events. The caller must be holding the mutex.
func (l *Ledger) commit(batch ethdb.Batch, events uint64) error {
	if err := batch.Write(); err != nil {
		return err
	}
	l.nextSeq += events
	return nil
}

func (l *Ledger) opDone(op string, err error) {
	if l.mets != nil {
		l.mets.OpProcessed(op, err)
	}
	if err != nil {
		l.log.WithField("op", op).WithError(err).Debug("operation rejected")
	}
}
