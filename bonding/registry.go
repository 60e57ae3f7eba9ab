package bonding

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-bonding-ledger/inter"
)

// SlashRegistry is the write path for per-pool slash points. Points only
// grow, are capped at the maximum, and may be applied by the configured
// authority alone. Slashing touches nothing but the pool counter: active
// bonds feel it lazily, through the withdrawal computation, which keeps
// the operation O(1) regardless of bond count.
type SlashRegistry struct {
	l *Ledger
}

// Slash adds points to the pool's cumulative total and returns the new
// total. Fails with ErrNotAuthorized for any caller but the authority and
// with ErrPointsTooHigh if the total would pass the maximum; points
// outside [0, max] are rejected the same way.
func (r *SlashRegistry) Slash(caller common.Address, pool inter.PoolID, points *big.Int, now inter.Timestamp) (newTotal *big.Int, err error) {
	l := r.l
	defer func() { l.opDone("slash", err) }()

	if caller != l.cfg.Authority {
		return nil, ErrNotAuthorized
	}
	if points == nil || points.Sign() < 0 {
		return nil, ErrPointsTooHigh
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.store.GetSlashPoints(pool)
	if err != nil {
		return nil, err
	}
	newTotal = new(big.Int).Add(current, points)
	if newTotal.Cmp(l.rules.Slashing.MaxSlash) > 0 {
		return nil, ErrPointsTooHigh
	}

	batch := l.store.NewBatch()
	if err := l.store.SetSlashPoints(batch, pool, newTotal); err != nil {
		return nil, err
	}
	if err := l.emit(batch, 0, &SlashApplied{
		Pool:     pool,
		NewTotal: newTotal,
		Time:     now,
	}); err != nil {
		return nil, err
	}
	if err := l.commit(batch, 1); err != nil {
		return nil, err
	}

	l.log.WithFields(logrus.Fields{
		"pool":     pool,
		"points":   points,
		"newTotal": newTotal,
	}).Info("slash applied")
	if l.mets != nil {
		l.mets.SlashesApplied.Inc()
	}
	return newTotal, nil
}

// SlashPoints returns the pool's current cumulative total. Unknown pools
// have zero points.
func (r *SlashRegistry) SlashPoints(pool inter.PoolID) (*big.Int, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	return r.l.store.GetSlashPoints(pool)
}
