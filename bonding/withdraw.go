package bonding

import "math/big"

// withdrawableAmount computes the owner's payout for a bond of the given
// amount under the pool's current slash points, relative to the points at
// bond activation:
//
//	payout = amount * (maxSlash - current) / (maxSlash - atStart)
//
// The multiplication happens before the division so truncation is applied
// once, to the final value. Callers guarantee atStart < maxSlash (enforced
// at bond activation) and atStart <= current <= maxSlash (slash points are
// monotone and capped), so the result is in [0, amount].
func withdrawableAmount(amount, current, atStart, maxSlash *big.Int) *big.Int {
	remaining := new(big.Int).Sub(maxSlash, current)
	baseline := new(big.Int).Sub(maxSlash, atStart)

	payout := new(big.Int).Mul(amount, remaining)
	return payout.Div(payout, baseline)
}
