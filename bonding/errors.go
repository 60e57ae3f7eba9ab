package bonding

import "errors"

// Operation failure taxonomy. Every public operation returns exactly one of
// these sentinels (or a wrapped storage/transfer error) and leaves state
// untouched on failure.
var (
	// ErrNotAuthorized is returned when a caller other than the configured
	// slashing authority attempts to apply slash points.
	ErrNotAuthorized = errors.New("caller is not the slashing authority")

	// ErrPointsTooHigh is returned when applying the requested points would
	// push a pool's cumulative total past the maximum.
	ErrPointsTooHigh = errors.New("slash points exceed the remaining headroom")

	// ErrBondAlreadyActive is returned when adding a bond whose identifier
	// is already live.
	ErrBondAlreadyActive = errors.New("bond is already active")

	// ErrPoolFullySlashed is returned when adding a bond into a pool whose
	// slash points have reached the maximum.
	ErrPoolFullySlashed = errors.New("pool is fully slashed")

	// ErrBondNotActive is returned when an operation addresses a bond that
	// does not exist or was already withdrawn.
	ErrBondNotActive = errors.New("bond is not active")

	// ErrBondNotUnlocked is returned when withdrawing a bond whose unlock
	// time has not strictly passed, or for which no unbonding was requested.
	ErrBondNotUnlocked = errors.New("bond is not unlocked")

	// ErrPoolIDMismatch is returned when a replacement bond targets a
	// different pool than the bond it replaces.
	ErrPoolIDMismatch = errors.New("replacement bond targets a different pool")

	// ErrNewBondTooSmall is returned when a replacement bond's amount does
	// not cover the current withdrawable value of the old bond.
	ErrNewBondTooSmall = errors.New("replacement bond amount is below the withdrawable value")

	// ErrInvalidRules is returned by Rules.Validate for inconsistent
	// parameter sets.
	ErrInvalidRules = errors.New("invalid rules")
)
