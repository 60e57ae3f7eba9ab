// Package genesis holds the deployment identity of a bonding ledger
// instance: the custodied token, the slashing authority and the instance
// address mixed into bond identifiers.
package genesis

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrZeroToken     = errors.New("token address is zero")
	ErrZeroAuthority = errors.New("authority address is zero")
	ErrZeroInstance  = errors.New("instance address is zero")
)

// Config identifies one ledger deployment. All three addresses are fixed
// for the lifetime of the instance.
type Config struct {
	// Instance is the identity of this deployment. It is hashed into every
	// bond identifier, so bonds from distinct deployments never collide,
	// and it is the custody account holding bonded value.
	Instance common.Address

	// Token is the asset custodied by the ledger.
	Token common.Address

	// Authority is the only account allowed to apply slash points.
	Authority common.Address
}

// Validate checks that all identity addresses are set.
func (c Config) Validate() error {
	if c.Token == (common.Address{}) {
		return ErrZeroToken
	}
	if c.Authority == (common.Address{}) {
		return ErrZeroAuthority
	}
	if c.Instance == (common.Address{}) {
		return ErrZeroInstance
	}
	return nil
}

// FakeConfig returns a deterministic deployment identity for the fake
// network and tests.
func FakeConfig() Config {
	return Config{
		Instance:  common.HexToAddress("0xfa3e000000000000000000000000000000000001"),
		Token:     common.HexToAddress("0xfa3e000000000000000000000000000000000002"),
		Authority: common.HexToAddress("0xfa3e000000000000000000000000000000000003"),
	}
}
