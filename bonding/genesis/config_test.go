package genesis

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	cfg := FakeConfig()
	require.NoError(t, cfg.Validate())

	c := cfg
	c.Token = common.Address{}
	require.Equal(t, ErrZeroToken, c.Validate())

	c = cfg
	c.Authority = common.Address{}
	require.Equal(t, ErrZeroAuthority, c.Validate())

	c = cfg
	c.Instance = common.Address{}
	require.Equal(t, ErrZeroInstance, c.Validate())
}

func TestFakeConfigIsDeterministic(t *testing.T) {
	require.Equal(t, FakeConfig(), FakeConfig())
	require.NotEqual(t, FakeConfig().Token, FakeConfig().Authority)
}
