package launcher

import (
	"path/filepath"

	"github.com/rony4d/go-bonding-ledger/bonding"
	"github.com/rony4d/go-bonding-ledger/bonding/genesis"
)

// defaultConfig returns the baseline configuration before CLI overrides:
// fake network, fake deployment identity, text logging at info level.
func defaultConfig() Config {
	return Config{
		Node: NodeConfig{
			DataDir: filepath.Join(guessHomeDir(), ".bondled"),
		},
		Genesis: genesis.FakeConfig(),
		Rules:   bonding.FakeNetRules(),
		Logging: LoggingConfig{
			Verbosity: 3,
			Format:    "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1",
			Port:    6060,
		},
	}
}
