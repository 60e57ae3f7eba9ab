package test

import (
	"testing"
	"time"

	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-bonding-ledger/bonding"
	"github.com/rony4d/go-bonding-ledger/cmd/bondled/launcher"
	"github.com/rony4d/go-bonding-ledger/flags"
	"github.com/rony4d/go-bonding-ledger/inter"
)

// runConfigFromArgs builds a launcher config through a synthetic CLI app,
// exercising the same flag set the real binary registers.
func runConfigFromArgs(t *testing.T, args []string) launcher.Config {
	t.Helper()

	app := cli.NewApp()
	app.HideHelp = true
	app.HideVersion = true
	app.Flags = append(flags.CommonFlags(), flags.IdentityFlags()...)

	var got launcher.Config
	app.Action = func(c *cli.Context) error {
		cfg, err := launcher.MakeAllConfigs(c)
		if err != nil {
			return err
		}
		got = cfg
		return nil
	}

	if err := app.Run(append([]string{"bondled"}, args...)); err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
	return got
}

func TestMakeAllConfigs_flagOverrides(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want func(t *testing.T, cfg launcher.Config)
	}{
		{
			name: "defaults",
			args: nil,
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Rules.NetworkID != bonding.FakeNetworkID {
					t.Fatalf("NetworkID = %d, want fakenet", cfg.Rules.NetworkID)
				}
				if cfg.Logging.Format != "text" || cfg.Logging.Verbosity != 3 {
					t.Fatalf("Logging = %+v, want text/3", cfg.Logging)
				}
				if cfg.Metrics.Enabled {
					t.Fatal("metrics should be disabled by default")
				}
				if err := cfg.Genesis.Validate(); err != nil {
					t.Fatalf("default genesis invalid: %v", err)
				}
			},
		},
		{
			name: "network selection",
			args: []string{"--network", "main"},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Rules.NetworkID != bonding.MainNetworkID {
					t.Fatalf("NetworkID = %d, want mainnet", cfg.Rules.NetworkID)
				}
				if exp := inter.Timestamp(30 * 24 * time.Hour); cfg.Rules.Unbonding.Delay != exp {
					t.Fatalf("Delay = %d, want 30 days", cfg.Rules.Unbonding.Delay)
				}
			},
		},
		{
			name: "logging and metrics",
			args: []string{"--log.format", "json", "--log.verbosity", "5", "--metrics", "--metrics.port", "9999"},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Logging.Format != "json" {
					t.Fatalf("Format = %q, want json", cfg.Logging.Format)
				}
				if cfg.Logging.Verbosity != 5 {
					t.Fatalf("Verbosity = %d, want 5", cfg.Logging.Verbosity)
				}
				if !cfg.Metrics.Enabled || cfg.Metrics.Port != 9999 {
					t.Fatalf("Metrics = %+v, want enabled on port 9999", cfg.Metrics)
				}
			},
		},
		{
			name: "identity overrides",
			args: []string{
				"--instance", "0x1000000000000000000000000000000000000001",
				"--token", "0x2000000000000000000000000000000000000002",
				"--authority", "0x3000000000000000000000000000000000000003",
			},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Genesis.Instance.Hex() != "0x1000000000000000000000000000000000000001" {
					t.Fatalf("Instance = %s", cfg.Genesis.Instance.Hex())
				}
				if cfg.Genesis.Token.Hex() != "0x2000000000000000000000000000000000000002" {
					t.Fatalf("Token = %s", cfg.Genesis.Token.Hex())
				}
				if cfg.Genesis.Authority.Hex() != "0x3000000000000000000000000000000000000003" {
					t.Fatalf("Authority = %s", cfg.Genesis.Authority.Hex())
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := runConfigFromArgs(t, test.args)
			test.want(t, cfg)
		})
	}
}

func TestMakeAllConfigs_rejectsUnknownNetwork(t *testing.T) {
	app := cli.NewApp()
	app.HideHelp = true
	app.HideVersion = true
	app.Flags = flags.CommonFlags()

	var gotErr error
	app.Action = func(c *cli.Context) error {
		_, gotErr = launcher.MakeAllConfigs(c)
		return nil
	}
	if err := app.Run([]string{"bondled", "--network", "nosuchnet"}); err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
	if gotErr == nil {
		t.Fatal("expected an error for an unknown network")
	}
}
