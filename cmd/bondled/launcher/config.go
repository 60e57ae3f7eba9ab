package launcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-bonding-ledger/bonding"
	"github.com/rony4d/go-bonding-ledger/bonding/genesis"
)

// Config aggregates everything the launcher needs to assemble a ledger.
type Config struct {
	Node    NodeConfig
	Genesis genesis.Config
	Rules   bonding.Rules
	Logging LoggingConfig
	Metrics MetricsConfig
}

type NodeConfig struct {
	DataDir string
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	SentryDSN string
}

type MetricsConfig struct {
	Enabled bool
	Addr    string
	Port    int
}

// MakeAllConfigs merges defaults and CLI flag overrides into one Config.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	rules, err := rulesForNetwork(ctx.GlobalString("network"))
	if err != nil {
		return Config{}, err
	}
	cfg.Rules = rules

	if ctx.GlobalIsSet("datadir") {
		cfg.Node.DataDir = resolvePath(ctx.GlobalString("datadir"))
	}
	if ctx.GlobalIsSet("log.format") {
		cfg.Logging.Format = ctx.GlobalString("log.format")
	}
	if ctx.GlobalIsSet("log.verbosity") {
		cfg.Logging.Verbosity = ctx.GlobalInt("log.verbosity")
	}
	if ctx.GlobalIsSet("sentry.dsn") {
		cfg.Logging.SentryDSN = ctx.GlobalString("sentry.dsn")
	}
	if ctx.GlobalBool("metrics") {
		cfg.Metrics.Enabled = true
	}
	if ctx.GlobalIsSet("metrics.addr") {
		cfg.Metrics.Addr = ctx.GlobalString("metrics.addr")
	}
	if ctx.GlobalIsSet("metrics.port") {
		cfg.Metrics.Port = ctx.GlobalInt("metrics.port")
	}

	applyIdentityOverrides(ctx, &cfg.Genesis)
	if err := cfg.Genesis.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyIdentityOverrides(ctx *cli.Context, g *genesis.Config) {
	if ctx.IsSet("instance") {
		g.Instance = common.HexToAddress(ctx.String("instance"))
	}
	if ctx.IsSet("token") {
		g.Token = common.HexToAddress(ctx.String("token"))
	}
	if ctx.IsSet("authority") {
		g.Authority = common.HexToAddress(ctx.String("authority"))
	}
}

func rulesForNetwork(name string) (bonding.Rules, error) {
	switch name {
	case "main":
		return bonding.MainNetRules(), nil
	case "test":
		return bonding.TestNetRules(), nil
	case "fake", "":
		return bonding.FakeNetRules(), nil
	default:
		return bonding.Rules{}, fmt.Errorf("unknown network %q", name)
	}
}

// makeLogger builds the process logger from the logging config, attaching
// the Sentry hook when a DSN is configured.
func makeLogger(cfg LoggingConfig) (*logrus.Logger, error) {
	log := logrus.New()

	switch cfg.Format {
	case "json":
		log.Formatter = &logrus.JSONFormatter{}
	case "text", "":
		log.Formatter = &logrus.TextFormatter{}
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	levels := []logrus.Level{
		logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel,
		logrus.InfoLevel, logrus.DebugLevel, logrus.TraceLevel,
	}
	verbosity := cfg.Verbosity
	if verbosity < 0 {
		verbosity = 0
	}
	if verbosity >= len(levels) {
		verbosity = len(levels) - 1
	}
	log.SetLevel(levels[verbosity])

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, []logrus.Level{
			logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel,
		})
		if err != nil {
			return nil, fmt.Errorf("sentry hook: %w", err)
		}
		log.Hooks.Add(hook)
	}
	return log, nil
}

func resolvePath(p string) string {
	if strings.HasPrefix(p, "~") {
		return filepath.Join(guessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, p)
	}
	return p
}

func guessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
