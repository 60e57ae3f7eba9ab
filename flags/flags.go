// Package flags defines the CLI application and the flag set shared by the
// bonding ledger commands.
package flags

import (
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

// NewApp creates the bondled CLI application shell. Commands and the
// version string are attached by the launcher.
func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "bondled"
	app.Usage = "Bonding ledger with pro-rata slashing"
	app.Version = "0.1.0"
	app.Writer = os.Stdout
	return app
}

// CommonFlags returns the base set of CLI flags shared across commands.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "datadir",
			Usage: "Data directory for the ledger store",
			Value: "~/.bondled",
		},
		cli.StringFlag{
			Name:  "network",
			Usage: "Rules preset to use (main|test|fake)",
			Value: "fake",
		},
		cli.StringFlag{
			Name:  "log.format",
			Usage: "Log output format (text|json)",
			Value: "text",
		},
		cli.IntFlag{
			Name:  "log.verbosity",
			Usage: "Logging verbosity (0=fatal,1=error,2=warn,3=info,4=debug,5=trace)",
			Value: 3,
		},
		cli.StringFlag{
			Name:  "sentry.dsn",
			Usage: "Sentry DSN for error reporting (disabled when empty)",
		},
		cli.BoolFlag{
			Name:  "metrics",
			Usage: "Enable collection of Prometheus-compatible metrics",
		},
		cli.StringFlag{
			Name:  "metrics.addr",
			Usage: "Metrics server listening interface",
			Value: "127.0.0.1",
		},
		cli.IntFlag{
			Name:  "metrics.port",
			Usage: "Metrics server listening port",
			Value: 6060,
		},
	}
}

// IdentityFlags returns the flags selecting the deployment identity.
func IdentityFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "instance",
			Usage: "Ledger instance address (hex)",
		},
		cli.StringFlag{
			Name:  "token",
			Usage: "Custodied token address (hex)",
		},
		cli.StringFlag{
			Name:  "authority",
			Usage: "Slashing authority address (hex)",
		},
	}
}
