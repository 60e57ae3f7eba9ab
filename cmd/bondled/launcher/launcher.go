// Package launcher wires configuration, logging and the ledger together
// behind the bondled command line interface.
package launcher

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-bonding-ledger/bonding"
	"github.com/rony4d/go-bonding-ledger/flags"
	"github.com/rony4d/go-bonding-ledger/inter"
	"github.com/rony4d/go-bonding-ledger/metrics"
	"github.com/rony4d/go-bonding-ledger/token"
)

var app = flags.NewApp()

func init() {
	app.Flags = flags.CommonFlags()
	app.Commands = []cli.Command{
		{
			Name:   "rules",
			Usage:  "Print the rules preset of the selected network",
			Action: rulesCommand,
		},
		{
			Name:   "intent-id",
			Usage:  "Derive the bond identifier for an intent tuple",
			Flags:  append(flags.IdentityFlags(), intentFlags()...),
			Action: intentIDCommand,
		},
		{
			Name:   "demo",
			Usage:  "Run a bond lifecycle against an in-memory ledger",
			Flags:  flags.IdentityFlags(),
			Action: demoCommand,
		},
	}
}

// Launch runs the bondled CLI with the given arguments.
func Launch(args []string) error {
	return app.Run(args)
}

func intentFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "owner",
			Usage: "Bond owner address (hex)",
		},
		cli.StringFlag{
			Name:  "amount",
			Usage: "Bond amount in token units (decimal)",
			Value: "0",
		},
		cli.StringFlag{
			Name:  "pool",
			Usage: "Pool identifier (hex, up to 32 bytes)",
		},
		cli.Uint64Flag{
			Name:  "nonce",
			Usage: "Intent nonce",
		},
	}
}

func rulesCommand(ctx *cli.Context) error {
	rules, err := rulesForNetwork(ctx.GlobalString("network"))
	if err != nil {
		return err
	}
	fmt.Fprintln(app.Writer, rules.String())
	return nil
}

func intentIDCommand(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	amount, ok := new(big.Int).SetString(ctx.String("amount"), 10)
	if !ok {
		return fmt.Errorf("malformed amount %q", ctx.String("amount"))
	}
	intent := inter.BondIntent{
		Amount: amount,
		Pool:   inter.HexToPoolID(ctx.String("pool")),
		Nonce:  ctx.Uint64("nonce"),
	}
	owner := common.HexToAddress(ctx.String("owner"))

	id, err := intent.ID(cfg.Genesis.Instance, owner)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.Writer, id.String())
	return nil
}

// demoCommand drives one full bond lifecycle (add, slash, request, unbond)
// against an in-memory store and token, logging every transition. The
// clock is simulated so the unbonding delay passes instantly.
func demoCommand(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	log, err := makeLogger(cfg.Logging)
	if err != nil {
		return err
	}

	opts := &bonding.Options{Logger: log}
	var gatherer *prometheus.Registry
	if cfg.Metrics.Enabled {
		gatherer = prometheus.NewRegistry()
		opts.Metrics = metrics.NewCollectors(gatherer)
	}

	tok := token.NewMemoryToken(cfg.Genesis.Instance)
	owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	token.ApplyFakeGenesis(tok, big.NewInt(1000), owner)

	ledger, err := bonding.New(cfg.Genesis, cfg.Rules, bonding.NewMemStore(), tok, opts)
	if err != nil {
		return err
	}
	registry := ledger.Registry()

	now := inter.FromTime(time.Now())
	intent := inter.BondIntent{
		Amount: big.NewInt(1000),
		Pool:   inter.HexToPoolID("0x01"),
		Nonce:  0,
	}

	if _, err := ledger.AddBond(owner, intent, now); err != nil {
		return err
	}

	points := new(big.Int).Div(cfg.Rules.Slashing.MaxSlash, big.NewInt(5))
	if _, err := registry.Slash(cfg.Genesis.Authority, intent.Pool, points, now); err != nil {
		return err
	}

	if _, err := ledger.RequestUnbond(owner, intent, now); err != nil {
		return err
	}
	now += cfg.Rules.Unbonding.Delay + inter.Timestamp(time.Second)

	payout, err := ledger.Unbond(owner, intent, now)
	if err != nil {
		return err
	}

	events, err := ledger.Events()
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Writer, "lifecycle complete: payout=%s of %s, %d records emitted\n",
		payout, intent.Amount, len(events))

	if cfg.Metrics.Enabled {
		serveCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		addr := fmt.Sprintf("%s:%d", cfg.Metrics.Addr, cfg.Metrics.Port)
		log.WithField("addr", addr).Info("serving metrics snapshot")
		<-metrics.Serve(serveCtx, addr, gatherer)
	}
	return nil
}
