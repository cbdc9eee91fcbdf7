// Copyright (c) 2025 BVK Chaitanya

package bot

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/bots"
	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/grid"
	"github.com/bvk/gridctl/market"
	"github.com/bvk/gridctl/subcmds/cmdutil"
	"github.com/shopspring/decimal"
)

type Create struct {
	cmdutil.DBFlags

	name     string
	botType  string
	exchange string
	pair     string

	apiKey    string
	apiSecret string

	gridSize string

	manual     bool
	lowerPrice string
	upperPrice string

	investment string
	leverage   int
	runHours   int

	dryRun bool
}

func (c *Create) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("command takes no arguments")
	}

	req := &bots.CreateRequest{
		Name:      c.name,
		Type:      c.botType,
		Exchange:  c.exchange,
		Symbol:    c.pair,
		APIKey:    c.apiKey,
		APISecret: c.apiSecret,
		Manual:    c.manual,
		Leverage:  c.leverage,
		RunHours:  c.runHours,
	}

	size, err := bots.ParseGridSize(c.gridSize)
	if err != nil {
		return err
	}
	req.GridSize = size

	if req.Investment, err = decimal.NewFromString(c.investment); err != nil {
		return fmt.Errorf("invalid investment %q: %w", c.investment, err)
	}
	if c.manual {
		if req.LowerPrice, err = decimal.NewFromString(c.lowerPrice); err != nil {
			return fmt.Errorf("invalid lower price %q: %w", c.lowerPrice, err)
		}
		if req.UpperPrice, err = decimal.NewFromString(c.upperPrice); err != nil {
			return fmt.Errorf("invalid upper price %q: %w", c.upperPrice, err)
		}
	}

	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	// The dry run only needs public market data, not a session.
	if c.dryRun {
		return c.printPlan(ctx, app, req)
	}

	if err := app.RequireAuthenticated(); err != nil {
		return err
	}

	b, err := app.Bots.Create(ctx, req)
	if err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not create the bot"))
	}
	fmt.Printf("Created %s bot %s (%s) on %s.\n", b.Type, b.Name, b.ID, b.Exchange)
	return nil
}

// printPlan renders the level ladder without submitting anything. Each
// level gets a deterministic reference id so that repeated previews of
// the same bot line up.
func (c *Create) printPlan(ctx context.Context, app *cmdutil.App, req *bots.CreateRequest) error {
	upper, lower := req.UpperPrice, req.LowerPrice
	if !req.Manual {
		t, err := app.Market.Ticker24h(ctx, req.Symbol)
		if err != nil {
			return fmt.Errorf("%s", apierr.Message(err, "could not fetch the 24h range for "+req.Symbol))
		}
		if upper, lower, err = grid.AutoBounds(t.HighPrice, t.LowPrice); err != nil {
			return err
		}
	}

	plan, err := req.Plan(upper, lower)
	if err != nil {
		return err
	}
	levels, err := plan.Levels()
	if err != nil {
		return err
	}
	ids := plan.OrderIDs(req.Name + "/" + req.Symbol)

	fmt.Printf("Grid plan for %s: %d levels from %s to %s\n",
		plan.Symbol, plan.GridSize, market.FormatPrice(plan.LowerPrice), market.FormatPrice(plan.UpperPrice))
	fmt.Printf("Per-Level Budget: %s\n", market.FormatPrice(plan.LevelBudget()))
	for i, level := range levels {
		fmt.Printf("  %2d  %-14s %s\n", i+1, market.FormatPrice(level), ids[i])
	}
	return nil
}

func (c *Create) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("create", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	fset.StringVar(&c.name, "name", "", "display name for the bot")
	fset.StringVar(&c.botType, "type", "spot", "bot type: spot or futures")
	fset.StringVar(&c.exchange, "exchange", "", "exchange to trade on")
	fset.StringVar(&c.pair, "pair", "", "trading pair symbol, e.g. BTCUSDT")
	fset.StringVar(&c.apiKey, "key", "", "exchange api key")
	fset.StringVar(&c.apiSecret, "secret", "", "exchange api secret")
	fset.StringVar(&c.gridSize, "grid-size", "", "number of grid levels (1-50)")
	fset.BoolVar(&c.manual, "manual", false, "choose price bounds manually")
	fset.StringVar(&c.lowerPrice, "lower-price", "", "lower price bound (manual mode)")
	fset.StringVar(&c.upperPrice, "upper-price", "", "upper price bound (manual mode)")
	fset.StringVar(&c.investment, "investment", "", "investment amount in quote currency")
	fset.IntVar(&c.leverage, "leverage", 0, "leverage multiplier (futures only)")
	fset.IntVar(&c.runHours, "run-hours", 0, "auto-stop after this many hours (0 disables)")
	fset.BoolVar(&c.dryRun, "dry-run", false, "print the grid level plan without creating the bot")
	return fset, cli.CmdFunc(c.Run)
}

func (c *Create) Synopsis() string {
	return "Creates a new grid trading bot"
}

func (c *Create) CommandHelp() string {
	return `
Command "create" submits a new grid trading bot to the platform. In the
default auto mode the service picks the grid price bounds from recent
market data; with -manual the -lower-price and -upper-price bounds are
used instead.

With -dry-run the command prints the resulting grid level ladder, the
per-level budget share and a stable reference id per level, and submits
nothing. Auto mode previews use bounds derived from the 24h range.

The exchange api key and secret are forwarded to the platform and are
never stored locally.

  $ gridctl bot create -type futures -exchange binance -pair BTCUSDT \
      -key XXXX -secret YYYY -grid-size 10 -investment 500 -leverage 5
`
}
