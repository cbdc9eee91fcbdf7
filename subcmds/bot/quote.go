// Copyright (c) 2025 BVK Chaitanya

package bot

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/bots"
	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Quote struct {
	cmdutil.DBFlags

	exchange string
	pair     string
	gridSize string
	leverage int
}

func (c *Quote) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("command takes no arguments")
	}

	size, err := bots.ParseGridSize(c.gridSize)
	if err != nil {
		return err
	}

	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.RequireAuthenticated(); err != nil {
		return err
	}

	quote, ok, err := app.Bots.MinInvestment(ctx, &bots.CreateRequest{
		Exchange: c.exchange,
		Symbol:   c.pair,
		GridSize: size,
		Leverage: c.leverage,
	})
	if err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not fetch the minimum investment"))
	}
	if !ok {
		fmt.Printf("No minimum investment quote for %s on %s.\n", c.pair, c.exchange)
		return nil
	}
	fmt.Printf("Minimum investment for %s on %s with %d grids: %s\n", c.pair, c.exchange, size, quote)
	return nil
}

func (c *Quote) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("quote", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	fset.StringVar(&c.exchange, "exchange", "", "exchange to trade on")
	fset.StringVar(&c.pair, "pair", "", "trading pair symbol, e.g. BTCUSDT")
	fset.StringVar(&c.gridSize, "grid-size", "", "number of grid levels (1-50)")
	fset.IntVar(&c.leverage, "leverage", 0, "leverage multiplier (futures only)")
	return fset, cli.CmdFunc(c.Run)
}

func (c *Quote) Synopsis() string {
	return "Prints the minimum investment for bot parameters"
}
