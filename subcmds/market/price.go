// Copyright (c) 2025 BVK Chaitanya

// Package market implements the public market data subcommands. These
// work without a logged-in session.
package market

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/market"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Price struct {
	cmdutil.MarketFlags
}

func (c *Price) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("needs one or more (pair) arguments")
	}

	opts, err := c.MarketFlags.MarketOptions()
	if err != nil {
		return err
	}
	client := market.New(opts)
	for _, symbol := range args {
		price, err := client.Price(ctx, symbol)
		if err != nil {
			return fmt.Errorf("%s", apierr.Message(err, "could not fetch the price"))
		}
		fmt.Printf("%s %s\n", symbol, market.FormatPrice(price))
	}
	return nil
}

func (c *Price) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("price", flag.ContinueOnError)
	c.MarketFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.Run)
}

func (c *Price) Synopsis() string {
	return "Prints the latest price for trading pairs"
}
