// Copyright (c) 2025 BVK Chaitanya

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

type Ticker struct {
	cmdutil.MarketFlags
}

func (c *Ticker) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (pair) argument")
	}
	symbol := args[0]

	opts, err := c.MarketFlags.MarketOptions()
	if err != nil {
		return err
	}
	client := market.New(opts)
	t, err := client.Ticker24h(ctx, symbol)
	if err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not fetch the ticker"))
	}

	fmt.Printf("Pair: %s\n", t.Symbol)
	fmt.Printf("Last Price: %s\n", market.FormatPrice(t.LastPrice))
	fmt.Printf("24h Change: %s%%\n", t.PriceChangePct)
	fmt.Printf("24h High: %s\n", market.FormatPrice(t.HighPrice))
	fmt.Printf("24h Low: %s\n", market.FormatPrice(t.LowPrice))
	fmt.Printf("24h Volume: %s\n", t.Volume)
	fmt.Printf("24h Quote Volume: %s\n", t.QuoteVolume)
	return nil
}

func (c *Ticker) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("ticker", flag.ContinueOnError)
	c.MarketFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.Run)
}

func (c *Ticker) Synopsis() string {
	return "Prints 24 hour ticker statistics for a pair"
}
