// Copyright (c) 2025 BVK Chaitanya

package market

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/market"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Candles struct {
	cmdutil.MarketFlags

	interval string
	limit    int
}

func (c *Candles) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (pair) argument")
	}
	symbol := args[0]

	opts, err := c.MarketFlags.MarketOptions()
	if err != nil {
		return err
	}
	client := market.New(opts)
	candles, err := client.Candles(ctx, symbol, c.interval, c.limit)
	if err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not fetch the candles"))
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "OPEN TIME\tOPEN\tHIGH\tLOW\tCLOSE\tVOLUME")
	for _, k := range candles {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			k.OpenTime.Format("2006-01-02 15:04"),
			market.FormatPrice(k.Open), market.FormatPrice(k.High),
			market.FormatPrice(k.Low), market.FormatPrice(k.Close), k.Volume)
	}
	return tw.Flush()
}

func (c *Candles) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("candles", flag.ContinueOnError)
	c.MarketFlags.SetFlags(fset)
	fset.StringVar(&c.interval, "interval", "1h", "candle interval, e.g. 1m, 1h, 1d")
	fset.IntVar(&c.limit, "limit", 24, "number of candles to fetch")
	return fset, cli.CmdFunc(c.Run)
}

func (c *Candles) Synopsis() string {
	return "Prints recent candles for a pair"
}
