// Copyright (c) 2025 BVK Chaitanya

package market

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/ctxutil"
	"github.com/bvk/gridctl/market"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Watch struct {
	cmdutil.MarketFlags

	poll         bool
	pollInterval time.Duration
}

func (c *Watch) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("needs one or more (pair) arguments")
	}

	opts, err := c.MarketFlags.MarketOptions()
	if err != nil {
		return err
	}

	if c.poll {
		return c.runPoll(ctx, args, opts)
	}

	stream, err := market.NewStream(args, opts)
	if err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not open the price stream"))
	}
	defer stream.Close()

	ch, unsubscribe, err := stream.Subscribe()
	if err != nil {
		return err
	}
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case t, ok := <-ch:
			if !ok {
				return nil
			}
			fmt.Printf("%s %s %s\n", t.At.Format("15:04:05"), t.Symbol, market.FormatPrice(t.Price))
		}
	}
}

// runPoll is the fallback for environments where the websocket feed is
// unreachable.
func (c *Watch) runPoll(ctx context.Context, symbols []string, opts *market.Options) error {
	client := market.New(opts)
	for ctx.Err() == nil {
		for _, symbol := range symbols {
			if price, ok := client.BestEffortPrice(ctx, symbol); ok {
				fmt.Printf("%s %s %s\n", time.Now().Format("15:04:05"), symbol, market.FormatPrice(price))
			}
		}
		ctxutil.Sleep(ctx, c.pollInterval)
	}
	return nil
}

func (c *Watch) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("watch", flag.ContinueOnError)
	c.MarketFlags.SetFlags(fset)
	fset.BoolVar(&c.poll, "poll", false, "poll the REST api instead of the websocket feed")
	fset.DurationVar(&c.pollInterval, "poll-interval", 10*time.Second, "polling interval with -poll")
	return fset, cli.CmdFunc(c.Run)
}

func (c *Watch) Synopsis() string {
	return "Streams live prices for trading pairs"
}
