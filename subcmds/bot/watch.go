// Copyright (c) 2025 BVK Chaitanya

package bot

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/ctxutil"
	"github.com/bvk/gridctl/market"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Watch struct {
	cmdutil.DBFlags

	interval time.Duration
}

func (c *Watch) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("command takes no arguments")
	}
	if c.interval < time.Second {
		return fmt.Errorf("refresh interval cannot be under a second")
	}

	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.RequireAuthenticated(); err != nil {
		return err
	}

	for ctx.Err() == nil {
		bots, err := app.Bots.List(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", apierr.Message(err, "could not refresh bots"))
		} else {
			fmt.Printf("--- %s ---\n", time.Now().Format("15:04:05"))
			tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPAIR\tSTATUS\tPNL")
			for _, b := range bots {
				status := "stopped"
				if b.Active {
					status = "running"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					b.ID, b.Name, b.Symbol, status, market.FormatPrice(b.ProfitLoss))
			}
			tw.Flush()
		}
		ctxutil.Sleep(ctx, c.interval)
	}
	return nil
}

func (c *Watch) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("watch", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	fset.DurationVar(&c.interval, "interval", 30*time.Second, "refresh interval")
	return fset, cli.CmdFunc(c.Run)
}

func (c *Watch) Synopsis() string {
	return "Periodically refreshes the bot list until interrupted"
}
