// Copyright (c) 2025 BVK Chaitanya

// Package bot implements the bot lifecycle subcommands.
package bot

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

type List struct {
	cmdutil.DBFlags
}

func (c *List) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("command takes no arguments")
	}

	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.RequireAuthenticated(); err != nil {
		return err
	}

	bots, err := app.Bots.List(ctx)
	if err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not list bots"))
	}
	if len(bots) == 0 {
		fmt.Println("No bots.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tEXCHANGE\tPAIR\tSTATUS\tPNL")
	for _, b := range bots {
		status := "stopped"
		if b.Active {
			status = "running"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.Name, b.Type, b.Exchange, b.Symbol, status, market.FormatPrice(b.ProfitLoss))
	}
	return tw.Flush()
}

func (c *List) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("list", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.Run)
}

func (c *List) Synopsis() string {
	return "Prints all bots with their status and profit/loss"
}
