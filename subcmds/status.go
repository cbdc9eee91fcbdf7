// Copyright (c) 2025 BVK Chaitanya

// Package subcmds holds the top-level subcommands.
package subcmds

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/market"
	"github.com/bvk/gridctl/session"
	"github.com/bvk/gridctl/subcmds/cmdutil"
	"github.com/shopspring/decimal"
)

type Status struct {
	cmdutil.DBFlags
}

func (c *Status) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("command takes no arguments")
	}

	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	user := app.Store.User()
	switch app.Store.State() {
	case session.Authenticated:
		fmt.Printf("Account: %s (%s tier)\n", user.Email, user.Tier)
	case session.PendingVerification:
		fmt.Println("Account: email not verified yet")
		return nil
	default:
		fmt.Println("Account: not logged in")
		return nil
	}

	bots, err := app.Bots.List(ctx)
	if err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not list bots"))
	}
	active := 0
	pnl := decimal.Zero
	for _, b := range bots {
		if b.Active {
			active++
		}
		pnl = pnl.Add(b.ProfitLoss)
	}
	fmt.Printf("Bots: %d total, %d running\n", len(bots), active)
	fmt.Printf("Total Profit/Loss: %s\n", market.FormatPrice(pnl))

	resp, err := app.Store.Client().ConnectedExchanges(ctx)
	if err != nil {
		fmt.Printf("Exchanges: unavailable (%s)\n", apierr.Message(err, "request failed"))
		return nil
	}
	connected := 0
	for _, e := range resp.Exchanges {
		if e.Connected {
			connected++
		}
	}
	fmt.Printf("Connected Exchanges: %d\n", connected)
	return nil
}

func (c *Status) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("status", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.Run)
}

func (c *Status) Synopsis() string {
	return "Prints an account and bots summary"
}
