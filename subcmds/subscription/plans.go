// Copyright (c) 2025 BVK Chaitanya

// Package subscription implements the subscription plan subcommands.
package subscription

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Plans struct {
	cmdutil.DBFlags
}

func (c *Plans) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("command takes no arguments")
	}

	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	resp, err := app.Store.Client().ListPlans(ctx)
	if err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not list subscription plans"))
	}

	current := ""
	if user := app.Store.User(); user != nil {
		current = user.Tier
	}
	for _, p := range resp.Plans {
		tier := p.TierName()
		marker := " "
		if tier == current {
			marker = "*"
		}
		price := "free"
		if v, ok := p.MonthlyPrice.Decimal, p.MonthlyPrice.Valid; ok {
			price = v.String() + "/month"
		} else if v, ok := p.Price.Decimal, p.Price.Valid; ok {
			price = v.String() + "/month"
		}
		fmt.Printf("%s %s (%s)", marker, tier, price)
		if p.MaxBots != 0 {
			fmt.Printf(", up to %d bots", p.MaxBots)
		}
		if len(p.Features) != 0 {
			fmt.Printf(": %s", strings.Join(p.Features, ", "))
		}
		fmt.Println()
	}
	return nil
}

func (c *Plans) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("plans", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.Run)
}

func (c *Plans) Synopsis() string {
	return "Prints the available subscription plans"
}
