// Copyright (c) 2025 BVK Chaitanya

package subscription

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/gridctl/api"
	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Select struct {
	cmdutil.DBFlags
}

func (c *Select) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (plan) argument")
	}
	plan := args[0]

	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.RequireAuthenticated(); err != nil {
		return err
	}

	resp, err := app.Store.Client().SelectPlan(ctx, &api.SelectPlanRequest{Plan: plan})
	if err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not select the plan"))
	}
	if len(resp.Detail) != 0 {
		fmt.Println(resp.Detail)
	} else {
		fmt.Printf("Subscription plan is now %s.\n", plan)
	}

	// Refresh the cached profile so the new tier is visible right away.
	if _, err := app.Store.Init(ctx); err != nil {
		return err
	}
	return nil
}

func (c *Select) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("select", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.Run)
}

func (c *Select) Synopsis() string {
	return "Switches the account to a subscription plan"
}
