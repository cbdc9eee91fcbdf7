// Copyright (c) 2025 BVK Chaitanya

// Package exchange implements the exchange connection subcommands.
package exchange

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/cli"
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

	resp, err := app.Store.Client().ListExchanges(ctx)
	if err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not list exchanges"))
	}
	for _, e := range resp.Exchanges {
		fmt.Println(e.Name)
	}
	return nil
}

func (c *List) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("list", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.Run)
}

func (c *List) Synopsis() string {
	return "Prints the supported exchanges"
}
