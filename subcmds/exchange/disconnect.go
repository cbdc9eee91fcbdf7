// Copyright (c) 2025 BVK Chaitanya

package exchange

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Disconnect struct {
	cmdutil.DBFlags
}

func (c *Disconnect) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (exchange) argument")
	}
	name := args[0]

	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	// The platform has no disconnect endpoint; the disconnect is
	// recorded as a local override so the exchange stops showing up as
	// connected. Keys already stored on the platform stay there.
	if err := app.Registry.SetExchangeOverride(ctx, name, false); err != nil {
		return err
	}
	fmt.Printf("Exchange %s is marked disconnected locally.\n", name)
	return nil
}

func (c *Disconnect) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("disconnect", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.Run)
}

func (c *Disconnect) Synopsis() string {
	return "Marks an exchange disconnected locally"
}
