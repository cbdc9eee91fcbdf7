// Copyright (c) 2025 BVK Chaitanya

package bot

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Stop struct {
	cmdutil.DBFlags
}

func (c *Stop) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (bot-id) argument")
	}

	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.RequireAuthenticated(); err != nil {
		return err
	}

	if err := app.Bots.Stop(ctx, args[0]); err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not stop the bot"))
	}
	fmt.Printf("Bot %s was stopped.\n", args[0])
	return nil
}

func (c *Stop) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("stop", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.Run)
}

func (c *Stop) Synopsis() string {
	return "Stops a running bot"
}
