// Copyright (c) 2025 BVK Chaitanya

package auth

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Logout struct {
	cmdutil.DBFlags
}

func (c *Logout) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("command takes no arguments")
	}

	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	app.Store.Logout(ctx)
	fmt.Println("Logged out.")
	return nil
}

func (c *Logout) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("logout", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.Run)
}

func (c *Logout) Synopsis() string {
	return "Clears the local session and credentials"
}
