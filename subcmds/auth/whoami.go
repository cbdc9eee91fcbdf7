// Copyright (c) 2025 BVK Chaitanya

package auth

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/session"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type WhoAmI struct {
	cmdutil.DBFlags
}

func (c *WhoAmI) Run(ctx context.Context, args []string) error {
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
		fmt.Printf("Logged in as %s (username %s, %s tier).\n", user.Email, user.Username, user.Tier)
	case session.PendingVerification:
		if user != nil {
			fmt.Printf("Signed up as %s, email not verified yet.\n", user.Email)
		} else {
			fmt.Println("Signed up, email not verified yet.")
		}
	default:
		fmt.Println("Not logged in.")
	}
	return nil
}

func (c *WhoAmI) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("whoami", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.Run)
}

func (c *WhoAmI) Synopsis() string {
	return "Prints the current session state"
}
