// Copyright (c) 2025 BVK Chaitanya

package auth

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/session"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Login struct {
	cmdutil.DBFlags

	password string
}

func (c *Login) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (email) argument")
	}
	email := args[0]

	password := c.password
	if len(password) == 0 {
		p, err := cmdutil.ReadPassword("Password: ")
		if err != nil {
			return err
		}
		password = p
	}

	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	state, err := app.Store.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not log in"))
	}
	if state == session.PendingVerification {
		fmt.Printf("Logged in, but your email is not verified yet.\n")
		fmt.Printf("Run `gridctl auth verify %s <code>` to verify it.\n", email)
		return nil
	}
	if user := app.Store.User(); user != nil {
		fmt.Printf("Logged in as %s (%s tier).\n", user.Email, user.Tier)
	}
	return nil
}

func (c *Login) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("login", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	fset.StringVar(&c.password, "password", "", "account password (prompted when empty)")
	return fset, cli.CmdFunc(c.Run)
}

func (c *Login) Synopsis() string {
	return "Logs into an existing account"
}
