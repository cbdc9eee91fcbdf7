// Copyright (c) 2025 BVK Chaitanya

// Package auth implements the signup, login and session management
// subcommands.
package auth

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Signup struct {
	cmdutil.DBFlags

	password string
}

func (c *Signup) Run(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("needs two (username, email) arguments")
	}
	username, email := args[0], args[1]

	password := c.password
	if len(password) == 0 {
		p1, err := cmdutil.ReadPassword("Password: ")
		if err != nil {
			return err
		}
		p2, err := cmdutil.ReadPassword("Repeat password: ")
		if err != nil {
			return err
		}
		if p1 != p2 {
			return fmt.Errorf("passwords do not match")
		}
		password = p1
	}

	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Store.Signup(ctx, username, email, password); err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not sign up"))
	}
	fmt.Printf("Account created. A verification code was sent to %s.\n", email)
	fmt.Printf("Run `gridctl auth verify %s <code>` to verify your email.\n", email)
	return nil
}

func (c *Signup) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("signup", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	fset.StringVar(&c.password, "password", "", "account password (prompted when empty)")
	return fset, cli.CmdFunc(c.Run)
}

func (c *Signup) Synopsis() string {
	return "Creates a new account"
}
