// Copyright (c) 2025 BVK Chaitanya

package auth

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Resend struct {
	cmdutil.DBFlags
}

func (c *Resend) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (email) argument")
	}
	email := args[0]

	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Store.ResendOTP(ctx, email); err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not resend the verification code"))
	}
	fmt.Printf("A new verification code was sent to %s.\n", email)
	return nil
}

func (c *Resend) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("resend", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.Run)
}

func (c *Resend) Synopsis() string {
	return "Resends the email verification code"
}
