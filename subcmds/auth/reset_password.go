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

type ResetPassword struct {
	cmdutil.DBFlags

	code        string
	newPassword string
}

func (c *ResetPassword) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (email) argument")
	}
	email := args[0]

	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	// Without a code this requests the reset email; with one it
	// confirms the reset.
	if len(c.code) == 0 {
		if err := app.Store.RequestPasswordReset(ctx, email); err != nil {
			return fmt.Errorf("%s", apierr.Message(err, "could not request a password reset"))
		}
		fmt.Printf("A password reset code was sent to %s.\n", email)
		fmt.Printf("Run `gridctl auth reset-password -code <code> %s` to set a new password.\n", email)
		return nil
	}

	newPassword := c.newPassword
	if len(newPassword) == 0 {
		p1, err := cmdutil.ReadPassword("New password: ")
		if err != nil {
			return err
		}
		p2, err := cmdutil.ReadPassword("Repeat new password: ")
		if err != nil {
			return err
		}
		if p1 != p2 {
			return fmt.Errorf("passwords do not match")
		}
		newPassword = p1
	}

	if err := app.Store.ConfirmPasswordReset(ctx, email, c.code, newPassword); err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not reset the password"))
	}
	fmt.Printf("Password was reset. Run `gridctl auth login %s` to log in.\n", email)
	return nil
}

func (c *ResetPassword) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	fset.StringVar(&c.code, "code", "", "reset code from the password reset email")
	fset.StringVar(&c.newPassword, "new-password", "", "new account password (prompted when empty)")
	return fset, cli.CmdFunc(c.Run)
}

func (c *ResetPassword) Synopsis() string {
	return "Requests or confirms a password reset"
}
