// Copyright (c) 2025 BVK Chaitanya

package auth

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/session"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Verify struct {
	cmdutil.DBFlags
}

func (c *Verify) Run(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("needs two (email, code) arguments")
	}
	email, code := args[0], args[1]

	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	_, err = app.Store.VerifyEmail(ctx, email, code)
	if err != nil {
		if errors.Is(err, session.ErrLoginRequired) {
			fmt.Println(err.Error())
			return nil
		}
		return fmt.Errorf("%s", apierr.Message(err, "could not verify the email"))
	}
	fmt.Printf("Email %s is verified. You are logged in.\n", email)
	return nil
}

func (c *Verify) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("verify", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.Run)
}

func (c *Verify) Synopsis() string {
	return "Verifies the account email with an OTP code"
}
