// Copyright (c) 2025 BVK Chaitanya

package exchange

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/gridctl/api"
	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Connect struct {
	cmdutil.DBFlags

	apiKey    string
	apiSecret string
}

func (c *Connect) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (exchange) argument")
	}
	name := args[0]

	if len(c.apiKey) == 0 || len(c.apiSecret) == 0 {
		return fmt.Errorf("both -key and -secret are required")
	}

	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.RequireAuthenticated(); err != nil {
		return err
	}

	resp, err := app.Store.Client().ConnectExchange(ctx, &api.ConnectExchangeRequest{
		Exchange:  name,
		APIKey:    c.apiKey,
		APISecret: c.apiSecret,
	})
	if err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not connect the exchange"))
	}

	if err := app.Registry.SetExchangeOverride(ctx, name, true); err != nil {
		return err
	}
	if len(resp.Detail) != 0 {
		fmt.Println(resp.Detail)
	} else {
		fmt.Printf("Exchange %s is connected.\n", name)
	}
	return nil
}

func (c *Connect) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("connect", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	fset.StringVar(&c.apiKey, "key", "", "exchange api key")
	fset.StringVar(&c.apiSecret, "secret", "", "exchange api secret")
	return fset, cli.CmdFunc(c.Run)
}

func (c *Connect) Synopsis() string {
	return "Connects an exchange with api credentials"
}
