// Copyright (c) 2025 BVK Chaitanya

package exchange

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Connected struct {
	cmdutil.DBFlags
}

func (c *Connected) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("command takes no arguments")
	}

	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.RequireAuthenticated(); err != nil {
		return err
	}

	resp, err := app.Store.Client().ConnectedExchanges(ctx)
	if err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not list connected exchanges"))
	}

	// Local overrides win over the backend report. The backend has no
	// disconnect endpoint, so disconnects exist only as overrides.
	connected := make(map[string]bool)
	for _, e := range resp.Exchanges {
		if e.Connected {
			connected[e.Name] = true
		}
	}
	overrides, err := app.Registry.ExchangeOverrides(ctx)
	if err != nil {
		return err
	}
	for name, state := range overrides {
		if state {
			connected[name] = true
		} else {
			delete(connected, name)
		}
	}

	if len(connected) == 0 {
		fmt.Println("No connected exchanges.")
		return nil
	}
	var names []string
	for name := range connected {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func (c *Connected) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("connected", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.Run)
}

func (c *Connected) Synopsis() string {
	return "Prints exchanges with connected api keys"
}
