// Copyright (c) 2025 BVK Chaitanya

package setup

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/session"
	"github.com/bvk/gridctl/subcmds/cmdutil"
	"github.com/bvkgo/kv/kvmemdb"
)

type Backend struct {
	cmdutil.DBFlags

	skipTesting bool

	backendURL string
}

func (c *Backend) Synopsis() string {
	return "Configures the backend api endpoint"
}

func (c *Backend) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("backend", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	fset.StringVar(&c.backendURL, "url", "", "Base URL for the backend api endpoint")
	fset.BoolVar(&c.skipTesting, "skip-testing", false, "don't test the parameters")
	return fset, cli.CmdFunc(c.run)
}

func (c *Backend) run(ctx context.Context, args []string) error {
	if len(c.backendURL) == 0 {
		return fmt.Errorf("-url flag is required")
	}

	dataDir, err := c.DBFlags.DataDir()
	if err != nil {
		return err
	}

	secrets, err := c.DBFlags.GetSecrets()
	if err != nil {
		return err
	}
	secrets.APIURL = c.backendURL

	if !c.skipTesting {
		opts, err := c.ClientFlags.BackendOptions(secrets)
		if err != nil {
			return err
		}
		// An unauthenticated request that still exercises the endpoint.
		store := session.New(kvmemdb.New(), opts)
		if _, err := store.Client().ListExchanges(ctx); err != nil {
			return fmt.Errorf("could not reach the backend at %q: %w", c.backendURL, err)
		}
	}

	return secrets.WriteFile(filepath.Join(dataDir, "secrets.json"))
}
