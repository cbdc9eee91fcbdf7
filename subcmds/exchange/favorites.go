// Copyright (c) 2025 BVK Chaitanya

package exchange

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Favorites struct {
	cmdutil.DBFlags
}

func (c *Favorites) Run(ctx context.Context, args []string) error {
	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if len(args) == 0 {
		favorites, err := app.Registry.Favorites(ctx)
		if err != nil {
			return err
		}
		if len(favorites) == 0 {
			fmt.Println("No favorite pairs.")
			return nil
		}
		for _, symbol := range favorites {
			fmt.Println(symbol)
		}
		return nil
	}

	if len(args) != 2 {
		return fmt.Errorf("needs no arguments or two (add|remove, pair) arguments")
	}
	switch op, symbol := args[0], args[1]; op {
	case "add":
		if err := app.Registry.AddFavorite(ctx, symbol); err != nil {
			return err
		}
		fmt.Printf("Added %s to favorite pairs.\n", symbol)
	case "remove":
		if err := app.Registry.RemoveFavorite(ctx, symbol); err != nil {
			return err
		}
		fmt.Printf("Removed %s from favorite pairs.\n", symbol)
	default:
		return fmt.Errorf("unknown operation %q; want add or remove", op)
	}
	return nil
}

func (c *Favorites) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("favorites", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.Run)
}

func (c *Favorites) Synopsis() string {
	return "Lists or edits the favorite trading pairs"
}
