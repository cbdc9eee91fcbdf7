// Copyright (c) 2025 BVK Chaitanya

package bot

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/grid"
	"github.com/bvk/gridctl/market"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Get struct {
	cmdutil.DBFlags
}

func (c *Get) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (bot-id) argument")
	}

	app, err := c.DBFlags.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.RequireAuthenticated(); err != nil {
		return err
	}

	b, err := app.Bots.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not fetch the bot"))
	}

	status := "stopped"
	if b.Active {
		status = "running"
	}
	fmt.Printf("ID: %s\n", b.ID)
	if len(b.TaskID) != 0 && b.TaskID != b.ID {
		fmt.Printf("Task ID: %s\n", b.TaskID)
	}
	fmt.Printf("Name: %s\n", b.Name)
	fmt.Printf("Type: %s\n", b.Type)
	fmt.Printf("Exchange: %s\n", b.Exchange)
	fmt.Printf("Pair: %s\n", b.Symbol)
	fmt.Printf("Status: %s\n", status)
	fmt.Printf("Profit/Loss: %s\n", market.FormatPrice(b.ProfitLoss))
	if b.GridSize != 0 {
		fmt.Printf("Grid Size: %d\n", b.GridSize)
	}
	if b.LowerPrice.Sign() > 0 && b.UpperPrice.Sign() > 0 {
		fmt.Printf("Price Range: %s - %s\n", market.FormatPrice(b.LowerPrice), market.FormatPrice(b.UpperPrice))
	}
	if b.Investment.Sign() > 0 {
		fmt.Printf("Investment: %s\n", b.Investment)
	}
	if b.Leverage != 0 {
		fmt.Printf("Leverage: %dx\n", b.Leverage)
	}
	if !b.CreatedAt.IsZero() {
		fmt.Printf("Created: %s\n", b.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}

	// Live price, when the pair resolves on the public feed.
	if price, ok := app.Market.BestEffortPrice(ctx, b.Symbol); ok {
		fmt.Printf("Market Price: %s\n", market.FormatPrice(price))
	}

	// The level ladder, when enough parameters survived (the registry
	// record fills in what the backend does not echo back).
	plan := &grid.Plan{
		Symbol:     b.Symbol,
		UpperPrice: b.UpperPrice,
		LowerPrice: b.LowerPrice,
		GridSize:   b.GridSize,
		Investment: b.Investment,
		Leverage:   b.Leverage,
	}
	if levels, err := plan.Levels(); err == nil {
		if b.Investment.Sign() > 0 {
			fmt.Printf("Per-Level Budget: %s\n", market.FormatPrice(plan.LevelBudget()))
		}
		fmt.Printf("Grid Levels:")
		for _, level := range levels {
			fmt.Printf(" %s", market.FormatPrice(level))
		}
		fmt.Println()
	}
	return nil
}

func (c *Get) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("get", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.Run)
}

func (c *Get) Synopsis() string {
	return "Prints details of a single bot"
}
