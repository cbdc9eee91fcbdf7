// Copyright (c) 2025 BVK Chaitanya

package bot

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Delete struct {
	cmdutil.DBFlags

	force bool
}

func (c *Delete) Run(ctx context.Context, args []string) error {
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

	if !c.force {
		fmt.Printf("Delete bot %s? The bot is stopped first if it is running. [y/N] ", args[0])
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("could not read confirmation: %w", err)
		}
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			fmt.Println("Canceled.")
			return nil
		}
	}

	if err := app.Bots.Delete(ctx, args[0]); err != nil {
		return fmt.Errorf("%s", apierr.Message(err, "could not delete the bot"))
	}
	fmt.Printf("Bot %s was deleted.\n", args[0])
	return nil
}

func (c *Delete) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("delete", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	fset.BoolVar(&c.force, "force", false, "skip the confirmation prompt")
	return fset, cli.CmdFunc(c.Run)
}

func (c *Delete) Synopsis() string {
	return "Stops and deletes a bot"
}
