// Copyright (c) 2025 BVK Chaitanya

// Package setup implements subcommands that write the secrets file in
// the data directory.
package setup

import (
	"context"
	"flag"
	"path/filepath"
	"time"

	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/notify"
	"github.com/bvk/gridctl/subcmds/cmdutil"
)

type Telegram struct {
	cmdutil.DBFlags

	skipTesting bool

	botToken string
	chatID   string
}

func (c *Telegram) Synopsis() string {
	return "Configures Telegram notification parameters"
}

func (c *Telegram) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("telegram", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	fset.StringVar(&c.botToken, "bot-token", "", "Telegram bot's authentication token")
	fset.StringVar(&c.chatID, "chat-id", "", "Telegram chat id to receive notifications")
	fset.BoolVar(&c.skipTesting, "skip-testing", false, "don't test the parameters")
	return fset, cli.CmdFunc(c.run)
}

func (c *Telegram) CommandHelp() string {
	return `

Command "telegram" configures notifications for bot lifecycle events
(created, stopped, deleted) through a Telegram bot.

Telegram configuration is optional. It can be configured as follows:

  $ gridctl setup telegram --bot-token=USCJS2...TVP4KV --chat-id=123456

`
}

func (c *Telegram) run(ctx context.Context, args []string) error {
	dataDir, err := c.DBFlags.DataDir()
	if err != nil {
		return err
	}

	secrets, err := c.DBFlags.GetSecrets()
	if err != nil {
		return err
	}
	secrets.Telegram = &notify.Secrets{
		BotToken: c.botToken,
		ChatID:   c.chatID,
	}
	if err := secrets.Telegram.Check(); err != nil {
		return err
	}

	if !c.skipTesting {
		client, err := notify.New(secrets.Telegram)
		if err != nil {
			return err
		}
		msg := "Test message from gridctl setup; please ignore."
		if err := client.SendMessage(ctx, time.Now(), msg); err != nil {
			return err
		}
	}

	return secrets.WriteFile(filepath.Join(dataDir, "secrets.json"))
}
