// Copyright (c) 2025 BVK Chaitanya

// Command gridctl is a command-line client for the grid trading
// platform. It manages accounts, exchange connections and grid trading
// bots, keeping its local state in a small database under the data
// directory.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bvk/gridctl/cli"
	"github.com/bvk/gridctl/subcmds"
	"github.com/bvk/gridctl/subcmds/auth"
	"github.com/bvk/gridctl/subcmds/bot"
	"github.com/bvk/gridctl/subcmds/db"
	"github.com/bvk/gridctl/subcmds/exchange"
	"github.com/bvk/gridctl/subcmds/market"
	"github.com/bvk/gridctl/subcmds/setup"
	"github.com/bvk/gridctl/subcmds/subscription"
	"github.com/visvasity/sglog"
)

func main() {
	logDir := os.Getenv("GRIDCTL_LOG_DIR")
	if len(logDir) == 0 {
		logDir = filepath.Join(os.Getenv("HOME"), ".gridctl", "logs")
	}
	if err := os.MkdirAll(logDir, 0700); err != nil {
		log.Fatal(err)
	}
	backend := sglog.NewBackend(&sglog.Options{
		LogDirs: []string{logDir},
	})
	defer backend.Close()
	slog.SetDefault(slog.New(backend.Handler()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	authCmds := []cli.Command{
		new(auth.Signup),
		new(auth.Login),
		new(auth.Verify),
		new(auth.Resend),
		new(auth.ResetPassword),
		new(auth.Logout),
		new(auth.WhoAmI),
	}

	botCmds := []cli.Command{
		new(bot.List),
		new(bot.Get),
		new(bot.Create),
		new(bot.Quote),
		new(bot.Stop),
		new(bot.Delete),
		new(bot.Watch),
	}

	exchangeCmds := []cli.Command{
		new(exchange.List),
		new(exchange.Connected),
		new(exchange.Connect),
		new(exchange.Disconnect),
		new(exchange.Favorites),
	}

	subscriptionCmds := []cli.Command{
		new(subscription.Plans),
		new(subscription.Select),
	}

	marketCmds := []cli.Command{
		new(market.Price),
		new(market.Ticker),
		new(market.Candles),
		new(market.Watch),
	}

	dbCmds := []cli.Command{
		new(db.Get),
		new(db.Set),
		new(db.Delete),
		new(db.List),
		new(db.Backup),
		new(db.Restore),
	}

	setupCmds := []cli.Command{
		new(setup.Telegram),
		new(setup.Backend),
	}

	cmds := []cli.Command{
		new(subcmds.Status),
		cli.CommandGroup("auth", "Manage accounts and sessions", authCmds...),
		cli.CommandGroup("bot", "Manage grid trading bots", botCmds...),
		cli.CommandGroup("exchange", "Manage exchange connections", exchangeCmds...),
		cli.CommandGroup("subscription", "View/change the subscription plan", subscriptionCmds...),
		cli.CommandGroup("market", "Query public market data", marketCmds...),
		cli.CommandGroup("db", "View/update the local database directly", dbCmds...),
		cli.CommandGroup("setup", "Configure optional services", setupCmds...),
	}
	if err := cli.Run(ctx, cmds, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
