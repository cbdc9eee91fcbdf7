// Copyright (c) 2025 BVK Chaitanya

package cli

import (
	"context"
	"flag"
	"log"
	"testing"
)

type TestCmd struct {
	name  string
	flags *flag.FlagSet
	args  []string
}

func newTestCmd(name string) *TestCmd {
	return &TestCmd{
		name:  name,
		flags: flag.NewFlagSet(name, flag.ContinueOnError),
	}
}

func (t *TestCmd) Command() (*flag.FlagSet, CmdFunc) {
	return t.flags, CmdFunc(func(_ context.Context, args []string) error {
		log.Println("running", t.name, "with args", args)
		t.args = args
		return nil
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	login := newTestCmd("login")
	remember := login.flags.Bool("remember", false, "keep the session on disk")

	botList := newTestCmd("list")
	botList.flags.String("format", "json", "list output format")
	botGet := newTestCmd("get")
	botStop := newTestCmd("stop")
	botDelete := newTestCmd("delete")
	bot := CommandGroup("bot", "manage grid bots", botList, botGet, botStop, botDelete)

	dbGet := newTestCmd("get")
	dbSet := newTestCmd("set")
	dbDelete := newTestCmd("delete")
	dbList := newTestCmd("list")
	dbBackup := newTestCmd("backup")
	db := CommandGroup("db", "inspect the local database", dbGet, dbSet, dbDelete, dbList, dbBackup)

	cmds := []Command{login, bot, db}

	{
		args := []string{"db", "get", "/session/current"}
		if err := Run(ctx, cmds, args); err != nil {
			t.Fatal(err)
		}
		if len(dbGet.args) != 1 || dbGet.args[0] != "/session/current" {
			t.Fatalf("want `/session/current`, got %v", dbGet.args)
		}
	}

	{
		args := []string{"login", "-remember", "user@example.com"}
		if err := Run(ctx, cmds, args); err != nil {
			t.Fatal(err)
		}
		if len(login.args) != 1 || login.args[0] != "user@example.com" {
			t.Fatalf("want `user@example.com`, got %v", login.args)
		}
		if *remember == false {
			t.Fatalf("want true, got false")
		}
	}

	{
		args := []string{"bot", "stop", "-flag-that-does-not-exist"}
		if err := Run(ctx, cmds, args); err == nil {
			t.Fatalf("want an undefined-flag error, got nil")
		}
	}

	{
		args := []string{"bot", "list", "-format=table", "extra"}
		if err := Run(ctx, cmds, args); err != nil {
			t.Fatal(err)
		}
		if v := botList.flags.Lookup("format").Value.String(); v != "table" {
			t.Fatalf("want `table`, got %q", v)
		}
		if len(botList.args) != 1 || botList.args[0] != "extra" {
			t.Fatalf("want `extra`, got %v", botList.args)
		}
	}
}
