// Copyright (c) 2025 BVK Chaitanya

package registry

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/bvk/gridctl/gobs"
	"github.com/bvk/gridctl/kvutil"
	"github.com/bvkgo/kv/kvmemdb"
)

func TestConfigRoundTrip(t *testing.T) {
	ctx := context.Background()
	r, err := Open(ctx, kvmemdb.New())
	if err != nil {
		t.Fatal(err)
	}

	cfg := &gobs.BotConfig{
		BotID:    "bot-1",
		TaskID:   "task-1",
		Name:     "alpha",
		Type:     "futures",
		Exchange: "binance",
		Symbol:   "BTCUSDT",
		GridSize: 10,
	}
	if err := r.SaveConfig(ctx, cfg); err != nil {
		t.Fatal(err)
	}

	// Reachable through either id.
	for _, id := range []string{"bot-1", "task-1"} {
		got, err := r.GetConfig(ctx, id)
		if err != nil {
			t.Fatalf("GetConfig(%q): %v", id, err)
		}
		if got.Name != "alpha" || got.GridSize != 10 {
			t.Fatalf("GetConfig(%q): got %+v", id, got)
		}
	}

	configs, err := r.Configs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(configs) != 1 || configs["bot-1"] == nil {
		t.Fatalf("want one config keyed by bot id, got %v", configs)
	}

	// Deleting through the task id removes both entries.
	if err := r.DeleteConfig(ctx, "task-1"); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"bot-1", "task-1"} {
		if _, err := r.GetConfig(ctx, id); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("GetConfig(%q) after delete: %v", id, err)
		}
	}

	// Deleting a missing config is not an error.
	if err := r.DeleteConfig(ctx, "no-such-bot"); err != nil {
		t.Fatal(err)
	}
}

func TestHiddenBots(t *testing.T) {
	ctx := context.Background()
	r, err := Open(ctx, kvmemdb.New())
	if err != nil {
		t.Fatal(err)
	}

	if err := r.Hide(ctx, "bot-1"); err != nil {
		t.Fatal(err)
	}
	hidden, err := r.Hidden(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !hidden["bot-1"] {
		t.Fatalf("want bot-1 hidden, got %v", hidden)
	}

	if err := r.Unhide(ctx, "bot-1"); err != nil {
		t.Fatal(err)
	}
	if err := r.Unhide(ctx, "bot-1"); err != nil {
		t.Fatalf("unhide must be idempotent: %v", err)
	}
	hidden, err = r.Hidden(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(hidden) != 0 {
		t.Fatalf("want no hidden bots, got %v", hidden)
	}
}

func TestExchangeOverrides(t *testing.T) {
	ctx := context.Background()
	r, err := Open(ctx, kvmemdb.New())
	if err != nil {
		t.Fatal(err)
	}

	if err := r.SetExchangeOverride(ctx, "binance", true); err != nil {
		t.Fatal(err)
	}
	if err := r.SetExchangeOverride(ctx, "bybit", false); err != nil {
		t.Fatal(err)
	}

	overrides, err := r.ExchangeOverrides(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := overrides["binance"]; !ok || !v {
		t.Fatalf("want binance connected, got %v", overrides)
	}
	if v, ok := overrides["bybit"]; !ok || v {
		t.Fatalf("want bybit disconnected, got %v", overrides)
	}
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	r, err := Open(ctx, kvmemdb.New())
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range []string{"BTCUSDT", "ETHUSDT", "BTCUSDT"} {
		if err := r.AddFavorite(ctx, s); err != nil {
			t.Fatal(err)
		}
	}
	favorites, err := r.Favorites(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(favorites) != 2 {
		t.Fatalf("adds must dedup; got %v", favorites)
	}

	if err := r.RemoveFavorite(ctx, "BTCUSDT"); err != nil {
		t.Fatal(err)
	}
	favorites, err = r.Favorites(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(favorites) != 1 || favorites[0] != "ETHUSDT" {
		t.Fatalf("want only ETHUSDT, got %v", favorites)
	}
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	db := kvmemdb.New()
	r, err := Open(ctx, db)
	if err != nil {
		t.Fatal(err)
	}

	stale := &gobs.BotConfig{
		BotID:   "old-bot",
		Name:    "old",
		SavedAt: time.Now().Add(-RetentionPeriod - time.Hour),
	}
	fresh := &gobs.BotConfig{
		BotID: "new-bot",
		Name:  "new",
	}
	if err := r.SaveConfig(ctx, stale); err != nil {
		t.Fatal(err)
	}
	if err := r.SaveConfig(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	// Reopening prunes expired records.
	if _, err := Open(ctx, db); err != nil {
		t.Fatal(err)
	}
	if _, err := r.GetConfig(ctx, "old-bot"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want the stale config pruned, got %v", err)
	}
	if _, err := r.GetConfig(ctx, "new-bot"); err != nil {
		t.Fatalf("fresh config must survive: %v", err)
	}
}

func TestSchemaVersion(t *testing.T) {
	ctx := context.Background()
	db := kvmemdb.New()
	if _, err := Open(ctx, db); err != nil {
		t.Fatal(err)
	}

	// A database written by a newer layout is rejected.
	future := &gobs.SchemaVersion{Version: Schema + 1}
	if err := kvutil.SetDB(ctx, db, schemaKey, future); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(ctx, db); err == nil {
		t.Fatalf("want an error for a newer schema version")
	}
}
