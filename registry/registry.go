// Copyright (c) 2025 BVK Chaitanya

// Package registry implements the browser-less counterpart of the
// platform's local client state: bot creation parameters the backend
// does not echo back, the hidden-bot set, favorite trading pairs and
// exchange connection overrides.
//
// All records are advisory projections. They can diverge from server
// truth and are reconciled only by full re-fetch. Records are pruned
// by age so that storage stays bounded.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/bvk/gridctl/gobs"
	"github.com/bvk/gridctl/kvutil"
	"github.com/bvkgo/kv"
)

// Schema is the current layout version of the registry keyspace.
// Opening a database written by a newer layout fails instead of
// silently corrupting it.
const Schema = 1

// RetentionPeriod bounds how long bot configs and hidden markers are
// kept without being refreshed.
const RetentionPeriod = 30 * 24 * time.Hour

const (
	schemaKey        = "/registry/schema"
	configKeyspace   = "/registry/configs"
	taskKeyspace     = "/registry/configs/task"
	hiddenKeyspace   = "/registry/hidden"
	exchangeKeyspace = "/registry/exchanges"
	favoritesKey     = "/registry/favorites"
)

type Registry struct {
	db kv.Database
}

// Open validates the schema version and prunes expired records.
func Open(ctx context.Context, db kv.Database) (*Registry, error) {
	r := &Registry{db: db}

	version, err := kvutil.GetDB[gobs.SchemaVersion](ctx, db, schemaKey)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("could not read registry schema version: %w", err)
		}
		if err := kvutil.SetDB(ctx, db, schemaKey, &gobs.SchemaVersion{Version: Schema}); err != nil {
			return nil, fmt.Errorf("could not initialize registry schema version: %w", err)
		}
	} else if version.Version > Schema {
		return nil, fmt.Errorf("registry schema version %d is newer than supported version %d", version.Version, Schema)
	}

	if err := r.prune(ctx); err != nil {
		slog.Warn("could not prune expired registry records", "err", err)
	}
	return r, nil
}

func configKey(botID string) string {
	return path.Join(configKeyspace, botID)
}

func taskKey(taskID string) string {
	return path.Join(taskKeyspace, taskID)
}

// SaveConfig stores the creation-time parameters under the bot id and,
// when present, under the task id as well.
func (r *Registry) SaveConfig(ctx context.Context, cfg *gobs.BotConfig) error {
	if len(cfg.BotID) == 0 && len(cfg.TaskID) == 0 {
		return fmt.Errorf("bot config needs a bot id or a task id: %w", os.ErrInvalid)
	}
	if cfg.SavedAt.IsZero() {
		cfg.SavedAt = time.Now()
	}
	return kv.WithReadWriter(ctx, r.db, func(ctx context.Context, rw kv.ReadWriter) error {
		if len(cfg.BotID) != 0 {
			if err := kvutil.Set(ctx, rw, configKey(cfg.BotID), cfg); err != nil {
				return err
			}
		}
		if len(cfg.TaskID) != 0 {
			if err := kvutil.Set(ctx, rw, taskKey(cfg.TaskID), cfg); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetConfig looks up a config by bot id or task id. Returns
// os.ErrNotExist when no record matches.
func (r *Registry) GetConfig(ctx context.Context, id string) (*gobs.BotConfig, error) {
	cfg, err := kvutil.GetDB[gobs.BotConfig](ctx, r.db, configKey(id))
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return kvutil.GetDB[gobs.BotConfig](ctx, r.db, taskKey(id))
}

// DeleteConfig removes the config record reachable through the given
// bot id or task id, including its alias entry.
func (r *Registry) DeleteConfig(ctx context.Context, id string) error {
	cfg, err := r.GetConfig(ctx, id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return kv.WithReadWriter(ctx, r.db, func(ctx context.Context, rw kv.ReadWriter) error {
		for _, key := range []string{configKey(cfg.BotID), taskKey(cfg.TaskID), configKey(id), taskKey(id)} {
			if err := rw.Delete(ctx, key); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
		}
		return nil
	})
}

// Configs returns all stored configs keyed by bot id.
func (r *Registry) Configs(ctx context.Context) (map[string]*gobs.BotConfig, error) {
	configs := make(map[string]*gobs.BotConfig)
	begin, end := kvutil.PathRange(configKeyspace)
	collect := func(ctx context.Context, _ kv.Reader, key string, cfg *gobs.BotConfig) error {
		if len(cfg.BotID) != 0 {
			configs[cfg.BotID] = cfg
		}
		return nil
	}
	if err := kvutil.AscendDB(ctx, r.db, begin, end, collect); err != nil {
		return nil, err
	}
	return configs, nil
}

// Hide marks a bot as removed from view on this client.
func (r *Registry) Hide(ctx context.Context, botID string) error {
	if len(botID) == 0 {
		return os.ErrInvalid
	}
	v := &gobs.HiddenBot{BotID: botID, HiddenAt: time.Now()}
	return kvutil.SetDB(ctx, r.db, path.Join(hiddenKeyspace, botID), v)
}

func (r *Registry) Unhide(ctx context.Context, botID string) error {
	err := kvutil.DeleteDB(ctx, r.db, path.Join(hiddenKeyspace, botID))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Hidden returns the set of locally hidden bot ids.
func (r *Registry) Hidden(ctx context.Context) (map[string]bool, error) {
	hidden := make(map[string]bool)
	begin, end := kvutil.PathRange(hiddenKeyspace)
	collect := func(ctx context.Context, _ kv.Reader, key string, v *gobs.HiddenBot) error {
		hidden[v.BotID] = true
		return nil
	}
	if err := kvutil.AscendDB(ctx, r.db, begin, end, collect); err != nil {
		return nil, err
	}
	return hidden, nil
}

// SetExchangeOverride records a local connection status for the
// exchange. Effective status is the override when one exists.
func (r *Registry) SetExchangeOverride(ctx context.Context, exchange string, connected bool) error {
	if len(exchange) == 0 {
		return os.ErrInvalid
	}
	v := &gobs.ExchangeOverride{
		Exchange:  exchange,
		Connected: connected,
		UpdatedAt: time.Now(),
	}
	return kvutil.SetDB(ctx, r.db, path.Join(exchangeKeyspace, exchange), v)
}

// ExchangeOverrides returns the local connection overrides by exchange
// name.
func (r *Registry) ExchangeOverrides(ctx context.Context) (map[string]bool, error) {
	overrides := make(map[string]bool)
	begin, end := kvutil.PathRange(exchangeKeyspace)
	collect := func(ctx context.Context, _ kv.Reader, key string, v *gobs.ExchangeOverride) error {
		overrides[v.Exchange] = v.Connected
		return nil
	}
	if err := kvutil.AscendDB(ctx, r.db, begin, end, collect); err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *Registry) Favorites(ctx context.Context) ([]string, error) {
	v, err := kvutil.GetDB[gobs.FavoritePairs](ctx, r.db, favoritesKey)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return v.Symbols, nil
}

func (r *Registry) AddFavorite(ctx context.Context, symbol string) error {
	if len(symbol) == 0 {
		return os.ErrInvalid
	}
	symbols, err := r.Favorites(ctx)
	if err != nil {
		return err
	}
	for _, s := range symbols {
		if s == symbol {
			return nil
		}
	}
	v := &gobs.FavoritePairs{Symbols: append(symbols, symbol)}
	return kvutil.SetDB(ctx, r.db, favoritesKey, v)
}

func (r *Registry) RemoveFavorite(ctx context.Context, symbol string) error {
	symbols, err := r.Favorites(ctx)
	if err != nil {
		return err
	}
	v := &gobs.FavoritePairs{}
	for _, s := range symbols {
		if s != symbol {
			v.Symbols = append(v.Symbols, s)
		}
	}
	return kvutil.SetDB(ctx, r.db, favoritesKey, v)
}

// prune drops config and hidden records past the retention period.
func (r *Registry) prune(ctx context.Context) error {
	cutoff := time.Now().Add(-RetentionPeriod)

	var stale []string
	begin, end := kvutil.PathRange(configKeyspace)
	collectConfigs := func(ctx context.Context, _ kv.Reader, key string, cfg *gobs.BotConfig) error {
		if cfg.SavedAt.Before(cutoff) {
			stale = append(stale, key)
		}
		return nil
	}
	if err := kvutil.AscendDB(ctx, r.db, begin, end, collectConfigs); err != nil {
		return err
	}

	begin, end = kvutil.PathRange(hiddenKeyspace)
	collectHidden := func(ctx context.Context, _ kv.Reader, key string, v *gobs.HiddenBot) error {
		if v.HiddenAt.Before(cutoff) {
			stale = append(stale, key)
		}
		return nil
	}
	if err := kvutil.AscendDB(ctx, r.db, begin, end, collectHidden); err != nil {
		return err
	}

	if len(stale) == 0 {
		return nil
	}
	return kv.WithReadWriter(ctx, r.db, func(ctx context.Context, rw kv.ReadWriter) error {
		for _, key := range stale {
			if err := rw.Delete(ctx, key); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
		}
		return nil
	})
}
