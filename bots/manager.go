// Copyright (c) 2025 BVK Chaitanya

// Package bots implements the client-side lifecycle of grid trading
// bots: listing, creation, stop and delete, with the local registry
// supplying what the backend does not report.
package bots

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/bvk/gridctl/api"
	"github.com/bvk/gridctl/backend"
	"github.com/bvk/gridctl/ctxutil"
	"github.com/bvk/gridctl/market"
	"github.com/bvk/gridctl/notify"
	"github.com/bvk/gridctl/registry"
	"github.com/bvk/gridctl/syncmap"
)

// ErrStopPending is returned when a stop or delete is requested for a
// bot that already has one in flight.
var ErrStopPending = errors.New("a stop request for this bot is already in progress; please wait")

type Options struct {
	// StopPollCount and StopPollInterval control the best-effort
	// confirmation of futures stops.
	StopPollCount    int
	StopPollInterval time.Duration
}

func (v *Options) setDefaults() {
	if v.StopPollCount == 0 {
		v.StopPollCount = 5
	}
	if v.StopPollInterval == 0 {
		v.StopPollInterval = 3 * time.Second
	}
}

type Manager struct {
	opts Options

	client *backend.Client

	registry *registry.Registry

	market *market.Client

	notifier *notify.Client

	// stopping holds bot ids with an in-flight stop or delete. The
	// guard is process-local; a restart during an in-flight stop can
	// reissue the request, which the backend treats as idempotent.
	stopping syncmap.Map[string, bool]
}

func NewManager(client *backend.Client, reg *registry.Registry, mkt *market.Client, notifier *notify.Client, opts *Options) *Manager {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	return &Manager{
		opts:     *opts,
		client:   client,
		registry: reg,
		market:   mkt,
		notifier: notifier,
	}
}

func (m *Manager) fetchAll(ctx context.Context) ([]*api.Bot, error) {
	var bots []*api.Bot

	futures, err := m.client.ListFuturesBots(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list futures bots: %w", err)
	}
	for _, d := range append(futures.Futures, futures.Bots...) {
		bots = append(bots, d.Normalize(api.BotTypeFutures))
	}

	spot, err := m.client.ListSpotBots(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list spot bots: %w", err)
	}
	for _, d := range append(spot.Spot, spot.Bots...) {
		bots = append(bots, d.Normalize(api.BotTypeSpot))
	}
	return bots, nil
}

func (m *Manager) enrich(ctx context.Context, bots []*api.Bot) {
	configs, err := m.registry.Configs(ctx)
	if err != nil {
		slog.Warn("could not load local bot configs (ignored)", "err", err)
		return
	}
	for _, b := range bots {
		cfg, ok := configs[b.ID]
		if !ok && len(b.TaskID) != 0 {
			cfg, ok = configs[b.TaskID]
		}
		if !ok {
			continue
		}
		if len(b.Name) == 0 {
			b.Name = cfg.Name
		}
		if len(b.Symbol) == 0 {
			b.Symbol = cfg.Symbol
		}
		if len(b.Exchange) == 0 {
			b.Exchange = cfg.Exchange
		}
		if b.GridSize == 0 {
			b.GridSize = cfg.GridSize
		}
		if b.Leverage == 0 {
			b.Leverage = cfg.Leverage
		}
	}
}

// List returns all bots merged across the futures and spot namespaces,
// enriched with locally cached configs and filtered by the hidden set.
func (m *Manager) List(ctx context.Context) ([]*api.Bot, error) {
	bots, err := m.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	m.enrich(ctx, bots)

	hidden, err := m.registry.Hidden(ctx)
	if err != nil {
		slog.Warn("could not load hidden bot set (ignored)", "err", err)
		hidden = nil
	}
	visible := bots[:0]
	for _, b := range bots {
		if hidden[b.ID] {
			continue
		}
		visible = append(visible, b)
	}

	sort.Slice(visible, func(i, j int) bool {
		if visible[i].Active != visible[j].Active {
			return visible[i].Active
		}
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})
	return visible, nil
}

// Get resolves a bot by id or task id, including hidden ones.
func (m *Manager) Get(ctx context.Context, id string) (*api.Bot, error) {
	bots, err := m.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	m.enrich(ctx, bots)
	for _, b := range bots {
		if b.ID == id || (len(b.TaskID) != 0 && b.TaskID == id) {
			return b, nil
		}
	}
	return nil, fmt.Errorf("no bot with id %q: %w", id, os.ErrNotExist)
}

// Stop halts a running bot. Concurrent stops for the same bot are
// rejected locally so only one outbound request is in flight.
func (m *Manager) Stop(ctx context.Context, id string) error {
	b, err := m.Get(ctx, id)
	if err != nil {
		return err
	}

	if _, inflight := m.stopping.LoadOrStore(b.ID, true); inflight {
		return ErrStopPending
	}
	defer m.stopping.Delete(b.ID)

	if err := m.stop(ctx, b); err != nil {
		return err
	}
	m.notifier.BestEffortSend(ctx, fmt.Sprintf("bot %s (%s %s) was stopped", b.Name, b.Type, b.Symbol))
	return nil
}

func (m *Manager) stop(ctx context.Context, b *api.Bot) error {
	if b.Type == api.BotTypeFutures {
		if _, err := m.client.StopFuturesBot(ctx, b.ID); err != nil {
			return err
		}
		m.confirmStopped(ctx, b)
		return nil
	}
	_, err := m.client.StopSpotBot(ctx, b.ID)
	return err
}

// confirmStopped polls the bot status looking for is_running=false.
// This is best effort: the stop request was accepted, so a polling
// failure is treated as "stop probably succeeded" rather than an
// error.
func (m *Manager) confirmStopped(ctx context.Context, b *api.Bot) {
	for i := 0; i < m.opts.StopPollCount; i++ {
		ctxutil.Sleep(ctx, m.opts.StopPollInterval)
		if ctx.Err() != nil {
			return
		}
		status, err := m.client.GetBotStatus(ctx, b.Type, b.ID)
		if err != nil {
			slog.Warn("could not poll bot status after stop (ignored)", "bot", b.ID, "err", err)
			return
		}
		if !status.Running() {
			return
		}
	}
	slog.Warn("bot still reports running after stop confirmation window", "bot", b.ID)
}

// Delete removes a stopped bot. The bot is stopped first (tolerating
// already-stopped failures). Spot bots without a backend task id have
// no delete endpoint and are hidden locally instead. Local config
// records are purged on every path.
func (m *Manager) Delete(ctx context.Context, id string) error {
	b, err := m.Get(ctx, id)
	if err != nil {
		return err
	}

	if _, inflight := m.stopping.LoadOrStore(b.ID, true); inflight {
		return ErrStopPending
	}
	defer m.stopping.Delete(b.ID)

	if err := m.stop(ctx, b); err != nil {
		slog.Warn("could not stop bot before delete (ignored)", "bot", b.ID, "err", err)
	}

	removed := "deleted"
	switch {
	case b.Type == api.BotTypeFutures:
		if err := m.client.DeleteFuturesBot(ctx, b.ID); err != nil {
			return err
		}
	case len(b.TaskID) != 0:
		// Spot deletion is keyed by the backend task id, which can
		// differ from the listing id.
		if err := m.client.DeleteSpotBot(ctx, b.TaskID); err != nil {
			return err
		}
	default:
		// No server-side delete for task-id-less spot bots.
		if err := m.registry.Hide(ctx, b.ID); err != nil {
			return err
		}
		removed = "hidden locally"
	}

	for _, key := range []string{b.ID, b.TaskID} {
		if len(key) == 0 {
			continue
		}
		if err := m.registry.DeleteConfig(ctx, key); err != nil {
			slog.Warn("could not purge local bot config (ignored)", "bot", key, "err", err)
		}
	}

	m.notifier.BestEffortSend(ctx, fmt.Sprintf("bot %s (%s %s) was %s", b.Name, b.Type, b.Symbol, removed))
	return nil
}
