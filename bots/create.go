// Copyright (c) 2025 BVK Chaitanya

package bots

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bvk/gridctl/api"
	"github.com/bvk/gridctl/gobs"
	"github.com/bvk/gridctl/grid"
	"github.com/shopspring/decimal"
)

// minCredentialLength is a paste-error heuristic; real exchange API
// keys are much longer.
const minCredentialLength = 8

// ParseGridSize parses a user-supplied grid size. Valid sizes are
// integers in (0, 50].
func ParseGridSize(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("grid size %q is not an integer", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("grid size must be greater than zero")
	}
	if n > grid.MaxSize {
		return 0, fmt.Errorf("grid size cannot be over %d", grid.MaxSize)
	}
	return n, nil
}

type CreateRequest struct {
	Name string

	// Type is "spot" or "futures".
	Type string

	Exchange string
	Symbol   string

	APIKey    string
	APISecret string

	GridSize int

	// Manual mode carries explicit price bounds. In auto mode the
	// service chooses them.
	Manual     bool
	LowerPrice decimal.Decimal
	UpperPrice decimal.Decimal

	Investment decimal.Decimal
	Leverage   int
	RunHours   int
}

func checkCredential(name, value string) error {
	if len(value) == 0 {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if len(value) < minCredentialLength {
		return fmt.Errorf("%s looks too short to be a credential", name)
	}
	if strings.ContainsRune(value, '@') {
		return fmt.Errorf("%s looks like an email address, not a credential", name)
	}
	return nil
}

// Check validates the request without any network calls. The backend
// remains the authority; this is defense in depth against obviously
// malformed submissions.
func (r *CreateRequest) Check() error {
	if r.Type != api.BotTypeSpot && r.Type != api.BotTypeFutures {
		return fmt.Errorf("bot type must be %q or %q", api.BotTypeSpot, api.BotTypeFutures)
	}
	if len(r.Exchange) == 0 {
		return fmt.Errorf("exchange cannot be empty")
	}
	if len(r.Symbol) == 0 {
		return fmt.Errorf("a trading pair must be selected")
	}
	if err := checkCredential("api key", r.APIKey); err != nil {
		return err
	}
	if err := checkCredential("api secret", r.APISecret); err != nil {
		return err
	}
	if r.GridSize <= 0 || r.GridSize > grid.MaxSize {
		return fmt.Errorf("grid size must be an integer in (0, %d]", grid.MaxSize)
	}
	if r.Manual {
		if !r.UpperPrice.GreaterThan(r.LowerPrice) {
			return fmt.Errorf("upper price %s must be greater than lower price %s", r.UpperPrice, r.LowerPrice)
		}
		if r.LowerPrice.Sign() <= 0 {
			return fmt.Errorf("lower price must be positive")
		}
	}
	if r.Investment.Sign() <= 0 {
		return fmt.Errorf("investment must be positive")
	}
	if r.Type == api.BotTypeFutures && r.Leverage <= 0 {
		return fmt.Errorf("futures bots need a positive leverage")
	}
	return nil
}

// Plan derives the level plan for the request. Manual mode uses the
// request's own price bounds; auto mode callers pass advisory bounds
// derived from the 24 hour range.
func (r *CreateRequest) Plan(upper, lower decimal.Decimal) (*grid.Plan, error) {
	if r.Manual {
		upper, lower = r.UpperPrice, r.LowerPrice
	}
	p := &grid.Plan{
		Symbol:     r.Symbol,
		UpperPrice: upper,
		LowerPrice: lower,
		GridSize:   r.GridSize,
		Investment: r.Investment,
		Leverage:   r.Leverage,
	}
	if err := p.Check(); err != nil {
		return nil, err
	}
	return p, nil
}

// MinInvestment fetches the advisory minimum-investment quote for the
// request parameters. Ok is false when the backend has no quote.
func (m *Manager) MinInvestment(ctx context.Context, r *CreateRequest) (decimal.Decimal, bool, error) {
	resp, err := m.client.MinInvestment(ctx, &api.MinInvestmentRequest{
		Exchange: r.Exchange,
		Symbol:   r.Symbol,
		GridSize: r.GridSize,
		Leverage: r.Leverage,
	})
	if err != nil {
		return decimal.Zero, false, err
	}
	quote, ok := resp.Value()
	return quote, ok, nil
}

// Create validates and submits a bot creation. The creation-time
// parameters are remembered in the local registry because the backend
// does not echo them all back.
func (m *Manager) Create(ctx context.Context, r *CreateRequest) (*api.Bot, error) {
	if err := r.Check(); err != nil {
		return nil, err
	}

	// The quote is advisory; a quoting failure does not block
	// creation, but an investment below a fetched quote does.
	if quote, ok, err := m.MinInvestment(ctx, r); err != nil {
		slog.Warn("could not fetch minimum investment quote (ignored)", "err", err)
	} else if ok && r.Investment.LessThan(quote) {
		return nil, fmt.Errorf("investment %s is below the minimum %s for %s", r.Investment, quote, r.Symbol)
	}

	req := &api.CreateBotRequest{
		Name:       r.Name,
		Exchange:   r.Exchange,
		Symbol:     r.Symbol,
		APIKey:     r.APIKey,
		APISecret:  r.APISecret,
		GridSize:   r.GridSize,
		Mode:       "auto",
		Investment: r.Investment,
		Leverage:   r.Leverage,
		RunHours:   r.RunHours,
	}
	if r.Manual {
		req.Mode = "manual"
		req.LowerPrice = decimal.NewNullDecimal(r.LowerPrice)
		req.UpperPrice = decimal.NewNullDecimal(r.UpperPrice)
	}

	var resp *api.CreateBotResponse
	var err error
	if r.Type == api.BotTypeFutures {
		resp, err = m.client.CreateFuturesBot(ctx, req)
	} else {
		resp, err = m.client.CreateSpotBot(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	b := resp.Bot.Normalize(r.Type)
	if b == nil {
		b = &api.Bot{
			Name:     r.Name,
			Type:     r.Type,
			Exchange: r.Exchange,
			Symbol:   r.Symbol,
			Active:   true,
		}
	}
	if len(b.TaskID) == 0 {
		b.TaskID = resp.TaskID
	}
	if len(b.ID) == 0 {
		b.ID = b.TaskID
	}

	lower, upper := r.LowerPrice, r.UpperPrice
	if !r.Manual {
		// Remember advisory bounds from the 24h range so detail views
		// have something to show until the backend reports its own.
		if t, err := m.market.Ticker24h(ctx, r.Symbol); err == nil {
			if u, l, err := grid.AutoBounds(t.HighPrice, t.LowPrice); err == nil {
				upper, lower = u, l
			}
		}
	}

	cfg := &gobs.BotConfig{
		BotID:      b.ID,
		TaskID:     b.TaskID,
		Name:       r.Name,
		Type:       r.Type,
		Exchange:   r.Exchange,
		Symbol:     r.Symbol,
		GridSize:   r.GridSize,
		LowerPrice: lower.String(),
		UpperPrice: upper.String(),
		Investment: r.Investment.String(),
		Leverage:   r.Leverage,
		RunHours:   r.RunHours,
		SavedAt:    time.Now(),
	}
	if err := m.registry.SaveConfig(ctx, cfg); err != nil {
		slog.Warn("could not save local bot config (ignored)", "err", err)
	}

	m.notifier.BestEffortSend(ctx, fmt.Sprintf("bot %s (%s %s) was created", b.Name, b.Type, b.Symbol))
	return b, nil
}
