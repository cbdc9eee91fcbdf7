// Copyright (c) 2025 BVK Chaitanya

package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	BotTypeSpot    = "spot"
	BotTypeFutures = "futures"
)

// BotData is a bot record as the backend reports it. Field spellings
// vary between deployments; use Normalize to resolve them.
type BotData struct {
	ID     json.Number `json:"id"`
	TaskID string      `json:"task_id"`

	Name    string `json:"name"`
	BotName string `json:"bot_name"`

	Exchange string `json:"exchange"`

	Symbol      string `json:"symbol"`
	Pair        string `json:"pair"`
	TradingPair string `json:"trading_pair"`

	IsRunning *bool  `json:"is_running"`
	Status    string `json:"status"`

	ProfitLoss decimal.NullDecimal `json:"profit_loss"`
	Profit     decimal.NullDecimal `json:"profit"`

	GridSize   int                 `json:"grid_size"`
	LowerPrice decimal.NullDecimal `json:"lower_price"`
	UpperPrice decimal.NullDecimal `json:"upper_price"`
	Investment decimal.NullDecimal `json:"investment"`
	Leverage   int                 `json:"leverage"`

	CreatedAt string `json:"created_at"`
}

// Bot is the canonical client-side bot projection.
type Bot struct {
	ID     string
	TaskID string

	Name     string
	Type     string
	Exchange string
	Symbol   string

	Active     bool
	ProfitLoss decimal.Decimal

	GridSize   int
	LowerPrice decimal.Decimal
	UpperPrice decimal.Decimal
	Investment decimal.Decimal
	Leverage   int

	CreatedAt time.Time
}

// Normalize resolves field variants into a canonical Bot of the given
// type ("spot" or "futures").
func (d *BotData) Normalize(botType string) *Bot {
	if d == nil {
		return nil
	}
	name := d.Name
	if len(name) == 0 {
		name = d.BotName
	}
	symbol := d.Symbol
	if len(symbol) == 0 {
		symbol = d.Pair
	}
	if len(symbol) == 0 {
		symbol = d.TradingPair
	}
	active := false
	if d.IsRunning != nil {
		active = *d.IsRunning
	} else if len(d.Status) != 0 {
		status := strings.ToLower(d.Status)
		active = status == "active" || status == "running"
	}
	pnl := decimal.Zero
	if d.ProfitLoss.Valid {
		pnl = d.ProfitLoss.Decimal
	} else if d.Profit.Valid {
		pnl = d.Profit.Decimal
	}
	return &Bot{
		ID:         d.ID.String(),
		TaskID:     d.TaskID,
		Name:       name,
		Type:       botType,
		Exchange:   d.Exchange,
		Symbol:     symbol,
		Active:     active,
		ProfitLoss: pnl,
		GridSize:   d.GridSize,
		LowerPrice: d.LowerPrice.Decimal,
		UpperPrice: d.UpperPrice.Decimal,
		Investment: d.Investment.Decimal,
		Leverage:   d.Leverage,
		CreatedAt:  parseTime(d.CreatedAt),
	}
}

type BotListResponse struct {
	Futures []*BotData `json:"futures"`
	Spot    []*BotData `json:"spot"`

	// Bots is used by older deployments that return a single array.
	Bots []*BotData `json:"bots"`
}

type CreateBotRequest struct {
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Symbol   string `json:"symbol"`

	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`

	GridSize int `json:"grid_size"`

	// Manual mode carries explicit bounds; auto mode leaves them zero
	// and the service chooses.
	Mode       string              `json:"mode"`
	LowerPrice decimal.NullDecimal `json:"lower_price,omitempty"`
	UpperPrice decimal.NullDecimal `json:"upper_price,omitempty"`

	Investment decimal.Decimal `json:"investment"`
	Leverage   int             `json:"leverage,omitempty"`
	RunHours   int             `json:"run_hours,omitempty"`
}

type CreateBotResponse struct {
	Detail string   `json:"detail"`
	TaskID string   `json:"task_id"`
	Bot    *BotData `json:"bot"`
}

type BotStatusResponse struct {
	IsRunning *bool  `json:"is_running"`
	Status    string `json:"status"`
}

// Running resolves the is_running/status variants.
func (r *BotStatusResponse) Running() bool {
	if r.IsRunning != nil {
		return *r.IsRunning
	}
	status := strings.ToLower(r.Status)
	return status == "active" || status == "running"
}

type MinInvestmentRequest struct {
	Exchange string `json:"exchange"`
	Symbol   string `json:"symbol"`
	GridSize int    `json:"grid_size"`
	Leverage int    `json:"leverage,omitempty"`
}

type MinInvestmentResponse struct {
	MinInvestment decimal.NullDecimal `json:"min_investment"`
	Minimum       decimal.NullDecimal `json:"minimum"`
}

// Value resolves the min_investment/minimum variants. Ok is false when
// the backend did not report a quote.
func (r *MinInvestmentResponse) Value() (decimal.Decimal, bool) {
	if r.MinInvestment.Valid {
		return r.MinInvestment.Decimal, true
	}
	if r.Minimum.Valid {
		return r.Minimum.Decimal, true
	}
	return decimal.Zero, false
}
