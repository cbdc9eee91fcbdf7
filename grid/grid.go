// Copyright (c) 2025 BVK Chaitanya

// Package grid implements the price-level math for grid bots: evenly
// spaced levels between a lower and upper bound, per-level budget
// split and deterministic client order ids.
package grid

import (
	"fmt"

	"github.com/bvk/gridctl/idgen"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxSize is the largest grid the platform accepts.
const MaxSize = 50

// Levels returns exactly n evenly spaced price levels from upper down
// to lower, both inclusive.
func Levels(upper, lower decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n < 2 {
		return nil, fmt.Errorf("grid needs at least two levels")
	}
	if n > MaxSize {
		return nil, fmt.Errorf("grid size %d is over the maximum %d", n, MaxSize)
	}
	if !upper.GreaterThan(lower) {
		return nil, fmt.Errorf("upper price %s must be greater than lower price %s", upper, lower)
	}
	if lower.Sign() <= 0 {
		return nil, fmt.Errorf("lower price must be positive")
	}

	step := upper.Sub(lower).Div(decimal.NewFromInt(int64(n - 1)))
	levels := make([]decimal.Decimal, n)
	for i := 0; i < n; i++ {
		levels[i] = upper.Sub(step.Mul(decimal.NewFromInt(int64(i))))
	}
	// Pin the final level to avoid division round-off drift.
	levels[n-1] = lower
	return levels, nil
}

// Plan captures the parameters of a grid placement.
type Plan struct {
	Symbol string

	UpperPrice decimal.Decimal
	LowerPrice decimal.Decimal

	GridSize int

	Investment decimal.Decimal
	Leverage   int
}

func (p *Plan) Check() error {
	if len(p.Symbol) == 0 {
		return fmt.Errorf("symbol cannot be empty")
	}
	if _, err := Levels(p.UpperPrice, p.LowerPrice, p.GridSize); err != nil {
		return err
	}
	if p.Investment.Sign() <= 0 {
		return fmt.Errorf("investment must be positive")
	}
	if p.Leverage < 0 {
		return fmt.Errorf("leverage cannot be negative")
	}
	return nil
}

// Levels returns the plan's price levels from upper to lower.
func (p *Plan) Levels() ([]decimal.Decimal, error) {
	return Levels(p.UpperPrice, p.LowerPrice, p.GridSize)
}

// LevelBudget returns the investment share of a single grid level.
func (p *Plan) LevelBudget() decimal.Decimal {
	if p.GridSize == 0 {
		return decimal.Zero
	}
	return p.Investment.Div(decimal.NewFromInt(int64(p.GridSize)))
}

// OrderIDs returns a deterministic client order id per level, derived
// from the seed. Recreating the plan with the same seed yields the
// same ids, which keeps retried placements idempotent.
func (p *Plan) OrderIDs(seed string) []uuid.UUID {
	gen := idgen.New(seed, 0)
	ids := make([]uuid.UUID, p.GridSize)
	for i := range ids {
		ids[i] = gen.NextID()
	}
	return ids
}

// AutoBounds derives manual-style price bounds from a 24 hour range by
// padding it a little on both sides, mirroring what the service does
// in auto mode.
func AutoBounds(high, low decimal.Decimal) (upper, lower decimal.Decimal, err error) {
	if !high.GreaterThan(low) || low.Sign() <= 0 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid 24h range %s..%s", low, high)
	}
	pad := high.Sub(low).Mul(decimal.RequireFromString("0.05"))
	upper, lower = high.Add(pad), low.Sub(pad)
	if lower.Sign() <= 0 {
		lower = low
	}
	return upper, lower, nil
}
