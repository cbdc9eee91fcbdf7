// Copyright (c) 2025 BVK Chaitanya

package api

import "github.com/shopspring/decimal"

type PlanData struct {
	Name string `json:"name"`
	Tier string `json:"tier"`

	MonthlyPrice decimal.NullDecimal `json:"monthly_price"`
	Price        decimal.NullDecimal `json:"price"`

	MaxBots  int      `json:"max_bots"`
	Features []string `json:"features"`
}

// TierName resolves the name/tier variants.
func (p *PlanData) TierName() string {
	if len(p.Tier) != 0 {
		return p.Tier
	}
	return p.Name
}

type PlanListResponse struct {
	Plans []*PlanData `json:"plans"`
}

type SelectPlanRequest struct {
	Plan string `json:"plan"`
}

type SelectPlanResponse struct {
	Detail string    `json:"detail"`
	User   *UserData `json:"user"`
}
