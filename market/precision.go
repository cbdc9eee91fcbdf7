// Copyright (c) 2025 BVK Chaitanya

package market

import "github.com/shopspring/decimal"

var (
	one        = decimal.NewFromInt(1)
	cent       = decimal.RequireFromString("0.01")
	tenthOfBip = decimal.RequireFromString("0.0001")
)

// FormatPrice renders a price with tiered precision: small magnitudes
// get more decimal places so that low-priced symbols remain readable.
func FormatPrice(p decimal.Decimal) string {
	abs := p.Abs()
	switch {
	case abs.GreaterThanOrEqual(one):
		return p.StringFixed(2)
	case abs.GreaterThanOrEqual(cent):
		return p.StringFixed(4)
	case abs.GreaterThanOrEqual(tenthOfBip):
		return p.StringFixed(6)
	}
	return p.StringFixed(8)
}
