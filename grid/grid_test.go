// Copyright (c) 2025 BVK Chaitanya

package grid

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLevels(t *testing.T) {
	levels, err := Levels(d("100"), d("50"), 6)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"100", "90", "80", "70", "60", "50"}
	if len(levels) != len(want) {
		t.Fatalf("want %d levels, got %d", len(want), len(levels))
	}
	for i, w := range want {
		if !levels[i].Equal(d(w)) {
			t.Errorf("level %d: want %s, got %s", i, w, levels[i])
		}
	}
}

func TestLevelsEndpointsExact(t *testing.T) {
	// A range that does not divide evenly must still end exactly on the
	// bounds.
	levels, err := Levels(d("10"), d("3"), 7)
	if err != nil {
		t.Fatal(err)
	}
	if !levels[0].Equal(d("10")) {
		t.Errorf("want first level 10, got %s", levels[0])
	}
	if !levels[len(levels)-1].Equal(d("3")) {
		t.Errorf("want last level 3, got %s", levels[len(levels)-1])
	}
	for i := 1; i < len(levels); i++ {
		if !levels[i].LessThan(levels[i-1]) {
			t.Errorf("levels are not strictly decreasing at %d: %s >= %s", i, levels[i], levels[i-1])
		}
	}
}

func TestLevelsErrors(t *testing.T) {
	if _, err := Levels(d("100"), d("50"), 1); err == nil {
		t.Errorf("want an error for a single level")
	}
	if _, err := Levels(d("100"), d("50"), MaxSize+1); err == nil {
		t.Errorf("want an error for an oversized grid")
	}
	if _, err := Levels(d("50"), d("100"), 5); err == nil {
		t.Errorf("want an error for inverted bounds")
	}
	if _, err := Levels(d("100"), d("100"), 5); err == nil {
		t.Errorf("want an error for equal bounds")
	}
	if _, err := Levels(d("100"), d("-1"), 5); err == nil {
		t.Errorf("want an error for a negative lower bound")
	}
}

func TestPlan(t *testing.T) {
	p := &Plan{
		Symbol:     "BTCUSDT",
		UpperPrice: d("100"),
		LowerPrice: d("50"),
		GridSize:   10,
		Investment: d("500"),
	}
	if err := p.Check(); err != nil {
		t.Fatal(err)
	}
	if budget := p.LevelBudget(); !budget.Equal(d("50")) {
		t.Errorf("want level budget 50, got %s", budget)
	}

	ids1 := p.OrderIDs("seed-1")
	ids2 := p.OrderIDs("seed-1")
	if len(ids1) != p.GridSize {
		t.Fatalf("want %d ids, got %d", p.GridSize, len(ids1))
	}
	for i := range ids1 {
		if ids1[i] != ids2[i] {
			t.Errorf("id %d is not deterministic: %s vs %s", i, ids1[i], ids2[i])
		}
	}
	other := p.OrderIDs("seed-2")
	if ids1[0] == other[0] {
		t.Errorf("different seeds must give different ids")
	}
}

func TestAutoBounds(t *testing.T) {
	upper, lower, err := AutoBounds(d("110"), d("90"))
	if err != nil {
		t.Fatal(err)
	}
	if !upper.Equal(d("111")) {
		t.Errorf("want upper 111, got %s", upper)
	}
	if !lower.Equal(d("89")) {
		t.Errorf("want lower 89, got %s", lower)
	}

	// A wide range whose padded lower bound would go non-positive falls
	// back to the 24h low.
	_, lower, err = AutoBounds(d("100"), d("1")) // pad = 4.95
	if err != nil {
		t.Fatal(err)
	}
	if !lower.Equal(d("1")) {
		t.Errorf("want lower clamped to 1, got %s", lower)
	}

	if _, _, err := AutoBounds(d("90"), d("110")); err == nil {
		t.Errorf("want an error for an inverted range")
	}
}
