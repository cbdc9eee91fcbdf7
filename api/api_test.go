// Copyright (c) 2025 BVK Chaitanya

package api

import (
	"encoding/json"
	"testing"
	"time"
)

func TestUserDataNormalize(t *testing.T) {
	cases := []struct {
		name string
		data string

		tier     string
		verified bool
	}{
		{
			"current shape",
			`{"id": 1, "username": "alice", "email": "a@example.com", "is_verified": true, "subscription": "pro", "created_at": "2025-02-01T10:00:00Z"}`,
			"pro", true,
		},
		{
			"legacy tier and verified",
			`{"id": "u-2", "username": "bob", "email": "b@example.com", "verified": true, "tier": "premium", "date_joined": "2024-12-31"}`,
			"premium", true,
		},
		{
			"missing tier defaults to starter",
			`{"id": 3, "username": "carol", "email": "c@example.com"}`,
			"starter", false,
		},
		{
			"is_verified wins over verified",
			`{"id": 4, "is_verified": false, "verified": true, "subscription": "pro"}`,
			"pro", false,
		},
	}
	for _, c := range cases {
		var d UserData
		if err := json.Unmarshal([]byte(c.data), &d); err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		u := d.Normalize()
		if u.Tier != c.tier {
			t.Errorf("%s: want tier %q, got %q", c.name, c.tier, u.Tier)
		}
		if u.Verified != c.verified {
			t.Errorf("%s: want verified %v, got %v", c.name, c.verified, u.Verified)
		}
	}
}

func TestUserDataNormalizeNil(t *testing.T) {
	var d *UserData
	if d.Normalize() != nil {
		t.Fatalf("nil user data must normalize to nil")
	}
}

func TestParseTime(t *testing.T) {
	cases := map[string]time.Time{
		"2025-02-01T10:00:00Z":   time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC),
		"2025-02-01T10:00:00.5Z": time.Date(2025, 2, 1, 10, 0, 0, 500000000, time.UTC),
		"2025-02-01T10:00:00":    time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC),
		"2024-12-31":             time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		"":                       {},
		"not-a-timestamp":        {},
		"31/12/2024 10:00":       {},
	}
	for in, want := range cases {
		if got := parseTime(in); !got.Equal(want) {
			t.Errorf("parseTime(%q): want %v, got %v", in, want, got)
		}
	}
}

func TestBotDataNormalize(t *testing.T) {
	cases := []struct {
		name string
		data string

		botName string
		symbol  string
		active  bool
		pnl     string
	}{
		{
			"current futures shape",
			`{"id": 1, "task_id": "t-1", "name": "alpha", "symbol": "BTCUSDT", "is_running": true, "profit_loss": "2.5"}`,
			"alpha", "BTCUSDT", true, "2.5",
		},
		{
			"legacy field spellings",
			`{"id": 2, "bot_name": "beta", "trading_pair": "ETHUSDT", "status": "Active", "profit": "-1.25"}`,
			"beta", "ETHUSDT", true, "-1.25",
		},
		{
			"pair variant and stopped status",
			`{"id": 3, "name": "gamma", "pair": "SOLUSDT", "status": "stopped"}`,
			"gamma", "SOLUSDT", false, "0",
		},
		{
			"is_running wins over status",
			`{"id": 4, "name": "delta", "symbol": "BTCUSDT", "is_running": false, "status": "running"}`,
			"delta", "BTCUSDT", false, "0",
		},
	}
	for _, c := range cases {
		var d BotData
		if err := json.Unmarshal([]byte(c.data), &d); err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		b := d.Normalize(BotTypeFutures)
		if b.Name != c.botName || b.Symbol != c.symbol {
			t.Errorf("%s: got %+v", c.name, b)
		}
		if b.Active != c.active {
			t.Errorf("%s: want active %v, got %v", c.name, c.active, b.Active)
		}
		if b.ProfitLoss.String() != c.pnl {
			t.Errorf("%s: want pnl %s, got %s", c.name, c.pnl, b.ProfitLoss)
		}
		if b.Type != BotTypeFutures {
			t.Errorf("%s: want futures type, got %q", c.name, b.Type)
		}
	}
}

func TestBotStatusRunning(t *testing.T) {
	f := false
	cases := []struct {
		resp BotStatusResponse
		want bool
	}{
		{BotStatusResponse{Status: "running"}, true},
		{BotStatusResponse{Status: "Active"}, true},
		{BotStatusResponse{Status: "stopped"}, false},
		{BotStatusResponse{IsRunning: &f, Status: "running"}, false},
		{BotStatusResponse{}, false},
	}
	for i, c := range cases {
		if got := c.resp.Running(); got != c.want {
			t.Errorf("case %d: want %v, got %v", i, c.want, got)
		}
	}
}

func TestMinInvestmentValue(t *testing.T) {
	var r MinInvestmentResponse
	if _, ok := r.Value(); ok {
		t.Fatalf("empty response must not report a quote")
	}
	if err := json.Unmarshal([]byte(`{"minimum": "125.5"}`), &r); err != nil {
		t.Fatal(err)
	}
	v, ok := r.Value()
	if !ok || v.String() != "125.5" {
		t.Fatalf("want 125.5 from the minimum variant, got %s (%v)", v, ok)
	}
	if err := json.Unmarshal([]byte(`{"min_investment": "200", "minimum": "125.5"}`), &r); err != nil {
		t.Fatal(err)
	}
	if v, _ := r.Value(); v.String() != "200" {
		t.Fatalf("min_investment wins over minimum; got %s", v)
	}
}
