// Copyright (c) 2025 BVK Chaitanya

package market

import (
	"net/url"
	"time"
)

type Options struct {
	// BaseURL points at the public market-data REST API.
	BaseURL *url.URL

	// WebsocketHostname is the host for the live ticker stream.
	WebsocketHostname string

	HTTPTimeout time.Duration

	// PriceTTL and CandlesTTL bound how long cached responses are
	// served without refetching. The public API is rate-sensitive;
	// these windows keep repeated display refreshes cheap.
	PriceTTL   time.Duration
	CandlesTTL time.Duration
}

func (v *Options) setDefaults() {
	if v.BaseURL == nil {
		v.BaseURL = &url.URL{
			Scheme: "https",
			Host:   "api.binance.com",
			Path:   "/api/v3",
		}
	}
	if len(v.WebsocketHostname) == 0 {
		v.WebsocketHostname = "stream.binance.com:9443"
	}
	if v.HTTPTimeout == 0 {
		v.HTTPTimeout = 10 * time.Second
	}
	if v.PriceTTL == 0 {
		v.PriceTTL = 10 * time.Second
	}
	if v.CandlesTTL == 0 {
		v.CandlesTTL = 30 * time.Second
	}
}
