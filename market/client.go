// Copyright (c) 2025 BVK Chaitanya

// Package market implements a client for the public market-data API:
// last price, 24 hour statistics and candlestick series per symbol.
//
// Responses are cached in memory for a short freshness window keyed by
// the request shape. The key space is bounded by the symbols displayed
// concurrently, so there is no eviction beyond natural overwrite.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

type Ticker struct {
	Symbol string
	Price  decimal.Decimal
	At     time.Time
}

type Ticker24h struct {
	Symbol string

	LastPrice      decimal.Decimal
	PriceChangePct decimal.Decimal
	HighPrice      decimal.Decimal
	LowPrice       decimal.Decimal
	Volume         decimal.Decimal
	QuoteVolume    decimal.Decimal
}

type Candle struct {
	OpenTime  time.Time
	CloseTime time.Time

	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

type cacheEntry struct {
	value     any
	fetchedAt time.Time
}

type Client struct {
	opts Options

	client *http.Client

	limiter *rate.Limiter

	mu    sync.Mutex
	cache map[string]cacheEntry
}

func New(opts *Options) *Client {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	return &Client{
		opts:    *opts,
		client:  &http.Client{Timeout: opts.HTTPTimeout},
		limiter: rate.NewLimiter(10, 5),
		cache:   make(map[string]cacheEntry),
	}
}

func (c *Client) cached(key string, ttl time.Duration) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[key]
	if !ok || time.Since(e.fetchedAt) > ttl {
		return nil, false
	}
	return e.value, true
}

func (c *Client) store(key string, value any) {
	c.mu.Lock()
	c.cache[key] = cacheEntry{value: value, fetchedAt: time.Now()}
	c.mu.Unlock()
}

func (c *Client) getJSON(ctx context.Context, subpath string, query url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	addrURL := *c.opts.BaseURL
	addrURL.Path = path.Join(addrURL.Path, subpath)
	addrURL.RawQuery = query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addrURL.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("could not fetch %s: %w", subpath, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("market data request %s failed with status %d: %s", subpath, resp.StatusCode, data)
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("could not json-decode %s response: %w", subpath, err)
	}
	return nil
}

// Price returns the last traded price for the symbol.
func (c *Client) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	key := "price/" + symbol
	if v, ok := c.cached(key, c.opts.PriceTTL); ok {
		return v.(decimal.Decimal), nil
	}
	var resp struct {
		Symbol string          `json:"symbol"`
		Price  decimal.Decimal `json:"price"`
	}
	query := url.Values{"symbol": []string{symbol}}
	if err := c.getJSON(ctx, "ticker/price", query, &resp); err != nil {
		return decimal.Zero, err
	}
	c.store(key, resp.Price)
	return resp.Price, nil
}

// BestEffortPrice is the fail-soft variant used by display paths.
// Returns false with a logged warning instead of an error.
func (c *Client) BestEffortPrice(ctx context.Context, symbol string) (decimal.Decimal, bool) {
	p, err := c.Price(ctx, symbol)
	if err != nil {
		slog.Warn("could not fetch price", "symbol", symbol, "err", err)
		return decimal.Zero, false
	}
	return p, true
}

// Ticker24h returns the rolling 24 hour statistics for the symbol.
func (c *Client) Ticker24h(ctx context.Context, symbol string) (*Ticker24h, error) {
	key := "ticker24h/" + symbol
	if v, ok := c.cached(key, c.opts.PriceTTL); ok {
		return v.(*Ticker24h), nil
	}
	var resp struct {
		Symbol         string          `json:"symbol"`
		LastPrice      decimal.Decimal `json:"lastPrice"`
		PriceChangePct decimal.Decimal `json:"priceChangePercent"`
		HighPrice      decimal.Decimal `json:"highPrice"`
		LowPrice       decimal.Decimal `json:"lowPrice"`
		Volume         decimal.Decimal `json:"volume"`
		QuoteVolume    decimal.Decimal `json:"quoteVolume"`
	}
	query := url.Values{"symbol": []string{symbol}}
	if err := c.getJSON(ctx, "ticker/24hr", query, &resp); err != nil {
		return nil, err
	}
	t := &Ticker24h{
		Symbol:         resp.Symbol,
		LastPrice:      resp.LastPrice,
		PriceChangePct: resp.PriceChangePct,
		HighPrice:      resp.HighPrice,
		LowPrice:       resp.LowPrice,
		Volume:         resp.Volume,
		QuoteVolume:    resp.QuoteVolume,
	}
	c.store(key, t)
	return t, nil
}

// Candles returns up to limit candles of the given interval (ex: "1h")
// in chronological order.
func (c *Client) Candles(ctx context.Context, symbol, interval string, limit int) ([]*Candle, error) {
	if limit <= 0 {
		limit = 100
	}
	key := fmt.Sprintf("klines/%s/%s/%d", symbol, interval, limit)
	if v, ok := c.cached(key, c.opts.CandlesTTL); ok {
		return v.([]*Candle), nil
	}

	// Kline rows are heterogeneous arrays: open time in epoch
	// milliseconds followed by textual price/volume fields.
	var rows [][]json.RawMessage
	query := url.Values{
		"symbol":   []string{symbol},
		"interval": []string{interval},
		"limit":    []string{strconv.Itoa(limit)},
	}
	if err := c.getJSON(ctx, "klines", query, &rows); err != nil {
		return nil, err
	}

	var candles []*Candle
	for i, row := range rows {
		candle, err := parseCandleRow(row)
		if err != nil {
			return nil, fmt.Errorf("could not parse candle row %d: %w", i, err)
		}
		candles = append(candles, candle)
	}
	c.store(key, candles)
	return candles, nil
}

// BestEffortCandles is the fail-soft variant used by display paths.
func (c *Client) BestEffortCandles(ctx context.Context, symbol, interval string, limit int) []*Candle {
	candles, err := c.Candles(ctx, symbol, interval, limit)
	if err != nil {
		slog.Warn("could not fetch candles", "symbol", symbol, "interval", interval, "err", err)
		return nil
	}
	return candles
}

func parseCandleRow(row []json.RawMessage) (*Candle, error) {
	if len(row) < 7 {
		return nil, fmt.Errorf("unexpected row length %d", len(row))
	}
	var openMillis, closeMillis int64
	if err := json.Unmarshal(row[0], &openMillis); err != nil {
		return nil, fmt.Errorf("open time: %w", err)
	}
	if err := json.Unmarshal(row[6], &closeMillis); err != nil {
		return nil, fmt.Errorf("close time: %w", err)
	}
	candle := &Candle{
		OpenTime:  time.UnixMilli(openMillis).UTC(),
		CloseTime: time.UnixMilli(closeMillis).UTC(),
	}
	fields := []*decimal.Decimal{&candle.Open, &candle.High, &candle.Low, &candle.Close, &candle.Volume}
	for i, field := range fields {
		var s string
		if err := json.Unmarshal(row[i+1], &s); err != nil {
			return nil, fmt.Errorf("field %d: %w", i+1, err)
		}
		v, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i+1, err)
		}
		*field = v
	}
	return candle, nil
}
