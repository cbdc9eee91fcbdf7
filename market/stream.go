// Copyright (c) 2025 BVK Chaitanya

package market

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bvk/gridctl/ctxutil"
	"github.com/bvkgo/topic"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

// Stream delivers live ticker updates for a fixed set of symbols over
// the public websocket feed. Updates fan out to subscribers through a
// topic; the connection is redialed with a small backoff on failure.
type Stream struct {
	cg ctxutil.CloseGroup

	opts Options

	symbols []string

	topic *topic.Topic[*Ticker]

	nextMsgID atomic.Int64
}

// NewStream starts the live ticker stream for the given symbols.
func NewStream(symbols []string, opts *Options) (*Stream, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("symbols list cannot be empty")
	}
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()

	s := &Stream{
		opts:    *opts,
		symbols: symbols,
		topic:   topic.New[*Ticker](),
	}
	s.cg.Go(s.goReadFeed)
	return s, nil
}

func (s *Stream) Close() {
	s.cg.Close()
	s.topic.Close()
}

// Subscribe returns a channel of ticker updates. Callers must call the
// returned unsubscribe function when done.
func (s *Stream) Subscribe() (<-chan *Ticker, func(), error) {
	r, ch, err := s.topic.Subscribe(1, true /* includeRecent */)
	if err != nil {
		return nil, nil, err
	}
	return ch, r.Unsubscribe, nil
}

func (s *Stream) goReadFeed(ctx context.Context) {
	for ctx.Err() == nil {
		if err := s.readFeed(ctx); err != nil && ctx.Err() == nil {
			slog.Warn("ticker feed has failed (will redial)", "err", err)
		}
		ctxutil.Sleep(ctx, time.Second)
	}
}

type streamMessage struct {
	Event  string `json:"e"`
	Symbol string `json:"s"`
	Close  string `json:"c"`
	Time   int64  `json:"E"`
}

func (s *Stream) readFeed(ctx context.Context) error {
	var dialer websocket.Dialer
	conn, _, err := dialer.DialContext(ctx, "wss://"+s.opts.WebsocketHostname+"/ws", nil)
	if err != nil {
		return fmt.Errorf("could not dial websocket feed: %w", err)
	}
	defer conn.Close()

	var params []string
	for _, symbol := range s.symbols {
		params = append(params, strings.ToLower(symbol)+"@miniTicker")
	}
	sub := map[string]any{
		"method": "SUBSCRIBE",
		"params": params,
		"id":     s.nextMsgID.Add(1),
	}
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("could not subscribe to ticker channels: %w", err)
	}

	// Close the connection when the context is canceled so that the
	// blocking ReadMessage below returns.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("could not read from ticker feed: %w", err)
		}
		var msg streamMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("unparsable ticker feed message is ignored", "err", err)
			continue
		}
		if msg.Event != "24hrMiniTicker" || len(msg.Close) == 0 {
			continue
		}
		price, err := decimal.NewFromString(msg.Close)
		if err != nil {
			slog.Warn("unparsable ticker price is ignored", "symbol", msg.Symbol, "err", err)
			continue
		}
		s.topic.SendCh() <- &Ticker{
			Symbol: msg.Symbol,
			Price:  price,
			At:     time.UnixMilli(msg.Time).UTC(),
		}
	}
}
