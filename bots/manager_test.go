// Copyright (c) 2025 BVK Chaitanya

package bots

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bvk/gridctl/backend"
	"github.com/bvk/gridctl/registry"
	"github.com/bvkgo/kv/kvmemdb"
)

type staticTokens struct{}

func (staticTokens) AccessToken(ctx context.Context) (string, error) {
	return "test-token", nil
}

func newTestManager(t *testing.T, handler http.Handler) *Manager {
	t.Helper()
	s := httptest.NewServer(handler)
	t.Cleanup(s.Close)

	u, err := url.Parse(s.URL)
	if err != nil {
		t.Fatal(err)
	}
	client := backend.New(staticTokens{}, &backend.Options{BaseURL: u})

	reg, err := registry.Open(context.Background(), kvmemdb.New())
	if err != nil {
		t.Fatal(err)
	}

	opts := &Options{StopPollCount: 1, StopPollInterval: time.Millisecond}
	return NewManager(client, reg, nil, nil, opts)
}

func TestStopLock(t *testing.T) {
	ctx := context.Background()

	var stopCalls int32
	var once sync.Once
	stopStarted := make(chan struct{})
	stopRelease := make(chan struct{})

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/bots/futures/" && r.Method == http.MethodGet:
			fmt.Fprint(w, `{"futures": [{"id": 1, "name": "alpha", "symbol": "BTCUSDT", "is_running": true}]}`)
		case r.URL.Path == "/bots/spot/" && r.Method == http.MethodGet:
			fmt.Fprint(w, `{"spot": []}`)
		case r.URL.Path == "/bots/futures/1/stop/" && r.Method == http.MethodPost:
			atomic.AddInt32(&stopCalls, 1)
			once.Do(func() { close(stopStarted) })
			<-stopRelease
			fmt.Fprint(w, `{"detail": "stopping"}`)
		case r.URL.Path == "/bots/futures/1/status/" && r.Method == http.MethodGet:
			fmt.Fprint(w, `{"is_running": false}`)
		default:
			http.NotFound(w, r)
		}
	})
	m := newTestManager(t, handler)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- m.Stop(ctx, "1")
	}()

	<-stopStarted
	if err := m.Stop(ctx, "1"); !errors.Is(err, ErrStopPending) {
		t.Fatalf("want ErrStopPending, got %v", err)
	}

	close(stopRelease)
	if err := <-firstDone; err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&stopCalls); n != 1 {
		t.Fatalf("want one outbound stop call, got %d", n)
	}

	// The lock is released after the first stop completes.
	if err := m.Stop(ctx, "1"); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteHidesTasklessSpotBot(t *testing.T) {
	ctx := context.Background()

	var deleteCalls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/bots/futures/" && r.Method == http.MethodGet:
			fmt.Fprint(w, `{"futures": []}`)
		case r.URL.Path == "/bots/spot/" && r.Method == http.MethodGet:
			fmt.Fprint(w, `{"spot": [{"id": 7, "name": "beta", "pair": "ETHUSDT", "status": "stopped"}]}`)
		case r.URL.Path == "/bots/spot/7/stop/" && r.Method == http.MethodPost:
			fmt.Fprint(w, `{"detail": "already stopped"}`)
		case r.Method == http.MethodDelete:
			atomic.AddInt32(&deleteCalls, 1)
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	})
	m := newTestManager(t, handler)

	if err := m.Delete(ctx, "7"); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&deleteCalls); n != 0 {
		t.Fatalf("taskless spot bots have no delete endpoint; got %d delete calls", n)
	}

	hidden, err := m.registry.Hidden(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !hidden["7"] {
		t.Fatalf("want bot 7 hidden locally, got %v", hidden)
	}

	// Hidden bots disappear from List but stay reachable through Get.
	bots, err := m.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(bots) != 0 {
		t.Fatalf("want no visible bots, got %d", len(bots))
	}
	if _, err := m.Get(ctx, "7"); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteSpotBotByTaskID(t *testing.T) {
	ctx := context.Background()

	deletePath := make(chan string, 1)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/bots/futures/" && r.Method == http.MethodGet:
			fmt.Fprint(w, `{"futures": []}`)
		case r.URL.Path == "/bots/spot/" && r.Method == http.MethodGet:
			fmt.Fprint(w, `{"spot": [{"id": 7, "task_id": "task-9", "name": "beta", "pair": "ETHUSDT", "status": "stopped"}]}`)
		case r.URL.Path == "/bots/spot/7/stop/" && r.Method == http.MethodPost:
			fmt.Fprint(w, `{"detail": "already stopped"}`)
		case r.Method == http.MethodDelete:
			select {
			case deletePath <- r.URL.Path:
			default:
			}
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	})
	m := newTestManager(t, handler)

	if err := m.Delete(ctx, "7"); err != nil {
		t.Fatal(err)
	}
	select {
	case path := <-deletePath:
		if path != "/bots/spot/task-9/" {
			t.Fatalf("spot delete must be keyed by the task id; got %q", path)
		}
	default:
		t.Fatalf("want one outbound delete call")
	}
}

func TestListMergesAndSorts(t *testing.T) {
	ctx := context.Background()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/bots/futures/" && r.Method == http.MethodGet:
			fmt.Fprint(w, `{"futures": [{"id": 1, "bot_name": "fut", "trading_pair": "BTCUSDT", "status": "stopped", "profit": "1.5"}]}`)
		case r.URL.Path == "/bots/spot/" && r.Method == http.MethodGet:
			fmt.Fprint(w, `{"bots": [{"id": 2, "name": "spo", "symbol": "ETHUSDT", "is_running": true, "profit_loss": "-0.5"}]}`)
		default:
			http.NotFound(w, r)
		}
	})
	m := newTestManager(t, handler)

	bots, err := m.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(bots) != 2 {
		t.Fatalf("want two bots, got %d", len(bots))
	}
	// Active bots sort first.
	if bots[0].ID != "2" || !bots[0].Active {
		t.Fatalf("want the running spot bot first, got %+v", bots[0])
	}
	if bots[0].Name != "spo" || bots[0].Symbol != "ETHUSDT" {
		t.Fatalf("bad normalization: %+v", bots[0])
	}
	if bots[1].Name != "fut" || bots[1].Symbol != "BTCUSDT" || bots[1].Active {
		t.Fatalf("bad normalization: %+v", bots[1])
	}
	if bots[1].ProfitLoss.String() != "1.5" {
		t.Fatalf("want pnl 1.5 from the profit variant, got %s", bots[1].ProfitLoss)
	}
}
