// Copyright (c) 2025 BVK Chaitanya

package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/bvk/gridctl/backend"
	"github.com/bvk/gridctl/gobs"
	"github.com/bvk/gridctl/kvutil"
	"github.com/bvkgo/kv"
	"github.com/bvkgo/kv/kvmemdb"
)

func newTestStore(t *testing.T, handler http.Handler) (*Store, kv.Database, *backend.Options) {
	t.Helper()
	s := httptest.NewServer(handler)
	t.Cleanup(s.Close)

	u, err := url.Parse(s.URL)
	if err != nil {
		t.Fatal(err)
	}
	db := kvmemdb.New()
	opts := &backend.Options{BaseURL: u}
	return New(db, opts), db, opts
}

func storedSession(t *testing.T, db kv.Database) *gobs.Session {
	t.Helper()
	v, err := kvutil.GetDB[gobs.Session](context.Background(), db, sessionKey)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		t.Fatal(err)
	}
	return v
}

func TestInitWithoutSession(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t, http.NotFoundHandler())

	state, err := store.Init(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state != Anonymous {
		t.Fatalf("want Anonymous, got %v", state)
	}
}

func TestInitRestoresValidSession(t *testing.T) {
	ctx := context.Background()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/profile/" && r.Method == http.MethodGet {
			fmt.Fprint(w, `{"id": 1, "username": "alice", "email": "alice@example.com", "is_verified": true, "subscription": "pro"}`)
			return
		}
		http.NotFound(w, r)
	})
	store, db, _ := newTestStore(t, handler)

	stored := &gobs.Session{AccessToken: "access-1", RefreshToken: "refresh-1"}
	if err := kvutil.SetDB(ctx, db, sessionKey, stored); err != nil {
		t.Fatal(err)
	}

	state, err := store.Init(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state != Authenticated {
		t.Fatalf("want Authenticated, got %v", state)
	}
	user := store.User()
	if user == nil || user.Email != "alice@example.com" || user.Tier != "pro" {
		t.Fatalf("bad restored user: %+v", user)
	}
}

// The store is its own backend token source, so the profile fetch
// inside Init re-enters AccessToken. Init must finish anyway and the
// request must carry the stored token.
func TestInitReentersOwnTokenSource(t *testing.T) {
	ctx := context.Background()
	authCh := make(chan string, 1)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/profile/" {
			http.NotFound(w, r)
			return
		}
		select {
		case authCh <- r.Header.Get("Authorization"):
		default:
		}
		fmt.Fprint(w, `{"username": "alice", "email": "alice@example.com", "is_verified": true}`)
	})
	store, db, _ := newTestStore(t, handler)

	stored := &gobs.Session{AccessToken: "access-1", RefreshToken: "refresh-1"}
	if err := kvutil.SetDB(ctx, db, sessionKey, stored); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := store.Init(ctx)
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Init did not finish; the token source must be reachable while Init runs")
	}
	if auth := <-authCh; auth != "Bearer access-1" {
		t.Fatalf("want the stored token on the profile fetch, got %q", auth)
	}
	if store.State() != Authenticated {
		t.Fatalf("want Authenticated, got %v", store.State())
	}
}

func TestInitRefreshesRejectedToken(t *testing.T) {
	ctx := context.Background()
	profileCalls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/profile/" && r.Method == http.MethodGet:
			profileCalls++
			if r.Header.Get("Authorization") != "Bearer access-2" {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"detail": "Token is invalid or expired"}`)
				return
			}
			fmt.Fprint(w, `{"username": "alice", "email": "alice@example.com", "verified": true}`)
		case r.URL.Path == "/auth/token/refresh/" && r.Method == http.MethodPost:
			fmt.Fprint(w, `{"access": "access-2", "refresh": "refresh-2"}`)
		default:
			http.NotFound(w, r)
		}
	})
	store, db, _ := newTestStore(t, handler)

	stored := &gobs.Session{AccessToken: "stale-access", RefreshToken: "refresh-1"}
	if err := kvutil.SetDB(ctx, db, sessionKey, stored); err != nil {
		t.Fatal(err)
	}

	state, err := store.Init(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state != Authenticated {
		t.Fatalf("want Authenticated, got %v", state)
	}
	if profileCalls != 2 {
		t.Fatalf("want one rejected and one retried profile fetch, got %d", profileCalls)
	}
	if v := storedSession(t, db); v == nil || v.AccessToken != "access-2" {
		t.Fatalf("want the refreshed token persisted, got %+v", v)
	}
}

func TestInitClearsDeadSession(t *testing.T) {
	ctx := context.Background()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"detail": "Token is invalid or expired"}`)
	})
	store, db, _ := newTestStore(t, handler)

	stored := &gobs.Session{AccessToken: "stale-access", RefreshToken: "stale-refresh"}
	if err := kvutil.SetDB(ctx, db, sessionKey, stored); err != nil {
		t.Fatal(err)
	}

	state, err := store.Init(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state != Anonymous {
		t.Fatalf("want Anonymous, got %v", state)
	}
	if v := storedSession(t, db); v != nil {
		t.Fatalf("want the dead session cleared, got %+v", v)
	}
}

func TestSignupMovesToPendingVerification(t *testing.T) {
	ctx := context.Background()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/signup/" && r.Method == http.MethodPost {
			fmt.Fprint(w, `{"detail": "Verification code sent", "user": {"username": "bob", "email": "bob@example.com"}}`)
			return
		}
		http.NotFound(w, r)
	})
	store, db, opts := newTestStore(t, handler)

	if err := store.Signup(ctx, "bob", "bob@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}
	if store.State() != PendingVerification {
		t.Fatalf("want PendingVerification, got %v", store.State())
	}
	v := storedSession(t, db)
	if v == nil || v.User == nil || v.User.Verified {
		t.Fatalf("want a persisted unverified user, got %+v", v)
	}
	if len(v.AccessToken) != 0 {
		t.Fatalf("signup must not store a token, got %q", v.AccessToken)
	}

	// Restarting keeps the pending state without credentials.
	restarted := New(db, opts)
	state, err := restarted.Init(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state != PendingVerification {
		t.Fatalf("want PendingVerification after restart, got %v", state)
	}
}

func TestVerifyEmailWithoutToken(t *testing.T) {
	ctx := context.Background()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/signup/" && r.Method == http.MethodPost:
			fmt.Fprint(w, `{"user": {"username": "bob", "email": "bob@example.com"}}`)
		case r.URL.Path == "/auth/verify-email/" && r.Method == http.MethodPost:
			fmt.Fprint(w, `{"detail": "Email verified"}`)
		default:
			http.NotFound(w, r)
		}
	})
	store, _, _ := newTestStore(t, handler)

	if err := store.Signup(ctx, "bob", "bob@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}
	state, err := store.VerifyEmail(ctx, "bob@example.com", "123456")
	if !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("want ErrLoginRequired, got %v", err)
	}
	if state != PendingVerification {
		t.Fatalf("verification without a token is not a login; got %v", state)
	}
}

func TestVerifyEmailWithToken(t *testing.T) {
	ctx := context.Background()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/verify-email/" && r.Method == http.MethodPost {
			fmt.Fprint(w, `{"access": "access-1", "refresh": "refresh-1", "user": {"username": "bob", "email": "bob@example.com", "is_verified": true}}`)
			return
		}
		http.NotFound(w, r)
	})
	store, db, _ := newTestStore(t, handler)

	state, err := store.VerifyEmail(ctx, "bob@example.com", "123456")
	if err != nil {
		t.Fatal(err)
	}
	if state != Authenticated {
		t.Fatalf("want Authenticated, got %v", state)
	}
	v := storedSession(t, db)
	if v == nil || v.AccessToken != "access-1" || v.User == nil || !v.User.Verified {
		t.Fatalf("bad persisted session: %+v", v)
	}
}

func TestLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/login/" && r.Method == http.MethodPost:
			fmt.Fprint(w, `{"access": "access-1", "refresh": "refresh-1"}`)
		case r.URL.Path == "/profile/" && r.Method == http.MethodGet:
			fmt.Fprint(w, `{"username": "alice", "email": "alice@example.com", "is_verified": true, "subscription": "starter"}`)
		default:
			http.NotFound(w, r)
		}
	})
	store, db, _ := newTestStore(t, handler)

	state, err := store.Login(ctx, "alice@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if state != Authenticated {
		t.Fatalf("want Authenticated, got %v", state)
	}

	token, err := store.AccessToken(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if token != "access-1" {
		t.Fatalf("want access-1, got %q", token)
	}

	store.Logout(ctx)
	if store.State() != Anonymous {
		t.Fatalf("want Anonymous after logout, got %v", store.State())
	}
	if v := storedSession(t, db); v != nil {
		t.Fatalf("logout must clear persisted state, got %+v", v)
	}
	if _, err := store.AccessToken(ctx); err == nil {
		t.Fatalf("want an error for a token request without a session")
	}
}

func TestLoginUnverifiedDegrades(t *testing.T) {
	ctx := context.Background()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/login/" && r.Method == http.MethodPost:
			fmt.Fprint(w, `{"access": "access-1", "refresh": "refresh-1"}`)
		case r.URL.Path == "/profile/" && r.Method == http.MethodGet:
			fmt.Fprint(w, `{"username": "bob", "email": "bob@example.com", "is_verified": false}`)
		default:
			http.NotFound(w, r)
		}
	})
	store, _, _ := newTestStore(t, handler)

	state, err := store.Login(ctx, "bob@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if state != PendingVerification {
		t.Fatalf("want PendingVerification for an unverified profile, got %v", state)
	}
}
