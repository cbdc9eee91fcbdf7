// Copyright (c) 2025 BVK Chaitanya

// Package session implements the authentication state machine and owns
// all session persistence.
//
// The store is in exactly one of three states:
//
//	Anonymous           -- no usable credentials
//	PendingVerification -- signed up, email OTP not confirmed yet
//	Authenticated       -- valid access token and verified profile
//
// Every transition is persisted before it is observable, so concurrent
// commands cannot see a half-applied session. The store is its own
// backend TokenSource, which means authed requests issued by the store
// re-enter AccessToken; the mutex is never held across such requests.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/bvk/gridctl/api"
	"github.com/bvk/gridctl/apierr"
	"github.com/bvk/gridctl/backend"
	"github.com/bvk/gridctl/gobs"
	"github.com/bvk/gridctl/kvutil"
	"github.com/bvkgo/kv"
)

type State string

const (
	Anonymous           State = "ANONYMOUS"
	PendingVerification State = "PENDING_VERIFICATION"
	Authenticated       State = "AUTHENTICATED"
)

const sessionKey = "/session/current"

// ErrLoginRequired reports that the email was verified, but the
// backend issued no session token, so an explicit login must follow.
var ErrLoginRequired = errors.New("email is verified; please log in to continue")

type Store struct {
	db kv.Database

	client *backend.Client

	mu sync.Mutex

	state State

	session *gobs.Session
}

// New creates a session store backed by the given database. The store
// constructs its own backend client with itself as the token source.
func New(db kv.Database, opts *backend.Options) *Store {
	s := &Store{
		db:      db,
		state:   Anonymous,
		session: &gobs.Session{},
	}
	s.client = backend.New(s, opts)
	return s
}

// Client returns the backend client sharing this store's tokens.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) User() *gobs.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.User == nil {
		return nil
	}
	u := *s.session.User
	return &u
}

func (s *Store) save(ctx context.Context) error {
	s.session.UpdatedAt = time.Now()
	return kvutil.SetDB(ctx, s.db, sessionKey, s.session)
}

func (s *Store) clear(ctx context.Context) {
	s.session = &gobs.Session{}
	s.state = Anonymous
	if err := kvutil.DeleteDB(ctx, s.db, sessionKey); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not clear persisted session", "err", err)
	}
}

// Init restores the session from the database and validates it against
// the backend. A rejected access token is retried once through the
// refresh token before the session is discarded.
func (s *Store) Init(ctx context.Context) (State, error) {
	s.mu.Lock()
	stored, err := kvutil.GetDB[gobs.Session](ctx, s.db, sessionKey)
	if err != nil {
		defer s.mu.Unlock()
		if !errors.Is(err, os.ErrNotExist) {
			return Anonymous, fmt.Errorf("could not load persisted session: %w", err)
		}
		s.state = Anonymous
		return s.state, nil
	}
	s.session = stored

	if len(s.session.AccessToken) == 0 {
		defer s.mu.Unlock()
		if s.session.User != nil && !s.session.User.Verified {
			s.state = PendingVerification
			return s.state, nil
		}
		s.clear(ctx)
		return s.state, nil
	}
	s.mu.Unlock()

	// GetProfile reads the bearer token back through AccessToken, so
	// the lock must be free here.
	profile, err := s.client.GetProfile(ctx)
	if err != nil {
		if err := s.refresh(ctx); err != nil {
			slog.Info("stored session could not be validated or refreshed", "err", err)
			return s.reset(ctx), nil
		}
		if profile, err = s.client.GetProfile(ctx); err != nil {
			return s.reset(ctx), nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.User = profile.Normalize()
	if err := s.save(ctx); err != nil {
		return Anonymous, err
	}
	if !s.session.User.Verified {
		s.state = PendingVerification
	} else {
		s.state = Authenticated
	}
	return s.state, nil
}

// Signup registers a new account. On success the store moves to
// PendingVerification with a provisional unverified user record and no
// session token.
func (s *Store) Signup(ctx context.Context, username, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.client.Signup(ctx, &api.SignupRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}

	user := resp.User.Normalize()
	if user == nil {
		user = &gobs.User{Username: username, Email: email, Tier: "starter"}
	}
	user.Verified = false

	s.session = &gobs.Session{User: user}
	s.state = PendingVerification
	return s.save(ctx)
}

// VerifyEmail confirms the email OTP. Verification counts as a login
// only when the backend returns a session token; without one the user
// is told to log in explicitly.
func (s *Store) VerifyEmail(ctx context.Context, email, code string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.client.VerifyEmail(ctx, &api.VerifyEmailRequest{Email: email, Code: code})
	if err != nil {
		return s.state, err
	}

	if s.session.User != nil {
		s.session.User.Verified = true
	}
	if user := resp.User.Normalize(); user != nil {
		user.Verified = true
		s.session.User = user
	}

	if len(resp.Access) == 0 {
		// Verified but not authenticated.
		s.state = PendingVerification
		if err := s.save(ctx); err != nil {
			return s.state, err
		}
		return s.state, ErrLoginRequired
	}

	s.session.AccessToken = resp.Access
	s.session.RefreshToken = resp.Refresh
	s.state = Authenticated
	return s.state, s.save(ctx)
}

func (s *Store) ResendOTP(ctx context.Context, email string) error {
	_, err := s.client.ResendOTP(ctx, &api.ResendOTPRequest{Email: email})
	return err
}

// Login authenticates and fetches the profile immediately. An
// unverified profile degrades the state to PendingVerification even
// though a token was issued.
func (s *Store) Login(ctx context.Context, email, password string) (State, error) {
	resp, err := s.client.Login(ctx, &api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return s.State(), err
	}
	if len(resp.Access) == 0 {
		return s.State(), fmt.Errorf("login response carries no access token")
	}
	s.mu.Lock()
	s.session = &gobs.Session{
		AccessToken:  resp.Access,
		RefreshToken: resp.Refresh,
		User:         resp.User.Normalize(),
	}
	s.mu.Unlock()

	// Same re-entry rule as Init: no lock across the profile fetch.
	profile, err := s.client.GetProfile(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		slog.Warn("could not fetch profile after login", "err", err)
	} else {
		s.session.User = profile.Normalize()
	}

	if s.session.User != nil && !s.session.User.Verified {
		s.state = PendingVerification
	} else {
		s.state = Authenticated
	}
	return s.state, s.save(ctx)
}

// Logout clears all persisted session and user data unconditionally.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear(ctx)
}

func (s *Store) RequestPasswordReset(ctx context.Context, email string) error {
	_, err := s.client.RequestPasswordReset(ctx, &api.PasswordResetRequest{Email: email})
	return err
}

func (s *Store) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	_, err := s.client.ConfirmPasswordReset(ctx, &api.PasswordResetConfirmRequest{
		Email:       email,
		Code:        code,
		NewPassword: newPassword,
	})
	return err
}

// reset clears the session and reports the resulting state.
func (s *Store) reset(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear(ctx)
	return s.state
}

func (s *Store) refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Store) refreshLocked(ctx context.Context) error {
	if len(s.session.RefreshToken) == 0 {
		return fmt.Errorf("no refresh token: %w", os.ErrNotExist)
	}
	resp, err := s.client.RefreshToken(ctx, &api.RefreshRequest{Refresh: s.session.RefreshToken})
	if err != nil {
		return err
	}
	if len(resp.Access) == 0 {
		return fmt.Errorf("refresh response carries no access token")
	}
	s.session.AccessToken = resp.Access
	if len(resp.Refresh) != 0 {
		s.session.RefreshToken = resp.Refresh
	}
	return s.save(ctx)
}

// AccessToken implements backend.TokenSource. The token is refreshed
// proactively when its JWT expiry claim is in the past or imminent.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.session.AccessToken) == 0 {
		return "", apierr.FromResponse(401, nil)
	}
	if expiresSoon(s.session.AccessToken, 30*time.Second) && len(s.session.RefreshToken) != 0 {
		if err := s.refreshLocked(ctx); err != nil {
			slog.Warn("could not refresh expiring access token", "err", err)
		}
	}
	return s.session.AccessToken, nil
}
