// Copyright (c) 2025 BVK Chaitanya

// Package backend implements the REST client for the grid-trading
// platform backend. One method per endpoint; each method performs
// exactly one HTTP call and returns the decoded response or a
// classified *apierr.Error.
//
// Authorization failures are returned to the caller like any other
// error; the session package owns the clear-and-relogin policy.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/bvk/gridctl/api"
	"github.com/bvk/gridctl/apierr"
)

// TokenSource supplies the bearer token for authenticated endpoints.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

type Client struct {
	opts Options

	client *http.Client

	tokens TokenSource
}

// New creates a backend client. The token source may be nil, in which
// case only unauthenticated endpoints can be used.
func New(tokens TokenSource, opts *Options) *Client {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	return &Client{
		opts:   *opts,
		client: &http.Client{Timeout: opts.HTTPTimeout},
		tokens: tokens,
	}
}

func (c *Client) do(ctx context.Context, method, subpath string, payload, result any, authed bool) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("could not json-encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	addrURL := *c.opts.BaseURL
	addrURL.Path = path.Join(addrURL.Path, subpath) + "/"
	req, err := http.NewRequestWithContext(ctx, method, addrURL.String(), body)
	if err != nil {
		return fmt.Errorf("could not create %s request: %w", method, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if c.tokens == nil {
			return fmt.Errorf("no token source configured: %w", apierr.FromResponse(http.StatusUnauthorized, nil))
		}
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("could not perform %s %s: %w", method, subpath, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apierr.FromResponse(resp.StatusCode, data)
	}
	if result != nil && len(data) != 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("could not json-decode response: %w", err)
		}
	}
	return nil
}

func post[RESP, REQ any](ctx context.Context, c *Client, subpath string, req *REQ, authed bool) (*RESP, error) {
	resp := new(RESP)
	if err := c.do(ctx, http.MethodPost, subpath, req, resp, authed); err != nil {
		return nil, err
	}
	return resp, nil
}

func get[RESP any](ctx context.Context, c *Client, subpath string, authed bool) (*RESP, error) {
	resp := new(RESP)
	if err := c.do(ctx, http.MethodGet, subpath, nil, resp, authed); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Signup(ctx context.Context, req *api.SignupRequest) (*api.SignupResponse, error) {
	return post[api.SignupResponse](ctx, c, "auth/signup", req, false)
}

func (c *Client) Login(ctx context.Context, req *api.LoginRequest) (*api.TokenResponse, error) {
	return post[api.TokenResponse](ctx, c, "auth/login", req, false)
}

func (c *Client) VerifyEmail(ctx context.Context, req *api.VerifyEmailRequest) (*api.TokenResponse, error) {
	return post[api.TokenResponse](ctx, c, "auth/verify-email", req, false)
}

func (c *Client) ResendOTP(ctx context.Context, req *api.ResendOTPRequest) (*api.Detail, error) {
	return post[api.Detail](ctx, c, "auth/resend-otp", req, false)
}

func (c *Client) RequestPasswordReset(ctx context.Context, req *api.PasswordResetRequest) (*api.Detail, error) {
	return post[api.Detail](ctx, c, "auth/password-reset", req, false)
}

func (c *Client) ConfirmPasswordReset(ctx context.Context, req *api.PasswordResetConfirmRequest) (*api.Detail, error) {
	return post[api.Detail](ctx, c, "auth/password-reset/confirm", req, false)
}

func (c *Client) RefreshToken(ctx context.Context, req *api.RefreshRequest) (*api.TokenResponse, error) {
	return post[api.TokenResponse](ctx, c, "auth/token/refresh", req, false)
}

func (c *Client) GetProfile(ctx context.Context) (*api.UserData, error) {
	return get[api.UserData](ctx, c, "profile", true)
}

func (c *Client) ListFuturesBots(ctx context.Context) (*api.BotListResponse, error) {
	return get[api.BotListResponse](ctx, c, "bots/futures", true)
}

func (c *Client) ListSpotBots(ctx context.Context) (*api.BotListResponse, error) {
	return get[api.BotListResponse](ctx, c, "bots/spot", true)
}

func (c *Client) CreateFuturesBot(ctx context.Context, req *api.CreateBotRequest) (*api.CreateBotResponse, error) {
	return post[api.CreateBotResponse](ctx, c, "bots/futures", req, true)
}

func (c *Client) CreateSpotBot(ctx context.Context, req *api.CreateBotRequest) (*api.CreateBotResponse, error) {
	return post[api.CreateBotResponse](ctx, c, "bots/spot", req, true)
}

func (c *Client) StopFuturesBot(ctx context.Context, id string) (*api.Detail, error) {
	return post[api.Detail](ctx, c, path.Join("bots/futures", id, "stop"), &struct{}{}, true)
}

func (c *Client) StopSpotBot(ctx context.Context, id string) (*api.Detail, error) {
	return post[api.Detail](ctx, c, path.Join("bots/spot", id, "stop"), &struct{}{}, true)
}

func (c *Client) DeleteFuturesBot(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, path.Join("bots/futures", id), nil, nil, true)
}

func (c *Client) DeleteSpotBot(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, path.Join("bots/spot", id), nil, nil, true)
}

func (c *Client) GetBotStatus(ctx context.Context, botType, id string) (*api.BotStatusResponse, error) {
	return get[api.BotStatusResponse](ctx, c, path.Join("bots", botType, id, "status"), true)
}

func (c *Client) MinInvestment(ctx context.Context, req *api.MinInvestmentRequest) (*api.MinInvestmentResponse, error) {
	return post[api.MinInvestmentResponse](ctx, c, "bots/min-investment", req, true)
}

// defaultExchanges is the degraded exchange listing used when the
// backend endpoint is unavailable.
var defaultExchanges = []string{"binance", "bybit", "okx", "kucoin", "gate", "mexc"}

// ListExchanges returns the supported exchanges. Falls back to a
// built-in list when the endpoint fails, so that bot-creation flows
// remain usable during partial outages.
func (c *Client) ListExchanges(ctx context.Context) (*api.ExchangeListResponse, error) {
	resp, err := get[api.ExchangeListResponse](ctx, c, "exchanges", true)
	if err != nil {
		slog.Warn("could not list exchanges; using the built-in list", "err", err)
		fallback := &api.ExchangeListResponse{}
		for _, name := range defaultExchanges {
			fallback.Exchanges = append(fallback.Exchanges, &api.ExchangeData{Name: name})
		}
		return fallback, nil
	}
	return resp, nil
}

// ConnectedExchanges returns exchanges with stored credentials. Errors
// are returned as-is; callers fall back to locally persisted overrides.
func (c *Client) ConnectedExchanges(ctx context.Context) (*api.ExchangeListResponse, error) {
	return get[api.ExchangeListResponse](ctx, c, "exchanges/connected", true)
}

// ConnectExchange stores exchange credentials server-side through the
// dedicated endpoint. There is no client-side probe fallback; if the
// deployment lacks this endpoint the error is reported to the user.
func (c *Client) ConnectExchange(ctx context.Context, req *api.ConnectExchangeRequest) (*api.ConnectExchangeResponse, error) {
	return post[api.ConnectExchangeResponse](ctx, c, "exchanges/connect", req, true)
}

func (c *Client) ListPlans(ctx context.Context) (*api.PlanListResponse, error) {
	return get[api.PlanListResponse](ctx, c, "subscriptions/plans", false)
}

func (c *Client) SelectPlan(ctx context.Context, req *api.SelectPlanRequest) (*api.SelectPlanResponse, error) {
	return post[api.SelectPlanResponse](ctx, c, "subscriptions/select", req, true)
}
