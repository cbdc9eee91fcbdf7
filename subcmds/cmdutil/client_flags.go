// Copyright (c) 2025 BVK Chaitanya

package cmdutil

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/bvk/gridctl/backend"
	"github.com/bvk/gridctl/market"
)

type ClientFlags struct {
	apiURL      string
	httpTimeout time.Duration
}

func (cf *ClientFlags) SetFlags(fset *flag.FlagSet) {
	fset.StringVar(&cf.apiURL, "api-url", "", "Base URL for the backend api endpoint (default=GRIDCTL_API_URL value)")
	fset.DurationVar(&cf.httpTimeout, "http-timeout", 30*time.Second, "http client timeout")
}

// APIURL resolves the backend base URL: the flag wins over the
// GRIDCTL_API_URL environment variable, which wins over the secrets
// file. An empty result means the built-in default applies.
func (cf *ClientFlags) APIURL() string {
	if len(cf.apiURL) != 0 {
		return cf.apiURL
	}
	if v := os.Getenv("GRIDCTL_API_URL"); len(v) != 0 {
		return v
	}
	return ""
}

func (cf *ClientFlags) BackendOptions(secrets *Secrets) (*backend.Options, error) {
	baseURL := cf.APIURL()
	if len(baseURL) == 0 && secrets != nil {
		baseURL = secrets.APIURL
	}
	opts := &backend.Options{
		HTTPTimeout: cf.httpTimeout,
	}
	if len(baseURL) != 0 {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("could not parse api url %q: %w", baseURL, err)
		}
		opts.BaseURL = u
	}
	return opts, nil
}

type MarketFlags struct {
	marketURL string
}

func (mf *MarketFlags) SetFlags(fset *flag.FlagSet) {
	fset.StringVar(&mf.marketURL, "market-url", "", "Base URL for the public market data endpoint")
}

func (mf *MarketFlags) MarketOptions() (*market.Options, error) {
	opts := new(market.Options)
	if len(mf.marketURL) != 0 {
		u, err := url.Parse(mf.marketURL)
		if err != nil {
			return nil, fmt.Errorf("could not parse market url %q: %w", mf.marketURL, err)
		}
		opts.BaseURL = u
	}
	return opts, nil
}
