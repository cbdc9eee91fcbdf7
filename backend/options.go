// Copyright (c) 2025 BVK Chaitanya

package backend

import (
	"net/url"
	"time"
)

type Options struct {
	// BaseURL points at the platform backend, including any path
	// prefix (ex: https://api.example.com/api).
	BaseURL *url.URL

	HTTPTimeout time.Duration
}

func (v *Options) setDefaults() {
	if v.BaseURL == nil {
		v.BaseURL = &url.URL{
			Scheme: "https",
			Host:   "api.gridbase.app",
			Path:   "/api",
		}
	}
	if v.HTTPTimeout == 0 {
		v.HTTPTimeout = 30 * time.Second
	}
}
