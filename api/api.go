// Copyright (c) 2025 BVK Chaitanya

// Package api defines the wire types for the grid-trading platform
// backend and normalizes them into canonical forms.
//
// The backend has drifted over time and older deployments spell some
// fields differently (ex: "profit_loss" vs "profit"). All such variants
// are resolved here so that the rest of the program deals with exactly
// one shape.
package api

import (
	"encoding/json"
	"time"

	"github.com/bvk/gridctl/gobs"
)

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupResponse struct {
	Detail string    `json:"detail"`
	User   *UserData `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by login, verify-email and token-refresh
// endpoints. Refresh and User may be absent depending on the endpoint.
type TokenResponse struct {
	Access  string    `json:"access"`
	Refresh string    `json:"refresh"`
	User    *UserData `json:"user"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type ResendOTPRequest struct {
	Email string `json:"email"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirmRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type Detail struct {
	Detail string `json:"detail"`
}

// UserData is the backend user record. Older deployments report the
// subscription tier as "tier" and the verification flag as "verified".
type UserData struct {
	ID       json.Number `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`

	Subscription string `json:"subscription"`
	Tier         string `json:"tier"`

	IsVerified *bool `json:"is_verified"`
	Verified   *bool `json:"verified"`

	CreatedAt  string `json:"created_at"`
	DateJoined string `json:"date_joined"`
}

// Normalize maps a wire user record into the canonical form.
func (u *UserData) Normalize() *gobs.User {
	if u == nil {
		return nil
	}
	tier := u.Subscription
	if len(tier) == 0 {
		tier = u.Tier
	}
	if len(tier) == 0 {
		tier = "starter"
	}
	verified := false
	if u.IsVerified != nil {
		verified = *u.IsVerified
	} else if u.Verified != nil {
		verified = *u.Verified
	}
	created := u.CreatedAt
	if len(created) == 0 {
		created = u.DateJoined
	}
	return &gobs.User{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Tier:      tier,
		Verified:  verified,
		CreatedAt: parseTime(created),
	}
}

func parseTime(s string) time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if v, err := time.Parse(layout, s); err == nil {
			return v
		}
	}
	return time.Time{}
}
