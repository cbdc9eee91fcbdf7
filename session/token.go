// Copyright (c) 2025 BVK Chaitanya

package session

import (
	"time"

	"gopkg.in/square/go-jose.v2/jwt"
)

// expiresSoon reports whether the access token is a JWT whose expiry
// claim falls within the given window. Tokens that do not parse as
// JWTs are assumed valid; the backend remains the authority.
func expiresSoon(token string, window time.Duration) bool {
	parsed, err := jwt.ParseSigned(token)
	if err != nil {
		return false
	}
	claims := new(jwt.Claims)
	if err := parsed.UnsafeClaimsWithoutVerification(claims); err != nil {
		return false
	}
	if claims.Expiry == nil {
		return false
	}
	return time.Now().Add(window).After(claims.Expiry.Time())
}
