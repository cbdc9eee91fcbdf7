// Copyright (c) 2025 BVK Chaitanya

// Package db implements direct access to the local database for
// inspection and repair.
package db

import (
	"fmt"
	"os"

	"github.com/bvk/gridctl/gobs"
)

// TypeNameValue returns a zero value for well-known gob type names used
// in the database.
func TypeNameValue(name string) (any, error) {
	switch name {
	case "Session":
		return new(gobs.Session), nil
	case "User":
		return new(gobs.User), nil
	case "BotConfig":
		return new(gobs.BotConfig), nil
	case "HiddenBot":
		return new(gobs.HiddenBot), nil
	case "ExchangeOverride":
		return new(gobs.ExchangeOverride), nil
	case "FavoritePairs":
		return new(gobs.FavoritePairs), nil
	case "SchemaVersion":
		return new(gobs.SchemaVersion), nil
	}
	return nil, fmt.Errorf("unsupported type name %q: %w", name, os.ErrInvalid)
}
