// Copyright (c) 2025 BVK Chaitanya

// Package gobs holds gob-encoded types persisted in the local database.
//
// Types in this package must stay backward compatible. Fields can be
// added, but never removed or renamed. The SchemaVersion record guards
// against a newer layout being opened by an older binary.
package gobs

import "time"

// SchemaVersion is stored at a fixed key and checked on every database
// open.
type SchemaVersion struct {
	Version int
}

type User struct {
	ID       string
	Username string
	Email    string

	// Tier is one of "starter", "advanced" or "pro".
	Tier string

	Verified  bool
	CreatedAt time.Time
}

type Session struct {
	AccessToken  string
	RefreshToken string

	User *User

	UpdatedAt time.Time
}

// BotConfig remembers the creation-time parameters of a bot. The
// backend does not echo all of them back, so listings and detail views
// are enriched from these records.
type BotConfig struct {
	BotID  string
	TaskID string

	Name     string
	Type     string
	Exchange string
	Symbol   string

	GridSize   int
	LowerPrice string
	UpperPrice string
	Investment string
	Leverage   int
	RunHours   int

	SavedAt time.Time
}

// HiddenBot marks a bot removed from view on this client. Spot bots
// without a backend task id cannot be deleted server-side, so removal
// is local only.
type HiddenBot struct {
	BotID    string
	HiddenAt time.Time
}

// ExchangeOverride records a locally-known connection status for an
// exchange. Effective status is the override when present, otherwise
// the server record.
type ExchangeOverride struct {
	Exchange  string
	Connected bool
	UpdatedAt time.Time
}

type FavoritePairs struct {
	Symbols []string
}

type KeyValue struct {
	Key   string
	Value []byte
}
