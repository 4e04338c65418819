package model

import "time"

// UserState is the immutable per-run snapshot the engine generates from.
// The engine never mutates it.
type UserState struct {
	UserID           string
	AccountCreatedAt time.Time
	// Timezone is an IANA name ("America/New_York"). Empty means the
	// caller wants the configured default.
	Timezone string
	// CurrentScore is the PULSE score, 0-100. nil means unknown: the
	// engine asks its ScoreProvider, falling back to the default of 50.
	CurrentScore *int
}
