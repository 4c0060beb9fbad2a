package domain

import "time"

// Setting is a key/value configuration row surfaced to the admin UI.
// Scheduling itself pins the canonical working window at compile time.
type Setting struct {
	ID          string
	Key         string
	Value       string
	Type        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
