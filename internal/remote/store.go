// Package remote talks to the progress service that holds each user's
// authoritative lesson flags.
package remote

import (
	"context"

	"github.com/carnetlify/carnetlify/internal/catalog"
)

// Snapshot maps slot keys (e.g. "stateLesson11") to their flag value.
// Keys the reader does not know about are ignored.
type Snapshot map[string]bool

// Has reports whether key is set to true.
func (s Snapshot) Has(key catalog.SlotKey) bool {
	return s[key.String()]
}

// Store is the remote progress document of the current user.
type Store interface {
	// SetLessonFlag sets a single flag to true. Flags are never reset.
	SetLessonFlag(ctx context.Context, key catalog.SlotKey) error

	// ProgressSnapshot returns every flag of the current user.
	ProgressSnapshot(ctx context.Context) (Snapshot, error)
}

// TokenSource yields the bearer token attached to every request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
