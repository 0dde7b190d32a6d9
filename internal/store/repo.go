package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// User is a learner's profile row.
type User struct {
	UID         string
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

// UserRepo manages learner profiles.
type UserRepo interface {
	// Ensure creates the profile if missing. Non-empty email and display
	// name overwrite stored values.
	Ensure(ctx context.Context, uid, email, displayName string) (*User, error)

	// Get returns the profile or ErrNotFound.
	Get(ctx context.Context, uid string) (*User, error)
}

// FlagRepo manages per-user lesson flags.
type FlagRepo interface {
	// Set marks key true for uid. It reports whether the flag was not
	// already true, and in that case appends a flag event in the same
	// transaction. Flags are never reset to false.
	Set(ctx context.Context, uid, key string) (bool, error)

	// Snapshot returns every flag stored for uid.
	Snapshot(ctx context.Context, uid string) (map[string]bool, error)
}

// FlagEvent records one lesson flag write.
type FlagEvent struct {
	Sequence  int64
	UID       string
	SlotKey   string
	Timestamp time.Time
}

// EventRepo provides append and query access to flag events.
type EventRepo interface {
	// AppendFlagEvent records that uid set key. FlagRepo.Set already
	// does this for changed flags.
	AppendFlagEvent(ctx context.Context, uid, key string) (*FlagEvent, error)

	// Recent returns uid's events, newest first.
	Recent(ctx context.Context, uid string, opts QueryOpts) ([]FlagEvent, error)
}
