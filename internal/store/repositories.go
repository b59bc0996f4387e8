package store

import (
	"context"
	"time"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	UpsertOAuthUser(ctx context.Context, subject, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}

// ActivityRepository handles activity lifecycle. All queries are scoped by
// owner; a mismatched owner behaves as not found.
type ActivityRepository interface {
	Create(ctx context.Context, a Activity) (*Activity, error)
	Update(ctx context.Context, a Activity) (*Activity, error)
	Delete(ctx context.Context, ownerID int64, id string) error
	GetByID(ctx context.Context, ownerID int64, id string) (*Activity, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Activity, error)
}

// ExceptionRepository handles per-occurrence overrides.
type ExceptionRepository interface {
	Create(ctx context.Context, e ActivityException) (*ActivityException, error)
	Delete(ctx context.Context, activityID string, date time.Time) error
	Exists(ctx context.Context, activityID string, date time.Time) (bool, error)
	// ListCancelledInRange returns the cancelled (activity, date) pairs for
	// every activity owned by ownerID with exception dates in [start, end].
	ListCancelledInRange(ctx context.Context, ownerID int64, start, end time.Time) ([]CancelledOccurrence, error)
}

// AppTokenRepository handles bearer token storage for the mobile client.
type AppTokenRepository interface {
	Create(ctx context.Context, t AppToken) (*AppToken, error)
	GetByID(ctx context.Context, id int64) (*AppToken, error)
	ListByUser(ctx context.Context, userID int64) ([]AppToken, error)
	Revoke(ctx context.Context, userID, id int64) error
	TouchLastUsed(ctx context.Context, id int64) error
}

// SessionRepository handles browser session storage.
type SessionRepository interface {
	Create(ctx context.Context, s Session) (*Session, error)
	GetByID(ctx context.Context, id string) (*Session, error)
	Revoke(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
