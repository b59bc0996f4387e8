package store

import "time"

// User represents a person authenticated via OAuth.
type User struct {
	ID           int64
	OAuthSubject string
	PrimaryEmail string
	CreatedAt    time.Time
	LastLoginAt  time.Time
}

// Activity is the stored definition of a planner activity. Exactly one of
// DayOfWeek/ActivityDate is set, enforced by a database check constraint and
// re-checked at write time: recurring activities carry a weekday, one-offs a
// concrete date. Times are HH:MM wall-clock strings on the same calendar day.
type Activity struct {
	ID                string
	OwnerID           int64
	Name              string
	Color             *string
	DayOfWeek         *int16
	ActivityDate      *time.Time
	StartTime         string
	EndTime           string
	IsRecurring       bool
	RecurrenceEndDate *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Exception kinds. Only cancellations are materially used by resolution;
// "modified" is reserved and carries no override payload yet.
const (
	ExceptionCancelled = "cancelled"
	ExceptionModified  = "modified"
)

// ActivityException overrides one occurrence of an activity on a specific
// date. Rows are cascade-deleted with their owning activity.
type ActivityException struct {
	ID            string
	ActivityID    string
	ExceptionDate time.Time
	ExceptionType string
	CreatedAt     time.Time
}

// CancelledOccurrence is the (activity, date) pair of a cancelled exception,
// as returned by range queries feeding the resolver.
type CancelledOccurrence struct {
	ActivityID    string
	ExceptionDate time.Time
}

// AppToken is a per-client bearer credential for the mobile app.
type AppToken struct {
	ID         int64
	UserID     int64
	Label      string
	TokenHash  string
	CreatedAt  time.Time
	ExpiresAt  *time.Time
	RevokedAt  *time.Time
	LastUsedAt *time.Time
}

// Session is a browser login session backing the session cookie.
type Session struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}
