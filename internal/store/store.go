package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a row does not exist or is owned by someone
// else.
var ErrNotFound = errors.New("not found")

// Store aggregates repositories backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool

	Users      UserRepository
	Activities ActivityRepository
	Exceptions ExceptionRepository
	AppTokens  AppTokenRepository
	Sessions   SessionRepository
}

// New wires concrete repository implementations with a shared connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:       pool,
		Users:      &userRepo{pool: pool},
		Activities: &activityRepo{pool: pool},
		Exceptions: &exceptionRepo{pool: pool},
		AppTokens:  &appTokenRepo{pool: pool},
		Sessions:   &sessionRepo{pool: pool},
	}
}

// HealthCheck verifies that the underlying database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	defer observeDB(ctx, "db.healthcheck")()
	return s.pool.Ping(ctx)
}
