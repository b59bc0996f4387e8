package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// userRepo implements UserRepository.
type userRepo struct {
	pool *pgxpool.Pool
}

func (r *userRepo) UpsertOAuthUser(ctx context.Context, subject, email string) (*User, error) {
	defer observeDB(ctx, "users.upsert_oauth")()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (oauth_subject, primary_email, created_at, last_login_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (oauth_subject)
		DO UPDATE SET primary_email = EXCLUDED.primary_email, last_login_at = NOW()
		RETURNING id, oauth_subject, primary_email, created_at, last_login_at`,
		subject, email)

	var u User
	if err := row.Scan(&u.ID, &u.OAuthSubject, &u.PrimaryEmail, &u.CreatedAt, &u.LastLoginAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	defer observeDB(ctx, "users.get")()
	row := r.pool.QueryRow(ctx, `
		SELECT id, oauth_subject, primary_email, created_at, last_login_at
		FROM users WHERE id = $1`, id)

	var u User
	err := row.Scan(&u.ID, &u.OAuthSubject, &u.PrimaryEmail, &u.CreatedAt, &u.LastLoginAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
