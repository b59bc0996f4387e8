package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// appTokenRepo implements AppTokenRepository.
type appTokenRepo struct {
	pool *pgxpool.Pool
}

const appTokenColumns = `id, user_id, label, token_hash, created_at, expires_at, revoked_at, last_used_at`

func scanAppToken(row pgx.Row) (*AppToken, error) {
	var t AppToken
	err := row.Scan(&t.ID, &t.UserID, &t.Label, &t.TokenHash, &t.CreatedAt, &t.ExpiresAt, &t.RevokedAt, &t.LastUsedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *appTokenRepo) Create(ctx context.Context, t AppToken) (*AppToken, error) {
	defer observeDB(ctx, "app_tokens.create")()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO app_tokens (user_id, label, token_hash, created_at, expires_at)
		VALUES ($1, $2, $3, NOW(), $4)
		RETURNING `+appTokenColumns,
		t.UserID, t.Label, t.TokenHash, t.ExpiresAt)
	return scanAppToken(row)
}

func (r *appTokenRepo) GetByID(ctx context.Context, id int64) (*AppToken, error) {
	defer observeDB(ctx, "app_tokens.get")()
	row := r.pool.QueryRow(ctx, `SELECT `+appTokenColumns+` FROM app_tokens WHERE id = $1`, id)
	return scanAppToken(row)
}

func (r *appTokenRepo) ListByUser(ctx context.Context, userID int64) ([]AppToken, error) {
	defer observeDB(ctx, "app_tokens.list")()
	rows, err := r.pool.Query(ctx, `
		SELECT `+appTokenColumns+` FROM app_tokens
		WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AppToken
	for rows.Next() {
		var t AppToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Label, &t.TokenHash, &t.CreatedAt, &t.ExpiresAt, &t.RevokedAt, &t.LastUsedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *appTokenRepo) Revoke(ctx context.Context, userID, id int64) error {
	defer observeDB(ctx, "app_tokens.revoke")()
	tag, err := r.pool.Exec(ctx, `
		UPDATE app_tokens SET revoked_at = NOW()
		WHERE id = $1 AND user_id = $2 AND revoked_at IS NULL`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *appTokenRepo) TouchLastUsed(ctx context.Context, id int64) error {
	defer observeDB(ctx, "app_tokens.touch")()
	_, err := r.pool.Exec(ctx, `UPDATE app_tokens SET last_used_at = NOW() WHERE id = $1`, id)
	return err
}
