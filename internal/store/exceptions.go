package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// exceptionRepo implements ExceptionRepository.
type exceptionRepo struct {
	pool *pgxpool.Pool
}

func (r *exceptionRepo) Create(ctx context.Context, e ActivityException) (*ActivityException, error) {
	defer observeDB(ctx, "exceptions.create")()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO activity_exceptions (id, activity_id, exception_date, exception_type, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, activity_id, exception_date, exception_type, created_at`,
		e.ID, e.ActivityID, e.ExceptionDate, e.ExceptionType)

	var out ActivityException
	if err := row.Scan(&out.ID, &out.ActivityID, &out.ExceptionDate, &out.ExceptionType, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *exceptionRepo) Delete(ctx context.Context, activityID string, date time.Time) error {
	defer observeDB(ctx, "exceptions.delete")()
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM activity_exceptions
		WHERE activity_id = $1 AND exception_date = $2`, activityID, date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *exceptionRepo) Exists(ctx context.Context, activityID string, date time.Time) (bool, error) {
	defer observeDB(ctx, "exceptions.exists")()
	var one int
	err := r.pool.QueryRow(ctx, `
		SELECT 1 FROM activity_exceptions
		WHERE activity_id = $1 AND exception_date = $2`, activityID, date).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *exceptionRepo) ListCancelledInRange(ctx context.Context, ownerID int64, start, end time.Time) ([]CancelledOccurrence, error) {
	defer observeDB(ctx, "exceptions.list_range")()
	rows, err := r.pool.Query(ctx, `
		SELECT e.activity_id, e.exception_date
		FROM activity_exceptions e
		JOIN activities a ON a.id = e.activity_id
		WHERE a.owner_id = $1
		  AND e.exception_type = $2
		  AND e.exception_date BETWEEN $3 AND $4`,
		ownerID, ExceptionCancelled, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CancelledOccurrence
	for rows.Next() {
		var c CancelledOccurrence
		if err := rows.Scan(&c.ActivityID, &c.ExceptionDate); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
