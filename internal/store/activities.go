package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// activityRepo implements ActivityRepository.
type activityRepo struct {
	pool *pgxpool.Pool
}

const activityColumns = `id, owner_id, name, color, day_of_week, activity_date,
	start_time, end_time, is_recurring, recurrence_end_date, created_at, updated_at`

func scanActivity(row pgx.Row) (*Activity, error) {
	var a Activity
	err := row.Scan(&a.ID, &a.OwnerID, &a.Name, &a.Color, &a.DayOfWeek, &a.ActivityDate,
		&a.StartTime, &a.EndTime, &a.IsRecurring, &a.RecurrenceEndDate, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *activityRepo) Create(ctx context.Context, a Activity) (*Activity, error) {
	defer observeDB(ctx, "activities.create")()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO activities (id, owner_id, name, color, day_of_week, activity_date,
			start_time, end_time, is_recurring, recurrence_end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING `+activityColumns,
		a.ID, a.OwnerID, a.Name, a.Color, a.DayOfWeek, a.ActivityDate,
		a.StartTime, a.EndTime, a.IsRecurring, a.RecurrenceEndDate)
	return scanActivity(row)
}

func (r *activityRepo) Update(ctx context.Context, a Activity) (*Activity, error) {
	defer observeDB(ctx, "activities.update")()
	row := r.pool.QueryRow(ctx, `
		UPDATE activities
		SET name = $3, color = $4, day_of_week = $5, activity_date = $6,
			start_time = $7, end_time = $8, is_recurring = $9, recurrence_end_date = $10,
			updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING `+activityColumns,
		a.ID, a.OwnerID, a.Name, a.Color, a.DayOfWeek, a.ActivityDate,
		a.StartTime, a.EndTime, a.IsRecurring, a.RecurrenceEndDate)
	return scanActivity(row)
}

func (r *activityRepo) Delete(ctx context.Context, ownerID int64, id string) error {
	defer observeDB(ctx, "activities.delete")()
	tag, err := r.pool.Exec(ctx, `DELETE FROM activities WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *activityRepo) GetByID(ctx context.Context, ownerID int64, id string) (*Activity, error) {
	defer observeDB(ctx, "activities.get")()
	row := r.pool.QueryRow(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return scanActivity(row)
}

func (r *activityRepo) ListByOwner(ctx context.Context, ownerID int64) ([]Activity, error) {
	defer observeDB(ctx, "activities.list")()
	rows, err := r.pool.Query(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE owner_id = $1
		ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Name, &a.Color, &a.DayOfWeek, &a.ActivityDate,
			&a.StartTime, &a.EndTime, &a.IsRecurring, &a.RecurrenceEndDate, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
