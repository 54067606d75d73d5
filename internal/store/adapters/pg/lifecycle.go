package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davilabs/rapida/internal/domain/repository"
)

// scheduledDeletionRepo implementa la agenda durable de borrados físicos
// sobre PostgreSQL. Una fila por usuario: re-agendar es un upsert.
type scheduledDeletionRepo struct {
	pool *pgxpool.Pool
}

func (r *scheduledDeletionRepo) Schedule(ctx context.Context, userID string, dueAt time.Time) (*repository.ScheduledDeletion, error) {
	var (
		id int64
		sd repository.ScheduledDeletion
	)
	err := r.pool.QueryRow(ctx, `
		INSERT INTO scheduled_deletion (user_id, due_at)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET due_at = EXCLUDED.due_at
		RETURNING id, user_id, due_at, created_at`,
		userID, dueAt).Scan(&id, &sd.UserID, &sd.DueAt, &sd.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("schedule deletion: %w", err)
	}
	sd.ID = formatID(id)
	return &sd, nil
}

func (r *scheduledDeletionRepo) Due(ctx context.Context, now time.Time) ([]repository.ScheduledDeletion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, due_at, created_at
		FROM scheduled_deletion WHERE due_at <= $1 ORDER BY due_at`, now)
	if err != nil {
		return nil, fmt.Errorf("list due deletions: %w", err)
	}
	defer rows.Close()

	out := []repository.ScheduledDeletion{}
	for rows.Next() {
		var (
			id int64
			sd repository.ScheduledDeletion
		)
		if err := rows.Scan(&id, &sd.UserID, &sd.DueAt, &sd.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan scheduled deletion: %w", err)
		}
		sd.ID = formatID(id)
		out = append(out, sd)
	}
	return out, rows.Err()
}

func (r *scheduledDeletionRepo) Cancel(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM scheduled_deletion WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("cancel scheduled deletion: %w", err)
	}
	return nil
}
