package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/davilabs/rapida/internal/domain/repository"
)

// scheduledDeletionRepo implementa la agenda durable de borrados físicos
// sobre MySQL. Una fila por usuario: re-agendar es un upsert.
type scheduledDeletionRepo struct {
	db *sql.DB
}

func (r *scheduledDeletionRepo) Schedule(ctx context.Context, userID string, dueAt time.Time) (*repository.ScheduledDeletion, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scheduled_deletion (user_id, due_at)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE due_at = VALUES(due_at)`,
		userID, dueAt)
	if err != nil {
		return nil, fmt.Errorf("schedule deletion: %w", err)
	}

	var (
		id int64
		sd repository.ScheduledDeletion
	)
	err = r.db.QueryRowContext(ctx, `
		SELECT id, user_id, due_at, created_at
		FROM scheduled_deletion WHERE user_id = ?`, userID).
		Scan(&id, &sd.UserID, &sd.DueAt, &sd.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("read scheduled deletion: %w", err)
	}
	sd.ID = formatID(id)
	return &sd, nil
}

func (r *scheduledDeletionRepo) Due(ctx context.Context, now time.Time) ([]repository.ScheduledDeletion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, due_at, created_at
		FROM scheduled_deletion WHERE due_at <= ? ORDER BY due_at`, now)
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
	_, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_deletion WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("cancel scheduled deletion: %w", err)
	}
	return nil
}
