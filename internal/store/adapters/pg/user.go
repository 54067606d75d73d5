package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davilabs/rapida/internal/domain/repository"
)

// userRepo implementa repository.UserRepository sobre PostgreSQL.
type userRepo struct {
	pool *pgxpool.Pool
}

const userColumns = `id, email, password_hash, verified, created_at, updated_at, deleted_at`

func scanUser(row pgx.Row) (*repository.User, error) {
	var (
		id int64
		u  repository.User
	)
	if err := row.Scan(&id, &u.Email, &u.PasswordHash, &u.Verified, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.ID = formatID(id)
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, input repository.CreateUserInput) (*repository.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO app_user (email, password_hash)
		VALUES ($1, $2)
		RETURNING `+userColumns,
		input.Email, input.PasswordHash)
	return scanUser(row)
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*repository.User, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM app_user WHERE id = $1`, pk)
	return scanUser(row)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*repository.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM app_user WHERE email = $1`, email)
	return scanUser(row)
}

func (r *userRepo) Update(ctx context.Context, id string, input repository.UpdateUserInput) (*repository.User, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}

	sets := []string{"updated_at = now()"}
	args := []any{pk}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if input.Email != nil {
		add("email", *input.Email)
	}
	if input.PasswordHash != nil {
		add("password_hash", *input.PasswordHash)
	}
	if input.Verified != nil {
		add("verified", *input.Verified)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE app_user SET `+strings.Join(sets, ", ")+` WHERE id = $1 RETURNING `+userColumns,
		args...)
	return scanUser(row)
}

func (r *userRepo) SetDeletedAt(ctx context.Context, id string, at *time.Time) error {
	pk, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE app_user SET deleted_at = $2, updated_at = now() WHERE id = $1`, pk, at)
	if err != nil {
		return fmt.Errorf("set deleted_at: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	return r.SetDeletedAt(ctx, id, &now)
}

func (r *userRepo) HardDelete(ctx context.Context, id string) error {
	pk, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM app_user WHERE id = $1`, pk)
	if err != nil {
		return fmt.Errorf("hard delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
