package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davilabs/rapida/internal/domain/repository"
)

// userRepo implementa repository.UserRepository sobre MySQL.
type userRepo struct {
	db *sql.DB
}

const userColumns = `id, email, password_hash, verified, created_at, updated_at, deleted_at`

// rowScanner cubre *sql.Row y *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*repository.User, error) {
	var (
		id int64
		u  repository.User
	)
	if err := row.Scan(&id, &u.Email, &u.PasswordHash, &u.Verified, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.ID = formatID(id)
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, input repository.CreateUserInput) (*repository.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO app_user (email, password_hash) VALUES (?, ?)`,
		input.Email, input.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert user id: %w", err)
	}
	return r.FindByID(ctx, formatID(id))
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*repository.User, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM app_user WHERE id = ?`, pk)
	return scanUser(row)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*repository.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM app_user WHERE email = ?`, email)
	return scanUser(row)
}

func (r *userRepo) Update(ctx context.Context, id string, input repository.UpdateUserInput) (*repository.User, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}

	sets := []string{"updated_at = NOW()"}
	var args []any
	if input.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *input.Email)
	}
	if input.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *input.PasswordHash)
	}
	if input.Verified != nil {
		sets = append(sets, "verified = ?")
		args = append(args, *input.Verified)
	}
	args = append(args, pk)

	if _, err := r.db.ExecContext(ctx,
		`UPDATE app_user SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *userRepo) SetDeletedAt(ctx context.Context, id string, at *time.Time) error {
	pk, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE app_user SET deleted_at = ?, updated_at = NOW() WHERE id = ?`, at, pk)
	if err != nil {
		return fmt.Errorf("set deleted_at: %w", err)
	}
	return notFoundIfZero(res)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM app_user WHERE id = ?`, pk)
	if err != nil {
		return fmt.Errorf("hard delete user: %w", err)
	}
	return notFoundIfZero(res)
}

// notFoundIfZero traduce cero filas afectadas a ErrNotFound.
//
// Nota: MySQL reporta 0 filas afectadas cuando el UPDATE no cambia ningún
// valor; para los setters de deleted_at eso no ocurre porque updated_at
// siempre cambia.
func notFoundIfZero(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
