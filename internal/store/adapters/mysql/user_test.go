package mysql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/davilabs/rapida/internal/domain/repository"
)

func newUserRepo(t *testing.T) (*userRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &userRepo{db: db}, mock
}

func userRows(id int64, email string, deletedAt *time.Time) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "verified", "created_at", "updated_at", "deleted_at"}).
		AddRow(id, email, "$2a$10$hash", false, now, now, deletedAt)
}

func TestUserRepo_Create(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO app_user (email, password_hash) VALUES (?, ?)`)).
		WithArgs("ana@example.com", "$2a$10$hash").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password_hash, verified, created_at, updated_at, deleted_at FROM app_user WHERE id = ?`)).
		WithArgs(int64(7)).
		WillReturnRows(userRows(7, "ana@example.com", nil))

	u, err := repo.Create(context.Background(), repository.CreateUserInput{
		Email:        "ana@example.com",
		PasswordHash: "$2a$10$hash",
	})
	require.NoError(t, err)
	// La PK entera sale como ID string.
	require.Equal(t, "7", u.ID)
	require.Equal(t, "ana@example.com", u.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_FindByID_NotFound(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password_hash, verified, created_at, updated_at, deleted_at FROM app_user WHERE id = ?`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "verified", "created_at", "updated_at", "deleted_at"}))

	_, err := repo.FindByID(context.Background(), "99")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_FindByID_BadIDShortCircuits(t *testing.T) {
	repo, _ := newUserRepo(t)

	// Un ID no numérico nunca llega al motor.
	_, err := repo.FindByID(context.Background(), "no-numerico")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepo_SetDeletedAt(t *testing.T) {
	repo, mock := newUserRepo(t)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE app_user SET deleted_at = ?, updated_at = NOW() WHERE id = ?`)).
		WithArgs(now, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetDeletedAt(context.Background(), "7", &now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_SetDeletedAt_NotFound(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE app_user SET deleted_at = ?, updated_at = NOW() WHERE id = ?`)).
		WithArgs(nil, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetDeletedAt(context.Background(), "42", nil)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_HardDelete(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM app_user WHERE id = ?`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.HardDelete(context.Background(), "7"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Update_Partial(t *testing.T) {
	repo, mock := newUserRepo(t)
	email := "nuevo@example.com"

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE app_user SET updated_at = NOW(), email = ? WHERE id = ?`)).
		WithArgs(email, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password_hash, verified, created_at, updated_at, deleted_at FROM app_user WHERE id = ?`)).
		WithArgs(int64(7)).
		WillReturnRows(userRows(7, email, nil))

	u, err := repo.Update(context.Background(), "7", repository.UpdateUserInput{Email: &email})
	require.NoError(t, err)
	require.Equal(t, email, u.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}
