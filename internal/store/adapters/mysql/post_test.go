package mysql

import (
	"context"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newPostRepo(t *testing.T) (*postRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &postRepo{db: db}, mock
}

func postRows(n int) *sqlmock.Rows {
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "title", "content", "published_at", "reading_time", "author", "workspace",
		"created_by", "owner_id", "created_at", "updated_at", "deleted_at",
	})
	for i := 1; i <= n; i++ {
		rows.AddRow(int64(i), "post "+strconv.Itoa(i), "cuerpo", nil, 5, "ana", "ws1",
			"u1", "u1", now, now, nil)
	}
	return rows
}

func TestPostRepo_FindAll_PaginationBoundary(t *testing.T) {
	repo, mock := newPostRepo(t)
	page, limit := 1, 10

	// Exactamente 10 registros: la página 1 los trae todos.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM post WHERE workspace = ?`)).
		WithArgs("ws1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM post WHERE workspace = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)).
		WithArgs("ws1", 10, 0).
		WillReturnRows(postRows(10))

	result, err := repo.FindAll(context.Background(), "ws1", &page, &limit)
	require.NoError(t, err)
	require.Len(t, result.Items, 10)
	require.EqualValues(t, 10, result.Total)
	require.Equal(t, "1", result.Items[0].ID)

	// La página 2 queda vacía pero conserva el total.
	page = 2
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM post WHERE workspace = ?`)).
		WithArgs("ws1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM post WHERE workspace = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)).
		WithArgs("ws1", 10, 10).
		WillReturnRows(postRows(0))

	result, err = repo.FindAll(context.Background(), "ws1", &page, &limit)
	require.NoError(t, err)
	require.Empty(t, result.Items)
	require.EqualValues(t, 10, result.Total)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepo_FindAll_NilPageMeansUnpaginated(t *testing.T) {
	repo, mock := newPostRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM post WHERE workspace = ?`)).
		WithArgs("ws1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	// Sin page/limit no se agrega LIMIT al SQL.
	mock.ExpectQuery(regexp.QuoteMeta(`FROM post WHERE workspace = ? ORDER BY created_at DESC, id DESC`)).
		WithArgs("ws1").
		WillReturnRows(postRows(3))

	result, err := repo.FindAll(context.Background(), "ws1", nil, nil)
	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	require.EqualValues(t, 3, result.Total)
	require.NoError(t, mock.ExpectationsWereMet())
}
