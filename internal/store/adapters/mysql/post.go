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

// postRepo implementa repository.PostRepository sobre MySQL. Todas las
// consultas están acotadas al workspace.
type postRepo struct {
	db *sql.DB
}

const postColumns = `id, title, content, published_at, reading_time, author, workspace,
	created_by, owner_id, created_at, updated_at, deleted_at`

func scanPost(row rowScanner) (*repository.Post, error) {
	var (
		id int64
		p  repository.Post
	)
	err := row.Scan(&id, &p.Title, &p.Content, &p.PublishedAt, &p.ReadingTime,
		&p.Author, &p.Workspace, &p.CreatedBy, &p.OwnerID,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	p.ID = formatID(id)
	return &p, nil
}

func (r *postRepo) Create(ctx context.Context, input repository.CreatePostInput, workspace, createdBy string) (*repository.Post, error) {
	ownerID := input.OwnerID
	if ownerID == "" {
		ownerID = createdBy
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO post (title, content, published_at, reading_time, author,
			workspace, created_by, owner_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		input.Title, input.Content, input.PublishedAt, input.ReadingTime,
		input.Author, workspace, createdBy, ownerID)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert post id: %w", err)
	}
	return r.FindByID(ctx, formatID(id), workspace)
}

func (r *postRepo) FindAll(ctx context.Context, workspace string, page, limit *int) (*repository.PostPage, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM post WHERE workspace = ?`, workspace).Scan(&total); err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	q := `SELECT ` + postColumns + ` FROM post WHERE workspace = ? ORDER BY created_at DESC, id DESC`
	args := []any{workspace}
	if page != nil && limit != nil {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, *limit, (*page-1)*(*limit))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer rows.Close()

	result := &repository.PostPage{Items: []repository.Post{}, Total: total}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result.Items = append(result.Items, *p)
	}
	return result, rows.Err()
}

func (r *postRepo) FindByID(ctx context.Context, id, workspace string) (*repository.Post, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM post WHERE id = ? AND workspace = ?`, pk, workspace)
	return scanPost(row)
}

func (r *postRepo) Update(ctx context.Context, id string, input repository.UpdatePostInput, workspace string) (*repository.Post, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if _, err := r.FindByID(ctx, id, workspace); err != nil {
		return nil, err
	}

	sets := []string{"updated_at = NOW()"}
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if input.Title != nil {
		add("title", *input.Title)
	}
	if input.Content != nil {
		add("content", *input.Content)
	}
	if input.PublishedAt != nil {
		add("published_at", *input.PublishedAt)
	}
	if input.ReadingTime != nil {
		add("reading_time", *input.ReadingTime)
	}
	if input.Author != nil {
		add("author", *input.Author)
	}
	args = append(args, pk, workspace)

	if _, err := r.db.ExecContext(ctx,
		`UPDATE post SET `+strings.Join(sets, ", ")+` WHERE id = ? AND workspace = ?`, args...); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return r.FindByID(ctx, id, workspace)
}

func (r *postRepo) Delete(ctx context.Context, id, workspace string) error {
	pk, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM post WHERE id = ? AND workspace = ?`, pk, workspace)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return notFoundIfZero(res)
}

func (r *postRepo) SoftDeleteByCreator(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE post SET deleted_at = ?, updated_at = NOW() WHERE created_by = ?`, at, userID)
	if err != nil {
		return fmt.Errorf("soft delete posts by creator: %w", err)
	}
	return nil
}

func (r *postRepo) RestoreByCreator(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE post SET deleted_at = NULL, updated_at = NOW() WHERE created_by = ? AND deleted_at IS NOT NULL`,
		userID)
	if err != nil {
		return fmt.Errorf("restore posts by creator: %w", err)
	}
	return nil
}

func (r *postRepo) HardDeleteByCreator(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM post WHERE created_by = ?`, userID)
	if err != nil {
		return fmt.Errorf("hard delete posts by creator: %w", err)
	}
	return nil
}
