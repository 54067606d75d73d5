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

// postRepo implementa repository.PostRepository sobre PostgreSQL. Todas las
// consultas están acotadas al workspace.
type postRepo struct {
	pool *pgxpool.Pool
}

const postColumns = `id, title, content, published_at, reading_time, author, workspace,
	created_by, owner_id, created_at, updated_at, deleted_at`

func scanPost(row pgx.Row) (*repository.Post, error) {
	var (
		id int64
		p  repository.Post
	)
	err := row.Scan(&id, &p.Title, &p.Content, &p.PublishedAt, &p.ReadingTime,
		&p.Author, &p.Workspace, &p.CreatedBy, &p.OwnerID,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
	row := r.pool.QueryRow(ctx, `
		INSERT INTO post (title, content, published_at, reading_time, author,
			workspace, created_by, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+postColumns,
		input.Title, input.Content, input.PublishedAt, input.ReadingTime,
		input.Author, workspace, createdBy, ownerID)
	return scanPost(row)
}

func (r *postRepo) FindAll(ctx context.Context, workspace string, page, limit *int) (*repository.PostPage, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM post WHERE workspace = $1`, workspace).Scan(&total); err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	q := `SELECT ` + postColumns + ` FROM post WHERE workspace = $1 ORDER BY created_at DESC, id DESC`
	args := []any{workspace}
	if page != nil && limit != nil {
		args = append(args, *limit, (*page-1)*(*limit))
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, q, args...)
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
	row := r.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM post WHERE id = $1 AND workspace = $2`, pk, workspace)
	return scanPost(row)
}

func (r *postRepo) Update(ctx context.Context, id string, input repository.UpdatePostInput, workspace string) (*repository.Post, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}

	sets := []string{"updated_at = now()"}
	args := []any{pk, workspace}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
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

	row := r.pool.QueryRow(ctx,
		`UPDATE post SET `+strings.Join(sets, ", ")+` WHERE id = $1 AND workspace = $2 RETURNING `+postColumns,
		args...)
	return scanPost(row)
}

func (r *postRepo) Delete(ctx context.Context, id, workspace string) error {
	pk, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM post WHERE id = $1 AND workspace = $2`, pk, workspace)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *postRepo) SoftDeleteByCreator(ctx context.Context, userID string, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE post SET deleted_at = $2, updated_at = now() WHERE created_by = $1`, userID, at)
	if err != nil {
		return fmt.Errorf("soft delete posts by creator: %w", err)
	}
	return nil
}

func (r *postRepo) RestoreByCreator(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE post SET deleted_at = NULL, updated_at = now() WHERE created_by = $1 AND deleted_at IS NOT NULL`,
		userID)
	if err != nil {
		return fmt.Errorf("restore posts by creator: %w", err)
	}
	return nil
}

func (r *postRepo) HardDeleteByCreator(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM post WHERE created_by = $1`, userID)
	if err != nil {
		return fmt.Errorf("hard delete posts by creator: %w", err)
	}
	return nil
}
