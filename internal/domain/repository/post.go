package repository

import (
	"context"
	"time"
)

// Post representa una publicación dentro de un workspace.
type Post struct {
	ID          string
	Title       string
	Content     string
	PublishedAt *time.Time
	ReadingTime int
	Author      string
	Workspace   string
	CreatedBy   string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// CreatePostInput contiene los datos para crear una publicación.
type CreatePostInput struct {
	Title       string
	Content     string
	PublishedAt *time.Time
	ReadingTime int
	Author      string
	OwnerID     string
}

// UpdatePostInput contiene los campos actualizables (merge parcial).
type UpdatePostInput struct {
	Title       *string
	Content     *string
	PublishedAt *time.Time
	ReadingTime *int
	Author      *string
}

// PostPage es el resultado paginado de un listado de publicaciones.
type PostPage struct {
	Items []Post
	Total int64
}

// PostRepository define operaciones sobre publicaciones. Todas las
// operaciones están acotadas al workspace indicado.
type PostRepository interface {
	Create(ctx context.Context, input CreatePostInput, workspace, createdBy string) (*Post, error)

	// FindAll lista las publicaciones del workspace, más recientes primero.
	// page es 1-based; page/limit nil = sin paginar. Total siempre refleja
	// el conteo completo del workspace.
	FindAll(ctx context.Context, workspace string, page, limit *int) (*PostPage, error)

	// FindByID retorna ErrNotFound si no existe en ese workspace.
	FindByID(ctx context.Context, id, workspace string) (*Post, error)

	Update(ctx context.Context, id string, input UpdatePostInput, workspace string) (*Post, error)

	// Delete elimina la publicación físicamente.
	// Retorna ErrNotFound si no existe en ese workspace.
	Delete(ctx context.Context, id, workspace string) error

	SoftDeletableRepository
}
