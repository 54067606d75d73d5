package service

import (
	"context"

	"github.com/davilabs/rapida/internal/domain/repository"
)

// PostDeps contiene las dependencias del servicio de publicaciones.
type PostDeps struct {
	Posts      repository.PostRepository
	Workspaces repository.WorkspaceRepository
}

// PostService maneja publicaciones acotadas a un workspace. Toda operación
// valida primero que el workspace exista.
type PostService struct {
	deps PostDeps
}

// NewPostService crea el servicio de publicaciones.
func NewPostService(deps PostDeps) *PostService {
	return &PostService{deps: deps}
}

func (s *PostService) workspaceExists(ctx context.Context, workspace string) error {
	_, err := s.deps.Workspaces.FindByID(ctx, workspace)
	return err
}

// Create crea una publicación en el workspace.
func (s *PostService) Create(ctx context.Context, input repository.CreatePostInput, workspace, createdBy string) (*repository.Post, error) {
	if input.Title == "" || workspace == "" || createdBy == "" {
		return nil, ErrMissingFields
	}
	if err := s.workspaceExists(ctx, workspace); err != nil {
		return nil, err
	}
	return s.deps.Posts.Create(ctx, input, workspace, createdBy)
}

// List retorna la página pedida de publicaciones del workspace, más
// recientes primero.
func (s *PostService) List(ctx context.Context, workspace string, page, limit *int) (*repository.PostPage, error) {
	if err := s.workspaceExists(ctx, workspace); err != nil {
		return nil, err
	}
	return s.deps.Posts.FindAll(ctx, workspace, page, limit)
}

// Get busca una publicación del workspace.
func (s *PostService) Get(ctx context.Context, id, workspace string) (*repository.Post, error) {
	return s.deps.Posts.FindByID(ctx, id, workspace)
}

// Update aplica un merge parcial sobre la publicación.
func (s *PostService) Update(ctx context.Context, id string, input repository.UpdatePostInput, workspace string) (*repository.Post, error) {
	if err := s.workspaceExists(ctx, workspace); err != nil {
		return nil, err
	}
	return s.deps.Posts.Update(ctx, id, input, workspace)
}

// Delete elimina la publicación físicamente.
func (s *PostService) Delete(ctx context.Context, id, workspace string) error {
	return s.deps.Posts.Delete(ctx, id, workspace)
}
