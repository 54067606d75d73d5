package service

import (
	"context"

	"github.com/davilabs/rapida/internal/domain/repository"
	"github.com/davilabs/rapida/internal/observability/logger"
)

// WorkspaceDeps contiene las dependencias del servicio de workspaces.
type WorkspaceDeps struct {
	Workspaces repository.WorkspaceRepository
}

// WorkspaceService maneja workspaces: un workspace por dueño, equipo y ACL.
type WorkspaceService struct {
	deps WorkspaceDeps
}

// NewWorkspaceService crea el servicio de workspaces.
func NewWorkspaceService(deps WorkspaceDeps) *WorkspaceService {
	return &WorkspaceService{deps: deps}
}

// Create crea el workspace del dueño. Retorna ErrWorkspaceExists si ya
// tiene uno.
func (s *WorkspaceService) Create(ctx context.Context, input repository.CreateWorkspaceInput) (*repository.Workspace, error) {
	if input.Owner == "" || input.Name == "" {
		return nil, ErrMissingFields
	}
	if _, err := s.deps.Workspaces.FindByOwner(ctx, input.Owner); err == nil {
		return nil, ErrWorkspaceExists
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	w, err := s.deps.Workspaces.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	logger.From(ctx).Info("workspace created",
		logger.Layer("service"),
		logger.Component("workspace"),
		logger.ID(w.ID),
		logger.UserID(input.Owner))
	return w, nil
}

// Get busca un workspace por ID.
func (s *WorkspaceService) Get(ctx context.Context, id string) (*repository.Workspace, error) {
	return s.deps.Workspaces.FindByID(ctx, id)
}

// GetByOwner busca el workspace del dueño.
func (s *WorkspaceService) GetByOwner(ctx context.Context, owner string) (*repository.Workspace, error) {
	return s.deps.Workspaces.FindByOwner(ctx, owner)
}

// ListForUser lista los workspaces donde el usuario es dueño o integrante.
func (s *WorkspaceService) ListForUser(ctx context.Context, userID string) ([]repository.Workspace, error) {
	return s.deps.Workspaces.FindByTeamUser(ctx, userID)
}

// Update aplica un merge parcial sobre el workspace.
func (s *WorkspaceService) Update(ctx context.Context, id string, input repository.UpdateWorkspaceInput) (*repository.Workspace, error) {
	return s.deps.Workspaces.Update(ctx, id, input)
}

// Delete elimina el workspace físicamente.
func (s *WorkspaceService) Delete(ctx context.Context, id string) error {
	return s.deps.Workspaces.Delete(ctx, id)
}

// AddMember agrega un usuario al equipo del workspace.
func (s *WorkspaceService) AddMember(ctx context.Context, workspaceID, userID string) (*repository.Workspace, error) {
	return s.deps.Workspaces.AddTeamUser(ctx, workspaceID, userID)
}

// RemoveMember quita un usuario del equipo del workspace.
func (s *WorkspaceService) RemoveMember(ctx context.Context, workspaceID, userID string) (*repository.Workspace, error) {
	return s.deps.Workspaces.RemoveTeamUser(ctx, workspaceID, userID)
}
