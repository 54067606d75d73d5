package repository

import (
	"context"
	"time"
)

// Workspace representa un espacio de trabajo con equipo y ACL.
// No tiene campo creador (el dueño se modela con Owner), por lo que queda
// fuera del registro de cascada.
type Workspace struct {
	ID        string
	Owner     string
	Name      string
	Team      []string
	ACL       []ACLEntry
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ACLEntry asigna un rol a un usuario dentro del workspace.
type ACLEntry struct {
	UserID string
	Role   string
}

// CreateWorkspaceInput contiene los datos para crear un workspace.
type CreateWorkspaceInput struct {
	Owner string
	Name  string
	Team  []string
	ACL   []ACLEntry
}

// UpdateWorkspaceInput contiene los campos actualizables (merge parcial).
type UpdateWorkspaceInput struct {
	Name *string
	Team *[]string
	ACL  *[]ACLEntry
}

// WorkspaceRepository define operaciones sobre workspaces.
type WorkspaceRepository interface {
	Create(ctx context.Context, input CreateWorkspaceInput) (*Workspace, error)

	// FindByID retorna ErrNotFound si no existe.
	FindByID(ctx context.Context, id string) (*Workspace, error)

	// FindByOwner busca el workspace cuyo dueño es el usuario dado.
	// Retorna ErrNotFound si no existe.
	FindByOwner(ctx context.Context, owner string) (*Workspace, error)

	// FindByTeamUser lista los workspaces donde el usuario es dueño o
	// integrante del equipo.
	FindByTeamUser(ctx context.Context, userID string) ([]Workspace, error)

	Update(ctx context.Context, id string, input UpdateWorkspaceInput) (*Workspace, error)

	// Delete elimina el workspace físicamente.
	Delete(ctx context.Context, id string) error

	// AddTeamUser agrega un usuario al equipo si no está ya.
	AddTeamUser(ctx context.Context, workspaceID, userID string) (*Workspace, error)

	// RemoveTeamUser quita un usuario del equipo.
	RemoveTeamUser(ctx context.Context, workspaceID, userID string) (*Workspace, error)
}
