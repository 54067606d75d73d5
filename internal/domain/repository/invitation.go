package repository

import (
	"context"
	"time"
)

// Invitation representa una invitación a unirse al sistema.
// Una vez aceptada es inmutable: update/delete retornan ErrImmutable.
// No tiene DeletedAt: en la cascada degrada a borrado físico.
type Invitation struct {
	ID         string
	Email      string
	Role       string
	Accepted   bool
	AcceptedAt *time.Time
	CreatedBy  string
	OwnerID    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateInvitationInput contiene los datos para crear una invitación.
// Si OwnerID está vacío, el adapter lo iguala a CreatedBy.
type CreateInvitationInput struct {
	Email     string
	Role      string
	CreatedBy string
	OwnerID   string
}

// UpdateInvitationInput contiene los campos actualizables (merge parcial).
// Accepted solo transiciona false→true; AcceptedAt se estampa junto.
type UpdateInvitationInput struct {
	Role       *string
	Accepted   *bool
	AcceptedAt *time.Time
}

// InvitationFilter filtra listados de invitaciones. Punteros nil = sin
// filtrar por ese campo. Page es 1-based; Page/Limit nil = sin paginar.
type InvitationFilter struct {
	Email     *string
	Role      *string
	Accepted  *bool
	CreatedBy *string
	OwnerID   *string
	Page      *int
	Limit     *int
}

// InvitationRepository define operaciones sobre invitaciones.
type InvitationRepository interface {
	Create(ctx context.Context, input CreateInvitationInput) (*Invitation, error)

	// FindByID retorna ErrNotFound si no existe.
	FindByID(ctx context.Context, id string) (*Invitation, error)

	// FindByIDAndOwnerID busca por ID restringido al dueño dado.
	// Retorna ErrNotFound si no existe o pertenece a otro dueño.
	FindByIDAndOwnerID(ctx context.Context, id, ownerID string) (*Invitation, error)

	// FindByEmail busca la invitación para el email dado.
	// Retorna ErrNotFound si no existe.
	FindByEmail(ctx context.Context, email string) (*Invitation, error)

	FindAll(ctx context.Context, filter InvitationFilter) ([]Invitation, error)

	Count(ctx context.Context, filter InvitationFilter) (int64, error)

	// Update aplica un merge parcial. Retorna ErrImmutable si la
	// invitación ya fue aceptada.
	Update(ctx context.Context, id string, input UpdateInvitationInput) (*Invitation, error)

	// Delete elimina la invitación. Retorna ErrImmutable si ya fue
	// aceptada.
	Delete(ctx context.Context, id string) error

	CreatorScopedRepository
}
