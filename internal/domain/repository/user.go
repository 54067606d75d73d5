package repository

import (
	"context"
	"time"
)

// User representa una cuenta del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	// DeletedAt marca el borrado lógico. nil = cuenta activa.
	DeletedAt *time.Time
}

// Deleted indica si la cuenta está borrada lógicamente.
func (u *User) Deleted() bool { return u.DeletedAt != nil }

// CreateUserInput contiene los datos para crear una cuenta.
type CreateUserInput struct {
	Email        string
	PasswordHash string
}

// UpdateUserInput contiene los campos actualizables de una cuenta.
// Los punteros nil se dejan intactos (semántica de merge, no replace).
type UpdateUserInput struct {
	Email        *string
	PasswordHash *string
	Verified     *bool
}

// UserRepository define operaciones sobre cuentas de usuario.
type UserRepository interface {
	// Create crea una nueva cuenta. No valida unicidad de email: eso es
	// responsabilidad del service (lookup antes de insertar).
	Create(ctx context.Context, input CreateUserInput) (*User, error)

	// FindByID busca una cuenta por ID. Incluye cuentas borradas
	// lógicamente; el caller decide qué hacer con DeletedAt.
	// Retorna ErrNotFound si no existe.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail busca una cuenta por email.
	// Retorna ErrNotFound si no existe.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update actualiza campos de una cuenta (merge parcial).
	Update(ctx context.Context, id string, input UpdateUserInput) (*User, error)

	// SetDeletedAt estampa (o limpia, con nil) la marca de borrado lógico.
	SetDeletedAt(ctx context.Context, id string, at *time.Time) error

	// Delete borra la cuenta. Es un borrado lógico: estampa DeletedAt.
	Delete(ctx context.Context, id string) error

	// HardDelete elimina la fila/documento físicamente. Irreversible.
	HardDelete(ctx context.Context, id string) error
}
