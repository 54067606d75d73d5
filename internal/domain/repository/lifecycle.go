package repository

import (
	"context"
	"time"
)

// CreatorScopedRepository agrupa las operaciones de cascada sobre los
// registros creados por un usuario. Todo repositorio cuya entidad declara
// un campo creador lo implementa; el motor de cascada no conoce entidades,
// solo estas operaciones.
type CreatorScopedRepository interface {
	// HardDeleteByCreator elimina físicamente todos los registros creados
	// por el usuario. No es error que no haya ninguno.
	HardDeleteByCreator(ctx context.Context, userID string) error
}

// SoftDeletableRepository extiende CreatorScopedRepository para entidades
// que además declaran marca de borrado lógico.
type SoftDeletableRepository interface {
	CreatorScopedRepository

	// SoftDeleteByCreator estampa DeletedAt en todos los registros creados
	// por el usuario.
	SoftDeleteByCreator(ctx context.Context, userID string, at time.Time) error

	// RestoreByCreator limpia DeletedAt. Es un no-op seguro si no hay
	// registros borrados.
	RestoreByCreator(ctx context.Context, userID string) error
}

// ScheduledDeletion es el registro persistido de un borrado físico diferido.
// Reemplaza a los timers en memoria: sobrevive reinicios del proceso.
type ScheduledDeletion struct {
	ID        string
	UserID    string
	DueAt     time.Time
	CreatedAt time.Time
}

// ScheduledDeletionRepository define la agenda durable de borrados físicos.
type ScheduledDeletionRepository interface {
	// Schedule agenda (o re-agenda, si ya existe) el borrado físico del
	// usuario para dueAt.
	Schedule(ctx context.Context, userID string, dueAt time.Time) (*ScheduledDeletion, error)

	// Due retorna las entradas vencidas a la hora dada.
	Due(ctx context.Context, now time.Time) ([]ScheduledDeletion, error)

	// Cancel elimina la entrada del usuario. No es error que no exista.
	Cancel(ctx context.Context, userID string) error
}
