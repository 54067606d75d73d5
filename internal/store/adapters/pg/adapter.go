// Package pg implementa el adapter PostgreSQL (motor relacional).
// Usa pgxpool directamente. Las colecciones anidadas de los perfiles se
// descomponen en tablas hijas con FK entera al perfil y se rearman al shape
// canónico en la lectura.
package pg

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davilabs/rapida/internal/domain/repository"
	"github.com/davilabs/rapida/internal/store"
)

func init() {
	store.RegisterAdapter(&postgresAdapter{})
}

type postgresAdapter struct{}

func (a *postgresAdapter) Name() string { return "postgres" }

func (a *postgresAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("pg: DSN requerido")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}

	// Configurar pool
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	} else {
		poolCfg.MinConns = 2
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}

	// Verificar conexión
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}

	return &pgConnection{pool: pool}, nil
}

// pgConnection representa una conexión activa a PostgreSQL.
type pgConnection struct {
	pool *pgxpool.Pool
}

func (c *pgConnection) Name() string { return "postgres" }

func (c *pgConnection) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *pgConnection) Close() error {
	c.pool.Close()
	return nil
}

// Pool expone el pool para migraciones.
func (c *pgConnection) Pool() *pgxpool.Pool { return c.pool }

// ─── Repositorios ───

func (c *pgConnection) Users() repository.UserRepository {
	return &userRepo{pool: c.pool}
}

func (c *pgConnection) PersonProfiles() repository.PersonProfileRepository {
	return &personProfileRepo{pool: c.pool}
}

func (c *pgConnection) CompanyProfiles() repository.CompanyProfileRepository {
	return &companyProfileRepo{pool: c.pool}
}

func (c *pgConnection) Workspaces() repository.WorkspaceRepository {
	return &workspaceRepo{pool: c.pool}
}

func (c *pgConnection) Invitations() repository.InvitationRepository {
	return &invitationRepo{pool: c.pool}
}

func (c *pgConnection) Posts() repository.PostRepository {
	return &postRepo{pool: c.pool}
}

func (c *pgConnection) ScheduledDeletions() repository.ScheduledDeletionRepository {
	return &scheduledDeletionRepo{pool: c.pool}
}

// ─── Helpers compartidos ───

// parseID convierte el ID externo (string) a la PK entera nativa.
// Un ID malformado se trata como inexistente.
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, repository.ErrNotFound
	}
	return n, nil
}

// formatID normaliza la PK entera al ID externo (string).
func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
