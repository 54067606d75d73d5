// Package mysql implementa el adapter MySQL (motor relacional).
// Usa database/sql con github.com/go-sql-driver/mysql.
//
// El contrato es idéntico al adapter de PostgreSQL: colecciones anidadas en
// tablas hijas, IDs externos string sobre PK autoincremental, borrado lógico
// por deleted_at.
//
// Requisitos:
//   - MySQL 8.0+ (para columnas JSON)
//   - DSN format: user:password@tcp(host:port)/database?parseTime=true
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/davilabs/rapida/internal/domain/repository"
	"github.com/davilabs/rapida/internal/store"
)

func init() {
	store.RegisterAdapter(&mysqlAdapter{})
}

// mysqlAdapter implementa store.Adapter para MySQL.
type mysqlAdapter struct{}

func (a *mysqlAdapter) Name() string { return "mysql" }

func (a *mysqlAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	// El DSN debe incluir parseTime=true para que los timestamps se
	// conviertan a time.Time.
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}

	// Configurar pool de conexiones
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	} else {
		db.SetMaxOpenConns(10)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	} else {
		db.SetMaxIdleConns(2)
	}
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// Verificar conectividad
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: ping failed: %w", err)
	}

	return &mysqlConnection{db: db}, nil
}

// mysqlConnection representa una conexión activa a MySQL.
type mysqlConnection struct {
	db *sql.DB
}

func (c *mysqlConnection) Name() string { return "mysql" }

func (c *mysqlConnection) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *mysqlConnection) Close() error {
	return c.db.Close()
}

// DB expone el handle para migraciones y tests.
func (c *mysqlConnection) DB() *sql.DB { return c.db }

// ─── Repositorios ───

func (c *mysqlConnection) Users() repository.UserRepository {
	return &userRepo{db: c.db}
}

func (c *mysqlConnection) PersonProfiles() repository.PersonProfileRepository {
	return &personProfileRepo{db: c.db}
}

func (c *mysqlConnection) CompanyProfiles() repository.CompanyProfileRepository {
	return &companyProfileRepo{db: c.db}
}

func (c *mysqlConnection) Workspaces() repository.WorkspaceRepository {
	return &workspaceRepo{db: c.db}
}

func (c *mysqlConnection) Invitations() repository.InvitationRepository {
	return &invitationRepo{db: c.db}
}

func (c *mysqlConnection) Posts() repository.PostRepository {
	return &postRepo{db: c.db}
}

func (c *mysqlConnection) ScheduledDeletions() repository.ScheduledDeletionRepository {
	return &scheduledDeletionRepo{db: c.db}
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

// placeholders genera "?, ?, ?" para n argumentos.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	out := "?"
	for i := 1; i < n; i++ {
		out += ", ?"
	}
	return out
}
