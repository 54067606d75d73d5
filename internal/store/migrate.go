package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davilabs/rapida/internal/observability/logger"
)

// lockID genera un ID determinístico (64-bit) para el advisory lock de
// migraciones, de modo que dos instancias no migren en paralelo.
func lockID() int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("rapida:migrate"))
	return int64(h.Sum64())
}

// readMigrations lista los *_up.sql embebidos en orden lexicográfico.
func readMigrations(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(strings.ToLower(e.Name()), "_up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// MigratePostgres aplica las migraciones pendientes sobre el pool dado y
// devuelve cuántos scripts se aplicaron. Toma un advisory lock para evitar
// carreras entre instancias, y registra cada versión en schema_migrations.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS) (int, error) {
	log := logger.L().Named("store.migrate")

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	lctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	id := lockID()
	var got bool
	if err := conn.QueryRow(lctx, "select pg_try_advisory_lock($1)", id).Scan(&got); err != nil {
		return 0, err
	}
	if !got {
		log.Info("migration lock is already held, waiting")
		if _, err := conn.Exec(lctx, "select pg_advisory_lock($1)", id); err != nil {
			return 0, err
		}
	}
	defer func() {
		if _, err := conn.Exec(context.Background(), "select pg_advisory_unlock($1)", id); err != nil {
			log.Warn("failed to release migration lock", logger.Err(err))
		}
	}()

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := make(map[string]bool)
	rows, err := pool.Query(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return 0, fmt.Errorf("query applied migrations: %w", err)
	}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return 0, err
		}
		applied[v] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	files, err := readMigrations(fsys)
	if err != nil {
		return 0, err
	}

	var count int
	for _, f := range files {
		if applied[f] {
			continue
		}
		log.Info("applying migration", logger.String("version", f))

		b, err := fs.ReadFile(fsys, f)
		if err != nil {
			return count, err
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return count, fmt.Errorf("begin tx: %w", err)
		}
		if _, err := tx.Exec(ctx, string(b)); err != nil {
			_ = tx.Rollback(ctx)
			return count, fmt.Errorf("exec %s: %w", f, err)
		}
		if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", f); err != nil {
			_ = tx.Rollback(ctx)
			return count, fmt.Errorf("record version %s: %w", f, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return count, fmt.Errorf("commit tx: %w", err)
		}
		count++
	}
	return count, nil
}

// MigrateMySQL es el equivalente para MySQL/MariaDB. Serializa con GET_LOCK
// y ejecuta los scripts sentencia por sentencia (el driver no acepta
// múltiples sentencias por Exec con la configuración por defecto).
func MigrateMySQL(ctx context.Context, db *sql.DB, fsys fs.FS) (int, error) {
	log := logger.L().Named("store.migrate")

	conn, err := db.Conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	var got int
	if err := conn.QueryRowContext(ctx, "SELECT GET_LOCK('rapida:migrate', 30)").Scan(&got); err != nil {
		return 0, err
	}
	if got != 1 {
		return 0, fmt.Errorf("migration lock timeout")
	}
	defer func() {
		if _, err := conn.ExecContext(context.Background(), "SELECT RELEASE_LOCK('rapida:migrate')"); err != nil {
			log.Warn("failed to release migration lock", logger.Err(err))
		}
	}()

	if _, err := conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
		)`); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := make(map[string]bool)
	rows, err := conn.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return 0, fmt.Errorf("query applied migrations: %w", err)
	}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return 0, err
		}
		applied[v] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	files, err := readMigrations(fsys)
	if err != nil {
		return 0, err
	}

	var count int
	for _, f := range files {
		if applied[f] {
			continue
		}
		log.Info("applying migration", logger.String("version", f))

		b, err := fs.ReadFile(fsys, f)
		if err != nil {
			return count, err
		}

		// DDL en MySQL comitea implícito, así que no hay transacción que
		// proteja el script completo: se aplica sentencia a sentencia.
		for _, stmt := range splitStatements(string(b)) {
			if _, err := conn.ExecContext(ctx, stmt); err != nil {
				return count, fmt.Errorf("exec %s: %w", f, err)
			}
		}
		if _, err := conn.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", f); err != nil {
			return count, fmt.Errorf("record version %s: %w", f, err)
		}
		count++
	}
	return count, nil
}

// splitStatements corta un script en sentencias por ';' a fin de línea.
// Suficiente para DDL plano; no contempla ';' embebidos en strings.
func splitStatements(script string) []string {
	var out []string
	for _, raw := range strings.Split(script, ";") {
		stmt := strings.TrimSpace(raw)
		if stmt == "" {
			continue
		}
		// descartar bloques que quedaron solo con comentarios
		onlyComments := true
		for _, line := range strings.Split(stmt, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "--") {
				continue
			}
			onlyComments = false
			break
		}
		if onlyComments {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
