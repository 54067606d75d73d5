package store

import (
	"context"
	"strings"
)

// NormalizeDriver resuelve alias de driver al nombre canónico del adapter.
func NormalizeDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "pg", "postgresql":
		return "postgres"
	case "mysql", "mariadb":
		return "mysql"
	case "mongo", "mongodb":
		return "mongo"
	case "noop", "none", "":
		return "noop"
	default:
		return strings.ToLower(strings.TrimSpace(driver))
	}
}

// Open normaliza el driver de la config y abre la conexión vía registry.
func Open(ctx context.Context, cfg AdapterConfig) (AdapterConnection, error) {
	cfg.Name = NormalizeDriver(cfg.Name)
	return OpenAdapter(ctx, cfg)
}
