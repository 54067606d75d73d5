package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: noop
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "memory", cfg.Cache.Kind)
	require.Equal(t, "related-files", cfg.Uploads.Bucket)
	require.Equal(t, "auto", cfg.SMTP.TLS)
	// 7 días de TTL de invitación, 3 de verificación, 90 de gracia,
	// barrido cada hora.
	require.Equal(t, 7*24*time.Hour, cfg.InviteTTL())
	require.Equal(t, 3*24*time.Hour, cfg.VerifyTTL())
	require.Equal(t, 90*24*time.Hour, cfg.GracePeriod())
	require.Equal(t, time.Hour, cfg.SweepInterval())
}

func TestLoad_YAMLValues(t *testing.T) {
	path := writeConfig(t, `
app:
  app_env: prod
server:
  addr: ":9090"
  cors_allowed_origins: ["https://app.example.com"]
storage:
  driver: postgres
  dsn: postgres://localhost/rapida
  postgres:
    max_open_conns: 20
    max_idle_conns: 5
cache:
  kind: redis
  redis:
    addr: localhost:6379
    prefix: rapida
lifecycle:
  grace_period: 24h
  sweep_interval: 10m
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.App.Env)
	require.Equal(t, ":9090", cfg.Server.Addr)
	require.Equal(t, []string{"https://app.example.com"}, cfg.Server.CORSAllowedOrigins)
	require.Equal(t, "postgres", cfg.Storage.Driver)
	require.Equal(t, 20, cfg.Storage.Postgres.MaxOpenConns)
	require.Equal(t, "redis", cfg.Cache.Kind)
	require.Equal(t, 24*time.Hour, cfg.GracePeriod())
	require.Equal(t, 10*time.Minute, cfg.SweepInterval())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: postgres
  dsn: postgres://yaml/db
`)
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DATABASE", "rapida")
	t.Setenv("SERVER_ADDR", ":3000")
	t.Setenv("LIFECYCLE_GRACE_PERIOD", "48h")
	t.Setenv("FLAGS_MIGRATE", "true")
	t.Setenv("SERVER_CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test")

	cfg, err := Load(path)
	require.NoError(t, err)

	// El entorno pisa lo que venga del YAML.
	require.Equal(t, "mongo", cfg.Storage.Driver)
	require.Equal(t, "mongodb://localhost:27017", cfg.Storage.Mongo.URI)
	require.Equal(t, "rapida", cfg.Storage.Mongo.Database)
	require.Equal(t, ":3000", cfg.Server.Addr)
	require.Equal(t, 48*time.Hour, cfg.GracePeriod())
	require.True(t, cfg.Flags.Migrate)
	require.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.CORSAllowedOrigins)
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	path := writeConfig(t, `
lifecycle:
  grace_period: noventa-dias
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
