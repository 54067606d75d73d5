package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davilabs/rapida/internal/domain/repository"
)

func TestNormalizeDriver(t *testing.T) {
	cases := map[string]string{
		"postgres":   "postgres",
		"pg":         "postgres",
		"PostgreSQL": "postgres",
		"mysql":      "mysql",
		"mariadb":    "mysql",
		"mongo":      "mongo",
		"mongodb":    "mongo",
		"":           "noop",
		"none":       "noop",
		" Mongo ":    "mongo",
		"cassandra":  "cassandra",
	}
	for in, want := range cases {
		require.Equal(t, want, NormalizeDriver(in), "driver %q", in)
	}
}

// fakeAdapter registra un adapter mínimo para probar el registry.
type fakeAdapter struct {
	name      string
	connected int
}

func (a *fakeAdapter) Name() string { return a.name }

func (a *fakeAdapter) Connect(_ context.Context, cfg AdapterConfig) (AdapterConnection, error) {
	a.connected++
	return &fakeConnection{name: a.name}, nil
}

type fakeConnection struct{ name string }

func (c *fakeConnection) Name() string                                         { return c.name }
func (c *fakeConnection) Ping(context.Context) error                           { return nil }
func (c *fakeConnection) Close() error                                         { return nil }
func (c *fakeConnection) Users() repository.UserRepository                     { return nil }
func (c *fakeConnection) PersonProfiles() repository.PersonProfileRepository   { return nil }
func (c *fakeConnection) CompanyProfiles() repository.CompanyProfileRepository { return nil }
func (c *fakeConnection) Workspaces() repository.WorkspaceRepository           { return nil }
func (c *fakeConnection) Invitations() repository.InvitationRepository         { return nil }
func (c *fakeConnection) Posts() repository.PostRepository                     { return nil }
func (c *fakeConnection) ScheduledDeletions() repository.ScheduledDeletionRepository {
	return nil
}

func TestRegistry_OpenAdapter(t *testing.T) {
	fake := &fakeAdapter{name: "fake-engine"}
	RegisterAdapter(fake)

	got, ok := GetAdapter("fake-engine")
	require.True(t, ok)
	require.Equal(t, "fake-engine", got.Name())

	conn, err := OpenAdapter(context.Background(), AdapterConfig{Name: "fake-engine"})
	require.NoError(t, err)
	require.Equal(t, "fake-engine", conn.Name())
	require.Equal(t, 1, fake.connected)
}

func TestRegistry_UnknownDriverFailsAtOpen(t *testing.T) {
	_, err := OpenAdapter(context.Background(), AdapterConfig{Name: "no-such-engine"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not registered")
}

func TestRegistry_DuplicateRegistrationPanics(t *testing.T) {
	RegisterAdapter(&fakeAdapter{name: "dup-engine"})
	require.Panics(t, func() {
		RegisterAdapter(&fakeAdapter{name: "dup-engine"})
	})
}

func TestOpen_NormalizesAlias(t *testing.T) {
	fake := &fakeAdapter{name: "mongo"}
	if _, ok := GetAdapter("mongo"); !ok {
		RegisterAdapter(fake)
	}

	conn, err := Open(context.Background(), AdapterConfig{Name: "MongoDB"})
	require.NoError(t, err)
	require.Equal(t, "mongo", conn.Name())
}
