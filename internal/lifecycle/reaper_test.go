package lifecycle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davilabs/rapida/internal/domain/repository"
)

// fakeSchedule es una agenda durable en memoria, con una entrada por usuario.
type fakeSchedule struct {
	mu      sync.Mutex
	entries map[string]repository.ScheduledDeletion
}

func newFakeSchedule() *fakeSchedule {
	return &fakeSchedule{entries: make(map[string]repository.ScheduledDeletion)}
}

func (f *fakeSchedule) Schedule(_ context.Context, userID string, dueAt time.Time) (*repository.ScheduledDeletion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := repository.ScheduledDeletion{ID: "sd-" + userID, UserID: userID, DueAt: dueAt, CreatedAt: time.Now().UTC()}
	f.entries[userID] = e
	return &e, nil
}

func (f *fakeSchedule) Due(_ context.Context, now time.Time) ([]repository.ScheduledDeletion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var due []repository.ScheduledDeletion
	for _, e := range f.entries {
		if !e.DueAt.After(now) {
			due = append(due, e)
		}
	}
	return due, nil
}

func (f *fakeSchedule) Cancel(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, userID)
	return nil
}

func (f *fakeSchedule) has(userID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[userID]
	return ok
}

func (f *fakeSchedule) dueAt(userID string) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[userID].DueAt
}

// fakeUsers implementa el mínimo de UserRepository que el reaper toca.
type fakeUsers struct {
	mu      sync.Mutex
	users   map[string]*repository.User
	deleted []string
}

func newFakeUsers(users ...*repository.User) *fakeUsers {
	f := &fakeUsers{users: make(map[string]*repository.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(context.Context, repository.CreateUserInput) (*repository.User, error) {
	return nil, repository.ErrNotImplemented
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindByEmail(context.Context, string) (*repository.User, error) {
	return nil, repository.ErrNotImplemented
}

func (f *fakeUsers) Update(context.Context, string, repository.UpdateUserInput) (*repository.User, error) {
	return nil, repository.ErrNotImplemented
}

func (f *fakeUsers) SetDeletedAt(_ context.Context, id string, at *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.DeletedAt = at
	}
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	now := time.Now().UTC()
	return f.SetDeletedAt(context.Background(), id, &now)
}

func (f *fakeUsers) HardDelete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func deletedUser(id string, deletedAt time.Time) *repository.User {
	return &repository.User{ID: id, Email: id + "@test.local", DeletedAt: &deletedAt}
}

func TestReaper_Schedule_UsesGracePeriod(t *testing.T) {
	sched := newFakeSchedule()
	r := NewReaper(sched, newFakeUsers(), NewCascader(nil), WithGracePeriod(48*time.Hour))

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.Schedule(context.Background(), "u1", at))
	require.Equal(t, at.Add(48*time.Hour), sched.dueAt("u1"))
}

func TestReaper_Sweep_ExecutesDueEntries(t *testing.T) {
	past := time.Now().UTC().Add(-100 * time.Hour)
	users := newFakeUsers(deletedUser("u1", past))
	sched := newFakeSchedule()
	soft := &fakeSoftRepo{}
	r := NewReaper(sched, users, NewCascader([]Entry{{Entity: "post", Soft: soft}}),
		WithGracePeriod(time.Hour))

	_, err := sched.Schedule(context.Background(), "u1", past.Add(time.Hour))
	require.NoError(t, err)

	r.Sweep(context.Background())

	// Cascada física + borrado de la cuenta + limpieza de la agenda.
	require.Equal(t, []string{"u1"}, soft.hardCalls)
	require.Equal(t, []string{"u1"}, users.deleted)
	require.False(t, sched.has("u1"))
}

func TestReaper_Sweep_CancelsWhenRestored(t *testing.T) {
	// Cuenta restaurada después de agendar: DeletedAt en nil.
	users := newFakeUsers(&repository.User{ID: "u1", Email: "u1@test.local"})
	sched := newFakeSchedule()
	soft := &fakeSoftRepo{}
	r := NewReaper(sched, users, NewCascader([]Entry{{Entity: "post", Soft: soft}}))

	_, err := sched.Schedule(context.Background(), "u1", time.Now().UTC().Add(-time.Minute))
	require.NoError(t, err)

	r.Sweep(context.Background())

	require.Empty(t, soft.hardCalls)
	require.Empty(t, users.deleted)
	require.False(t, sched.has("u1"))
}

func TestReaper_Sweep_ReschedulesAfterRedelete(t *testing.T) {
	// Re-borrada hace poco: la gracia corre desde el último borrado lógico.
	recent := time.Now().UTC().Add(-time.Minute)
	users := newFakeUsers(deletedUser("u1", recent))
	sched := newFakeSchedule()
	soft := &fakeSoftRepo{}
	r := NewReaper(sched, users, NewCascader([]Entry{{Entity: "post", Soft: soft}}),
		WithGracePeriod(24*time.Hour))

	_, err := sched.Schedule(context.Background(), "u1", time.Now().UTC().Add(-time.Second))
	require.NoError(t, err)

	r.Sweep(context.Background())

	require.Empty(t, soft.hardCalls)
	require.True(t, sched.has("u1"))
	require.Equal(t, recent.Add(24*time.Hour), sched.dueAt("u1"))
}

func TestReaper_Sweep_DropsOrphanEntries(t *testing.T) {
	users := newFakeUsers() // la cuenta ya no existe
	sched := newFakeSchedule()
	r := NewReaper(sched, users, NewCascader(nil))

	_, err := sched.Schedule(context.Background(), "ghost", time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)

	r.Sweep(context.Background())

	require.False(t, sched.has("ghost"))
}

func TestReaper_Sweep_RetainsEntryOnCascadeFailure(t *testing.T) {
	past := time.Now().UTC().Add(-100 * time.Hour)
	users := newFakeUsers(deletedUser("u1", past))
	sched := newFakeSchedule()
	failing := &fakeSoftRepo{failWith: repository.ErrNoDatabase}
	r := NewReaper(sched, users, NewCascader([]Entry{{Entity: "post", Soft: failing}}),
		WithGracePeriod(time.Hour))

	_, err := sched.Schedule(context.Background(), "u1", past.Add(time.Hour))
	require.NoError(t, err)

	r.Sweep(context.Background())

	// La entrada sigue vencida: el próximo barrido reintenta.
	require.Empty(t, users.deleted)
	require.True(t, sched.has("u1"))
}
