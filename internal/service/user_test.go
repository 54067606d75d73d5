package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/davilabs/rapida/internal/domain/repository"
	"github.com/davilabs/rapida/internal/lifecycle"
	tokens "github.com/davilabs/rapida/internal/security/token"
)

// memUsers es un UserRepository en memoria para los tests del servicio.
type memUsers struct {
	mu          sync.Mutex
	seq         int
	byID        map[string]*repository.User
	hardDeleted []string
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[string]*repository.User)}
}

func (m *memUsers) Create(_ context.Context, input repository.CreateUserInput) (*repository.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	u := &repository.User{
		ID:           "u" + strconv.Itoa(m.seq),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
	m.byID[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*repository.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*repository.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) Update(_ context.Context, id string, input repository.UpdateUserInput) (*repository.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if input.Email != nil {
		u.Email = *input.Email
	}
	if input.PasswordHash != nil {
		u.PasswordHash = *input.PasswordHash
	}
	if input.Verified != nil {
		u.Verified = *input.Verified
	}
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (m *memUsers) SetDeletedAt(_ context.Context, id string, at *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.DeletedAt = at
	return nil
}

func (m *memUsers) Delete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	return m.SetDeletedAt(ctx, id, &now)
}

func (m *memUsers) HardDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	m.hardDeleted = append(m.hardDeleted, id)
	return nil
}

// memSchedule es la agenda durable en memoria.
type memSchedule struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func newMemSchedule() *memSchedule {
	return &memSchedule{entries: make(map[string]time.Time)}
}

func (m *memSchedule) Schedule(_ context.Context, userID string, dueAt time.Time) (*repository.ScheduledDeletion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[userID] = dueAt
	return &repository.ScheduledDeletion{ID: "sd-" + userID, UserID: userID, DueAt: dueAt}, nil
}

func (m *memSchedule) Due(_ context.Context, now time.Time) ([]repository.ScheduledDeletion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var due []repository.ScheduledDeletion
	for id, at := range m.entries {
		if !at.After(now) {
			due = append(due, repository.ScheduledDeletion{UserID: id, DueAt: at})
		}
	}
	return due, nil
}

func (m *memSchedule) Cancel(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
	return nil
}

func (m *memSchedule) has(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[userID]
	return ok
}

// memCascadeRepo cuenta las operaciones de cascada que recibe.
type memCascadeRepo struct {
	mu       sync.Mutex
	softs    int
	restores int
	hards    int
}

func (m *memCascadeRepo) SoftDeleteByCreator(context.Context, string, time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.softs++
	return nil
}

func (m *memCascadeRepo) RestoreByCreator(context.Context, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restores++
	return nil
}

func (m *memCascadeRepo) HardDeleteByCreator(context.Context, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hards++
	return nil
}

type userFixture struct {
	svc      *UserService
	users    *memUsers
	sched    *memSchedule
	cascade  *memCascadeRepo
	verifier *tokens.VerifyIssuer
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	users := newMemUsers()
	sched := newMemSchedule()
	cascade := &memCascadeRepo{}
	cascader := lifecycle.NewCascader([]lifecycle.Entry{
		{Entity: "person_profile", Soft: cascade},
	})
	reaper := lifecycle.NewReaper(sched, users, cascader,
		lifecycle.WithGracePeriod(72*time.Hour))
	verifier := tokens.NewVerifyIssuer("secreto-de-test", time.Hour)
	return &userFixture{
		svc: NewUserService(UserDeps{
			Users:    users,
			Cascader: cascader,
			Reaper:   reaper,
			Verifier: verifier,
		}),
		users:    users,
		sched:    sched,
		cascade:  cascade,
		verifier: verifier,
	}
}

// register crea una cuenta ya verificada, lista para autenticarse.
func (f *userFixture) register(t *testing.T, email, password string) *repository.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), email, password)
	require.NoError(t, err)
	token, err := f.verifier.Issue(u.ID, u.Email)
	require.NoError(t, err)
	u, err = f.svc.Verify(context.Background(), token)
	require.NoError(t, err)
	return u
}

func TestUserService_Register(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, "  Ana@Example.COM ", "s3cret")
	require.NoError(t, err)
	// Email normalizado y password hasheado con bcrypt.
	require.Equal(t, "ana@example.com", u.Email)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")))

	_, err = f.svc.Register(ctx, "ana@example.com", "otra")
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = f.svc.Register(ctx, "", "x")
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestUserService_Authenticate(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u := f.register(t, "ana@example.com", "s3cret")

	got, err := f.svc.Authenticate(ctx, "ANA@example.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = f.svc.Authenticate(ctx, "ana@example.com", "mal")
	require.ErrorIs(t, err, repository.ErrNotFound)

	// Una cuenta borrada lógicamente no puede autenticarse.
	require.NoError(t, f.svc.SoftDelete(ctx, u.ID))
	_, err = f.svc.Authenticate(ctx, "ana@example.com", "s3cret")
	require.ErrorIs(t, err, ErrAccountDeleted)
}

func TestUserService_Verify_ActivatesAccount(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, "ana@example.com", "s3cret")
	require.NoError(t, err)
	require.False(t, u.Verified)

	// Sin verificar, el login se rechaza aunque las credenciales sean buenas.
	_, err = f.svc.Authenticate(ctx, "ana@example.com", "s3cret")
	require.ErrorIs(t, err, ErrNotVerified)

	token, err := f.verifier.Issue(u.ID, u.Email)
	require.NoError(t, err)
	got, err := f.svc.Verify(ctx, token)
	require.NoError(t, err)
	require.True(t, got.Verified)

	_, err = f.svc.Authenticate(ctx, "ana@example.com", "s3cret")
	require.NoError(t, err)

	// Re-verificar es un no-op exitoso.
	got, err = f.svc.Verify(ctx, token)
	require.NoError(t, err)
	require.True(t, got.Verified)
}

func TestUserService_Verify_RejectsBadToken(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, "ana@example.com", "s3cret")
	require.NoError(t, err)

	_, err = f.svc.Verify(ctx, "no-es-un-jwt")
	require.ErrorIs(t, err, ErrInvalidToken)

	// Un token firmado con otro secreto tampoco pasa.
	forged, err := tokens.NewVerifyIssuer("otro-secreto", time.Hour).Issue(u.ID, u.Email)
	require.NoError(t, err)
	_, err = f.svc.Verify(ctx, forged)
	require.ErrorIs(t, err, ErrInvalidToken)

	got, err := f.svc.Get(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.Verified)
}

func TestUserService_SoftDelete_CascadesAndSchedules(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, "ana@example.com", "s3cret")
	require.NoError(t, err)

	require.NoError(t, f.svc.SoftDelete(ctx, u.ID))

	got, err := f.svc.Get(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.Deleted())
	require.Equal(t, 1, f.cascade.softs)
	require.True(t, f.sched.has(u.ID))

	// Idempotente: re-borrar no re-dispara la cascada.
	require.NoError(t, f.svc.SoftDelete(ctx, u.ID))
	require.Equal(t, 1, f.cascade.softs)
}

func TestUserService_Restore_UndoesSoftDelete(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, "ana@example.com", "s3cret")
	require.NoError(t, err)
	require.NoError(t, f.svc.SoftDelete(ctx, u.ID))

	require.NoError(t, f.svc.Restore(ctx, u.ID))

	got, err := f.svc.Get(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.Deleted())
	require.Equal(t, 1, f.cascade.restores)
	require.False(t, f.sched.has(u.ID))

	// Restaurar una cuenta activa es un no-op exitoso.
	require.NoError(t, f.svc.Restore(ctx, u.ID))
	require.Equal(t, 1, f.cascade.restores)
}

func TestUserService_HardDelete_Immediate(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, "ana@example.com", "s3cret")
	require.NoError(t, err)

	require.NoError(t, f.svc.HardDelete(ctx, u.ID))

	_, err = f.svc.Get(ctx, u.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.Equal(t, 1, f.cascade.hards)
	require.False(t, f.sched.has(u.ID))
}

func TestUserService_Update_RejectsTakenEmail(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	a, err := f.svc.Register(ctx, "a@example.com", "pw")
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, "b@example.com", "pw")
	require.NoError(t, err)

	taken := "b@example.com"
	_, err = f.svc.Update(ctx, a.ID, &taken, nil)
	require.ErrorIs(t, err, ErrEmailTaken)

	// Actualizar al propio email no es conflicto.
	own := "A@example.com"
	got, err := f.svc.Update(ctx, a.ID, &own, nil)
	require.NoError(t, err)
	require.Equal(t, "a@example.com", got.Email)
}
