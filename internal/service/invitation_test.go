package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davilabs/rapida/internal/domain/repository"
	tokens "github.com/davilabs/rapida/internal/security/token"
)

// memInvitations es un InvitationRepository en memoria con la semántica de
// inmutabilidad post-aceptación.
type memInvitations struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*repository.Invitation
}

func newMemInvitations() *memInvitations {
	return &memInvitations{byID: make(map[string]*repository.Invitation)}
}

func (m *memInvitations) Create(_ context.Context, input repository.CreateInvitationInput) (*repository.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	owner := input.OwnerID
	if owner == "" {
		owner = input.CreatedBy
	}
	inv := &repository.Invitation{
		ID:        "inv" + strconv.Itoa(m.seq),
		Email:     input.Email,
		Role:      input.Role,
		CreatedBy: input.CreatedBy,
		OwnerID:   owner,
		CreatedAt: time.Now().UTC(),
	}
	m.byID[inv.ID] = inv
	cp := *inv
	return &cp, nil
}

func (m *memInvitations) FindByID(_ context.Context, id string) (*repository.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *memInvitations) FindByIDAndOwnerID(ctx context.Context, id, ownerID string) (*repository.Invitation, error) {
	inv, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return inv, nil
}

func (m *memInvitations) FindByEmail(_ context.Context, email string) (*repository.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.byID {
		if inv.Email == email {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memInvitations) FindAll(_ context.Context, filter repository.InvitationFilter) ([]repository.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.Invitation
	for _, inv := range m.byID {
		if filter.Email != nil && inv.Email != *filter.Email {
			continue
		}
		if filter.Accepted != nil && inv.Accepted != *filter.Accepted {
			continue
		}
		out = append(out, *inv)
	}
	return out, nil
}

func (m *memInvitations) Count(ctx context.Context, filter repository.InvitationFilter) (int64, error) {
	items, err := m.FindAll(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

func (m *memInvitations) Update(_ context.Context, id string, input repository.UpdateInvitationInput) (*repository.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if inv.Accepted {
		return nil, repository.ErrImmutable
	}
	if input.Role != nil {
		inv.Role = *input.Role
	}
	if input.Accepted != nil {
		inv.Accepted = *input.Accepted
		inv.AcceptedAt = input.AcceptedAt
	}
	inv.UpdatedAt = time.Now().UTC()
	cp := *inv
	return &cp, nil
}

func (m *memInvitations) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	if inv.Accepted {
		return repository.ErrImmutable
	}
	delete(m.byID, id)
	return nil
}

func (m *memInvitations) HardDeleteByCreator(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, inv := range m.byID {
		if inv.CreatedBy == userID {
			delete(m.byID, id)
		}
	}
	return nil
}

func newInvitationFixture() (*InvitationService, *memInvitations) {
	repo := newMemInvitations()
	issuer := tokens.NewInviteIssuer("test-secret", time.Hour)
	return NewInvitationService(InvitationDeps{
		Invitations: repo,
		Issuer:      issuer,
	}), repo
}

func TestInvitationService_Invite(t *testing.T) {
	svc, _ := newInvitationFixture()
	ctx := context.Background()

	inv, token, err := svc.Invite(ctx, " Eva@Example.com ", "editor", "u1")
	require.NoError(t, err)
	require.Equal(t, "eva@example.com", inv.Email)
	require.Equal(t, "u1", inv.OwnerID)
	require.NotEmpty(t, token)

	// El mismo email no puede invitarse dos veces.
	_, _, err = svc.Invite(ctx, "eva@example.com", "viewer", "u2")
	require.ErrorIs(t, err, ErrInviteExists)

	_, _, err = svc.Invite(ctx, "x@example.com", "", "u1")
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestInvitationService_Accept_OnlyOnce(t *testing.T) {
	svc, _ := newInvitationFixture()
	ctx := context.Background()

	_, token, err := svc.Invite(ctx, "eva@example.com", "editor", "u1")
	require.NoError(t, err)

	accepted, err := svc.Accept(ctx, token)
	require.NoError(t, err)
	require.True(t, accepted.Accepted)
	require.NotNil(t, accepted.AcceptedAt)

	// La transición es única.
	_, err = svc.Accept(ctx, token)
	require.ErrorIs(t, err, ErrAlreadyAccepted)
}

func TestInvitationService_Accept_RejectsBadToken(t *testing.T) {
	svc, _ := newInvitationFixture()

	_, err := svc.Accept(context.Background(), "no-es-un-jwt")
	require.ErrorIs(t, err, ErrInvalidToken)

	// Token firmado con otro secreto.
	other := tokens.NewInviteIssuer("otro-secreto", time.Hour)
	forged, err := other.Issue("inv1", "eva@example.com", "editor")
	require.NoError(t, err)
	_, err = svc.Accept(context.Background(), forged)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestInvitationService_Revoke(t *testing.T) {
	svc, repo := newInvitationFixture()
	ctx := context.Background()

	inv, token, err := svc.Invite(ctx, "eva@example.com", "editor", "u1")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, inv.ID))
	_, err = repo.FindByID(ctx, inv.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	// Una invitación aceptada no puede revocarse.
	inv2, token, err := svc.Invite(ctx, "ana@example.com", "viewer", "u1")
	require.NoError(t, err)
	_, err = svc.Accept(ctx, token)
	require.NoError(t, err)
	require.ErrorIs(t, svc.Revoke(ctx, inv2.ID), ErrAlreadyAccepted)
}
