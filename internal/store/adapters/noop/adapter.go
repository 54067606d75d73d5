// Package noop implementa el adapter no-op para modo sin DB.
// Todas las operaciones de repositorio retornan ErrNoDatabase: permite
// levantar el proceso (health, métricas, migraciones pendientes) sin un
// motor configurado.
package noop

import (
	"context"
	"time"

	"github.com/davilabs/rapida/internal/domain/repository"
	"github.com/davilabs/rapida/internal/store"
)

func init() {
	store.RegisterAdapter(&noopAdapter{})
}

type noopAdapter struct{}

func (a *noopAdapter) Name() string { return "noop" }

func (a *noopAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	return &noopConnection{}, nil
}

type noopConnection struct{}

func (c *noopConnection) Name() string                   { return "noop" }
func (c *noopConnection) Ping(ctx context.Context) error { return nil }
func (c *noopConnection) Close() error                   { return nil }

// Todos los repos retornan ErrNoDatabase
func (c *noopConnection) Users() repository.UserRepository { return &userRepo{} }
func (c *noopConnection) PersonProfiles() repository.PersonProfileRepository {
	return &personProfileRepo{}
}
func (c *noopConnection) CompanyProfiles() repository.CompanyProfileRepository {
	return &companyProfileRepo{}
}
func (c *noopConnection) Workspaces() repository.WorkspaceRepository   { return &workspaceRepo{} }
func (c *noopConnection) Invitations() repository.InvitationRepository { return &invitationRepo{} }
func (c *noopConnection) Posts() repository.PostRepository             { return &postRepo{} }
func (c *noopConnection) ScheduledDeletions() repository.ScheduledDeletionRepository {
	return &scheduledDeletionRepo{}
}

// ─── Users ───

type userRepo struct{}

func (r *userRepo) Create(ctx context.Context, input repository.CreateUserInput) (*repository.User, error) {
	return nil, repository.ErrNoDatabase
}
func (r *userRepo) FindByID(ctx context.Context, id string) (*repository.User, error) {
	return nil, repository.ErrNoDatabase
}
func (r *userRepo) FindByEmail(ctx context.Context, email string) (*repository.User, error) {
	return nil, repository.ErrNoDatabase
}
func (r *userRepo) Update(ctx context.Context, id string, input repository.UpdateUserInput) (*repository.User, error) {
	return nil, repository.ErrNoDatabase
}
func (r *userRepo) SetDeletedAt(ctx context.Context, id string, at *time.Time) error {
	return repository.ErrNoDatabase
}
func (r *userRepo) Delete(ctx context.Context, id string) error {
	return repository.ErrNoDatabase
}
func (r *userRepo) HardDelete(ctx context.Context, id string) error {
	return repository.ErrNoDatabase
}

// ─── PersonProfiles ───

type personProfileRepo struct{}

func (r *personProfileRepo) Create(ctx context.Context, input repository.CreatePersonProfileInput) (*repository.PersonProfile, error) {
	return nil, repository.ErrNoDatabase
}
func (r *personProfileRepo) FindByID(ctx context.Context, id string) (*repository.PersonProfile, error) {
	return nil, repository.ErrNoDatabase
}
func (r *personProfileRepo) FindByUserID(ctx context.Context, userID string) (*repository.PersonProfile, error) {
	return nil, repository.ErrNoDatabase
}
func (r *personProfileRepo) FindByUserIDs(ctx context.Context, userIDs []string) ([]repository.PersonProfile, error) {
	return nil, repository.ErrNoDatabase
}
func (r *personProfileRepo) Update(ctx context.Context, id string, input repository.UpdatePersonProfileInput) (*repository.PersonProfile, error) {
	return nil, repository.ErrNoDatabase
}
func (r *personProfileRepo) Delete(ctx context.Context, id string) error {
	return repository.ErrNoDatabase
}
func (r *personProfileRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return repository.ErrNoDatabase
}
func (r *personProfileRepo) FindByUsernameLike(ctx context.Context, pattern string, page, limit *int) (*repository.ProfilePage[repository.PersonProfile], error) {
	return nil, repository.ErrNoDatabase
}
func (r *personProfileRepo) SoftDeleteByCreator(ctx context.Context, userID string, at time.Time) error {
	return repository.ErrNoDatabase
}
func (r *personProfileRepo) RestoreByCreator(ctx context.Context, userID string) error {
	return repository.ErrNoDatabase
}
func (r *personProfileRepo) HardDeleteByCreator(ctx context.Context, userID string) error {
	return repository.ErrNoDatabase
}

// ─── CompanyProfiles ───

type companyProfileRepo struct{}

func (r *companyProfileRepo) Create(ctx context.Context, input repository.CreateCompanyProfileInput) (*repository.CompanyProfile, error) {
	return nil, repository.ErrNoDatabase
}
func (r *companyProfileRepo) FindByID(ctx context.Context, id string) (*repository.CompanyProfile, error) {
	return nil, repository.ErrNoDatabase
}
func (r *companyProfileRepo) FindByUserID(ctx context.Context, userID string) (*repository.CompanyProfile, error) {
	return nil, repository.ErrNoDatabase
}
func (r *companyProfileRepo) FindByUserIDs(ctx context.Context, userIDs []string) ([]repository.CompanyProfile, error) {
	return nil, repository.ErrNoDatabase
}
func (r *companyProfileRepo) Update(ctx context.Context, id string, input repository.UpdateCompanyProfileInput) (*repository.CompanyProfile, error) {
	return nil, repository.ErrNoDatabase
}
func (r *companyProfileRepo) Delete(ctx context.Context, id string) error {
	return repository.ErrNoDatabase
}
func (r *companyProfileRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return repository.ErrNoDatabase
}
func (r *companyProfileRepo) FindByUsernameLike(ctx context.Context, pattern string, page, limit *int) (*repository.ProfilePage[repository.CompanyProfile], error) {
	return nil, repository.ErrNoDatabase
}
func (r *companyProfileRepo) SoftDeleteByCreator(ctx context.Context, userID string, at time.Time) error {
	return repository.ErrNoDatabase
}
func (r *companyProfileRepo) RestoreByCreator(ctx context.Context, userID string) error {
	return repository.ErrNoDatabase
}
func (r *companyProfileRepo) HardDeleteByCreator(ctx context.Context, userID string) error {
	return repository.ErrNoDatabase
}

// ─── Workspaces ───

type workspaceRepo struct{}

func (r *workspaceRepo) Create(ctx context.Context, input repository.CreateWorkspaceInput) (*repository.Workspace, error) {
	return nil, repository.ErrNoDatabase
}
func (r *workspaceRepo) FindByID(ctx context.Context, id string) (*repository.Workspace, error) {
	return nil, repository.ErrNoDatabase
}
func (r *workspaceRepo) FindByOwner(ctx context.Context, owner string) (*repository.Workspace, error) {
	return nil, repository.ErrNoDatabase
}
func (r *workspaceRepo) FindByTeamUser(ctx context.Context, userID string) ([]repository.Workspace, error) {
	return nil, repository.ErrNoDatabase
}
func (r *workspaceRepo) Update(ctx context.Context, id string, input repository.UpdateWorkspaceInput) (*repository.Workspace, error) {
	return nil, repository.ErrNoDatabase
}
func (r *workspaceRepo) Delete(ctx context.Context, id string) error {
	return repository.ErrNoDatabase
}
func (r *workspaceRepo) AddTeamUser(ctx context.Context, workspaceID, userID string) (*repository.Workspace, error) {
	return nil, repository.ErrNoDatabase
}
func (r *workspaceRepo) RemoveTeamUser(ctx context.Context, workspaceID, userID string) (*repository.Workspace, error) {
	return nil, repository.ErrNoDatabase
}

// ─── Invitations ───

type invitationRepo struct{}

func (r *invitationRepo) Create(ctx context.Context, input repository.CreateInvitationInput) (*repository.Invitation, error) {
	return nil, repository.ErrNoDatabase
}
func (r *invitationRepo) FindByID(ctx context.Context, id string) (*repository.Invitation, error) {
	return nil, repository.ErrNoDatabase
}
func (r *invitationRepo) FindByIDAndOwnerID(ctx context.Context, id, ownerID string) (*repository.Invitation, error) {
	return nil, repository.ErrNoDatabase
}
func (r *invitationRepo) FindByEmail(ctx context.Context, email string) (*repository.Invitation, error) {
	return nil, repository.ErrNoDatabase
}
func (r *invitationRepo) FindAll(ctx context.Context, filter repository.InvitationFilter) ([]repository.Invitation, error) {
	return nil, repository.ErrNoDatabase
}
func (r *invitationRepo) Count(ctx context.Context, filter repository.InvitationFilter) (int64, error) {
	return 0, repository.ErrNoDatabase
}
func (r *invitationRepo) Update(ctx context.Context, id string, input repository.UpdateInvitationInput) (*repository.Invitation, error) {
	return nil, repository.ErrNoDatabase
}
func (r *invitationRepo) Delete(ctx context.Context, id string) error {
	return repository.ErrNoDatabase
}
func (r *invitationRepo) HardDeleteByCreator(ctx context.Context, userID string) error {
	return repository.ErrNoDatabase
}

// ─── Posts ───

type postRepo struct{}

func (r *postRepo) Create(ctx context.Context, input repository.CreatePostInput, workspace, createdBy string) (*repository.Post, error) {
	return nil, repository.ErrNoDatabase
}
func (r *postRepo) FindAll(ctx context.Context, workspace string, page, limit *int) (*repository.PostPage, error) {
	return nil, repository.ErrNoDatabase
}
func (r *postRepo) FindByID(ctx context.Context, id, workspace string) (*repository.Post, error) {
	return nil, repository.ErrNoDatabase
}
func (r *postRepo) Update(ctx context.Context, id string, input repository.UpdatePostInput, workspace string) (*repository.Post, error) {
	return nil, repository.ErrNoDatabase
}
func (r *postRepo) Delete(ctx context.Context, id, workspace string) error {
	return repository.ErrNoDatabase
}
func (r *postRepo) SoftDeleteByCreator(ctx context.Context, userID string, at time.Time) error {
	return repository.ErrNoDatabase
}
func (r *postRepo) RestoreByCreator(ctx context.Context, userID string) error {
	return repository.ErrNoDatabase
}
func (r *postRepo) HardDeleteByCreator(ctx context.Context, userID string) error {
	return repository.ErrNoDatabase
}

// ─── ScheduledDeletions ───

type scheduledDeletionRepo struct{}

func (r *scheduledDeletionRepo) Schedule(ctx context.Context, userID string, dueAt time.Time) (*repository.ScheduledDeletion, error) {
	return nil, repository.ErrNoDatabase
}
func (r *scheduledDeletionRepo) Due(ctx context.Context, now time.Time) ([]repository.ScheduledDeletion, error) {
	return nil, repository.ErrNoDatabase
}
func (r *scheduledDeletionRepo) Cancel(ctx context.Context, userID string) error {
	return repository.ErrNoDatabase
}
