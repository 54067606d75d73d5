package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/davilabs/rapida/internal/cache"
	"github.com/davilabs/rapida/internal/domain/repository"
	"github.com/davilabs/rapida/internal/observability/logger"
)

// profileCacheTTL acota la ventana de lecturas desactualizadas tras una
// escritura que no pasó por este proceso.
const profileCacheTTL = 5 * time.Minute

// ProfileDeps contiene las dependencias del servicio de perfiles.
type ProfileDeps struct {
	Persons   repository.PersonProfileRepository
	Companies repository.CompanyProfileRepository
	Cache     cache.Client // nil = sin cache
}

// ProfileService maneja perfiles de persona y de empresa. Un usuario admite
// a lo sumo un perfil de cada tipo.
type ProfileService struct {
	deps ProfileDeps
}

// NewProfileService crea el servicio de perfiles.
func NewProfileService(deps ProfileDeps) *ProfileService {
	return &ProfileService{deps: deps}
}

// ─── Perfiles de persona ───

// CreatePerson crea el perfil de persona del usuario. Retorna
// ErrProfileExists si ya tiene uno.
func (s *ProfileService) CreatePerson(ctx context.Context, input repository.CreatePersonProfileInput) (*repository.PersonProfile, error) {
	if input.UserID == "" || input.CreatedBy == "" {
		return nil, ErrMissingFields
	}
	if _, err := s.deps.Persons.FindByUserID(ctx, input.UserID); err == nil {
		return nil, ErrProfileExists
	} else if !repository.IsNotFound(err) {
		return nil, err
	}
	p, err := s.deps.Persons.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "person", input.UserID)
	return p, nil
}

// GetPersonByUserID busca el perfil de persona del usuario, con cache de
// lectura.
func (s *ProfileService) GetPersonByUserID(ctx context.Context, userID string) (*repository.PersonProfile, error) {
	if p, ok := cachedGet[repository.PersonProfile](ctx, s.deps.Cache, "person", userID); ok {
		return p, nil
	}
	p, err := s.deps.Persons.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	cachedSet(ctx, s.deps.Cache, "person", userID, p)
	return p, nil
}

// UpdatePerson aplica un merge parcial sobre el perfil.
func (s *ProfileService) UpdatePerson(ctx context.Context, id string, input repository.UpdatePersonProfileInput) (*repository.PersonProfile, error) {
	p, err := s.deps.Persons.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "person", p.UserID)
	return p, nil
}

// DeletePerson elimina el perfil de persona.
func (s *ProfileService) DeletePerson(ctx context.Context, id string) error {
	p, err := s.deps.Persons.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.deps.Persons.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "person", p.UserID)
	return nil
}

// SearchPersons busca perfiles de persona por coincidencia parcial de
// userName, sin distinguir mayúsculas.
func (s *ProfileService) SearchPersons(ctx context.Context, pattern string, page, limit *int) (*repository.ProfilePage[repository.PersonProfile], error) {
	return s.deps.Persons.FindByUsernameLike(ctx, pattern, page, limit)
}

// ─── Perfiles de empresa ───

// CreateCompany crea el perfil de empresa del usuario. Retorna
// ErrProfileExists si ya tiene uno.
func (s *ProfileService) CreateCompany(ctx context.Context, input repository.CreateCompanyProfileInput) (*repository.CompanyProfile, error) {
	if input.UserID == "" || input.CreatedBy == "" {
		return nil, ErrMissingFields
	}
	if _, err := s.deps.Companies.FindByUserID(ctx, input.UserID); err == nil {
		return nil, ErrProfileExists
	} else if !repository.IsNotFound(err) {
		return nil, err
	}
	p, err := s.deps.Companies.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "company", input.UserID)
	return p, nil
}

// GetCompanyByUserID busca el perfil de empresa del usuario, con cache de
// lectura.
func (s *ProfileService) GetCompanyByUserID(ctx context.Context, userID string) (*repository.CompanyProfile, error) {
	if p, ok := cachedGet[repository.CompanyProfile](ctx, s.deps.Cache, "company", userID); ok {
		return p, nil
	}
	p, err := s.deps.Companies.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	cachedSet(ctx, s.deps.Cache, "company", userID, p)
	return p, nil
}

// UpdateCompany aplica un merge parcial sobre el perfil.
func (s *ProfileService) UpdateCompany(ctx context.Context, id string, input repository.UpdateCompanyProfileInput) (*repository.CompanyProfile, error) {
	p, err := s.deps.Companies.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "company", p.UserID)
	return p, nil
}

// DeleteCompany elimina el perfil de empresa.
func (s *ProfileService) DeleteCompany(ctx context.Context, id string) error {
	p, err := s.deps.Companies.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.deps.Companies.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "company", p.UserID)
	return nil
}

// SearchCompanies busca perfiles de empresa por coincidencia parcial de
// userName, sin distinguir mayúsculas.
func (s *ProfileService) SearchCompanies(ctx context.Context, pattern string, page, limit *int) (*repository.ProfilePage[repository.CompanyProfile], error) {
	return s.deps.Companies.FindByUsernameLike(ctx, pattern, page, limit)
}

// ─── Cache helpers ───

func profileKey(kind, userID string) string {
	return "profile:" + kind + ":" + userID
}

func cachedGet[T any](ctx context.Context, c cache.Client, kind, userID string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.Get(ctx, profileKey(kind, userID))
	if err != nil {
		return nil, false
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false
	}
	return &v, true
}

func cachedSet[T any](ctx context.Context, c cache.Client, kind, userID string, v *T) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.Set(ctx, profileKey(kind, userID), string(raw), profileCacheTTL); err != nil {
		logger.From(ctx).Debug("profile cache set failed", logger.Err(err))
	}
}

func (s *ProfileService) invalidate(ctx context.Context, kind, userID string) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.Delete(ctx, profileKey(kind, userID)); err != nil {
		logger.From(ctx).Debug("profile cache invalidation failed", logger.Err(err))
	}
}
