package service

import (
	"context"
	"strings"
	"time"

	"github.com/davilabs/rapida/internal/domain/repository"
	"github.com/davilabs/rapida/internal/email"
	"github.com/davilabs/rapida/internal/observability/logger"
	tokens "github.com/davilabs/rapida/internal/security/token"
	"github.com/davilabs/rapida/internal/util"
)

// InvitationDeps contiene las dependencias del servicio de invitaciones.
type InvitationDeps struct {
	Invitations repository.InvitationRepository
	Issuer      *tokens.InviteIssuer
	Notifier    *email.Notifier // nil = sin correos
}

// InvitationService maneja invitaciones: emisión con token firmado,
// aceptación única y listados filtrados.
type InvitationService struct {
	deps InvitationDeps
}

// NewInvitationService crea el servicio de invitaciones.
func NewInvitationService(deps InvitationDeps) *InvitationService {
	return &InvitationService{deps: deps}
}

// Invite crea la invitación, emite el token y envía el correo. Retorna
// ErrInviteExists si el email ya fue invitado.
func (s *InvitationService) Invite(ctx context.Context, emailAddr, role, createdBy string) (*repository.Invitation, string, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("invitation"),
		logger.Op("Invite"),
	)

	emailAddr = strings.TrimSpace(strings.ToLower(emailAddr))
	if emailAddr == "" || role == "" || createdBy == "" {
		return nil, "", ErrMissingFields
	}

	if _, err := s.deps.Invitations.FindByEmail(ctx, emailAddr); err == nil {
		return nil, "", ErrInviteExists
	} else if !repository.IsNotFound(err) {
		return nil, "", err
	}

	inv, err := s.deps.Invitations.Create(ctx, repository.CreateInvitationInput{
		Email:     emailAddr,
		Role:      role,
		CreatedBy: createdBy,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.deps.Issuer.Issue(inv.ID, inv.Email, inv.Role)
	if err != nil {
		return nil, "", err
	}

	if s.deps.Notifier != nil {
		if err := s.deps.Notifier.SendInvitation(inv.Email, inv.Role, token); err != nil {
			log.Warn("invitation email not sent", logger.Email(util.MaskEmail(inv.Email)), logger.Err(err))
		}
	}

	log.Info("invitation issued", logger.ID(inv.ID), logger.Email(util.MaskEmail(inv.Email)))
	return inv, token, nil
}

// Accept valida el token y marca la invitación como aceptada. La transición
// es única: una invitación ya aceptada retorna ErrAlreadyAccepted.
func (s *InvitationService) Accept(ctx context.Context, token string) (*repository.Invitation, error) {
	claims, err := s.deps.Issuer.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	inv, err := s.deps.Invitations.FindByID(ctx, claims.InvitationID)
	if err != nil {
		return nil, err
	}
	if inv.Accepted {
		return nil, ErrAlreadyAccepted
	}

	accepted := true
	now := time.Now().UTC()
	updated, err := s.deps.Invitations.Update(ctx, inv.ID, repository.UpdateInvitationInput{
		Accepted:   &accepted,
		AcceptedAt: &now,
	})
	if err != nil {
		if repository.IsImmutable(err) {
			return nil, ErrAlreadyAccepted
		}
		return nil, err
	}

	logger.From(ctx).Info("invitation accepted",
		logger.Layer("service"),
		logger.Component("invitation"),
		logger.ID(updated.ID))
	return updated, nil
}

// Get busca una invitación por ID, opcionalmente acotada al dueño.
func (s *InvitationService) Get(ctx context.Context, id, ownerID string) (*repository.Invitation, error) {
	if ownerID != "" {
		return s.deps.Invitations.FindByIDAndOwnerID(ctx, id, ownerID)
	}
	return s.deps.Invitations.FindByID(ctx, id)
}

// List retorna las invitaciones que pasan el filtro junto al total sin
// paginar.
func (s *InvitationService) List(ctx context.Context, filter repository.InvitationFilter) ([]repository.Invitation, int64, error) {
	items, err := s.deps.Invitations.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	countFilter := filter
	countFilter.Page = nil
	countFilter.Limit = nil
	total, err := s.deps.Invitations.Count(ctx, countFilter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Revoke elimina una invitación no aceptada.
func (s *InvitationService) Revoke(ctx context.Context, id string) error {
	err := s.deps.Invitations.Delete(ctx, id)
	if repository.IsImmutable(err) {
		return ErrAlreadyAccepted
	}
	return err
}
