// Package service implementa la lógica de negocio sobre los repositorios:
// cuentas y su ciclo de vida de borrado, perfiles, workspaces, invitaciones
// y publicaciones.
package service

import "fmt"

// Errores de negocio. Los handlers los traducen a códigos HTTP.
var (
	ErrMissingFields     = fmt.Errorf("missing required fields")
	ErrEmailTaken        = fmt.Errorf("email already registered")
	ErrProfileExists     = fmt.Errorf("user already has a profile")
	ErrWorkspaceExists   = fmt.Errorf("user already owns a workspace")
	ErrInviteExists      = fmt.Errorf("email already invited")
	ErrAlreadyAccepted   = fmt.Errorf("invitation already accepted")
	ErrAccountDeleted    = fmt.Errorf("account is deleted")
	ErrAccountNotDeleted = fmt.Errorf("account is not deleted")
	ErrNotVerified       = fmt.Errorf("account email not verified")
	ErrInvalidToken      = fmt.Errorf("invalid or expired token")
)
