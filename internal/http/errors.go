package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/davilabs/rapida/internal/domain/repository"
	"github.com/davilabs/rapida/internal/service"
)

type apiError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	RequestID        string `json:"request_id,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, code, desc string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rid := w.Header().Get("X-Request-ID")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiError{
		Error:            code,
		ErrorDescription: desc,
		RequestID:        rid,
	})
}

// WriteJSON: respuesta JSON estándar
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ReadJSON: decodifica JSON de forma tolerante (NO falla por campos desconocidos).
// Valida Content-Type y limita el tamaño del body a 1MB.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.Contains(ct, "application/json") {
		WriteError(w, http.StatusBadRequest, "invalid_json", "Content-Type debe ser application/json")
		return false
	}
	// máx 1MB
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil && err != io.EOF {
		WriteError(w, http.StatusBadRequest, "invalid_json", "json inválido")
		return false
	}
	return true
}

// WriteServiceError mapea errores de dominio/servicio a respuestas HTTP.
// Cualquier error no reconocido termina en 500 sin filtrar detalles internos.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case repository.IsNotFound(err):
		WriteError(w, http.StatusNotFound, "not_found", "recurso no encontrado")
	case errors.Is(err, service.ErrMissingFields):
		WriteError(w, http.StatusBadRequest, "missing_fields", err.Error())
	case errors.Is(err, repository.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "invalid_input", "datos inválidos")
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrProfileExists),
		errors.Is(err, service.ErrWorkspaceExists),
		errors.Is(err, service.ErrInviteExists),
		repository.IsConflict(err):
		WriteError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, service.ErrAlreadyAccepted), repository.IsImmutable(err):
		WriteError(w, http.StatusConflict, "already_accepted", "la invitación ya fue aceptada")
	case errors.Is(err, service.ErrAccountDeleted):
		WriteError(w, http.StatusForbidden, "account_deleted", "la cuenta está marcada para borrado")
	case errors.Is(err, service.ErrNotVerified):
		WriteError(w, http.StatusForbidden, "not_verified", "la cuenta no verificó su email")
	case errors.Is(err, service.ErrAccountNotDeleted):
		WriteError(w, http.StatusConflict, "account_active", "la cuenta no está borrada")
	case errors.Is(err, service.ErrInvalidToken):
		WriteError(w, http.StatusUnauthorized, "invalid_token", "token inválido o expirado")
	case errors.Is(err, repository.ErrNoDatabase):
		WriteError(w, http.StatusServiceUnavailable, "no_database", "sin motor de storage configurado")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "error interno")
	}
}
