package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davilabs/rapida/internal/domain/repository"
	"github.com/davilabs/rapida/internal/service"
)

func TestWriteServiceError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{repository.ErrNotFound, http.StatusNotFound, "not_found"},
		{service.ErrMissingFields, http.StatusBadRequest, "missing_fields"},
		{repository.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
		{service.ErrEmailTaken, http.StatusConflict, "conflict"},
		{service.ErrProfileExists, http.StatusConflict, "conflict"},
		{service.ErrWorkspaceExists, http.StatusConflict, "conflict"},
		{service.ErrInviteExists, http.StatusConflict, "conflict"},
		{repository.ErrConflict, http.StatusConflict, "conflict"},
		{service.ErrAlreadyAccepted, http.StatusConflict, "already_accepted"},
		{repository.ErrImmutable, http.StatusConflict, "already_accepted"},
		{service.ErrAccountDeleted, http.StatusForbidden, "account_deleted"},
		{service.ErrNotVerified, http.StatusForbidden, "not_verified"},
		{service.ErrAccountNotDeleted, http.StatusConflict, "account_active"},
		{service.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
		{repository.ErrNoDatabase, http.StatusServiceUnavailable, "no_database"},
		{errors.New("sorpresa"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteServiceError(rec, tc.err)

		require.Equal(t, tc.status, rec.Code, "err %v", tc.err)
		var body apiError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "err %v", tc.err)
		require.Equal(t, tc.code, body.Error, "err %v", tc.err)
	}
}

func TestWriteServiceError_WrappedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(rec, errors.Join(errors.New("contexto"), repository.ErrNotFound))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReadJSON(t *testing.T) {
	type payload struct {
		Email string `json:"email"`
	}

	t.Run("ok", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.c","extra":1}`))
		r.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		var p payload
		require.True(t, ReadJSON(rec, r, &p))
		// Tolerante: los campos desconocidos no son error.
		require.Equal(t, "a@b.c", p.Email)
	})

	t.Run("content type incorrecto", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		r.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()

		var p payload
		require.False(t, ReadJSON(rec, r, &p))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("json roto", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
		r.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		var p payload
		require.False(t, ReadJSON(rec, r, &p))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestWriteError_IncludesRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set("X-Request-ID", "req-123")

	WriteError(rec, http.StatusTeapot, "teapot", "soy una tetera")

	var body apiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "req-123", body.RequestID)
	require.Equal(t, http.StatusTeapot, rec.Code)
}
