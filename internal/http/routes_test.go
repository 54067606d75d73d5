package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davilabs/rapida/internal/lifecycle"
	"github.com/davilabs/rapida/internal/service"
	"github.com/davilabs/rapida/internal/store"
	_ "github.com/davilabs/rapida/internal/store/adapters/noop"
)

// newNoopRouter arma el router completo sobre el adapter noop: las rutas
// quedan todas montadas y los repos responden ErrNoDatabase.
func newNoopRouter(t *testing.T) http.Handler {
	t.Helper()
	conn, err := store.Open(context.Background(), store.AdapterConfig{Name: "noop"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	cascader := lifecycle.NewCascader(lifecycle.Registry(conn))
	reaper := lifecycle.NewReaper(conn.ScheduledDeletions(), conn.Users(), cascader)

	return NewRouter(Deps{
		Users: service.NewUserService(service.UserDeps{
			Users:    conn.Users(),
			Cascader: cascader,
			Reaper:   reaper,
		}),
		Profiles: service.NewProfileService(service.ProfileDeps{
			Persons:   conn.PersonProfiles(),
			Companies: conn.CompanyProfiles(),
		}),
		Workspaces: service.NewWorkspaceService(service.WorkspaceDeps{
			Workspaces: conn.Workspaces(),
		}),
		Invitations: service.NewInvitationService(service.InvitationDeps{
			Invitations: conn.Invitations(),
		}),
		Posts: service.NewPostService(service.PostDeps{
			Posts:      conn.Posts(),
			Workspaces: conn.Workspaces(),
		}),
		Ready: conn.Ping,
	})
}

func TestRouter_Health(t *testing.T) {
	router := newNoopRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequestIDPropagated(t *testing.T) {
	router := newNoopRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "mi-request")
	router.ServeHTTP(rec, req)

	require.Equal(t, "mi-request", rec.Header().Get("X-Request-ID"))

	// Sin header entrante, el middleware genera uno.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_VerifyRejectsBadToken(t *testing.T) {
	router := newNoopRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/verify",
		strings.NewReader(`{"token":"basura"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_NoDatabaseIs503(t *testing.T) {
	router := newNoopRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/users",
		strings.NewReader(`{"email":"a@b.c","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_UnknownRouteIs404(t *testing.T) {
	router := newNoopRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no-existe", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_UploadsDisabledIs503(t *testing.T) {
	router := newNoopRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/files/foo.png", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	conn, err := store.Open(context.Background(), store.AdapterConfig{Name: "noop"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	router := NewRouter(Deps{
		Ready:              conn.Ping,
		CORSAllowedOrigins: []string{"https://app.example.com"},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/v1/users", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
