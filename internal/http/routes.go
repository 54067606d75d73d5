package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/davilabs/rapida/internal/rate"
	"github.com/davilabs/rapida/internal/service"
	"github.com/davilabs/rapida/internal/upload"
)

// Deps agrupa los servicios que el router expone. Metrics y Uploads son
// opcionales (nil = la ruta responde 404 / 503 respectivamente).
type Deps struct {
	Users       *service.UserService
	Profiles    *service.ProfileService
	Workspaces  *service.WorkspaceService
	Invitations *service.InvitationService
	Posts       *service.PostService

	Uploads *upload.Client
	Metrics http.Handler

	// LoginLimiter acota los intentos de login por IP. nil = sin límite.
	LoginLimiter rate.Limiter

	// Ready verifica las dependencias externas (ping al storage).
	Ready func(ctx context.Context) error

	CORSAllowedOrigins []string
}

// NewRouter arma el router chi con middlewares y todas las rutas v1.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(WithRequestID)
	r.Use(WithLogging)
	r.Use(WithMetrics)
	if len(d.CORSAllowedOrigins) > 0 {
		r.Use(WithCORS(d.CORSAllowedOrigins))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if d.Ready != nil {
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			if err := d.Ready(ctx); err != nil {
				WriteError(w, http.StatusServiceUnavailable, "not_ready", "storage no disponible")
				return
			}
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}

	users := &userHandlers{users: d.Users}
	profiles := &profileHandlers{profiles: d.Profiles}
	workspaces := &workspaceHandlers{workspaces: d.Workspaces}
	invitations := &invitationHandlers{invitations: d.Invitations}
	posts := &postHandlers{posts: d.Posts}
	files := &fileHandlers{uploads: d.Uploads}

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if d.LoginLimiter != nil {
				r.Use(WithRateLimit(d.LoginLimiter))
			}
			r.Post("/auth/login", users.login)
		})
		r.Post("/auth/verify", users.verify)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", users.register)
			r.Get("/{id}", users.get)
			r.Patch("/{id}", users.update)
			r.Delete("/{id}", users.remove)
			r.Post("/{id}/restore", users.restore)
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Route("/person", func(r chi.Router) {
				r.Post("/", profiles.createPerson)
				r.Get("/", profiles.searchPersons)
				r.Get("/user/{userID}", profiles.getPerson)
				r.Patch("/{id}", profiles.updatePerson)
				r.Delete("/{id}", profiles.deletePerson)
			})
			r.Route("/company", func(r chi.Router) {
				r.Post("/", profiles.createCompany)
				r.Get("/", profiles.searchCompanies)
				r.Get("/user/{userID}", profiles.getCompany)
				r.Patch("/{id}", profiles.updateCompany)
				r.Delete("/{id}", profiles.deleteCompany)
			})
		})

		r.Route("/workspaces", func(r chi.Router) {
			r.Post("/", workspaces.create)
			r.Get("/", workspaces.list)
			r.Get("/{workspace}", workspaces.get)
			r.Patch("/{workspace}", workspaces.update)
			r.Delete("/{workspace}", workspaces.remove)
			r.Post("/{workspace}/team/{userID}", workspaces.addMember)
			r.Delete("/{workspace}/team/{userID}", workspaces.removeMember)

			r.Route("/{workspace}/posts", func(r chi.Router) {
				r.Post("/", posts.create)
				r.Get("/", posts.list)
				r.Get("/{id}", posts.get)
				r.Patch("/{id}", posts.update)
				r.Delete("/{id}", posts.remove)
			})
		})

		r.Route("/invitations", func(r chi.Router) {
			r.Post("/", invitations.create)
			r.Post("/accept", invitations.accept)
			r.Get("/", invitations.list)
			r.Get("/{id}", invitations.get)
			r.Delete("/{id}", invitations.revoke)
		})

		r.Route("/files", func(r chi.Router) {
			r.Post("/", files.create)
			r.Get("/{object}", files.get)
			r.Delete("/{object}", files.remove)
		})
	})

	return r
}
