package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/response"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type UsersHandler interface {
	Index(w http.ResponseWriter, r *http.Request)
	Store(w http.ResponseWriter, r *http.Request)
	Show(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Destroy(w http.ResponseWriter, r *http.Request)
	InsertFake(w http.ResponseWriter, r *http.Request)

	// Bearer protected
	ShowSecure(w http.ResponseWriter, r *http.Request)
	UpdateSecure(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health HealthHandler
	Users  UsersHandler
	Auth   AuthHandler

	AuthMW func(http.Handler) http.Handler
	// RLLogin throttles POST /auth/login; nil disables it.
	RLLogin func(http.Handler) http.Handler

	// Metrics serves /metrics when set.
	Metrics http.Handler

	EnableFakeUsers bool
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("nil Users handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.RLLogin == nil {
		deps.RLLogin = func(next http.Handler) http.Handler { return next }
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestSize(maxBodyBytes))
	r.Use(middleware.Metrics)
	r.Use(middleware.AccessLog)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		response.WriteError(w, req, domain.New(domain.KindNotFound, "route_not_found", "Not Found."))
	})

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	mountAPI(r, deps)
	r.Route("/api", func(r chi.Router) {
		mountAPI(r, deps)
	})

	return r, nil
}

func mountAPI(r chi.Router, deps Deps) {
	r.Route("/users", func(r chi.Router) {
		if deps.EnableFakeUsers {
			// before {id} so it is never read as an id
			r.Get("/insert-fake", deps.Users.InsertFake)
		}

		r.Get("/", deps.Users.Index)
		r.Post("/", deps.Users.Store)
		r.Get("/{id}", deps.Users.Show)
		r.Put("/{id}", deps.Users.Update)
		r.Patch("/{id}", deps.Users.Update)
		r.Delete("/{id}", deps.Users.Destroy)

		r.With(deps.AuthMW).Get("/{id}/secure", deps.Users.ShowSecure)
		r.With(deps.AuthMW).Put("/{id}/secure", deps.Users.UpdateSecure)
	})

	r.Route("/auth", func(r chi.Router) {
		r.With(deps.RLLogin).Post("/login", deps.Auth.Login)
		r.With(deps.AuthMW).Get("/me", deps.Auth.Me)
		r.With(deps.AuthMW).Post("/logout", deps.Auth.Logout)
	})
}
