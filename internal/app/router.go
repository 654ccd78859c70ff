package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-console/atlas-console/internal/auth"
	"github.com/atlas-console/atlas-console/internal/dict"
	"github.com/atlas-console/atlas-console/internal/invites"
	"github.com/atlas-console/atlas-console/internal/menu"
	"github.com/atlas-console/atlas-console/internal/observability"
	"github.com/atlas-console/atlas-console/internal/rbac"
	"github.com/atlas-console/atlas-console/internal/roles"
	"github.com/atlas-console/atlas-console/internal/settings"
	"github.com/atlas-console/atlas-console/internal/users"
	"github.com/atlas-console/atlas-console/jobs"
)

// Menu names gating the management route groups.
const (
	menuUserManage = "user_manage"
	menuUserRoles  = "user_roles"
	menuInviteCode = "invite_code"
	menuDictManage = "dict_manage"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	Guard           rbac.Guard
	AuthHandler     *auth.Handler
	UsersHandler    *users.Handler
	RolesHandler    *roles.Handler
	MenuHandler     *menu.Handler
	InvitesHandler  *invites.Handler
	DictHandler     *dict.Handler
	SettingsHandler *settings.Handler
	JobHandler      *jobs.Handler
	Pool            *pgxpool.Pool
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with Atlas defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if params.Pool != nil {
			if err := params.Pool.Ping(r.Context()); err != nil {
				params.Logger.Error("readiness probe", slog.Any("error", err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	guard := params.Guard

	r.Route("/auth", func(r chi.Router) {
		r.Use(AuthRateLimiter())
		r.Group(func(r chi.Router) {
			r.Use(guard.Require(rbac.Public()))
			params.AuthHandler.MountPublicRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(guard.Require(rbac.PublicNoVisitor()))
			params.AuthHandler.MountSetupRoutes(r)
		})
	})

	if params.UsersHandler != nil {
		r.Route("/users", func(r chi.Router) {
			r.Use(guard.Require(rbac.PermissionGated(menuUserManage)))
			params.UsersHandler.MountRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(guard.RequireAdmin())
				params.UsersHandler.MountDestructiveRoutes(r)
			})
		})
	}
	if params.RolesHandler != nil {
		r.Route("/roles", func(r chi.Router) {
			r.Use(guard.Require(rbac.PermissionGated(menuUserRoles)))
			params.RolesHandler.MountRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(guard.RequireAdmin())
				params.RolesHandler.MountDestructiveRoutes(r)
			})
		})
	}
	if params.InvitesHandler != nil {
		r.Route("/invite-codes", func(r chi.Router) {
			r.Use(guard.Require(rbac.PermissionGated(menuInviteCode)))
			params.InvitesHandler.MountRoutes(r)
		})
	}
	if params.DictHandler != nil {
		r.Route("/dicts", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(guard.Require(rbac.Authenticated()))
				params.DictHandler.MountValueRoutes(r)
			})
			r.Group(func(r chi.Router) {
				r.Use(guard.Require(rbac.PermissionGated(menuDictManage)))
				params.DictHandler.MountRoutes(r)
			})
		})
	}
	if params.MenuHandler != nil {
		r.Route("/menus", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(guard.Require(rbac.Authenticated()))
				params.MenuHandler.MountVisibleRoutes(r)
			})
			r.Group(func(r chi.Router) {
				r.Use(guard.Require(rbac.Authenticated()), guard.RequireAdmin())
				params.MenuHandler.MountRoutes(r)
			})
		})
	}
	if params.SettingsHandler != nil {
		r.Route("/settings", func(r chi.Router) {
			r.Use(guard.Require(rbac.Authenticated()), guard.RequireAdmin())
			params.SettingsHandler.MountRoutes(r)
		})
	}

	if params.JobHandler != nil {
		r.Route("/jobs", func(r chi.Router) {
			r.Use(guard.Require(rbac.Authenticated()), guard.RequireAdmin())
			params.JobHandler.MountRoutes(r)
		})
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
