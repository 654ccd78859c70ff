package rbac

import (
	"log/slog"
	"net/http"

	"github.com/atlas-console/atlas-console/internal/platform/httpx"
	"github.com/atlas-console/atlas-console/internal/shared"
)

// Guard wires the authorization engine into HTTP middleware.
type Guard struct {
	Engine *Engine
	Logger *slog.Logger
}

// Require returns middleware enforcing the given route policy. A conflicting
// policy is rejected when the route table is built, before any request.
func (g Guard) Require(policy RoutePolicy) func(http.Handler) http.Handler {
	if err := policy.Validate(); err != nil {
		panic(err)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := g.Engine.Authorize(r.Context(), policy, r.Header.Get("Authorization"))
			if err != nil {
				g.deny(w, r, err)
				return
			}
			if principal == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := shared.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin allows only principals carrying a super-role. It must run
// after Require so a principal is already attached.
func (g Guard) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := RequireAdminRole(shared.PrincipalFromContext(r.Context())); err != nil {
				g.deny(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (g Guard) deny(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError && g.Logger != nil {
		g.Logger.Error("authorization failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.Problem(w, status, http.StatusText(status), err.Error())
}
