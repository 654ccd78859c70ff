package rbac

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/atlas-console/atlas-console/internal/shared"
)

// IdentityStore looks up principals by id.
type IdentityStore interface {
	FindPrincipalByID(ctx context.Context, id string) (*shared.Principal, error)
}

// TokenVerifier checks a bearer token's signature and expiry and returns its
// subject id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// PermissionSource resolves the role ids granted on a menu.
type PermissionSource interface {
	RolesForMenu(ctx context.Context, menuName string) ([]string, error)
}

// Engine makes the per-request authorization decision. It holds no state
// across requests and is safe for concurrent use.
type Engine struct {
	store  IdentityStore
	tokens TokenVerifier
	perms  PermissionSource
	logger *slog.Logger
}

// NewEngine constructs an Engine.
func NewEngine(store IdentityStore, tokens TokenVerifier, perms PermissionSource, logger *slog.Logger) *Engine {
	return &Engine{store: store, tokens: tokens, perms: perms, logger: logger}
}

// Authorize authenticates the request and enforces the route policy. On
// success it returns the resolved principal, or nil for routes that do not
// attach one.
func (e *Engine) Authorize(ctx context.Context, policy RoutePolicy, authorizationHeader string) (*shared.Principal, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	if policy.NoVisitor {
		return nil, nil
	}

	if authorizationHeader == "" {
		if policy.Public || policy.MenuName != "" {
			visitor, err := e.resolveVisitor(ctx)
			if err != nil {
				return nil, err
			}
			if policy.MenuName != "" {
				return e.checkMenuGrant(ctx, policy.MenuName, visitor)
			}
			return visitor, nil
		}
		return nil, ErrMissingCredential
	}

	principal, err := e.authenticate(ctx, authorizationHeader)
	if err != nil {
		return nil, err
	}

	if policy.MenuName != "" {
		return e.checkMenuGrant(ctx, policy.MenuName, principal)
	}
	return principal, nil
}

// RequireAdminRole allows only principals carrying a designated super-role.
// It is layered on specific operations independent of the menu path.
func RequireAdminRole(p *shared.Principal) error {
	if p == nil {
		return ErrPrincipalMissing
	}
	if len(p.RoleIDs) == 0 {
		return ErrRolesUndefined
	}
	if p.HasRole(shared.RoleAdmin) || p.HasRole(shared.RoleRoot) {
		return nil
	}
	return ErrForbidden
}

func (e *Engine) resolveVisitor(ctx context.Context) (*shared.Principal, error) {
	visitor, err := e.store.FindPrincipalByID(ctx, shared.VisitorUserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrVisitorMissing
		}
		if ctxErr := contextError(ctx, err); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return visitor, nil
}

func (e *Engine) authenticate(ctx context.Context, header string) (*shared.Principal, error) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return nil, ErrMalformedCredential
	}

	subject, err := e.tokens.Verify(parts[1])
	if err != nil {
		return nil, ErrInvalidCredential
	}

	principal, err := e.store.FindPrincipalByID(ctx, subject)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		if ctxErr := contextError(ctx, err); ctxErr != nil {
			return nil, ctxErr
		}
		// Unexpected collaborator failures are downgraded, never surfaced raw.
		if e.logger != nil {
			e.logger.Error("principal lookup failed", slog.Any("error", err))
		}
		return nil, ErrInvalidCredential
	}
	return principal, nil
}

func (e *Engine) checkMenuGrant(ctx context.Context, menuName string, principal *shared.Principal) (*shared.Principal, error) {
	if principal == nil {
		return nil, ErrPrincipalMissing
	}
	if len(principal.RoleIDs) == 0 {
		return nil, ErrRolesUndefined
	}

	granted, err := e.perms.RolesForMenu(ctx, menuName)
	if err != nil {
		if ctxErr := contextError(ctx, err); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	grantedSet := make(map[string]struct{}, len(granted))
	for _, id := range granted {
		grantedSet[id] = struct{}{}
	}
	for _, id := range principal.RoleIDs {
		if _, ok := grantedSet[id]; ok {
			return principal, nil
		}
	}
	return nil, ErrForbidden
}

// contextError reports request cancellation so a partially-resolved principal
// is never attached after the caller has gone away.
func contextError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}
