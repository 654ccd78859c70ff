package shared

import "context"

type principalContextKey struct{}

// Principal is the resolved identity attached to a request. It is built fresh
// per request by the authorization guard and never persisted.
type Principal struct {
	ID       string
	RoleIDs  []string
	Disabled bool
	Deleted  bool
}

// HasRole reports whether the principal carries the given role id.
func (p *Principal) HasRole(roleID string) bool {
	if p == nil {
		return false
	}
	for _, id := range p.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context. Nil means the
// request passed the guard without one (public-no-visitor routes).
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
