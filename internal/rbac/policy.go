package rbac

// RoutePolicy is the static access-control declaration attached to an
// endpoint. The zero value requires a valid token and nothing else.
type RoutePolicy struct {
	// Public marks the route as accessible without a token. When no header is
	// presented the visitor principal is resolved and attached.
	Public bool
	// NoVisitor marks a public route that must not synthesize a visitor
	// principal. Used for one-time setup operations.
	NoVisitor bool
	// MenuName gates the route on an intersection between the principal's
	// roles and the named menu's granted roles.
	MenuName string
}

// Authenticated requires a valid, non-expired token only.
func Authenticated() RoutePolicy {
	return RoutePolicy{}
}

// Public allows access without a token; the visitor principal is attached
// when no header is presented.
func Public() RoutePolicy {
	return RoutePolicy{Public: true}
}

// PublicNoVisitor allows access without a token and without any principal.
func PublicNoVisitor() RoutePolicy {
	return RoutePolicy{Public: true, NoVisitor: true}
}

// PermissionGated requires the principal's roles to intersect the named
// menu's granted roles.
func PermissionGated(menuName string) RoutePolicy {
	return RoutePolicy{MenuName: menuName}
}

// Validate rejects mutually exclusive declarations. A route cannot be both
// explicitly public and permission gated.
func (p RoutePolicy) Validate() error {
	if p.Public && p.MenuName != "" {
		return ErrPolicyConflict
	}
	return nil
}
