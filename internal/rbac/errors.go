package rbac

import (
	"errors"
	"net/http"
)

// Authorization failure kinds. All of them are terminal for the request.
var (
	// ErrMissingCredential indicates no authorization header where one is required.
	ErrMissingCredential = errors.New("rbac: missing authorization header")
	// ErrMalformedCredential indicates a header that is not "Bearer <token>".
	ErrMalformedCredential = errors.New("rbac: malformed authorization header")
	// ErrInvalidCredential indicates a token that failed signature or expiry checks.
	ErrInvalidCredential = errors.New("rbac: invalid or expired token")
	// ErrPrincipalNotFound indicates a token subject without a stored principal.
	ErrPrincipalNotFound = errors.New("rbac: principal not found")
	// ErrRolesUndefined indicates a principal without role ids where a
	// permission decision requires them.
	ErrRolesUndefined = errors.New("rbac: principal roles undefined")
	// ErrMenuNotFound indicates the permission target menu does not exist.
	ErrMenuNotFound = errors.New("rbac: menu not found")
	// ErrMenuDisabled indicates the permission target menu is disabled.
	ErrMenuDisabled = errors.New("rbac: menu disabled")
	// ErrForbidden indicates the principal lacks the required role intersection.
	ErrForbidden = errors.New("rbac: forbidden")
	// ErrPolicyConflict indicates a route declaring mutually exclusive policies.
	// This is a deploy-time defect, not a per-request condition.
	ErrPolicyConflict = errors.New("rbac: incompatible route policy")
	// ErrVisitorMissing indicates the well-known visitor principal is absent.
	ErrVisitorMissing = errors.New("rbac: visitor identity missing")
	// ErrPrincipalMissing indicates a check ran before any principal was resolved.
	ErrPrincipalMissing = errors.New("rbac: principal missing")
)

// StatusFor maps an authorization failure to its HTTP status category.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrMissingCredential),
		errors.Is(err, ErrMalformedCredential),
		errors.Is(err, ErrInvalidCredential),
		errors.Is(err, ErrPrincipalNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrMenuDisabled):
		return http.StatusForbidden
	case errors.Is(err, ErrMenuNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
