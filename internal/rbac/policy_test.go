package rbac

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPolicyValidate(t *testing.T) {
	require.NoError(t, Authenticated().Validate())
	require.NoError(t, Public().Validate())
	require.NoError(t, PublicNoVisitor().Validate())
	require.NoError(t, PermissionGated("user_manage").Validate())
	require.ErrorIs(t, RoutePolicy{Public: true, MenuName: "user_manage"}.Validate(), ErrPolicyConflict)
}

func TestGuardRequirePanicsOnConflict(t *testing.T) {
	guard := Guard{}
	require.Panics(t, func() {
		guard.Require(RoutePolicy{Public: true, MenuName: "user_manage"})
	})
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		ErrMissingCredential:   http.StatusUnauthorized,
		ErrMalformedCredential: http.StatusUnauthorized,
		ErrInvalidCredential:   http.StatusUnauthorized,
		ErrPrincipalNotFound:   http.StatusUnauthorized,
		ErrForbidden:           http.StatusForbidden,
		ErrMenuDisabled:        http.StatusForbidden,
		ErrMenuNotFound:        http.StatusNotFound,
		ErrPolicyConflict:      http.StatusInternalServerError,
	}
	for err, want := range cases {
		require.Equal(t, want, StatusFor(err), "error %v", err)
	}
}
