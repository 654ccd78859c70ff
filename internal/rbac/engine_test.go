package rbac

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atlas-console/atlas-console/internal/shared"
)

type memoryIdentity struct {
	principals map[string]*shared.Principal
}

func (m *memoryIdentity) FindPrincipalByID(ctx context.Context, id string) (*shared.Principal, error) {
	p, ok := m.principals[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type staticVerifier struct {
	subjects map[string]string
}

func (v *staticVerifier) Verify(token string) (string, error) {
	subject, ok := v.subjects[token]
	if !ok {
		return "", errors.New("bad signature")
	}
	return subject, nil
}

type staticPerms struct {
	grants map[string][]string
	err    error
}

func (p *staticPerms) RolesForMenu(ctx context.Context, menuName string) ([]string, error) {
	if p.err != nil {
		return nil, p.err
	}
	granted, ok := p.grants[menuName]
	if !ok {
		return nil, ErrMenuNotFound
	}
	return granted, nil
}

func newTestEngine() *Engine {
	identity := &memoryIdentity{principals: map[string]*shared.Principal{
		"alice":   {ID: "alice", RoleIDs: []string{"admin"}},
		"bob":     {ID: "bob", RoleIDs: []string{"ops"}},
		"carol":   {ID: "carol", RoleIDs: nil},
		"visitor": {ID: "visitor", RoleIDs: []string{"visitor"}},
	}}
	verifier := &staticVerifier{subjects: map[string]string{
		"tok-alice": "alice",
		"tok-bob":   "bob",
		"tok-carol": "carol",
		"tok-ghost": "ghost",
	}}
	perms := &staticPerms{grants: map[string][]string{
		"user_manage": {"admin"},
		"dashboard":   {"admin", "ops", "visitor"},
	}}
	return NewEngine(identity, verifier, perms, nil)
}

func TestAuthorizeMissingHeader(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	_, err := engine.Authorize(ctx, Authenticated(), "")
	require.ErrorIs(t, err, ErrMissingCredential)
}

func TestAuthorizePublicFallsBackToVisitor(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	p, err := engine.Authorize(ctx, Public(), "")
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, "visitor", p.ID)
}

func TestAuthorizeGatedFallsBackToVisitor(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	p, err := engine.Authorize(ctx, PermissionGated("dashboard"), "")
	require.NoError(t, err)
	require.Equal(t, "visitor", p.ID)

	_, err = engine.Authorize(ctx, PermissionGated("user_manage"), "")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorizeVisitorMissing(t *testing.T) {
	identity := &memoryIdentity{principals: map[string]*shared.Principal{}}
	engine := NewEngine(identity, &staticVerifier{}, &staticPerms{}, nil)

	_, err := engine.Authorize(context.Background(), Public(), "")
	require.ErrorIs(t, err, ErrVisitorMissing)
}

func TestAuthorizeNoVisitorAttachesNothing(t *testing.T) {
	engine := newTestEngine()

	p, err := engine.Authorize(context.Background(), PublicNoVisitor(), "")
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestAuthorizeMalformedHeader(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	for _, header := range []string{
		"tok-alice",
		"Bearer",
		"Bearer ",
		"bearer tok-alice",
		"Bearer tok-alice extra",
		"Basic dXNlcjpwYXNz",
	} {
		_, err := engine.Authorize(ctx, Authenticated(), header)
		require.ErrorIs(t, err, ErrMalformedCredential, "header %q", header)
	}
}

func TestAuthorizeInvalidToken(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.Authorize(context.Background(), Authenticated(), "Bearer forged")
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestAuthorizeUnknownSubject(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.Authorize(context.Background(), Authenticated(), "Bearer tok-ghost")
	require.ErrorIs(t, err, ErrPrincipalNotFound)
}

func TestAuthorizeValidToken(t *testing.T) {
	engine := newTestEngine()

	p, err := engine.Authorize(context.Background(), Authenticated(), "Bearer tok-alice")
	require.NoError(t, err)
	require.Equal(t, "alice", p.ID)
}

func TestAuthorizeGatedIntersection(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	p, err := engine.Authorize(ctx, PermissionGated("user_manage"), "Bearer tok-alice")
	require.NoError(t, err)
	require.Equal(t, "alice", p.ID)

	_, err = engine.Authorize(ctx, PermissionGated("user_manage"), "Bearer tok-bob")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorizeGatedNoRoles(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.Authorize(context.Background(), PermissionGated("user_manage"), "Bearer tok-carol")
	require.ErrorIs(t, err, ErrRolesUndefined)
}

func TestAuthorizeGatedMenuErrorsPropagate(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	_, err := engine.Authorize(ctx, PermissionGated("unknown_menu"), "Bearer tok-alice")
	require.ErrorIs(t, err, ErrMenuNotFound)
}

func TestAuthorizeConflictingPolicy(t *testing.T) {
	engine := newTestEngine()

	_, err := engine.Authorize(context.Background(), RoutePolicy{Public: true, MenuName: "user_manage"}, "Bearer tok-alice")
	require.ErrorIs(t, err, ErrPolicyConflict)
}

func TestRequireAdminRole(t *testing.T) {
	require.ErrorIs(t, RequireAdminRole(nil), ErrPrincipalMissing)
	require.ErrorIs(t, RequireAdminRole(&shared.Principal{ID: "x"}), ErrRolesUndefined)
	require.ErrorIs(t, RequireAdminRole(&shared.Principal{ID: "x", RoleIDs: []string{"ops"}}), ErrForbidden)
	require.NoError(t, RequireAdminRole(&shared.Principal{ID: "x", RoleIDs: []string{"admin"}}))
	require.NoError(t, RequireAdminRole(&shared.Principal{ID: "x", RoleIDs: []string{"root"}}))
}

func TestAuthorizeConcurrentRequestsDoNotContaminate(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := engine.Authorize(ctx, Authenticated(), "Bearer tok-alice")
			require.NoError(t, err)
			require.Equal(t, "alice", p.ID)
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := engine.Authorize(ctx, Authenticated(), "Bearer tok-bob")
			require.NoError(t, err)
			require.Equal(t, "bob", p.ID)
		}()
	}
	wg.Wait()
}
