package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/atlas-console/atlas-console/internal/shared"
)

type memoryRepo struct {
	byID map[string]*User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: map[string]*User{}}
}

func (r *memoryRepo) FindByID(ctx context.Context, id string) (*User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memoryRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := r.byID[id]
	return ok, nil
}

func (r *memoryRepo) List(ctx context.Context) ([]User, error) {
	var out []User
	for _, u := range r.byID {
		if u.HasDeleted {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *memoryRepo) Insert(ctx context.Context, user User) error {
	if _, ok := r.byID[user.ID]; ok {
		return shared.ErrConflict
	}
	cp := user
	r.byID[user.ID] = &cp
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, user User) error {
	current, ok := r.byID[user.ID]
	if !ok {
		return shared.ErrNotFound
	}
	user.CreatedTime = current.CreatedTime
	user.HasDeleted = current.HasDeleted
	cp := user
	r.byID[user.ID] = &cp
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memoryRepo) SetDeleted(ctx context.Context, id string) error {
	u, ok := r.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.HasDeleted = true
	return nil
}

func (r *memoryRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	for _, u := range r.byID {
		if !u.HasDeleted {
			n++
		}
	}
	return n, nil
}

type staticRoleCounter struct{ n int64 }

func (c staticRoleCounter) CountRoles(ctx context.Context) (int64, error) {
	return c.n, nil
}

var _ RepositoryPort = (*memoryRepo)(nil)

func TestCreateRequiresRoles(t *testing.T) {
	svc := NewService(newMemoryRepo(), staticRoleCounter{})

	_, err := svc.Create(context.Background(), CreateInput{ID: "a", UserName: "a", Password: "secret1"})
	require.ErrorIs(t, err, ErrRolesRequired)
}

func TestCreateHashesPasswordAndRejectsDuplicates(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, staticRoleCounter{})
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateInput{ID: "a", UserName: "a", Password: "secret1", RoleIDs: []string{"ops"}})
	require.NoError(t, err)
	require.NotEqual(t, "secret1", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))
	require.Equal(t, shared.StatusEnabled, user.Status)

	_, err = svc.Create(ctx, CreateInput{ID: "a", UserName: "a", Password: "secret1", RoleIDs: []string{"ops"}})
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestUpdateVerifiesCurrentPassword(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, staticRoleCounter{})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ID: "a", UserName: "a", Password: "secret1", RoleIDs: []string{"ops"}})
	require.NoError(t, err)

	_, err = svc.Update(ctx, UpdateInput{ID: "a", UserName: "a", OldPassword: "wrong", RoleIDs: []string{"ops"}})
	require.ErrorIs(t, err, ErrWrongPassword)

	// Empty new password keeps the old hash.
	before := repo.byID["a"].PasswordHash
	updated, err := svc.Update(ctx, UpdateInput{ID: "a", UserName: "renamed", OldPassword: "secret1", RoleIDs: []string{"ops"}})
	require.NoError(t, err)
	require.Equal(t, before, updated.PasswordHash)
	require.Equal(t, "renamed", updated.UserName)

	updated, err = svc.Update(ctx, UpdateInput{ID: "a", UserName: "renamed", OldPassword: "secret1", Password: "rotated1", RoleIDs: []string{"ops"}})
	require.NoError(t, err)
	require.NotEqual(t, before, updated.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("rotated1")))
}

func TestDeleteGuardsReservedUsers(t *testing.T) {
	svc := NewService(newMemoryRepo(), staticRoleCounter{})
	ctx := context.Background()

	for _, id := range []string{"root", "visitor"} {
		require.ErrorIs(t, svc.Delete(ctx, id), ErrReservedUser)
		require.ErrorIs(t, svc.Remove(ctx, id), ErrReservedUser)
	}
}

func TestRemoveHidesAccountFromListAndIdentity(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, staticRoleCounter{})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ID: "a", UserName: "a", Password: "secret1", RoleIDs: []string{"ops"}})
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, "a"))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	adapter := NewIdentityAdapter(repo)
	_, err = adapter.FindPrincipalByID(ctx, "a")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestIdentityAdapterMapsStatus(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, staticRoleCounter{})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ID: "a", UserName: "a", Password: "secret1", RoleIDs: []string{"ops", "audit"}, Status: shared.StatusDisabled})
	require.NoError(t, err)

	principal, err := NewIdentityAdapter(repo).FindPrincipalByID(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "a", principal.ID)
	require.Equal(t, []string{"ops", "audit"}, principal.RoleIDs)
	require.True(t, principal.Disabled)
}

func TestCounts(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, staticRoleCounter{n: 4})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ID: "a", UserName: "a", Password: "secret1", RoleIDs: []string{"ops"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{ID: "b", UserName: "b", Password: "secret1", RoleIDs: []string{"ops"}})
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, "b"))

	counts, err := svc.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), counts.Users)
	require.Equal(t, int64(4), counts.Roles)
}
