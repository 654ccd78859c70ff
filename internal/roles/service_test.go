package roles

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atlas-console/atlas-console/internal/shared"
)

type memoryRepo struct {
	byID      map[string]*Role
	userCount map[string]int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: map[string]*Role{}, userCount: map[string]int64{}}
}

func (r *memoryRepo) List(ctx context.Context, filter Filter) ([]Role, error) {
	var out []Role
	for _, role := range r.byID {
		if filter.RoleName != "" && !strings.Contains(strings.ToLower(role.RoleName), strings.ToLower(filter.RoleName)) {
			continue
		}
		if filter.CodeType != "" && !strings.Contains(strings.ToLower(role.CodeType), strings.ToLower(filter.CodeType)) {
			continue
		}
		out = append(out, *role)
	}
	return out, nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id string) (*Role, error) {
	role, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *role
	return &cp, nil
}

func (r *memoryRepo) FindSomeByIDs(ctx context.Context, ids []string) ([]Role, error) {
	var out []Role
	for _, id := range ids {
		if role, ok := r.byID[id]; ok {
			out = append(out, *role)
		}
	}
	return out, nil
}

func (r *memoryRepo) Insert(ctx context.Context, role Role) error {
	if _, ok := r.byID[role.ID]; ok {
		return shared.ErrConflict
	}
	cp := role
	r.byID[role.ID] = &cp
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, role Role) error {
	if _, ok := r.byID[role.ID]; !ok {
		return shared.ErrNotFound
	}
	cp := role
	r.byID[role.ID] = &cp
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memoryRepo) CountRoles(ctx context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *memoryRepo) CountUsersForRole(ctx context.Context, id string) (int64, error) {
	return r.userCount[id], nil
}

func (r *memoryRepo) CountUsersPerRole(ctx context.Context) ([]UserCount, error) {
	var out []UserCount
	for id, role := range r.byID {
		out = append(out, UserCount{RoleID: id, RoleName: role.RoleName, UserCount: r.userCount[id]})
	}
	return out, nil
}

var _ RepositoryPort = (*memoryRepo)(nil)

func TestCreateRejectsDuplicateID(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ID: "ops", RoleName: "Ops"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{ID: "ops", RoleName: "Ops Again"})
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestDeleteGuards(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for _, id := range []string{"root", "admin", "visitor"} {
		repo.byID[id] = &Role{ID: id, RoleName: id, CreatedTime: time.Now()}
		require.ErrorIs(t, svc.Delete(ctx, id), ErrReservedRole)
	}

	repo.byID["ops"] = &Role{ID: "ops", RoleName: "Ops"}
	repo.userCount["ops"] = 3
	require.ErrorIs(t, svc.Delete(ctx, "ops"), ErrRoleInUse)

	repo.userCount["ops"] = 0
	require.NoError(t, svc.Delete(ctx, "ops"))
	_, err := svc.Get(ctx, "ops")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestExistingIDs(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	repo.byID["ops"] = &Role{ID: "ops"}
	repo.byID["audit"] = &Role{ID: "audit"}

	existing, err := svc.ExistingIDs(ctx, []string{"ops", "ghost", "audit"})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"ops", "audit"}, existing)
}

func TestCounts(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	repo.byID["ops"] = &Role{ID: "ops", RoleName: "Ops"}
	repo.byID["audit"] = &Role{ID: "audit", RoleName: "Audit"}
	repo.userCount["ops"] = 2

	summary, err := svc.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), summary.RoleCount)
	require.Len(t, summary.PerRole, 2)
}
