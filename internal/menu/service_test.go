package menu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atlas-console/atlas-console/internal/shared"
)

type memoryRepo struct {
	byID    map[string]*Menu
	byRole  map[string][]string
	orphans []Menu
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: map[string]*Menu{}, byRole: map[string][]string{}}
}

func (r *memoryRepo) add(m Menu) {
	cp := m
	r.byID[m.ID] = &cp
	for _, roleID := range m.RoleIDs {
		r.byRole[roleID] = append(r.byRole[roleID], m.ID)
	}
}

func (r *memoryRepo) ListAll(ctx context.Context) ([]Menu, error) {
	var out []Menu
	for _, m := range r.byID {
		out = append(out, *m)
	}
	return out, nil
}

func (r *memoryRepo) ListForRole(ctx context.Context, roleID string) ([]Menu, error) {
	var out []Menu
	for _, id := range r.byRole[roleID] {
		m := r.byID[id]
		if m.Status == shared.StatusDisabled {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id string) (*Menu, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memoryRepo) Insert(ctx context.Context, m Menu) error {
	if _, ok := r.byID[m.ID]; ok {
		return shared.ErrConflict
	}
	r.add(m)
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, m Menu) error {
	if _, ok := r.byID[m.ID]; !ok {
		return shared.ErrNotFound
	}
	cp := m
	r.byID[m.ID] = &cp
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memoryRepo) ListOrphans(ctx context.Context) ([]Menu, error) {
	return r.orphans, nil
}

type staticRoles struct {
	known map[string]bool
}

func (s staticRoles) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	var out []string
	for _, id := range ids {
		if s.known[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

var _ RepositoryPort = (*memoryRepo)(nil)

func allRoles() staticRoles {
	return staticRoles{known: map[string]bool{"admin": true, "ops": true, "visitor": true}}
}

func TestCreateChecksRoles(t *testing.T) {
	svc := NewService(newMemoryRepo(), allRoles(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ID: "m1", Name: "m1", Code: "m1"})
	require.ErrorIs(t, err, ErrRolesRequired)

	_, err = svc.Create(ctx, CreateInput{ID: "m1", Name: "m1", Code: "m1", RoleIDs: []string{"ghost"}})
	require.ErrorIs(t, err, ErrUnknownRole)

	m, err := svc.Create(ctx, CreateInput{ID: "m1", Name: "m1", Code: "m1", RoleIDs: []string{"ops"}})
	require.NoError(t, err)
	require.Equal(t, shared.StatusEnabled, m.Status)
}

func TestVisibleTreeUnionsAndDedupes(t *testing.T) {
	repo := newMemoryRepo()
	repo.add(Menu{ID: "shared", Name: "Shared", Code: "shared", Sort: 1, RoleIDs: []string{"admin", "ops"}})
	repo.add(Menu{ID: "admin-only", Name: "Admin", Code: "admin", Sort: 2, RoleIDs: []string{"admin"}})
	repo.add(Menu{ID: "ops-only", Name: "Ops", Code: "ops", Sort: 3, RoleIDs: []string{"ops"}})
	svc := NewService(repo, allRoles(), nil)

	tree, err := svc.VisibleTree(context.Background(), []string{"admin", "ops"})
	require.NoError(t, err)
	require.Len(t, tree, 3)

	codes := map[string]int{}
	for _, node := range tree {
		codes[node.Code]++
	}
	require.Equal(t, 1, codes["shared"])
	require.Equal(t, 1, codes["admin"])
	require.Equal(t, 1, codes["ops"])
}

func TestVisibleTreeSkipsDisabledMenus(t *testing.T) {
	repo := newMemoryRepo()
	repo.add(Menu{ID: "on", Name: "On", Code: "on", Status: shared.StatusEnabled, RoleIDs: []string{"ops"}})
	repo.add(Menu{ID: "off", Name: "Off", Code: "off", Status: shared.StatusDisabled, RoleIDs: []string{"ops"}})
	svc := NewService(repo, allRoles(), nil)

	tree, err := svc.VisibleTree(context.Background(), []string{"ops"})
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Equal(t, "on", tree[0].ID)
}

func TestVisibleTreeNoRolesIsEmpty(t *testing.T) {
	svc := NewService(newMemoryRepo(), allRoles(), nil)

	tree, err := svc.VisibleTree(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, tree)
}

func TestUpdateKeepsCreatedTime(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, allRoles(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{ID: "m1", Name: "m1", Code: "m1", RoleIDs: []string{"ops"}})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, UpdateInput{ID: "m1", Name: "renamed", Code: "m1", RoleIDs: []string{"admin"}})
	require.NoError(t, err)
	require.Equal(t, created.CreatedTime, updated.CreatedTime)
	require.Equal(t, "renamed", updated.Name)
	require.Equal(t, []string{"admin"}, updated.RoleIDs)
}

func TestWritesRejectSelfParent(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, allRoles(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ID: "m1", Name: "m1", Code: "m1", ParentID: "m1", RoleIDs: []string{"ops"}})
	require.ErrorIs(t, err, ErrSelfParent)

	_, err = svc.Create(ctx, CreateInput{ID: "m1", Name: "m1", Code: "m1", RoleIDs: []string{"ops"}})
	require.NoError(t, err)

	_, err = svc.Update(ctx, UpdateInput{ID: "m1", Name: "m1", Code: "m1", ParentID: "m1", RoleIDs: []string{"ops"}})
	require.ErrorIs(t, err, ErrSelfParent)
}

func TestUpdateStampsUpdatedTime(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, allRoles(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ID: "m1", Name: "m1", Code: "m1", RoleIDs: []string{"ops"}})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, UpdateInput{ID: "m1", Name: "m1", Code: "m1", RoleIDs: []string{"ops"}})
	require.NoError(t, err)
	require.NotNil(t, updated.UpdatedTime)
}
