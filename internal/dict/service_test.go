package dict

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/atlas-console/atlas-console/internal/shared"
)

type memoryRepo struct {
	byID      map[string]*Dict
	typeLoads int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: map[string]*Dict{}}
}

func (r *memoryRepo) List(ctx context.Context) ([]Dict, error) {
	var out []Dict
	for _, d := range r.byID {
		out = append(out, *d)
	}
	return out, nil
}

func (r *memoryRepo) ListByType(ctx context.Context, dictType string) ([]Dict, error) {
	r.typeLoads++
	var out []Dict
	for _, d := range r.byID {
		if d.DictType == dictType && d.Status != shared.StatusDisabled {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id string) (*Dict, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *memoryRepo) Insert(ctx context.Context, d Dict) error {
	if _, ok := r.byID[d.ID]; ok {
		return shared.ErrConflict
	}
	cp := d
	r.byID[d.ID] = &cp
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, d Dict) error {
	current, ok := r.byID[d.ID]
	if !ok {
		return shared.ErrNotFound
	}
	d.CreatedTime = current.CreatedTime
	cp := d
	r.byID[d.ID] = &cp
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

var _ RepositoryPort = (*memoryRepo)(nil)

func newTestService(t *testing.T) (*Service, *memoryRepo) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newMemoryRepo()
	return NewService(repo, NewCache(client, time.Minute)), repo
}

func TestValuesByTypeServedFromCache(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ID: "g1", DictType: "gender", Name: "Male", Value: "1"})
	require.NoError(t, err)

	first, err := svc.ValuesByType(ctx, "gender")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.ValuesByType(ctx, "gender")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, repo.typeLoads)
}

func TestWritesInvalidateCache(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ID: "g1", DictType: "gender", Name: "Male", Value: "1"})
	require.NoError(t, err)

	values, err := svc.ValuesByType(ctx, "gender")
	require.NoError(t, err)
	require.Len(t, values, 1)

	_, err = svc.Create(ctx, CreateInput{ID: "g2", DictType: "gender", Name: "Female", Value: "2"})
	require.NoError(t, err)

	values, err = svc.ValuesByType(ctx, "gender")
	require.NoError(t, err)
	require.Len(t, values, 2)
	require.Equal(t, 2, repo.typeLoads)
}

func TestDisabledValuesExcluded(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ID: "g1", DictType: "gender", Name: "Male", Value: "1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{ID: "g2", DictType: "gender", Name: "Hidden", Value: "9", Status: shared.StatusDisabled})
	require.NoError(t, err)

	values, err := svc.ValuesByType(ctx, "gender")
	require.NoError(t, err)
	require.Len(t, values, 1)
	require.Equal(t, "Male", values[0].Name)
}
