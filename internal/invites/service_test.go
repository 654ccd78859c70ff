package invites

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atlas-console/atlas-console/internal/shared"
)

type memoryRepo struct {
	byID map[string]*InviteCode
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: map[string]*InviteCode{}}
}

func (r *memoryRepo) List(ctx context.Context, limit, offset int) ([]InviteCode, error) {
	var out []InviteCode
	for _, c := range r.byID {
		out = append(out, *c)
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id string) (*InviteCode, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memoryRepo) Insert(ctx context.Context, code InviteCode) error {
	if _, ok := r.byID[code.ID]; ok {
		return shared.ErrConflict
	}
	cp := code
	r.byID[code.ID] = &cp
	return nil
}

func (r *memoryRepo) MarkUsed(ctx context.Context, id, userID string) error {
	c, ok := r.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	if c.UsedUserID != "" {
		return shared.ErrConflict
	}
	c.UsedUserID = userID
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memoryRepo) DeleteExpiredUnused(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	for id, c := range r.byID {
		if c.UsedUserID == "" && c.ExpiresAt != nil && c.ExpiresAt.Before(before) {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

var _ RepositoryPort = (*memoryRepo)(nil)

func TestCreateGeneratesID(t *testing.T) {
	svc := NewService(newMemoryRepo())

	code, err := svc.Create(context.Background(), CreateInput{})
	require.NoError(t, err)
	require.NotEmpty(t, code.ID)
	require.Equal(t, shared.StatusEnabled, code.Status)

	explicit, err := svc.Create(context.Background(), CreateInput{ID: "welcome-1"})
	require.NoError(t, err)
	require.Equal(t, "welcome-1", explicit.ID)
}

func TestUsedDistinguishesUnknownFromConsumed(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Used(ctx, "missing")
	require.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.Create(ctx, CreateInput{ID: "c1"})
	require.NoError(t, err)

	used, err := svc.Used(ctx, "c1")
	require.NoError(t, err)
	require.False(t, used)

	require.NoError(t, svc.Consume(ctx, "c1", "alice"))

	used, err = svc.Used(ctx, "c1")
	require.NoError(t, err)
	require.True(t, used)

	// A consumed code cannot be bound again.
	require.ErrorIs(t, svc.Consume(ctx, "c1", "bob"), shared.ErrConflict)
	require.Equal(t, "alice", repo.byID["c1"].UsedUserID)
}

func TestSweepRemovesOnlyExpiredUnused(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	_, err := svc.Create(ctx, CreateInput{ID: "expired", ExpiresAt: &past})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{ID: "expired-used", ExpiresAt: &past})
	require.NoError(t, err)
	require.NoError(t, svc.Consume(ctx, "expired-used", "alice"))
	_, err = svc.Create(ctx, CreateInput{ID: "fresh", ExpiresAt: &future})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{ID: "eternal"})
	require.NoError(t, err)

	removed, err := svc.Sweep(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)
	require.NotContains(t, repo.byID, "expired")
	require.Contains(t, repo.byID, "expired-used")
	require.Contains(t, repo.byID, "fresh")
	require.Contains(t, repo.byID, "eternal")
}

func TestListPaginates(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		_, err := svc.Create(ctx, CreateInput{ID: id})
		require.NoError(t, err)
	}

	codes, pagination, err := svc.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, codes, 2)
	require.Equal(t, 1, pagination.Page)
	require.Equal(t, 2, pagination.PerPage)
	require.Equal(t, 5, pagination.Total)
	require.Equal(t, 3, pagination.TotalPages)

	// Defaults apply when the caller passes no paging values.
	codes, pagination, err = svc.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, codes, 5)
	require.Equal(t, 1, pagination.Page)
	require.Equal(t, 20, pagination.PerPage)
}
