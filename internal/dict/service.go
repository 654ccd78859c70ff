package dict

import (
	"context"
	"time"

	"github.com/atlas-console/atlas-console/internal/shared"
)

// Service handles dictionary business rules. Writes bump the cache version so
// typed lookups never serve stale sets.
type Service struct {
	repo  RepositoryPort
	cache *Cache
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// List returns every entry.
func (s *Service) List(ctx context.Context) ([]Dict, error) {
	return s.repo.List(ctx)
}

// ValuesByType returns the enabled entries of one type, served from cache
// when warm.
func (s *Service) ValuesByType(ctx context.Context, dictType string) ([]Dict, error) {
	return s.cache.FetchValues(ctx, dictType, func(ctx context.Context) ([]Dict, error) {
		return s.repo.ListByType(ctx, dictType)
	})
}

// Get fetches one entry.
func (s *Service) Get(ctx context.Context, id string) (*Dict, error) {
	return s.repo.FindByID(ctx, id)
}

// Create persists a new entry.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Dict, error) {
	d := Dict{
		ID:          in.ID,
		DictType:    in.DictType,
		Name:        in.Name,
		Value:       in.Value,
		Sort:        in.Sort,
		Status:      statusOrDefault(in.Status),
		Remark:      in.Remark,
		CreatedTime: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, d); err != nil {
		return nil, err
	}
	_ = s.cache.Bump(ctx)
	return &d, nil
}

// Update rewrites an entry.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*Dict, error) {
	d := Dict{
		ID:       in.ID,
		DictType: in.DictType,
		Name:     in.Name,
		Value:    in.Value,
		Sort:     in.Sort,
		Status:   statusOrDefault(in.Status),
		Remark:   in.Remark,
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	_ = s.cache.Bump(ctx)
	return s.repo.FindByID(ctx, in.ID)
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Bump(ctx)
	return nil
}

func statusOrDefault(status string) string {
	if status == "" {
		return shared.StatusEnabled
	}
	return status
}
