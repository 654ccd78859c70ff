package settings

import (
	"context"
	"time"
)

// Service handles settings business rules.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns every profile.
func (s *Service) List(ctx context.Context) ([]Setting, error) {
	return s.repo.List(ctx)
}

// Get fetches one profile.
func (s *Service) Get(ctx context.Context, id string) (*Setting, error) {
	return s.repo.FindByID(ctx, id)
}

// Enabled fetches the active profile.
func (s *Service) Enabled(ctx context.Context) (*Setting, error) {
	return s.repo.FindEnabled(ctx)
}

// Create persists a new profile.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Setting, error) {
	setting := Setting{
		ID:                 in.ID,
		ProductName:        in.ProductName,
		ProductVersion:     in.ProductVersion,
		ProductDescription: in.ProductDescription,
		AllowSignup:        in.AllowSignup,
		HasEnabled:         in.HasEnabled,
		Remark:             in.Remark,
		CreatedTime:        time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, setting); err != nil {
		return nil, err
	}
	return &setting, nil
}

// Update rewrites a profile.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*Setting, error) {
	setting := Setting{
		ID:                 in.ID,
		ProductName:        in.ProductName,
		ProductVersion:     in.ProductVersion,
		ProductDescription: in.ProductDescription,
		AllowSignup:        in.AllowSignup,
		HasEnabled:         in.HasEnabled,
		Remark:             in.Remark,
	}
	if err := s.repo.Update(ctx, setting); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, in.ID)
}

// Delete removes a profile.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
