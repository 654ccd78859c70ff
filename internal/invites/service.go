package invites

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/atlas-console/atlas-console/internal/shared"
)

// Service handles invite-code business rules.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create mints a new code. An empty id gets a generated one.
func (s *Service) Create(ctx context.Context, in CreateInput) (*InviteCode, error) {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	code := InviteCode{
		ID:          id,
		Status:      shared.StatusEnabled,
		Remark:      in.Remark,
		ExpiresAt:   in.ExpiresAt,
		CreatedTime: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, code); err != nil {
		return nil, err
	}
	return &code, nil
}

// List returns one page of codes plus paging metadata.
func (s *Service) List(ctx context.Context, page, perPage int) ([]InviteCode, shared.Pagination, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	p := shared.NewPagination(page, perPage, int(total))
	codes, err := s.repo.List(ctx, p.PerPage, (p.Page-1)*p.PerPage)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return codes, p, nil
}

// Get fetches one code.
func (s *Service) Get(ctx context.Context, id string) (*InviteCode, error) {
	return s.repo.FindByID(ctx, id)
}

// Used reports whether the code was already consumed. Unknown codes are a
// not-found error so callers can tell invalid from used.
func (s *Service) Used(ctx context.Context, id string) (bool, error) {
	code, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return code.UsedUserID != "", nil
}

// Consume binds the code to the user who signed up with it.
func (s *Service) Consume(ctx context.Context, id, userID string) error {
	return s.repo.MarkUsed(ctx, id, userID)
}

// Delete removes a code.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Sweep deletes expired, never-consumed codes and returns how many went.
func (s *Service) Sweep(ctx context.Context, now time.Time) (int64, error) {
	return s.repo.DeleteExpiredUnused(ctx, now)
}
