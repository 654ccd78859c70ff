package users

import (
	"context"

	"github.com/atlas-console/atlas-console/internal/shared"
)

// IdentityAdapter exposes the account store as the guard's identity lookup.
type IdentityAdapter struct {
	repo RepositoryPort
}

// NewIdentityAdapter builds IdentityAdapter instance.
func NewIdentityAdapter(repo RepositoryPort) *IdentityAdapter {
	return &IdentityAdapter{repo: repo}
}

// FindPrincipalByID resolves a request principal. Soft-deleted accounts
// behave as nonexistent for authentication purposes.
func (a *IdentityAdapter) FindPrincipalByID(ctx context.Context, id string) (*shared.Principal, error) {
	user, err := a.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.HasDeleted {
		return nil, shared.ErrNotFound
	}
	return &shared.Principal{
		ID:       user.ID,
		RoleIDs:  user.RoleIDs,
		Disabled: user.Status == shared.StatusDisabled,
	}, nil
}
