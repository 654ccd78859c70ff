package roles

import (
	"context"
	"errors"
	"time"

	"github.com/atlas-console/atlas-console/internal/shared"
)

var (
	// ErrReservedRole indicates an attempt to delete a base role.
	ErrReservedRole = errors.New("roles: reserved role cannot be deleted")
	// ErrRoleInUse indicates a role still held by users.
	ErrRoleInUse = errors.New("roles: role has users attached")
)

// Service handles role business rules.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create registers a new role. The id doubles as the role code and must be free.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Role, error) {
	role := fromInput(in)
	if err := s.repo.Insert(ctx, role); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, in.ID)
}

// BatchCreate registers several roles. Used by the one-time setup flow.
func (s *Service) BatchCreate(ctx context.Context, inputs []CreateInput) ([]Role, error) {
	created := make([]Role, 0, len(inputs))
	for _, in := range inputs {
		role, err := s.Create(ctx, in)
		if err != nil {
			return nil, err
		}
		created = append(created, *role)
	}
	return created, nil
}

// List returns roles matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]Role, error) {
	return s.repo.List(ctx, filter)
}

// Get fetches one role.
func (s *Service) Get(ctx context.Context, id string) (*Role, error) {
	return s.repo.FindByID(ctx, id)
}

// FindSomeByIDs fetches the roles whose ids appear in the list.
func (s *Service) FindSomeByIDs(ctx context.Context, ids []string) ([]Role, error) {
	return s.repo.FindSomeByIDs(ctx, ids)
}

// ExistingIDs narrows a candidate list down to the role ids that exist.
func (s *Service) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	found, err := s.repo.FindSomeByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(found))
	for _, role := range found {
		out = append(out, role.ID)
	}
	return out, nil
}

// Update rewrites a role.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*Role, error) {
	role := Role{ID: in.ID, RoleName: in.RoleName, CodeType: in.CodeType, Status: statusOrDefault(in.Status), Remark: in.Remark}
	if err := s.repo.Update(ctx, role); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, in.ID)
}

// Delete removes a role. Reserved roles and roles still granted to users are
// refused.
func (s *Service) Delete(ctx context.Context, id string) error {
	if shared.IsReservedRole(id) {
		return ErrReservedRole
	}
	attached, err := s.repo.CountUsersForRole(ctx, id)
	if err != nil {
		return err
	}
	if attached > 0 {
		return ErrRoleInUse
	}
	return s.repo.Delete(ctx, id)
}

// Counts aggregates role totals and per-role user counts.
func (s *Service) Counts(ctx context.Context) (CountSummary, error) {
	total, err := s.repo.CountRoles(ctx)
	if err != nil {
		return CountSummary{}, err
	}
	perRole, err := s.repo.CountUsersPerRole(ctx)
	if err != nil {
		return CountSummary{}, err
	}
	return CountSummary{RoleCount: total, PerRole: perRole}, nil
}

// CountRoles returns the total number of roles.
func (s *Service) CountRoles(ctx context.Context) (int64, error) {
	return s.repo.CountRoles(ctx)
}

func fromInput(in CreateInput) Role {
	return Role{
		ID:          in.ID,
		RoleName:    in.RoleName,
		CodeType:    in.CodeType,
		Status:      statusOrDefault(in.Status),
		Remark:      in.Remark,
		CreatedTime: time.Now().UTC(),
	}
}

func statusOrDefault(status string) string {
	if status == "" {
		return shared.StatusEnabled
	}
	return status
}
