package menu

import (
	"context"
	"errors"
	"time"

	"github.com/atlas-console/atlas-console/internal/shared"
)

var (
	// ErrRolesRequired is returned when a menu write carries no role grants.
	ErrRolesRequired = errors.New("at least one role is required")
	// ErrUnknownRole is returned when a granted role id does not exist.
	ErrUnknownRole = errors.New("unknown role")
	// ErrSelfParent is returned when a menu names itself as its parent. This
	// write-side guard keeps the parent graph acyclic at depth one.
	ErrSelfParent = errors.New("menu cannot be its own parent")
)

// RoleSource verifies role ids against the role catalog.
type RoleSource interface {
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
}

// Service implements menu business rules on top of the repository.
type Service struct {
	repo  RepositoryPort
	roles RoleSource
	audit *shared.AuditLogger
}

// NewService constructs a menu service. The audit logger may be nil.
func NewService(repo RepositoryPort, roles RoleSource, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, roles: roles, audit: audit}
}

// recordChange notes a permission-affecting menu write in the audit trail.
func (s *Service) recordChange(ctx context.Context, action, menuID string) {
	if s.audit == nil {
		return
	}
	actor := ""
	if p := shared.PrincipalFromContext(ctx); p != nil {
		actor = p.ID
	}
	_ = s.audit.Record(ctx, shared.AuditLog{ActorID: actor, Action: action, Entity: "menu", EntityID: menuID})
}

// Tree returns the complete menu hierarchy, disabled entries included.
func (s *Service) Tree(ctx context.Context) ([]*Node, error) {
	menus, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(menus)
}

// VisibleTree returns the hierarchy visible to a principal holding the given
// roles. Menus granted to several of the roles appear once; the first
// occurrence by code wins.
func (s *Service) VisibleTree(ctx context.Context, roleIDs []string) ([]*Node, error) {
	var visible []Menu
	for _, roleID := range roleIDs {
		menus, err := s.repo.ListForRole(ctx, roleID)
		if err != nil {
			return nil, err
		}
		visible = append(visible, menus...)
	}
	return BuildTree(dedupeByCode(visible))
}

// Get fetches one menu.
func (s *Service) Get(ctx context.Context, id string) (*Menu, error) {
	return s.repo.FindByID(ctx, id)
}

// Create validates role grants and persists a new menu.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Menu, error) {
	if in.ParentID != "" && in.ParentID == in.ID {
		return nil, ErrSelfParent
	}
	if err := s.checkRoles(ctx, in.RoleIDs); err != nil {
		return nil, err
	}
	m := Menu{
		ID:          in.ID,
		Name:        in.Name,
		Code:        in.Code,
		PCIcon:      in.PCIcon,
		MobileIcon:  in.MobileIcon,
		Sort:        in.Sort,
		ParentID:    in.ParentID,
		PCRoute:     in.PCRoute,
		MobileRoute: in.MobileRoute,
		Status:      statusOrDefault(in.Status),
		Remark:      in.Remark,
		RoleIDs:     in.RoleIDs,
		CreatedTime: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, err
	}
	s.recordChange(ctx, "menu.create", m.ID)
	return &m, nil
}

// BatchCreate persists several menus, stopping at the first failure.
func (s *Service) BatchCreate(ctx context.Context, inputs []CreateInput) ([]Menu, error) {
	created := make([]Menu, 0, len(inputs))
	for _, in := range inputs {
		m, err := s.Create(ctx, in)
		if err != nil {
			return created, err
		}
		created = append(created, *m)
	}
	return created, nil
}

// Update validates role grants and rewrites an existing menu.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*Menu, error) {
	if in.ParentID != "" && in.ParentID == in.ID {
		return nil, ErrSelfParent
	}
	if err := s.checkRoles(ctx, in.RoleIDs); err != nil {
		return nil, err
	}
	current, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	m := *current
	m.Name = in.Name
	m.Code = in.Code
	m.PCIcon = in.PCIcon
	m.MobileIcon = in.MobileIcon
	m.Sort = in.Sort
	m.ParentID = in.ParentID
	m.PCRoute = in.PCRoute
	m.MobileRoute = in.MobileRoute
	m.Status = statusOrDefault(in.Status)
	m.Remark = in.Remark
	m.RoleIDs = in.RoleIDs
	now := time.Now().UTC()
	m.UpdatedTime = &now
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	s.recordChange(ctx, "menu.update", m.ID)
	return &m, nil
}

// Delete removes a menu.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordChange(ctx, "menu.delete", id)
	return nil
}

// Orphans lists menus whose parent id points at a missing record.
func (s *Service) Orphans(ctx context.Context) ([]Menu, error) {
	return s.repo.ListOrphans(ctx)
}

func (s *Service) checkRoles(ctx context.Context, roleIDs []string) error {
	if len(roleIDs) == 0 {
		return ErrRolesRequired
	}
	existing, err := s.roles.ExistingIDs(ctx, roleIDs)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}
	for _, id := range roleIDs {
		if _, ok := known[id]; !ok {
			return ErrUnknownRole
		}
	}
	return nil
}

func statusOrDefault(status string) string {
	if status == "" {
		return shared.StatusEnabled
	}
	return status
}
