package users

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/atlas-console/atlas-console/internal/shared"
)

var (
	// ErrRolesRequired indicates an account mutation without role ids.
	ErrRolesRequired = errors.New("users: role ids must not be empty")
	// ErrReservedUser indicates an attempt to delete a base account.
	ErrReservedUser = errors.New("users: reserved user cannot be deleted")
	// ErrWrongPassword indicates the supplied current password did not match.
	ErrWrongPassword = errors.New("users: wrong password")
)

// RoleCounter exposes the role totals needed by Counts.
type RoleCounter interface {
	CountRoles(ctx context.Context) (int64, error)
}

// Service handles account business rules.
type Service struct {
	repo  RepositoryPort
	roles RoleCounter
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, roles RoleCounter) *Service {
	return &Service{repo: repo, roles: roles}
}

// Create registers a new account with a hashed password and role grants.
func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	if len(in.RoleIDs) == 0 {
		return nil, ErrRolesRequired
	}
	exists, err := s.repo.Exists(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := User{
		ID:           in.ID,
		UserName:     in.UserName,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Mail:         in.Mail,
		RealName:     in.RealName,
		Gender:       in.Gender,
		AvatarURL:    in.AvatarURL,
		Status:       statusOrDefault(in.Status),
		Remark:       in.Remark,
		RoleIDs:      in.RoleIDs,
		CreatedTime:  time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, user); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, in.ID)
}

// BatchCreate registers several accounts. Used by the one-time setup flow.
func (s *Service) BatchCreate(ctx context.Context, inputs []CreateInput) ([]User, error) {
	created := make([]User, 0, len(inputs))
	for _, in := range inputs {
		user, err := s.Create(ctx, in)
		if err != nil {
			return nil, err
		}
		created = append(created, *user)
	}
	return created, nil
}

// List returns all accounts that are not soft-deleted.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Get fetches one account with its role ids.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// Exists reports whether an account id is taken.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// Update changes an account after verifying the current password. An empty
// new password keeps the stored hash.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*User, error) {
	if len(in.RoleIDs) == 0 {
		return nil, ErrRolesRequired
	}
	current, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(current.PasswordHash), []byte(in.OldPassword)); err != nil {
		return nil, ErrWrongPassword
	}

	hash := current.PasswordHash
	if in.Password != "" {
		newHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = string(newHash)
	}

	now := time.Now().UTC()
	user := User{
		ID:           in.ID,
		UserName:     in.UserName,
		PasswordHash: hash,
		Phone:        in.Phone,
		Mail:         in.Mail,
		RealName:     in.RealName,
		Gender:       in.Gender,
		AvatarURL:    in.AvatarURL,
		Status:       statusOrDefault(in.Status),
		Remark:       in.Remark,
		RoleIDs:      in.RoleIDs,
		UpdatedTime:  &now,
		UpdatedBy:    in.ID,
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, in.ID)
}

// Delete removes an account permanently. Reserved accounts are refused.
func (s *Service) Delete(ctx context.Context, id string) error {
	if shared.IsReservedUser(id) {
		return ErrReservedUser
	}
	return s.repo.Delete(ctx, id)
}

// Remove marks an account as logically deleted; it then behaves as
// nonexistent for authentication.
func (s *Service) Remove(ctx context.Context, id string) error {
	if shared.IsReservedUser(id) {
		return ErrReservedUser
	}
	return s.repo.SetDeleted(ctx, id)
}

// Counts aggregates account and role totals.
func (s *Service) Counts(ctx context.Context) (Counts, error) {
	userCount, err := s.repo.CountUsers(ctx)
	if err != nil {
		return Counts{}, err
	}
	roleCount, err := s.roles.CountRoles(ctx)
	if err != nil {
		return Counts{}, err
	}
	return Counts{Users: userCount, Roles: roleCount}, nil
}

func statusOrDefault(status string) string {
	if status == "" {
		return shared.StatusEnabled
	}
	return status
}
