package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/atlas-console/atlas-console/internal/menu"
	"github.com/atlas-console/atlas-console/internal/roles"
	"github.com/atlas-console/atlas-console/internal/shared"
	"github.com/atlas-console/atlas-console/internal/users"
)

var (
	// ErrVisitorLogin rejects a password login for the fallback identity.
	ErrVisitorLogin = errors.New("auth: visitor cannot sign in")
	// ErrUserDisabled rejects a disabled account.
	ErrUserDisabled = errors.New("auth: account is disabled")
	// ErrSignupDisabled means self-registration is switched off.
	ErrSignupDisabled = errors.New("auth: signup is disabled")
	// ErrRoleSignupDisabled means signup may not choose roles.
	ErrRoleSignupDisabled = errors.New("auth: signup with roles is disabled")
	// ErrAdminSignupDisabled means signup may not claim a super-role.
	ErrAdminSignupDisabled = errors.New("auth: signup as admin is disabled")
	// ErrSetupDisabled means the one-time bootstrap endpoint is switched off.
	ErrSetupDisabled = errors.New("auth: setup is disabled")
	// ErrInviteRequired means signup needs an invite code but none was given.
	ErrInviteRequired = errors.New("auth: invite code is required")
	// ErrInviteInvalid means the invite code does not exist.
	ErrInviteInvalid = errors.New("auth: invite code is invalid")
	// ErrInviteUsed means the invite code was already consumed.
	ErrInviteUsed = errors.New("auth: invite code already used")
)

// Config carries the signup feature switches.
type Config struct {
	AllowSignup          bool
	AllowSignupRole      bool
	AllowSignupAdmin     bool
	SignupWithInviteCode bool
}

// UserStore is the slice of the account service the auth flows need.
type UserStore interface {
	Get(ctx context.Context, id string) (*users.User, error)
	Create(ctx context.Context, in users.CreateInput) (*users.User, error)
	BatchCreate(ctx context.Context, inputs []users.CreateInput) ([]users.User, error)
}

// RoleStore seeds roles during setup.
type RoleStore interface {
	BatchCreate(ctx context.Context, inputs []roles.CreateInput) ([]roles.Role, error)
}

// MenuStore builds the navigation payload and seeds menus during setup.
type MenuStore interface {
	VisibleTree(ctx context.Context, roleIDs []string) ([]*menu.Node, error)
	BatchCreate(ctx context.Context, inputs []menu.CreateInput) ([]menu.Menu, error)
}

// InviteStore checks and consumes invite codes.
type InviteStore interface {
	Used(ctx context.Context, id string) (bool, error)
	Consume(ctx context.Context, id, userID string) error
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(userID string, createdTime time.Time) (string, error)
}

// Service implements the login, signup and setup flows.
type Service struct {
	cfg     Config
	tokens  TokenIssuer
	users   UserStore
	roles   RoleStore
	menus   MenuStore
	invites InviteStore
	audit   *shared.AuditLogger
}

// NewService builds Service instance.
func NewService(cfg Config, tokens TokenIssuer, userStore UserStore, roleStore RoleStore, menuStore MenuStore, inviteStore InviteStore, audit *shared.AuditLogger) *Service {
	return &Service{cfg: cfg, tokens: tokens, users: userStore, roles: roleStore, menus: menuStore, invites: inviteStore, audit: audit}
}

// LoginInput carries credentials.
type LoginInput struct {
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the signed-in session payload.
type LoginResult struct {
	Token string       `json:"token"`
	User  *users.User  `json:"user"`
	Menus []*menu.Node `json:"menus"`
}

// SignIn authenticates credentials and returns a token together with the
// caller's visible menu tree. Unknown ids, wrong passwords and soft-deleted
// accounts all fail with the same message.
func (s *Service) SignIn(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if in.ID == shared.VisitorUserID {
		return nil, ErrVisitorLogin
	}
	user, err := s.users.Get(ctx, in.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.HasDeleted {
		return nil, shared.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if user.Status == shared.StatusDisabled {
		return nil, ErrUserDisabled
	}

	result := LoginResult{User: user}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		token, err := s.tokens.Issue(user.ID, user.CreatedTime)
		if err != nil {
			return err
		}
		result.Token = token
		return nil
	})
	g.Go(func() error {
		tree, err := s.menus.VisibleTree(gctx, user.RoleIDs)
		if err != nil {
			return err
		}
		result.Menus = tree
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{ActorID: user.ID, Action: "login", Entity: "user", EntityID: user.ID})
	}
	return &result, nil
}

// SignupInput carries self-registration fields.
type SignupInput struct {
	ID         string   `json:"id" validate:"required"`
	UserName   string   `json:"userName" validate:"required"`
	Password   string   `json:"password" validate:"required,min=6"`
	RoleIDs    []string `json:"roleIds"`
	InviteCode string   `json:"inviteCode"`
}

// SignUp registers a new account subject to the feature switches, then signs
// it in.
func (s *Service) SignUp(ctx context.Context, in SignupInput) (*LoginResult, error) {
	if !s.cfg.AllowSignup {
		return nil, ErrSignupDisabled
	}
	if shared.IsReservedUser(in.ID) {
		return nil, users.ErrReservedUser
	}
	roleIDs := in.RoleIDs
	if len(roleIDs) > 0 && !s.cfg.AllowSignupRole {
		return nil, ErrRoleSignupDisabled
	}
	for _, id := range roleIDs {
		if (id == shared.RoleAdmin || id == shared.RoleRoot) && !s.cfg.AllowSignupAdmin {
			return nil, ErrAdminSignupDisabled
		}
	}
	if len(roleIDs) == 0 {
		roleIDs = []string{shared.RoleVisitor}
	}
	if s.cfg.SignupWithInviteCode {
		if in.InviteCode == "" {
			return nil, ErrInviteRequired
		}
		used, err := s.invites.Used(ctx, in.InviteCode)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, ErrInviteInvalid
			}
			return nil, err
		}
		if used {
			return nil, ErrInviteUsed
		}
	}

	user, err := s.users.Create(ctx, users.CreateInput{
		ID:       in.ID,
		UserName: in.UserName,
		Password: in.Password,
		RoleIDs:  roleIDs,
	})
	if err != nil {
		return nil, err
	}
	if s.cfg.SignupWithInviteCode {
		if err := s.invites.Consume(ctx, in.InviteCode, user.ID); err != nil {
			return nil, err
		}
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{ActorID: user.ID, Action: "signup", Entity: "user", EntityID: user.ID})
	}
	return s.signInCreated(ctx, user)
}

// SetupInput seeds the console on first run.
type SetupInput struct {
	Admin    users.CreateInput   `json:"admin" validate:"required"`
	Roles    []roles.CreateInput `json:"roles" validate:"required,min=1"`
	Menus    []menu.CreateInput  `json:"menus"`
	Visitors []users.CreateInput `json:"visitors"`
}

// Setup batch-creates the initial roles, accounts and menus. It is gated by
// both super-role switches and intended to run once against an empty store.
func (s *Service) Setup(ctx context.Context, in SetupInput) (*LoginResult, error) {
	if !s.cfg.AllowSignupRole || !s.cfg.AllowSignupAdmin {
		return nil, ErrSetupDisabled
	}
	if _, err := s.roles.BatchCreate(ctx, in.Roles); err != nil {
		return nil, err
	}
	admin, err := s.users.Create(ctx, in.Admin)
	if err != nil {
		return nil, err
	}
	if len(in.Visitors) > 0 {
		if _, err := s.users.BatchCreate(ctx, in.Visitors); err != nil {
			return nil, err
		}
	}
	if len(in.Menus) > 0 {
		if _, err := s.menus.BatchCreate(ctx, in.Menus); err != nil {
			return nil, err
		}
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{ActorID: admin.ID, Action: "setup", Entity: "user", EntityID: admin.ID})
	}
	return s.signInCreated(ctx, admin)
}

func (s *Service) signInCreated(ctx context.Context, user *users.User) (*LoginResult, error) {
	token, err := s.tokens.Issue(user.ID, user.CreatedTime)
	if err != nil {
		return nil, err
	}
	tree, err := s.menus.VisibleTree(ctx, user.RoleIDs)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user, Menus: tree}, nil
}
