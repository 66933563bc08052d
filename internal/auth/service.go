package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/assetgrid/assetgrid/internal/permissions"
	"github.com/assetgrid/assetgrid/internal/rbac"
	"github.com/assetgrid/assetgrid/internal/shared"
)

// AccessResolver supplies module and permission grants for principals.
type AccessResolver interface {
	AdminAccess(ctx context.Context, roleName string) (rbac.AdminGrant, error)
	UserAccess(ctx context.Context, userID int64) (rbac.UserGrant, error)
}

// AdminProfile is the admin identity returned to API callers.
type AdminProfile struct {
	ID          int64                `json:"id"`
	Username    string               `json:"username"`
	Email       string               `json:"email"`
	FullName    string               `json:"fullName"`
	Role        string               `json:"role"`
	Permissions permissions.Document `json:"permissions"`
	Modules     []string             `json:"modules"`
}

// UserProfile is the user identity returned to API callers.
type UserProfile struct {
	ID          int64                `json:"id"`
	Username    string               `json:"username"`
	Email       string               `json:"email"`
	FullName    string               `json:"fullName"`
	EmployeeID  string               `json:"employeeId,omitempty"`
	Department  string               `json:"department,omitempty"`
	Roles       []rbac.RoleRef       `json:"roles"`
	Permissions permissions.Document `json:"permissions"`
	Modules     []string             `json:"modules"`
}

// AdminSession is the result of a successful admin login.
type AdminSession struct {
	Token string
	Admin AdminProfile
}

// UserSession is the result of a successful user login.
type UserSession struct {
	Token string
	User  UserProfile
}

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	access AccessResolver
	tokens *TokenManager
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, access AccessResolver, tokens *TokenManager, logger *slog.Logger) *Service {
	return &Service{repo: repo, access: access, tokens: tokens, logger: logger}
}

// LoginAdmin validates admin credentials and issues a session token carrying
// the resolved module grant.
func (s *Service) LoginAdmin(ctx context.Context, username, password string) (*AdminSession, error) {
	admin, err := s.repo.FindAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, shared.ErrInvalidCredentials
	}

	profile, err := s.adminProfile(ctx, admin)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(Claims{
		AdminID:  admin.ID,
		Username: admin.Username,
		Role:     admin.Role,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.TouchAdminLastLogin(ctx, admin.ID); err != nil {
		s.logger.Warn("touch admin last login", slog.Any("error", err))
	}

	return &AdminSession{Token: token, Admin: profile}, nil
}

// CurrentAdmin returns the profile for a verified admin token.
func (s *Service) CurrentAdmin(ctx context.Context, adminID int64) (AdminProfile, error) {
	admin, err := s.repo.FindAdminByID(ctx, adminID)
	if err != nil {
		return AdminProfile{}, err
	}
	return s.adminProfile(ctx, admin)
}

func (s *Service) adminProfile(ctx context.Context, admin *Admin) (AdminProfile, error) {
	grant, err := s.access.AdminAccess(ctx, admin.Role)
	if err != nil {
		return AdminProfile{}, err
	}
	return AdminProfile{
		ID:          admin.ID,
		Username:    admin.Username,
		Email:       admin.Email,
		FullName:    admin.FullName,
		Role:        admin.Role,
		Permissions: grant.Permissions.WithModules(grant.Modules),
		Modules:     grant.Modules,
	}, nil
}

// LoginUser validates user credentials and issues a session token. Module
// visibility comes from the merged permission set of all active roles.
func (s *Service) LoginUser(ctx context.Context, username, password string) (*UserSession, error) {
	user, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, shared.ErrInvalidCredentials
	}

	profile, err := s.userProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(Claims{
		UserID:   user.ID,
		Username: user.Username,
		UserType: "employee",
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.TouchUserLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("touch user last login", slog.Any("error", err))
	}

	return &UserSession{Token: token, User: profile}, nil
}

// CurrentUser returns the profile for a verified user token.
func (s *Service) CurrentUser(ctx context.Context, userID int64) (UserProfile, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return UserProfile{}, err
	}
	return s.userProfile(ctx, user)
}

func (s *Service) userProfile(ctx context.Context, user *User) (UserProfile, error) {
	grant, err := s.access.UserAccess(ctx, user.ID)
	if err != nil {
		return UserProfile{}, err
	}
	roles := grant.Roles
	if roles == nil {
		roles = []rbac.RoleRef{}
	}
	return UserProfile{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FullName:    user.FullName,
		EmployeeID:  user.EmployeeID,
		Department:  user.Department,
		Roles:       roles,
		Permissions: grant.Permissions,
		Modules:     grant.Modules,
	}, nil
}
