package roles

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/assetgrid/assetgrid/internal/permissions"
	"github.com/assetgrid/assetgrid/internal/shared"
)

const maxRoleNameLength = 50

// GrantInvalidator drops cached module grants after a mutation.
type GrantInvalidator interface {
	Invalidate(ctx context.Context)
}

// CreateRoleInput is the payload for creating a role.
type CreateRoleInput struct {
	Name        string
	Description string
	Permissions permissions.Document
}

// AssignInput identifies the target of a role assignment. Exactly one of
// UserID or EmployeeID is required.
type AssignInput struct {
	UserID     int64
	EmployeeID string
	RoleID     int64
}

// Service wraps role management business rules.
type Service struct {
	repo   Repository
	grants GrantInvalidator
	audit  *shared.AuditLogger
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, grants GrantInvalidator, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, grants: grants, audit: audit, logger: logger}
}

// CreateRole validates and persists a new role.
func (s *Service) CreateRole(ctx context.Context, actor *shared.Identity, input CreateRoleInput) (Role, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Role{}, fmt.Errorf("%w: role name is required", shared.ErrValidation)
	}
	if len(name) > maxRoleNameLength {
		return Role{}, fmt.Errorf("%w: role name must be %d characters or less", shared.ErrValidation, maxRoleNameLength)
	}

	role, err := s.repo.CreateRole(ctx, name, strings.TrimSpace(input.Description), input.Permissions)
	if err != nil {
		return Role{}, err
	}

	s.recordAudit(ctx, actor, "role.create", "role", role.ID, map[string]any{"name": role.Name})
	s.grants.Invalidate(ctx)
	return role, nil
}

// ListRoles returns all roles, active only unless asked otherwise.
func (s *Service) ListRoles(ctx context.Context, includeInactive bool) ([]Role, error) {
	return s.repo.ListRoles(ctx, includeInactive)
}

// GetRole fetches one role by id.
func (s *Service) GetRole(ctx context.Context, id int64) (Role, error) {
	return s.repo.GetRole(ctx, id)
}

// FindUserByEmployeeID resolves an active user from their employee ID.
func (s *Service) FindUserByEmployeeID(ctx context.Context, employeeID string) (UserSummary, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return UserSummary{}, fmt.Errorf("%w: employee ID is required", shared.ErrValidation)
	}
	return s.repo.FindUserByEmployeeID(ctx, employeeID)
}

// AssignRole assigns a role to a user. Assigning a role the user already
// holds reactivates the existing assignment and refreshes its metadata.
func (s *Service) AssignRole(ctx context.Context, actor *shared.Identity, input AssignInput) (Assignment, error) {
	if input.RoleID <= 0 {
		return Assignment{}, fmt.Errorf("%w: role ID is required", shared.ErrValidation)
	}
	if input.UserID <= 0 && strings.TrimSpace(input.EmployeeID) == "" {
		return Assignment{}, fmt.Errorf("%w: either user ID or employee ID is required", shared.ErrValidation)
	}

	userID := input.UserID
	if userID <= 0 {
		user, err := s.repo.FindUserByEmployeeID(ctx, strings.TrimSpace(input.EmployeeID))
		if err != nil {
			return Assignment{}, err
		}
		userID = user.ID
	}

	ok, err := s.repo.ActiveUserExists(ctx, userID)
	if err != nil {
		return Assignment{}, err
	}
	if !ok {
		return Assignment{}, fmt.Errorf("%w: user not found or inactive", shared.ErrNotFound)
	}

	ok, err = s.repo.ActiveRoleExists(ctx, input.RoleID)
	if err != nil {
		return Assignment{}, err
	}
	if !ok {
		return Assignment{}, fmt.Errorf("%w: role not found or inactive", shared.ErrNotFound)
	}

	assignment, err := s.repo.UpsertAssignment(ctx, userID, input.RoleID, actor.AdminID)
	if err != nil {
		return Assignment{}, err
	}

	s.recordAudit(ctx, actor, "role.assign", "user_role", assignment.ID, map[string]any{
		"userId": userID,
		"roleId": input.RoleID,
	})
	s.grants.Invalidate(ctx)
	return assignment, nil
}

// UserRoles returns the active roles assigned to a user.
func (s *Service) UserRoles(ctx context.Context, userID int64) ([]UserRole, error) {
	return s.repo.ListUserRoles(ctx, userID)
}

// RemoveRole soft-deletes a user-role assignment.
func (s *Service) RemoveRole(ctx context.Context, actor *shared.Identity, userID, roleID int64) error {
	if err := s.repo.DeactivateAssignment(ctx, userID, roleID); err != nil {
		return err
	}

	s.recordAudit(ctx, actor, "role.unassign", "user_role", 0, map[string]any{
		"userId": userID,
		"roleId": roleID,
	})
	s.grants.Invalidate(ctx)
	return nil
}

func (s *Service) recordAudit(ctx context.Context, actor *shared.Identity, action, entity string, entityID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	actorType, actorID := shared.AuditActor(actor)
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorType: actorType,
		ActorID:   actorID,
		Action:    action,
		Entity:    entity,
		EntityID:  strconv.FormatInt(entityID, 10),
		Meta:      meta,
	})
	if err != nil {
		s.logger.Warn("record audit log", slog.String("action", action), slog.Any("error", err))
	}
}
