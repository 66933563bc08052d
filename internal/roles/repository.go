package roles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/assetgrid/assetgrid/internal/permissions"
	"github.com/assetgrid/assetgrid/internal/shared"
)

// Repository defines persistence operations for roles and assignments.
type Repository interface {
	CreateRole(ctx context.Context, name, description string, perms permissions.Document) (Role, error)
	ListRoles(ctx context.Context, includeInactive bool) ([]Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	FindUserByEmployeeID(ctx context.Context, employeeID string) (UserSummary, error)
	ActiveUserExists(ctx context.Context, userID int64) (bool, error)
	ActiveRoleExists(ctx context.Context, roleID int64) (bool, error)
	UpsertAssignment(ctx context.Context, userID, roleID, assignedBy int64) (Assignment, error)
	ListUserRoles(ctx context.Context, userID int64) ([]UserRole, error)
	DeactivateAssignment(ctx context.Context, userID, roleID int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const uniqueViolation = "23505"

const roleColumns = `id, name, COALESCE(description, ''), permissions, is_active, created_at`

func scanRole(row pgx.Row) (Role, error) {
	var (
		role Role
		raw  []byte
	)
	err := row.Scan(&role.ID, &role.Name, &role.Description, &raw, &role.IsActive, &role.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, fmt.Errorf("%w: role not found", shared.ErrNotFound)
		}
		return Role{}, err
	}
	role.Permissions, _ = permissions.Decode(raw)
	return role, nil
}

// CreateRole inserts a role. A name conflict maps to shared.ErrDuplicate via
// the unique constraint rather than a lookup beforehand.
func (r *PGRepository) CreateRole(ctx context.Context, name, description string, perms permissions.Document) (Role, error) {
	if perms == nil {
		perms = permissions.Document{}
	}
	raw, err := json.Marshal(perms)
	if err != nil {
		return Role{}, err
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO roles (name, description, permissions, is_active) VALUES ($1, NULLIF($2, ''), $3, TRUE)
		 RETURNING `+roleColumns, name, description, raw)
	role, err := scanRole(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Role{}, fmt.Errorf("%w: role with this name already exists", shared.ErrDuplicate)
		}
		return Role{}, err
	}
	return role, nil
}

// ListRoles returns roles ordered by name, active only unless asked otherwise.
func (r *PGRepository) ListRoles(ctx context.Context, includeInactive bool) ([]Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles`
	if !includeInactive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// GetRole fetches a role by id.
func (r *PGRepository) GetRole(ctx context.Context, id int64) (Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id)
	return scanRole(row)
}

// FindUserByEmployeeID resolves an active user from their employee ID.
func (r *PGRepository) FindUserByEmployeeID(ctx context.Context, employeeID string) (UserSummary, error) {
	var user UserSummary
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, email, full_name, COALESCE(employee_id, ''), COALESCE(department, '')
		 FROM users WHERE employee_id = $1 AND is_active`, employeeID).
		Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.EmployeeID, &user.Department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserSummary{}, fmt.Errorf("%w: user not found with the provided employee ID", shared.ErrNotFound)
		}
		return UserSummary{}, err
	}
	return user, nil
}

// ActiveUserExists reports whether an active user exists with the given id.
func (r *PGRepository) ActiveUserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND is_active)`, userID).Scan(&exists)
	return exists, err
}

// ActiveRoleExists reports whether an active role exists with the given id.
func (r *PGRepository) ActiveRoleExists(ctx context.Context, roleID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM roles WHERE id = $1 AND is_active)`, roleID).Scan(&exists)
	return exists, err
}

// UpsertAssignment creates or reactivates a user-role assignment in a single
// statement. The unique constraint on (user_id, role_id) makes concurrent
// assignments converge on one row instead of racing a lookup.
func (r *PGRepository) UpsertAssignment(ctx context.Context, userID, roleID, assignedBy int64) (Assignment, error) {
	var a Assignment
	err := r.pool.QueryRow(ctx,
		`INSERT INTO user_roles (user_id, role_id, assigned_by, is_active, assigned_at)
		 VALUES ($1, $2, $3, TRUE, NOW())
		 ON CONFLICT (user_id, role_id)
		 DO UPDATE SET is_active = TRUE, assigned_by = EXCLUDED.assigned_by, assigned_at = NOW()
		 RETURNING id, user_id, role_id, assigned_by, assigned_at`,
		userID, roleID, assignedBy).
		Scan(&a.ID, &a.UserID, &a.RoleID, &a.AssignedBy, &a.AssignedAt)
	if err != nil {
		return Assignment{}, err
	}
	return a, nil
}

// ListUserRoles returns the active roles assigned to a user, newest first.
func (r *PGRepository) ListUserRoles(ctx context.Context, userID int64) ([]UserRole, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ur.id, ur.role_id, r.name, COALESCE(r.description, ''), r.permissions, ur.assigned_by, ur.assigned_at
		 FROM user_roles ur
		 JOIN roles r ON r.id = ur.role_id
		 WHERE ur.user_id = $1 AND ur.is_active AND r.is_active
		 ORDER BY ur.assigned_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserRole
	for rows.Next() {
		var (
			ur  UserRole
			raw []byte
		)
		err := rows.Scan(&ur.AssignmentID, &ur.RoleID, &ur.RoleName, &ur.Description, &raw, &ur.AssignedBy, &ur.AssignedAt)
		if err != nil {
			return nil, err
		}
		ur.Permissions, _ = permissions.Decode(raw)
		out = append(out, ur)
	}
	return out, rows.Err()
}

// DeactivateAssignment soft-deletes an active assignment.
func (r *PGRepository) DeactivateAssignment(ctx context.Context, userID, roleID int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE user_roles SET is_active = FALSE WHERE user_id = $1 AND role_id = $2 AND is_active`,
		userID, roleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: role assignment not found", shared.ErrNotFound)
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
