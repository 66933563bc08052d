package rbac

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/assetgrid/assetgrid/internal/shared"
)

// StoredGrant is one active role row with its raw permissions payload.
type StoredGrant struct {
	RoleID      int64
	RoleName    string
	Permissions []byte
}

// Store defines the role lookups the resolver needs.
type Store interface {
	AdminRole(ctx context.Context, adminID int64) (string, error)
	RolePermissionsByName(ctx context.Context, name string) ([]byte, error)
	ActiveRoleGrants(ctx context.Context, userID int64) ([]StoredGrant, error)
}

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewStore constructs a PostgreSQL store.
func NewStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// AdminRole returns the role name of an active admin.
func (s *PGStore) AdminRole(ctx context.Context, adminID int64) (string, error) {
	var role string
	err := s.pool.QueryRow(ctx, `SELECT role FROM admins WHERE id = $1 AND is_active`, adminID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", shared.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

// RolePermissionsByName returns the raw permissions payload of an active role.
func (s *PGStore) RolePermissionsByName(ctx context.Context, name string) ([]byte, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT permissions FROM roles WHERE name = $1 AND is_active`, name).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// ActiveRoleGrants returns the active role rows for a user, most recently
// assigned first.
func (s *PGStore) ActiveRoleGrants(ctx context.Context, userID int64) ([]StoredGrant, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.name, r.permissions
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1 AND ur.is_active AND r.is_active
		ORDER BY ur.assigned_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []StoredGrant
	for rows.Next() {
		var g StoredGrant
		if err := rows.Scan(&g.RoleID, &g.RoleName, &g.Permissions); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

var _ Store = (*PGStore)(nil)
