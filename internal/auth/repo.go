package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/assetgrid/assetgrid/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindAdminByUsername(ctx context.Context, username string) (*Admin, error)
	FindAdminByID(ctx context.Context, id int64) (*Admin, error)
	FindUserByUsername(ctx context.Context, username string) (*User, error)
	FindUserByID(ctx context.Context, id int64) (*User, error)
	TouchAdminLastLogin(ctx context.Context, id int64) error
	TouchUserLastLogin(ctx context.Context, id int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const adminColumns = `id, username, email, full_name, role, password_hash, is_active, last_login, created_at`

func (r *PGRepository) scanAdmin(row pgx.Row) (*Admin, error) {
	var admin Admin
	err := row.Scan(&admin.ID, &admin.Username, &admin.Email, &admin.FullName, &admin.Role,
		&admin.PasswordHash, &admin.IsActive, &admin.LastLogin, &admin.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// FindAdminByUsername fetches an active admin by username.
func (r *PGRepository) FindAdminByUsername(ctx context.Context, username string) (*Admin, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE username = $1 AND is_active`, username)
	return r.scanAdmin(row)
}

// FindAdminByID fetches an active admin by id.
func (r *PGRepository) FindAdminByID(ctx context.Context, id int64) (*Admin, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1 AND is_active`, id)
	return r.scanAdmin(row)
}

const userColumns = `id, username, email, full_name, COALESCE(employee_id, ''), COALESCE(department, ''), password_hash, is_active, created_at`

func (r *PGRepository) scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.EmployeeID,
		&user.Department, &user.PasswordHash, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByUsername fetches an active user by username.
func (r *PGRepository) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1 AND is_active`, username)
	return r.scanUser(row)
}

// FindUserByID fetches an active user by id.
func (r *PGRepository) FindUserByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND is_active`, id)
	return r.scanUser(row)
}

// TouchAdminLastLogin records the admin's most recent login time.
func (r *PGRepository) TouchAdminLastLogin(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE admins SET last_login = NOW() WHERE id = $1`, id)
	return err
}

// TouchUserLastLogin records the user's most recent login time.
func (r *PGRepository) TouchUserLastLogin(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1`, id)
	return err
}

var _ Repository = (*PGRepository)(nil)
