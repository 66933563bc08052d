package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/assetgrid/assetgrid/internal/shared"
)

// Repository defines persistence operations for employee accounts.
type Repository interface {
	CreateEmployee(ctx context.Context, emp Employee, passwordHash string) (Employee, error)
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

// CreateEmployee inserts an account, relying on the unique constraints on
// username and email to reject duplicates.
func (r *PGRepository) CreateEmployee(ctx context.Context, emp Employee, passwordHash string) (Employee, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, full_name, employee_id, department, is_active)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), TRUE)
		 RETURNING id`,
		emp.Username, emp.Email, passwordHash, emp.FullName, emp.EmployeeID, emp.Department).
		Scan(&emp.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return Employee{}, fmt.Errorf("%w: email already exists", shared.ErrDuplicate)
			}
			return Employee{}, fmt.Errorf("%w: username already exists", shared.ErrDuplicate)
		}
		return Employee{}, err
	}
	return emp, nil
}

var _ Repository = (*PGRepository)(nil)
