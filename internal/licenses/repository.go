package licenses

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for licenses.
type Repository interface {
	ListLicenses(ctx context.Context) ([]License, error)
	ExpiringBefore(ctx context.Context, cutoff time.Time) ([]License, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const licenseColumns = `id, software_name, license_key, expiry_date, purchase_date, asset_id`

func collectLicenses(rows pgx.Rows) ([]License, error) {
	defer rows.Close()
	var out []License
	for rows.Next() {
		var l License
		if err := rows.Scan(&l.ID, &l.SoftwareName, &l.LicenseKey, &l.ExpiryDate, &l.PurchaseDate, &l.AssetID); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListLicenses returns all licenses ordered by expiry date.
func (r *PGRepository) ListLicenses(ctx context.Context) ([]License, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+licenseColumns+` FROM licenses ORDER BY expiry_date`)
	if err != nil {
		return nil, err
	}
	return collectLicenses(rows)
}

// ExpiringBefore returns licenses whose expiry date falls on or before cutoff.
func (r *PGRepository) ExpiringBefore(ctx context.Context, cutoff time.Time) ([]License, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+licenseColumns+` FROM licenses WHERE expiry_date <= $1 ORDER BY expiry_date`, cutoff)
	if err != nil {
		return nil, err
	}
	return collectLicenses(rows)
}

var _ Repository = (*PGRepository)(nil)
