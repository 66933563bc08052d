package monitoring

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for monitored devices.
type Repository interface {
	ListDevices(ctx context.Context) ([]Device, error)
	OfflineDevices(ctx context.Context) ([]Device, error)
	DevicesAboveBandwidth(ctx context.Context, threshold float64) ([]Device, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const deviceColumns = `id, name, status, bandwidth_usage`

func collectDevices(rows pgx.Rows) ([]Device, error) {
	defer rows.Close()
	var out []Device
	for rows.Next() {
		var d Device
		if err := rows.Scan(&d.ID, &d.Name, &d.Status, &d.BandwidthUsage); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListDevices returns all devices ordered by bandwidth usage, heaviest first.
func (r *PGRepository) ListDevices(ctx context.Context) ([]Device, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+deviceColumns+` FROM devices ORDER BY bandwidth_usage DESC`)
	if err != nil {
		return nil, err
	}
	return collectDevices(rows)
}

// OfflineDevices returns devices currently reporting offline.
func (r *PGRepository) OfflineDevices(ctx context.Context) ([]Device, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+deviceColumns+` FROM devices WHERE status = $1 ORDER BY name`, StatusOffline)
	if err != nil {
		return nil, err
	}
	return collectDevices(rows)
}

// DevicesAboveBandwidth returns devices whose bandwidth exceeds the threshold.
func (r *PGRepository) DevicesAboveBandwidth(ctx context.Context, threshold float64) ([]Device, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+deviceColumns+` FROM devices WHERE bandwidth_usage > $1 ORDER BY bandwidth_usage DESC`, threshold)
	if err != nil {
		return nil, err
	}
	return collectDevices(rows)
}

var _ Repository = (*PGRepository)(nil)
