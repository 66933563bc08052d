package assets

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/assetgrid/assetgrid/internal/platform/db"
	"github.com/assetgrid/assetgrid/internal/shared"
)

// Repository defines persistence operations for assets.
type Repository interface {
	ListAssets(ctx context.Context) ([]Asset, error)
	CreateAsset(ctx context.Context, asset Asset) (Asset, error)
	AssignAsset(ctx context.Context, assetID, userID, assignedBy int64, notes string) (int64, error)
	ListUserAssets(ctx context.Context, userID int64) ([]AssignedAsset, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const assetColumns = `id, tag, name, type, COALESCE(serial_number, ''), COALESCE(manufacturer, ''),
	COALESCE(model, ''), status, COALESCE(location, ''), COALESCE(description, ''), created_at`

func scanAsset(row pgx.Row) (Asset, error) {
	var a Asset
	err := row.Scan(&a.ID, &a.Tag, &a.Name, &a.Type, &a.SerialNumber, &a.Manufacturer,
		&a.Model, &a.Status, &a.Location, &a.Description, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, fmt.Errorf("%w: asset not found", shared.ErrNotFound)
		}
		return Asset{}, err
	}
	return a, nil
}

// ListAssets returns all active assets ordered by name.
func (r *PGRepository) ListAssets(ctx context.Context) ([]Asset, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+assetColumns+` FROM assets WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// CreateAsset inserts an asset and returns the stored row.
func (r *PGRepository) CreateAsset(ctx context.Context, asset Asset) (Asset, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO assets (tag, name, type, serial_number, manufacturer, model, status, location, description, is_active)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, NULLIF($8, ''), NULLIF($9, ''), TRUE)
		 RETURNING `+assetColumns,
		asset.Tag, asset.Name, asset.Type, asset.SerialNumber, asset.Manufacturer,
		asset.Model, asset.Status, asset.Location, asset.Description)
	return scanAsset(row)
}

// AssignAsset creates an assignment and marks the asset as assigned in one
// transaction. The row lock keeps two concurrent assignments of the same
// asset from both succeeding.
func (r *PGRepository) AssignAsset(ctx context.Context, assetID, userID, assignedBy int64, notes string) (int64, error) {
	var assignmentID int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var status string
		err := tx.QueryRow(ctx, `SELECT status FROM assets WHERE id = $1 AND is_active FOR UPDATE`, assetID).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: asset not found", shared.ErrNotFound)
		}
		if err != nil {
			return err
		}

		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND is_active)`, userID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: user not found", shared.ErrNotFound)
		}

		err = tx.QueryRow(ctx,
			`INSERT INTO asset_assignments (asset_id, user_id, assigned_by, assigned_date, notes, is_active)
			 VALUES ($1, $2, $3, CURRENT_DATE, NULLIF($4, ''), TRUE)
			 RETURNING id`, assetID, userID, assignedBy, notes).Scan(&assignmentID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `UPDATE assets SET status = $1 WHERE id = $2`, StatusAssigned, assetID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return assignmentID, nil
}

// ListUserAssets returns the active assets assigned to a user, newest first.
func (r *PGRepository) ListUserAssets(ctx context.Context, userID int64) ([]AssignedAsset, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT aa.id, aa.assigned_date, aa.return_date, COALESCE(aa.notes, ''),
		       a.id, a.tag, a.name, a.type, COALESCE(a.serial_number, ''), COALESCE(a.manufacturer, ''),
		       COALESCE(a.model, ''), a.status, COALESCE(a.location, ''), COALESCE(a.description, ''), a.created_at
		FROM asset_assignments aa
		JOIN assets a ON a.id = aa.asset_id
		WHERE aa.user_id = $1 AND aa.is_active AND a.is_active
		ORDER BY aa.assigned_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AssignedAsset
	for rows.Next() {
		var aa AssignedAsset
		err := rows.Scan(&aa.AssignmentID, &aa.AssignedDate, &aa.ReturnDate, &aa.Notes,
			&aa.ID, &aa.Tag, &aa.Name, &aa.Type, &aa.SerialNumber, &aa.Manufacturer,
			&aa.Model, &aa.Status, &aa.Location, &aa.Description, &aa.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, aa)
	}
	return out, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
