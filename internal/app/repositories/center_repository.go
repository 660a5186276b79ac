package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tanmay/courtside/internal/app/models"
	"github.com/tanmay/courtside/internal/pkg/apperrors"
	"github.com/tanmay/courtside/internal/pkg/dberrors"
)

var centerColumns = []string{
	"id", "name", "code", "address", "city", "upi_vpa", "is_active", "created_at", "updated_at",
}

// CenterRepository handles database operations for academy centers
type CenterRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCenterRepository creates a new CenterRepository
func NewCenterRepository(db *pgxpool.Pool) *CenterRepository {
	return &CenterRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCenter(row pgx.Row) (*models.Center, error) {
	var center models.Center
	err := row.Scan(
		&center.ID,
		&center.Name,
		&center.Code,
		&center.Address,
		&center.City,
		&center.UPIVPA,
		&center.IsActive,
		&center.CreatedAt,
		&center.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &center, nil
}

// Create inserts a new center and fills in its ID
func (r *CenterRepository) Create(ctx context.Context, center *models.Center) error {
	sql, args, err := r.sb.Insert("centers").
		Columns("name", "code", "address", "city", "upi_vpa", "is_active").
		Values(center.Name, center.Code, center.Address, center.City, center.UPIVPA, center.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create center query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&center.ID, &center.CreatedAt, &center.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrCenterAlreadyExists
		}
		return fmt.Errorf("error creating center: %w", err)
	}

	return nil
}

// GetByID retrieves a center by ID
func (r *CenterRepository) GetByID(ctx context.Context, id int64) (*models.Center, error) {
	sql, args, err := r.sb.Select(centerColumns...).
		From("centers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get center query: %w", err)
	}

	center, err := scanCenter(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCenterNotFound
		}
		return nil, fmt.Errorf("error retrieving center: %w", err)
	}

	return center, nil
}

// GetAll retrieves every center, active first
func (r *CenterRepository) GetAll(ctx context.Context) ([]*models.Center, error) {
	sql, args, err := r.sb.Select(centerColumns...).
		From("centers").
		OrderBy("is_active DESC, name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list centers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing centers: %w", err)
	}
	defer rows.Close()

	var centers []*models.Center
	for rows.Next() {
		var center models.Center
		if err := rows.Scan(
			&center.ID,
			&center.Name,
			&center.Code,
			&center.Address,
			&center.City,
			&center.UPIVPA,
			&center.IsActive,
			&center.CreatedAt,
			&center.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning center row: %w", err)
		}
		centers = append(centers, &center)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return centers, nil
}

// Update persists editable center fields
func (r *CenterRepository) Update(ctx context.Context, center *models.Center) error {
	sql, args, err := r.sb.Update("centers").
		Set("name", center.Name).
		Set("address", center.Address).
		Set("city", center.City).
		Set("upi_vpa", center.UPIVPA).
		Set("is_active", center.IsActive).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": center.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update center query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating center: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCenterNotFound
	}

	return nil
}

// Delete removes a center that has no leads, students or batches
func (r *CenterRepository) Delete(ctx context.Context, id int64) error {
	var hasRelations bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM leads WHERE center_id = $1)
		    OR EXISTS(SELECT 1 FROM students WHERE center_id = $1)
		    OR EXISTS(SELECT 1 FROM batches WHERE center_id = $1)`,
		id).Scan(&hasRelations)
	if err != nil {
		return fmt.Errorf("error checking center relations: %w", err)
	}
	if hasRelations {
		return apperrors.ErrCenterHasRelations
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM centers WHERE id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrCenterHasRelations
		}
		return fmt.Errorf("error deleting center: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCenterNotFound
	}

	return nil
}
