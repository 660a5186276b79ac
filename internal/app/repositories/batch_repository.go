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
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/pkg/apperrors"
	"github.com/tanmay/courtside/internal/pkg/dberrors"
	"github.com/tanmay/courtside/internal/pkg/helpers"
)

var batchColumns = []string{
	"id", "name", "center_id", "sport", "coach_id", "weekdays",
	"start_time", "end_time", "capacity", "is_active", "created_at", "updated_at",
}

// BatchRepository handles database operations for training batches
type BatchRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewBatchRepository creates a new BatchRepository
func NewBatchRepository(db *pgxpool.Pool) *BatchRepository {
	return &BatchRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanBatch(row pgx.Row) (*models.Batch, error) {
	var b models.Batch
	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.CenterID,
		&b.Sport,
		&b.CoachID,
		&b.Weekdays,
		&b.StartTime,
		&b.EndTime,
		&b.Capacity,
		&b.IsActive,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a new batch and fills in its ID
func (r *BatchRepository) Create(ctx context.Context, batch *models.Batch) error {
	sql, args, err := r.sb.Insert("batches").
		Columns("name", "center_id", "sport", "coach_id", "weekdays",
			"start_time", "end_time", "capacity", "is_active").
		Values(batch.Name, batch.CenterID, batch.Sport, batch.CoachID, batch.Weekdays,
			batch.StartTime, batch.EndTime, batch.Capacity, batch.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create batch query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&batch.ID, &batch.CreatedAt, &batch.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrCenterNotFound
		}
		return fmt.Errorf("error creating batch: %w", err)
	}

	return nil
}

// GetByID retrieves a batch by ID
func (r *BatchRepository) GetByID(ctx context.Context, id int64) (*models.Batch, error) {
	sql, args, err := r.sb.Select(batchColumns...).
		From("batches").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get batch query: %w", err)
	}

	batch, err := scanBatch(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBatchNotFound
		}
		return nil, fmt.Errorf("error retrieving batch: %w", err)
	}

	return batch, nil
}

// GetAll retrieves batches with filtering and pagination. The active student
// count rides along so the UI can show enrollment against capacity.
func (r *BatchRepository) GetAll(ctx context.Context, filter dto.BatchFilter, page, pageSize int) ([]*models.Batch, int64, error) {
	query := r.sb.Select(
		"b.id", "b.name", "b.center_id", "b.sport", "b.coach_id", "b.weekdays",
		"b.start_time", "b.end_time", "b.capacity", "b.is_active", "b.created_at", "b.updated_at").
		Column("(SELECT COUNT(*) FROM students s WHERE s.batch_id = b.id AND s.status = ?) AS enrolled", models.StudentActive).
		Column("COUNT(*) OVER()").
		From("batches b")

	if filter.CenterID > 0 {
		query = query.Where(squirrel.Eq{"b.center_id": filter.CenterID})
	}
	if filter.Sport != "" {
		query = query.Where(squirrel.Eq{"b.sport": filter.Sport})
	}
	if filter.CoachID > 0 {
		query = query.Where(squirrel.Eq{"b.coach_id": filter.CoachID})
	}
	if filter.Weekday != "" {
		query = query.Where("? = ANY(b.weekdays)", filter.Weekday)
	}
	if filter.Active != nil {
		query = query.Where(squirrel.Eq{"b.is_active": *filter.Active})
	}

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	query = query.OrderBy("b.start_time ASC, b.name ASC").
		Limit(uint64(limit)).Offset(offset)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list batches query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing batches: %w", err)
	}
	defer rows.Close()

	var batches []*models.Batch
	var total int64
	for rows.Next() {
		var b models.Batch
		if err := rows.Scan(
			&b.ID,
			&b.Name,
			&b.CenterID,
			&b.Sport,
			&b.CoachID,
			&b.Weekdays,
			&b.StartTime,
			&b.EndTime,
			&b.Capacity,
			&b.IsActive,
			&b.CreatedAt,
			&b.UpdatedAt,
			&b.Enrolled,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning batch row: %w", err)
		}
		batches = append(batches, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return batches, total, nil
}

// GetByCoach retrieves the active batches a coach runs
func (r *BatchRepository) GetByCoach(ctx context.Context, coachID int64) ([]*models.Batch, error) {
	sql, args, err := r.sb.Select(batchColumns...).
		From("batches").
		Where(squirrel.Eq{"coach_id": coachID, "is_active": true}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build coach batches query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing coach batches: %w", err)
	}
	defer rows.Close()

	var batches []*models.Batch
	for rows.Next() {
		var b models.Batch
		if err := rows.Scan(
			&b.ID, &b.Name, &b.CenterID, &b.Sport, &b.CoachID, &b.Weekdays,
			&b.StartTime, &b.EndTime, &b.Capacity, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning batch row: %w", err)
		}
		batches = append(batches, &b)
	}

	return batches, rows.Err()
}

// Update persists editable batch fields
func (r *BatchRepository) Update(ctx context.Context, batch *models.Batch) error {
	sql, args, err := r.sb.Update("batches").
		Set("name", batch.Name).
		Set("coach_id", batch.CoachID).
		Set("weekdays", batch.Weekdays).
		Set("start_time", batch.StartTime).
		Set("end_time", batch.EndTime).
		Set("capacity", batch.Capacity).
		Set("is_active", batch.IsActive).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": batch.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update batch query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating batch: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBatchNotFound
	}

	return nil
}

// ExistsQ checks batch existence within a caller-owned transaction
func (r *BatchRepository) ExistsQ(ctx context.Context, q Querier, id int64) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM batches WHERE id = $1 AND is_active)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking batch existence: %w", err)
	}
	return exists, nil
}
