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
	"github.com/tanmay/courtside/internal/pkg/helpers"
)

var stagingColumns = []string{
	"id", "kind", "lead_ids", "target_value", "reason", "status",
	"requested_by", "decided_by", "decided_at", "decision_msg", "created_at",
}

// StagingRepository handles database operations for staged bulk actions
type StagingRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStagingRepository creates a new StagingRepository
func NewStagingRepository(db *pgxpool.Pool) *StagingRepository {
	return &StagingRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStagingAction(row pgx.Row) (*models.StagingAction, error) {
	var a models.StagingAction
	err := row.Scan(
		&a.ID,
		&a.Kind,
		&a.LeadIDs,
		&a.TargetValue,
		&a.Reason,
		&a.Status,
		&a.RequestedBy,
		&a.DecidedBy,
		&a.DecidedAt,
		&a.DecisionMsg,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a staged action awaiting approval
func (r *StagingRepository) Create(ctx context.Context, action *models.StagingAction) error {
	sql, args, err := r.sb.Insert("staging_actions").
		Columns("kind", "lead_ids", "target_value", "reason", "status", "requested_by").
		Values(action.Kind, action.LeadIDs, action.TargetValue, action.Reason,
			action.Status, action.RequestedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create staging query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&action.ID, &action.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating staged action: %w", err)
	}

	return nil
}

// GetByID retrieves a staged action by ID
func (r *StagingRepository) GetByID(ctx context.Context, id int64) (*models.StagingAction, error) {
	sql, args, err := r.sb.Select(stagingColumns...).
		From("staging_actions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get staging query: %w", err)
	}

	action, err := scanStagingAction(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStagingNotFound
		}
		return nil, fmt.Errorf("error retrieving staged action: %w", err)
	}

	return action, nil
}

// GetByIDForUpdate retrieves a staged action with a row lock inside a
// transaction, so two approvers cannot decide the same action twice.
func (r *StagingRepository) GetByIDForUpdate(ctx context.Context, q Querier, id int64) (*models.StagingAction, error) {
	sql, args, err := r.sb.Select(stagingColumns...).
		From("staging_actions").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get staging for update query: %w", err)
	}

	action, err := scanStagingAction(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStagingNotFound
		}
		return nil, fmt.Errorf("error retrieving staged action: %w", err)
	}

	return action, nil
}

// GetAll retrieves staged actions with filtering and pagination, newest first
func (r *StagingRepository) GetAll(ctx context.Context, filter dto.StagingFilter, page, pageSize int) ([]*models.StagingAction, int64, error) {
	query := r.sb.Select(stagingColumns...).
		Column("COUNT(*) OVER()").
		From("staging_actions")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.RequestedBy > 0 {
		query = query.Where(squirrel.Eq{"requested_by": filter.RequestedBy})
	}

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	query = query.OrderBy("created_at DESC").
		Limit(uint64(limit)).Offset(offset)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list staging query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing staged actions: %w", err)
	}
	defer rows.Close()

	var actions []*models.StagingAction
	var total int64
	for rows.Next() {
		var a models.StagingAction
		if err := rows.Scan(
			&a.ID, &a.Kind, &a.LeadIDs, &a.TargetValue, &a.Reason, &a.Status,
			&a.RequestedBy, &a.DecidedBy, &a.DecidedAt, &a.DecisionMsg, &a.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning staging row: %w", err)
		}
		actions = append(actions, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return actions, total, nil
}

// DecideQ records an approval decision within a caller-owned transaction
func (r *StagingRepository) DecideQ(ctx context.Context, q Querier, id int64, status models.StagingStatus, decidedBy int64, message string) error {
	sql, args, err := r.sb.Update("staging_actions").
		Set("status", status).
		Set("decided_by", decidedBy).
		Set("decided_at", time.Now()).
		Set("decision_msg", message).
		Where(squirrel.Eq{"id": id, "status": models.StagingPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build decide staging query: %w", err)
	}

	cmdTag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deciding staged action: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStagingNotPending
	}

	return nil
}

// CountPending counts staged actions awaiting a decision
func (r *StagingRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM staging_actions WHERE status = $1`,
		models.StagingPending).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting pending staged actions: %w", err)
	}
	return count, nil
}
