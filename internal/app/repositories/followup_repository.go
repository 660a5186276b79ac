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
)

// FollowupRepository handles database operations for lead followup tasks
type FollowupRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFollowupRepository creates a new FollowupRepository
func NewFollowupRepository(db *pgxpool.Pool) *FollowupRepository {
	return &FollowupRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new followup task and fills in its ID
func (r *FollowupRepository) Create(ctx context.Context, followup *models.Followup) error {
	sql, args, err := r.sb.Insert("followups").
		Columns("lead_id", "user_id", "due_at", "note").
		Values(followup.LeadID, followup.UserID, followup.DueAt, followup.Note).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create followup query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&followup.ID, &followup.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating followup: %w", err)
	}

	return nil
}

// GetByLead retrieves every followup on a lead, soonest due first
func (r *FollowupRepository) GetByLead(ctx context.Context, leadID int64) ([]*models.Followup, error) {
	sql, args, err := r.sb.Select("id", "lead_id", "user_id", "due_at", "note", "completed_at", "created_at").
		From("followups").
		Where(squirrel.Eq{"lead_id": leadID}).
		OrderBy("due_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list followups query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing followups: %w", err)
	}
	defer rows.Close()

	var followups []*models.Followup
	for rows.Next() {
		var f models.Followup
		if err := rows.Scan(&f.ID, &f.LeadID, &f.UserID, &f.DueAt, &f.Note, &f.CompletedAt, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning followup row: %w", err)
		}
		followups = append(followups, &f)
	}

	return followups, rows.Err()
}

// GetDueForUser retrieves a user's open followups due before a cutoff
func (r *FollowupRepository) GetDueForUser(ctx context.Context, userID int64, before time.Time) ([]*models.Followup, error) {
	sql, args, err := r.sb.Select("id", "lead_id", "user_id", "due_at", "note", "completed_at", "created_at").
		From("followups").
		Where(squirrel.Eq{"user_id": userID}).
		Where("completed_at IS NULL").
		Where(squirrel.LtOrEq{"due_at": before}).
		OrderBy("due_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build due followups query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing due followups: %w", err)
	}
	defer rows.Close()

	var followups []*models.Followup
	for rows.Next() {
		var f models.Followup
		if err := rows.Scan(&f.ID, &f.LeadID, &f.UserID, &f.DueAt, &f.Note, &f.CompletedAt, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning followup row: %w", err)
		}
		followups = append(followups, &f)
	}

	return followups, rows.Err()
}

// Complete marks a followup done
func (r *FollowupRepository) Complete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("followups").
		Set("completed_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		Where("completed_at IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build complete followup query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error completing followup: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// GetByID retrieves a single followup
func (r *FollowupRepository) GetByID(ctx context.Context, id int64) (*models.Followup, error) {
	sql, args, err := r.sb.Select("id", "lead_id", "user_id", "due_at", "note", "completed_at", "created_at").
		From("followups").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get followup query: %w", err)
	}

	var f models.Followup
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&f.ID, &f.LeadID, &f.UserID, &f.DueAt, &f.Note, &f.CompletedAt, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving followup: %w", err)
	}

	return &f, nil
}

// CountOverdue counts open followups past their due time, optionally per center
func (r *FollowupRepository) CountOverdue(ctx context.Context, centerID int64) (int64, error) {
	query := r.sb.Select("COUNT(*)").
		From("followups f").
		Join("leads l ON l.id = f.lead_id").
		Where("f.completed_at IS NULL").
		Where(squirrel.Lt{"f.due_at": time.Now()})
	if centerID > 0 {
		query = query.Where(squirrel.Eq{"l.center_id": centerID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build overdue count query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting overdue followups: %w", err)
	}

	return count, nil
}
