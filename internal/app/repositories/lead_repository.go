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
	"github.com/tanmay/courtside/internal/pkg/logger"
)

var leadColumns = []string{
	"id", "name", "phone", "email", "sport", "source", "status",
	"center_id", "counsellor_id", "trial_batch_id", "trial_at",
	"next_follow_up", "notes", "join_token", "created_at", "updated_at", "status_changed_at",
}

// LeadRepository handles database operations for leads
type LeadRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLeadRepository creates a new LeadRepository
func NewLeadRepository(db *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanLead(row pgx.Row) (*models.Lead, error) {
	var lead models.Lead
	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Phone,
		&lead.Email,
		&lead.Sport,
		&lead.Source,
		&lead.Status,
		&lead.CenterID,
		&lead.CounsellorID,
		&lead.TrialBatchID,
		&lead.TrialAt,
		&lead.NextFollowUp,
		&lead.Notes,
		&lead.JoinToken,
		&lead.CreatedAt,
		&lead.UpdatedAt,
		&lead.StatusChanged,
	)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// Create inserts a new lead and fills in its ID. A lead is considered a
// duplicate when the same phone is already open at the same center.
func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM leads
			WHERE phone = $1 AND center_id = $2 AND status NOT IN ($3, $4)
		)`,
		lead.Phone, lead.CenterID, models.LeadJoined, models.LeadDead).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking lead existence: %w", err)
	}
	if exists {
		return apperrors.ErrLeadAlreadyExists
	}

	sql, args, err := r.sb.Insert("leads").
		Columns("name", "phone", "email", "sport", "source", "status",
			"center_id", "counsellor_id", "next_follow_up", "notes", "join_token").
		Values(lead.Name, lead.Phone, lead.Email, lead.Sport, lead.Source, lead.Status,
			lead.CenterID, lead.CounsellorID, lead.NextFollowUp, lead.Notes, lead.JoinToken).
		Suffix("RETURNING id, created_at, updated_at, status_changed_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create lead SQL")
		return fmt.Errorf("failed to build create lead query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&lead.ID, &lead.CreatedAt, &lead.UpdatedAt, &lead.StatusChanged)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrLeadAlreadyExists
		}
		logger.Error().Err(err).Str("phone", lead.Phone).Msg("Error executing create lead query")
		return fmt.Errorf("error creating lead: %w", err)
	}

	return nil
}

// GetByID retrieves a lead by ID
func (r *LeadRepository) GetByID(ctx context.Context, id int64) (*models.Lead, error) {
	sql, args, err := r.sb.Select(leadColumns...).
		From("leads").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get lead query: %w", err)
	}

	lead, err := scanLead(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLeadNotFound
		}
		return nil, fmt.Errorf("error retrieving lead: %w", err)
	}

	return lead, nil
}

// GetByIDForUpdate retrieves a lead inside a transaction with a row lock,
// so concurrent status changes serialize instead of clobbering each other.
func (r *LeadRepository) GetByIDForUpdate(ctx context.Context, q Querier, id int64) (*models.Lead, error) {
	sql, args, err := r.sb.Select(leadColumns...).
		From("leads").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get lead for update query: %w", err)
	}

	lead, err := scanLead(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLeadNotFound
		}
		return nil, fmt.Errorf("error retrieving lead: %w", err)
	}

	return lead, nil
}

// GetByJoinToken retrieves a lead by its public join form token
func (r *LeadRepository) GetByJoinToken(ctx context.Context, token string) (*models.Lead, error) {
	sql, args, err := r.sb.Select(leadColumns...).
		From("leads").
		Where(squirrel.Eq{"join_token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get lead by token query: %w", err)
	}

	lead, err := scanLead(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLeadNotFound
		}
		return nil, fmt.Errorf("error retrieving lead by token: %w", err)
	}

	return lead, nil
}

// GetAll retrieves leads with filtering and pagination, newest first
func (r *LeadRepository) GetAll(ctx context.Context, filter dto.LeadFilter, page, pageSize int) ([]*models.Lead, int64, error) {
	query := r.sb.Select(
		"l.id", "l.name", "l.phone", "l.email", "l.sport", "l.source", "l.status",
		"l.center_id", "l.counsellor_id", "l.trial_batch_id", "l.trial_at",
		"l.next_follow_up", "l.notes", "l.join_token", "l.created_at", "l.updated_at", "l.status_changed_at").
		Column("COUNT(*) OVER()").
		From("leads l")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"l.status": filter.Status})
	}
	if filter.CenterID > 0 {
		query = query.Where(squirrel.Eq{"l.center_id": filter.CenterID})
	}
	if filter.Sport != "" {
		query = query.Where(squirrel.Eq{"l.sport": filter.Sport})
	}
	if filter.Source != "" {
		query = query.Where(squirrel.Eq{"l.source": filter.Source})
	}
	if filter.CounsellorID > 0 {
		query = query.Where(squirrel.Eq{"l.counsellor_id": filter.CounsellorID})
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"l.name": like},
			squirrel.Like{"l.phone": like},
		})
	}

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	query = query.OrderBy("l.created_at DESC").
		Limit(uint64(limit)).Offset(offset)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list leads query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing leads: %w", err)
	}
	defer rows.Close()

	var leads []*models.Lead
	var total int64
	for rows.Next() {
		var lead models.Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.Name,
			&lead.Phone,
			&lead.Email,
			&lead.Sport,
			&lead.Source,
			&lead.Status,
			&lead.CenterID,
			&lead.CounsellorID,
			&lead.TrialBatchID,
			&lead.TrialAt,
			&lead.NextFollowUp,
			&lead.Notes,
			&lead.JoinToken,
			&lead.CreatedAt,
			&lead.UpdatedAt,
			&lead.StatusChanged,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning lead row: %w", err)
		}
		leads = append(leads, &lead)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

// Update persists editable lead fields. Status is deliberately excluded;
// status only moves through UpdateStatus so the lifecycle check cannot be
// bypassed.
func (r *LeadRepository) Update(ctx context.Context, lead *models.Lead) error {
	sql, args, err := r.sb.Update("leads").
		Set("name", lead.Name).
		Set("phone", lead.Phone).
		Set("email", lead.Email).
		Set("sport", lead.Sport).
		Set("source", lead.Source).
		Set("counsellor_id", lead.CounsellorID).
		Set("next_follow_up", lead.NextFollowUp).
		Set("notes", lead.Notes).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": lead.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update lead query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating lead: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLeadNotFound
	}

	return nil
}

// UpdateStatus moves a lead to a new status and stamps the change time
func (r *LeadRepository) UpdateStatus(ctx context.Context, id int64, status models.LeadStatus) error {
	return r.UpdateStatusQ(ctx, r.db, id, status)
}

// UpdateStatusQ is UpdateStatus running on a caller-supplied Querier, used
// when the status change is part of a larger transaction.
func (r *LeadRepository) UpdateStatusQ(ctx context.Context, q Querier, id int64, status models.LeadStatus) error {
	now := time.Now()
	sql, args, err := r.sb.Update("leads").
		Set("status", status).
		Set("status_changed_at", now).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update lead status query: %w", err)
	}

	cmdTag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating lead status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLeadNotFound
	}

	return nil
}

// SetCounsellorQ reassigns a lead to another counsellor within a transaction
func (r *LeadRepository) SetCounsellorQ(ctx context.Context, q Querier, id int64, counsellorID int64) error {
	sql, args, err := r.sb.Update("leads").
		Set("counsellor_id", counsellorID).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build reassign lead query: %w", err)
	}

	cmdTag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error reassigning lead: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLeadNotFound
	}

	return nil
}

// SetTrialQ records the scheduled trial slot on a lead within a transaction
func (r *LeadRepository) SetTrialQ(ctx context.Context, q Querier, id int64, batchID int64, trialAt time.Time) error {
	sql, args, err := r.sb.Update("leads").
		Set("trial_batch_id", batchID).
		Set("trial_at", trialAt).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set trial query: %w", err)
	}

	cmdTag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error setting trial on lead: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLeadNotFound
	}

	return nil
}

// Delete removes a lead and its followups
func (r *LeadRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting lead: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLeadNotFound
	}
	return nil
}

// CountByStatus aggregates lead counts per status for leads created in a period
func (r *LeadRepository) CountByStatus(ctx context.Context, from, to time.Time, centerID int64) (map[models.LeadStatus]int64, error) {
	query := r.sb.Select("status", "COUNT(*)").
		From("leads").
		Where(squirrel.GtOrEq{"created_at": from}).
		Where(squirrel.Lt{"created_at": to}).
		GroupBy("status")
	if centerID > 0 {
		query = query.Where(squirrel.Eq{"center_id": centerID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count by status query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting leads by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.LeadStatus]int64)
	for rows.Next() {
		var status models.LeadStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("error scanning status count row: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

// CountBySource aggregates lead counts per acquisition source for a period
func (r *LeadRepository) CountBySource(ctx context.Context, from, to time.Time, centerID int64) (map[string]int64, error) {
	query := r.sb.Select("source", "COUNT(*)").
		From("leads").
		Where(squirrel.GtOrEq{"created_at": from}).
		Where(squirrel.Lt{"created_at": to}).
		GroupBy("source")
	if centerID > 0 {
		query = query.Where(squirrel.Eq{"center_id": centerID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count by source query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting leads by source: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var source string
		var count int64
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("error scanning source count row: %w", err)
		}
		counts[source] = count
	}

	return counts, rows.Err()
}

// TrialCountsByDay aggregates scheduled trials per calendar day for a period
func (r *LeadRepository) TrialCountsByDay(ctx context.Context, from, to time.Time, centerID int64) (map[time.Time]int64, error) {
	query := r.sb.Select("date_trunc('day', trial_at) AS day", "COUNT(*)").
		From("leads").
		Where("trial_at IS NOT NULL").
		Where(squirrel.GtOrEq{"trial_at": from}).
		Where(squirrel.Lt{"trial_at": to}).
		GroupBy("day")
	if centerID > 0 {
		query = query.Where(squirrel.Eq{"center_id": centerID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build trial heatmap query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting trials by day: %w", err)
	}
	defer rows.Close()

	counts := make(map[time.Time]int64)
	for rows.Next() {
		var day time.Time
		var count int64
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("error scanning trial day row: %w", err)
		}
		counts[day.UTC()] = count
	}

	return counts, rows.Err()
}

// GetRecentlyChanged retrieves the most recently moved leads for the activity feed
func (r *LeadRepository) GetRecentlyChanged(ctx context.Context, centerID int64, limit int) ([]*models.Lead, error) {
	query := r.sb.Select(leadColumns...).
		From("leads").
		OrderBy("status_changed_at DESC").
		Limit(uint64(limit))
	if centerID > 0 {
		query = query.Where(squirrel.Eq{"center_id": centerID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build recent leads query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing recent leads: %w", err)
	}
	defer rows.Close()

	var leads []*models.Lead
	for rows.Next() {
		var lead models.Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.Name,
			&lead.Phone,
			&lead.Email,
			&lead.Sport,
			&lead.Source,
			&lead.Status,
			&lead.CenterID,
			&lead.CounsellorID,
			&lead.TrialBatchID,
			&lead.TrialAt,
			&lead.NextFollowUp,
			&lead.Notes,
			&lead.JoinToken,
			&lead.CreatedAt,
			&lead.UpdatedAt,
			&lead.StatusChanged,
		); err != nil {
			return nil, fmt.Errorf("error scanning recent lead row: %w", err)
		}
		leads = append(leads, &lead)
	}

	return leads, rows.Err()
}
