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

var paymentColumns = []string{
	"id", "student_id", "center_id", "kind", "plan", "amount_paise", "upi_link",
	"utr", "proof_url", "status", "verified_by", "note", "created_at", "updated_at",
}

// PaymentRepository handles database operations for payments
type PaymentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(
		&p.ID,
		&p.StudentID,
		&p.CenterID,
		&p.Kind,
		&p.Plan,
		&p.AmountPs,
		&p.UPILink,
		&p.UTR,
		&p.ProofURL,
		&p.Status,
		&p.VerifiedBy,
		&p.Note,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateQ inserts a new payment within a caller-owned transaction
func (r *PaymentRepository) CreateQ(ctx context.Context, q Querier, payment *models.Payment) error {
	sql, args, err := r.sb.Insert("payments").
		Columns("student_id", "center_id", "kind", "plan", "amount_paise", "upi_link", "status", "note").
		Values(payment.StudentID, payment.CenterID, payment.Kind, payment.Plan, payment.AmountPs,
			payment.UPILink, payment.Status, payment.Note).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create payment query: %w", err)
	}

	err = q.QueryRow(ctx, sql, args...).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating payment: %w", err)
	}

	return nil
}

// Create inserts a new payment outside any transaction
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.CreateQ(ctx, r.db, payment)
}

// GetByID retrieves a payment by ID
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	sql, args, err := r.sb.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get payment query: %w", err)
	}

	payment, err := scanPayment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("error retrieving payment: %w", err)
	}

	return payment, nil
}

// GetByIDForUpdate retrieves a payment with a row lock inside a transaction
func (r *PaymentRepository) GetByIDForUpdate(ctx context.Context, q Querier, id int64) (*models.Payment, error) {
	sql, args, err := r.sb.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get payment for update query: %w", err)
	}

	payment, err := scanPayment(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("error retrieving payment: %w", err)
	}

	return payment, nil
}

// GetAll retrieves payments with filtering and pagination, newest first
func (r *PaymentRepository) GetAll(ctx context.Context, filter dto.PaymentFilter, page, pageSize int) ([]*models.Payment, int64, error) {
	query := r.sb.Select(paymentColumns...).
		Column("COUNT(*) OVER()").
		From("payments")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.CenterID > 0 {
		query = query.Where(squirrel.Eq{"center_id": filter.CenterID})
	}
	if filter.StudentID > 0 {
		query = query.Where(squirrel.Eq{"student_id": filter.StudentID})
	}

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	query = query.OrderBy("created_at DESC").
		Limit(uint64(limit)).Offset(offset)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list payments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	var total int64
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(
			&p.ID, &p.StudentID, &p.CenterID, &p.Kind, &p.Plan, &p.AmountPs, &p.UPILink,
			&p.UTR, &p.ProofURL, &p.Status, &p.VerifiedBy, &p.Note,
			&p.CreatedAt, &p.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning payment row: %w", err)
		}
		payments = append(payments, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// SetUTR records the UPI transaction reference on a pending payment
func (r *PaymentRepository) SetUTR(ctx context.Context, id int64, utr string) error {
	sql, args, err := r.sb.Update("payments").
		Set("utr", utr).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "status": models.PaymentPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set UTR query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error recording UTR: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPaymentNotPending
	}

	return nil
}

// SetProofURL attaches an uploaded payment proof to a pending payment
func (r *PaymentRepository) SetProofURL(ctx context.Context, id int64, proofURL string) error {
	sql, args, err := r.sb.Update("payments").
		Set("proof_url", proofURL).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "status": models.PaymentPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set proof query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error attaching payment proof: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPaymentNotPending
	}

	return nil
}

// DecideQ records a verification decision within a caller-owned transaction
func (r *PaymentRepository) DecideQ(ctx context.Context, q Querier, id int64, status models.PaymentStatus, verifiedBy int64, note string) error {
	sql, args, err := r.sb.Update("payments").
		Set("status", status).
		Set("verified_by", verifiedBy).
		Set("note", note).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "status": models.PaymentPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build decide payment query: %w", err)
	}

	cmdTag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deciding payment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPaymentNotPending
	}

	return nil
}

// CountPending counts payments awaiting verification, optionally per center
func (r *PaymentRepository) CountPending(ctx context.Context, centerID int64) (int64, error) {
	query := r.sb.Select("COUNT(*)").
		From("payments").
		Where(squirrel.Eq{"status": models.PaymentPending})
	if centerID > 0 {
		query = query.Where(squirrel.Eq{"center_id": centerID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build pending payments count query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting pending payments: %w", err)
	}

	return count, nil
}

// RevenueByCenter sums verified payments per center for a period
func (r *PaymentRepository) RevenueByCenter(ctx context.Context, from, to time.Time) ([]dto.RevenueRow, error) {
	sql, args, err := r.sb.Select("p.center_id", "c.name", "COALESCE(SUM(p.amount_paise), 0)", "COUNT(*)").
		From("payments p").
		Join("centers c ON c.id = p.center_id").
		Where(squirrel.Eq{"p.status": models.PaymentVerified}).
		Where(squirrel.GtOrEq{"p.updated_at": from}).
		Where(squirrel.Lt{"p.updated_at": to}).
		GroupBy("p.center_id", "c.name").
		OrderBy("3 DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build revenue by center query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error aggregating revenue: %w", err)
	}
	defer rows.Close()

	var result []dto.RevenueRow
	for rows.Next() {
		var row dto.RevenueRow
		if err := rows.Scan(&row.CenterID, &row.CenterName, &row.AmountPaise, &row.Payments); err != nil {
			return nil, fmt.Errorf("error scanning revenue row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// RevenueByPlan sums verified payments per plan for a period
func (r *PaymentRepository) RevenueByPlan(ctx context.Context, from, to time.Time, centerID int64) (map[string]int64, error) {
	query := r.sb.Select("plan", "COALESCE(SUM(amount_paise), 0)").
		From("payments").
		Where(squirrel.Eq{"status": models.PaymentVerified}).
		Where(squirrel.GtOrEq{"updated_at": from}).
		Where(squirrel.Lt{"updated_at": to}).
		GroupBy("plan")
	if centerID > 0 {
		query = query.Where(squirrel.Eq{"center_id": centerID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build revenue by plan query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error aggregating revenue by plan: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var plan string
		var sum int64
		if err := rows.Scan(&plan, &sum); err != nil {
			return nil, fmt.Errorf("error scanning plan revenue row: %w", err)
		}
		result[plan] = sum
	}

	return result, rows.Err()
}

// GetRecentVerified retrieves recently verified payments for the activity feed
func (r *PaymentRepository) GetRecentVerified(ctx context.Context, centerID int64, limit int) ([]*models.Payment, error) {
	query := r.sb.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"status": models.PaymentVerified}).
		OrderBy("updated_at DESC").
		Limit(uint64(limit))
	if centerID > 0 {
		query = query.Where(squirrel.Eq{"center_id": centerID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build recent payments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing recent payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(
			&p.ID, &p.StudentID, &p.CenterID, &p.Kind, &p.Plan, &p.AmountPs, &p.UPILink,
			&p.UTR, &p.ProofURL, &p.Status, &p.VerifiedBy, &p.Note,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning payment row: %w", err)
		}
		payments = append(payments, &p)
	}

	return payments, rows.Err()
}
