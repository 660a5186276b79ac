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

var studentColumns = []string{
	"id", "lead_id", "name", "phone", "email", "center_id", "batch_id",
	"sport", "plan", "status", "sub_start", "sub_expiry", "renewal_token",
	"created_at", "updated_at",
}

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.ID,
		&s.LeadID,
		&s.Name,
		&s.Phone,
		&s.Email,
		&s.CenterID,
		&s.BatchID,
		&s.Sport,
		&s.Plan,
		&s.Status,
		&s.SubStart,
		&s.SubExpiry,
		&s.RenewalToken,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanStudentRows(rows pgx.Rows, withTotal bool) ([]*models.Student, int64, error) {
	var students []*models.Student
	var total int64
	for rows.Next() {
		var s models.Student
		dest := []any{
			&s.ID, &s.LeadID, &s.Name, &s.Phone, &s.Email, &s.CenterID, &s.BatchID,
			&s.Sport, &s.Plan, &s.Status, &s.SubStart, &s.SubExpiry, &s.RenewalToken,
			&s.CreatedAt, &s.UpdatedAt,
		}
		if withTotal {
			dest = append(dest, &total)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, &s)
	}
	return students, total, rows.Err()
}

// CreateQ inserts a new student within a caller-owned transaction. Conversion
// writes the student, the lead status and the first payment atomically.
func (r *StudentRepository) CreateQ(ctx context.Context, q Querier, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("lead_id", "name", "phone", "email", "center_id", "batch_id",
			"sport", "plan", "status", "sub_start", "sub_expiry", "renewal_token").
		Values(student.LeadID, student.Name, student.Phone, student.Email, student.CenterID,
			student.BatchID, student.Sport, student.Plan, student.Status,
			student.SubStart, student.SubExpiry, student.RenewalToken).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	err = q.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrStudentAlreadyExists
		}
		logger.Error().Err(err).Str("phone", student.Phone).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetByRenewalToken retrieves a student by the public renewal form token
func (r *StudentRepository) GetByRenewalToken(ctx context.Context, token string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"renewal_token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student by token query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student by token: %w", err)
	}

	return student, nil
}

// GetAll retrieves students with filtering and pagination
func (r *StudentRepository) GetAll(ctx context.Context, filter dto.StudentFilter, page, pageSize int) ([]*models.Student, int64, error) {
	query := r.sb.Select(studentColumns...).
		Column("COUNT(*) OVER()").
		From("students")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.CenterID > 0 {
		query = query.Where(squirrel.Eq{"center_id": filter.CenterID})
	}
	if filter.BatchID > 0 {
		query = query.Where(squirrel.Eq{"batch_id": filter.BatchID})
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": like},
			squirrel.Like{"phone": like},
		})
	}
	if filter.ExpiringDays > 0 {
		cutoff := time.Now().AddDate(0, 0, filter.ExpiringDays)
		query = query.Where(squirrel.Eq{"status": models.StudentActive}).
			Where(squirrel.LtOrEq{"sub_expiry": cutoff})
	}

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	query = query.OrderBy("sub_expiry ASC, name ASC").
		Limit(uint64(limit)).Offset(offset)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	return scanStudentRows(rows, true)
}

// GetActiveByBatch retrieves the active roster of a batch, used for roll calls
func (r *StudentRepository) GetActiveByBatch(ctx context.Context, batchID int64) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"batch_id": batchID, "status": models.StudentActive}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build batch roster query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing batch roster: %w", err)
	}
	defer rows.Close()

	students, _, err := scanStudentRows(rows, false)
	return students, err
}

// Update persists editable student fields
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Update("students").
		Set("name", student.Name).
		Set("phone", student.Phone).
		Set("email", student.Email).
		Set("batch_id", student.BatchID).
		Set("status", student.Status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// ExtendSubscriptionQ moves a student's expiry forward after a verified
// renewal payment, inside the payment verification transaction.
func (r *StudentRepository) ExtendSubscriptionQ(ctx context.Context, q Querier, id int64, plan models.Plan, newExpiry time.Time) error {
	sql, args, err := r.sb.Update("students").
		Set("plan", plan).
		Set("sub_expiry", newExpiry).
		Set("status", models.StudentActive).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build extend subscription query: %w", err)
	}

	cmdTag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error extending subscription: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// MarkExpired flips active students whose subscription has lapsed. Returns
// how many rows changed so the sweep can be logged.
func (r *StudentRepository) MarkExpired(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Update("students").
		Set("status", models.StudentExpired).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"status": models.StudentActive}).
		Where(squirrel.Lt{"sub_expiry": time.Now()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build mark expired query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error marking expired students: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

// CountExpiringSoon counts active students whose subscription lapses within a window
func (r *StudentRepository) CountExpiringSoon(ctx context.Context, days int, centerID int64) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, days)
	query := r.sb.Select("COUNT(*)").
		From("students").
		Where(squirrel.Eq{"status": models.StudentActive}).
		Where(squirrel.LtOrEq{"sub_expiry": cutoff})
	if centerID > 0 {
		query = query.Where(squirrel.Eq{"center_id": centerID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build expiring count query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting expiring students: %w", err)
	}

	return count, nil
}

// RenewalDueRow pairs an expiring student with the counsellor who owns the
// originating lead.
type RenewalDueRow struct {
	StudentID    int64
	Name         string
	SubExpiry    time.Time
	CounsellorID *int64
}

// ListRenewalDue lists active students whose subscription lapses within a
// window, with the counsellor of the originating lead when there is one.
func (r *StudentRepository) ListRenewalDue(ctx context.Context, days int) ([]RenewalDueRow, error) {
	cutoff := time.Now().AddDate(0, 0, days)
	sql, args, err := r.sb.Select("s.id", "s.name", "s.sub_expiry", "l.counsellor_id").
		From("students s").
		LeftJoin("leads l ON l.id = s.lead_id").
		Where(squirrel.Eq{"s.status": models.StudentActive}).
		Where(squirrel.LtOrEq{"s.sub_expiry": cutoff}).
		Where(squirrel.Gt{"s.sub_expiry": time.Now()}).
		OrderBy("s.sub_expiry ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build renewal due query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing renewal due students: %w", err)
	}
	defer rows.Close()

	var due []RenewalDueRow
	for rows.Next() {
		var row RenewalDueRow
		if err := rows.Scan(&row.StudentID, &row.Name, &row.SubExpiry, &row.CounsellorID); err != nil {
			return nil, fmt.Errorf("error scanning renewal due row: %w", err)
		}
		due = append(due, row)
	}
	return due, rows.Err()
}

// CountActiveByBatch counts the active enrollment of a batch within a transaction,
// so capacity checks see a consistent picture.
func (r *StudentRepository) CountActiveByBatch(ctx context.Context, q Querier, batchID int64) (int, error) {
	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE batch_id = $1 AND status = $2`,
		batchID, models.StudentActive).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting batch enrollment: %w", err)
	}
	return count, nil
}
