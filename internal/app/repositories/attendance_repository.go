package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tanmay/courtside/internal/app/models"
	"github.com/tanmay/courtside/internal/app/models/dto"
)

// AttendanceRepository handles database operations for attendance marks
type AttendanceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// UpsertQ writes one attendance mark within a caller-owned transaction.
// Marking the same (batch, student, date) again overwrites the earlier row.
func (r *AttendanceRepository) UpsertQ(ctx context.Context, q Querier, mark *models.Attendance) error {
	sql, args, err := r.sb.Insert("attendance").
		Columns("batch_id", "student_id", "date", "status", "marked_by").
		Values(mark.BatchID, mark.StudentID, mark.Date, mark.Status, mark.MarkedBy).
		Suffix("ON CONFLICT (batch_id, student_id, date) DO UPDATE SET status = EXCLUDED.status, marked_by = EXCLUDED.marked_by").
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert attendance query: %w", err)
	}

	err = q.QueryRow(ctx, sql, args...).Scan(&mark.ID, &mark.CreatedAt)
	if err != nil {
		return fmt.Errorf("error writing attendance mark: %w", err)
	}

	return nil
}

// GetSheet retrieves every mark for one batch on one date
func (r *AttendanceRepository) GetSheet(ctx context.Context, batchID int64, date time.Time) ([]*models.Attendance, error) {
	sql, args, err := r.sb.Select("id", "batch_id", "student_id", "date", "status", "marked_by", "created_at").
		From("attendance").
		Where(squirrel.Eq{"batch_id": batchID, "date": date}).
		OrderBy("student_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance sheet query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error loading attendance sheet: %w", err)
	}
	defer rows.Close()

	var marks []*models.Attendance
	for rows.Next() {
		var m models.Attendance
		if err := rows.Scan(&m.ID, &m.BatchID, &m.StudentID, &m.Date, &m.Status, &m.MarkedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning attendance row: %w", err)
		}
		marks = append(marks, &m)
	}

	return marks, rows.Err()
}

// GetStudentHistory retrieves a student's marks over a period, newest first
func (r *AttendanceRepository) GetStudentHistory(ctx context.Context, studentID int64, from, to time.Time) ([]*models.Attendance, error) {
	sql, args, err := r.sb.Select("id", "batch_id", "student_id", "date", "status", "marked_by", "created_at").
		From("attendance").
		Where(squirrel.Eq{"student_id": studentID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.Lt{"date": to}).
		OrderBy("date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance history query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error loading attendance history: %w", err)
	}
	defer rows.Close()

	var marks []*models.Attendance
	for rows.Next() {
		var m models.Attendance
		if err := rows.Scan(&m.ID, &m.BatchID, &m.StudentID, &m.Date, &m.Status, &m.MarkedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning attendance row: %w", err)
		}
		marks = append(marks, &m)
	}

	return marks, rows.Err()
}

// AggregateByBatch aggregates marks per batch for a period
func (r *AttendanceRepository) AggregateByBatch(ctx context.Context, from, to time.Time, centerID int64) ([]dto.AttendanceRow, error) {
	query := r.sb.Select("a.batch_id", "b.name").
		Column("COUNT(*) FILTER (WHERE a.status = ?) AS present", models.AttendancePresent).
		Column("COUNT(*) FILTER (WHERE a.status = ?) AS absent", models.AttendanceAbsent).
		Column("COUNT(*) FILTER (WHERE a.status = ?) AS late", models.AttendanceLate).
		From("attendance a").
		Join("batches b ON b.id = a.batch_id").
		Where(squirrel.GtOrEq{"a.date": from}).
		Where(squirrel.Lt{"a.date": to}).
		GroupBy("a.batch_id", "b.name").
		OrderBy("b.name ASC")
	if centerID > 0 {
		query = query.Where(squirrel.Eq{"b.center_id": centerID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance aggregate query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error aggregating attendance: %w", err)
	}
	defer rows.Close()

	var result []dto.AttendanceRow
	for rows.Next() {
		var row dto.AttendanceRow
		if err := rows.Scan(&row.BatchID, &row.BatchName, &row.Present, &row.Absent, &row.Late); err != nil {
			return nil, fmt.Errorf("error scanning attendance aggregate row: %w", err)
		}
		total := row.Present + row.Absent + row.Late
		if total > 0 {
			row.Rate = float64(row.Present+row.Late) / float64(total)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
