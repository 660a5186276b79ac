package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tanmay/courtside/internal/app/models"
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/app/repositories"
	"github.com/tanmay/courtside/internal/db"
	"github.com/tanmay/courtside/internal/pkg/apperrors"
	"github.com/tanmay/courtside/internal/pkg/cache"
	"github.com/tanmay/courtside/internal/pkg/helpers"
	"github.com/tanmay/courtside/internal/pkg/logger"
)

// AttendanceService defines the interface for roll call operations
type AttendanceService interface {
	MarkAttendance(ctx context.Context, batchID int64, req *dto.MarkAttendanceRequest, markedBy int64) (*dto.AttendanceSheetResponse, error)
	GetSheet(ctx context.Context, batchID int64, date time.Time) (*dto.AttendanceSheetResponse, error)
	GetStudentHistory(ctx context.Context, studentID int64, from, to time.Time) ([]*models.Attendance, error)
}

// attendanceServiceImpl implements the AttendanceService interface
type attendanceServiceImpl struct {
	pool           *pgxpool.Pool
	attendanceRepo *repositories.AttendanceRepository
	batchRepo      *repositories.BatchRepository
	studentRepo    *repositories.StudentRepository
	reportCache    *cache.Cache
}

// NewAttendanceService creates a new attendance service instance
func NewAttendanceService(
	pool *pgxpool.Pool,
	attendanceRepo *repositories.AttendanceRepository,
	batchRepo *repositories.BatchRepository,
	studentRepo *repositories.StudentRepository,
	reportCache *cache.Cache,
) AttendanceService {
	return &attendanceServiceImpl{
		pool:           pool,
		attendanceRepo: attendanceRepo,
		batchRepo:      batchRepo,
		studentRepo:    studentRepo,
		reportCache:    reportCache,
	}
}

// MarkAttendance records a roll call for a batch session. All marks land in
// one transaction; marking the same day twice overwrites the earlier sheet.
func (s *attendanceServiceImpl) MarkAttendance(ctx context.Context, batchID int64, req *dto.MarkAttendanceRequest, markedBy int64) (*dto.AttendanceSheetResponse, error) {
	if _, err := s.batchRepo.GetByID(ctx, batchID); err != nil {
		return nil, err
	}

	date := helpers.DateOnly(req.Date)

	roster, err := s.studentRepo.GetActiveByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	onRoster := make(map[int64]bool, len(roster))
	for _, student := range roster {
		onRoster[student.ID] = true
	}

	marks := make([]*models.Attendance, 0, len(req.Marks))
	for _, m := range req.Marks {
		status := models.AttendanceStatus(m.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown attendance status %q", apperrors.ErrValidationFailed, m.Status)
		}
		if !onRoster[m.StudentID] {
			return nil, fmt.Errorf("%w: student %d is not on this batch", apperrors.ErrValidationFailed, m.StudentID)
		}
		marks = append(marks, &models.Attendance{
			BatchID:   batchID,
			StudentID: m.StudentID,
			Date:      date,
			Status:    status,
			MarkedBy:  markedBy,
		})
	}

	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		for _, mark := range marks {
			if err := s.attendanceRepo.UpsertQ(ctx, tx, mark); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateReports(ctx, s.reportCache)
	logger.Info().Int64("batchID", batchID).Time("date", date).Int("marks", len(marks)).Msg("Attendance recorded")

	return &dto.AttendanceSheetResponse{
		BatchID: batchID,
		Date:    date,
		Entries: marks,
		Roster:  roster,
	}, nil
}

// GetSheet retrieves the roster and any recorded marks for a batch and date
func (s *attendanceServiceImpl) GetSheet(ctx context.Context, batchID int64, date time.Time) (*dto.AttendanceSheetResponse, error) {
	if _, err := s.batchRepo.GetByID(ctx, batchID); err != nil {
		return nil, err
	}

	date = helpers.DateOnly(date)

	entries, err := s.attendanceRepo.GetSheet(ctx, batchID, date)
	if err != nil {
		return nil, err
	}
	roster, err := s.studentRepo.GetActiveByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	return &dto.AttendanceSheetResponse{
		BatchID: batchID,
		Date:    date,
		Entries: entries,
		Roster:  roster,
	}, nil
}

// GetStudentHistory retrieves a student's marks over a period
func (s *attendanceServiceImpl) GetStudentHistory(ctx context.Context, studentID int64, from, to time.Time) ([]*models.Attendance, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.attendanceRepo.GetStudentHistory(ctx, studentID, helpers.DateOnly(from), helpers.DateOnly(to).AddDate(0, 0, 1))
}
