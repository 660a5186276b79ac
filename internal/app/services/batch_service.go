package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tanmay/courtside/internal/app/models"
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/app/repositories"
	"github.com/tanmay/courtside/internal/pkg/apperrors"
)

// timeOfDayRegex matches 24h HH:MM strings
var timeOfDayRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// validWeekdays are the accepted schedule day codes
var validWeekdays = map[string]bool{
	"MON": true, "TUE": true, "WED": true, "THU": true,
	"FRI": true, "SAT": true, "SUN": true,
}

// BatchService defines the interface for batch scheduling operations
type BatchService interface {
	CreateBatch(ctx context.Context, req *dto.CreateBatchRequest) (*models.Batch, error)
	GetBatch(ctx context.Context, id int64) (*models.Batch, error)
	ListBatches(ctx context.Context, filter dto.BatchFilter, page, pageSize int) ([]*models.Batch, int64, error)
	UpdateBatch(ctx context.Context, id int64, req *dto.UpdateBatchRequest) (*models.Batch, error)
	AssignCoach(ctx context.Context, batchID, coachID int64) (*models.Batch, error)
	ListCoachBatches(ctx context.Context, coachID int64) ([]*models.Batch, error)
}

// batchServiceImpl implements the BatchService interface
type batchServiceImpl struct {
	batchRepo  *repositories.BatchRepository
	centerRepo *repositories.CenterRepository
	userRepo   *repositories.UserRepository
}

// NewBatchService creates a new batch service instance
func NewBatchService(
	batchRepo *repositories.BatchRepository,
	centerRepo *repositories.CenterRepository,
	userRepo *repositories.UserRepository,
) BatchService {
	return &batchServiceImpl{
		batchRepo:  batchRepo,
		centerRepo: centerRepo,
		userRepo:   userRepo,
	}
}

func validateSchedule(weekdays []string, startTime, endTime string) ([]string, error) {
	if len(weekdays) == 0 {
		return nil, fmt.Errorf("%w: at least one weekday is required", apperrors.ErrValidationFailed)
	}
	normalized := make([]string, 0, len(weekdays))
	seen := make(map[string]bool)
	for _, day := range weekdays {
		day = strings.ToUpper(strings.TrimSpace(day))
		if !validWeekdays[day] {
			return nil, fmt.Errorf("%w: unknown weekday %q", apperrors.ErrValidationFailed, day)
		}
		if !seen[day] {
			seen[day] = true
			normalized = append(normalized, day)
		}
	}

	if !timeOfDayRegex.MatchString(startTime) || !timeOfDayRegex.MatchString(endTime) {
		return nil, fmt.Errorf("%w: times must be 24h HH:MM", apperrors.ErrValidationFailed)
	}
	if startTime >= endTime {
		return nil, fmt.Errorf("%w: start time must be before end time", apperrors.ErrValidationFailed)
	}

	return normalized, nil
}

// CreateBatch creates a training batch at a center
func (s *batchServiceImpl) CreateBatch(ctx context.Context, req *dto.CreateBatchRequest) (*models.Batch, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	if req.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", apperrors.ErrValidationFailed)
	}

	weekdays, err := validateSchedule(req.Weekdays, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	if _, err := s.centerRepo.GetByID(ctx, req.CenterID); err != nil {
		return nil, err
	}

	if req.CoachID != nil {
		if err := s.requireCoach(ctx, *req.CoachID); err != nil {
			return nil, err
		}
	}

	batch := &models.Batch{
		Name:      strings.TrimSpace(req.Name),
		CenterID:  req.CenterID,
		Sport:     strings.ToLower(strings.TrimSpace(req.Sport)),
		CoachID:   req.CoachID,
		Weekdays:  weekdays,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Capacity:  req.Capacity,
		IsActive:  true,
	}
	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return nil, err
	}

	return batch, nil
}

// GetBatch retrieves a batch by ID
func (s *batchServiceImpl) GetBatch(ctx context.Context, id int64) (*models.Batch, error) {
	batch, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if center, err := s.centerRepo.GetByID(ctx, batch.CenterID); err == nil {
		batch.Center = center
	}
	if batch.CoachID != nil {
		if coach, err := s.userRepo.GetByID(ctx, *batch.CoachID); err == nil {
			batch.Coach = coach
		}
	}

	return batch, nil
}

// ListBatches retrieves batches matching a filter
func (s *batchServiceImpl) ListBatches(ctx context.Context, filter dto.BatchFilter, page, pageSize int) ([]*models.Batch, int64, error) {
	return s.batchRepo.GetAll(ctx, filter, page, pageSize)
}

// UpdateBatch applies partial edits to a batch
func (s *batchServiceImpl) UpdateBatch(ctx context.Context, id int64, req *dto.UpdateBatchRequest) (*models.Batch, error) {
	batch, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
		}
		batch.Name = strings.TrimSpace(*req.Name)
	}
	if req.CoachID != nil {
		if err := s.requireCoach(ctx, *req.CoachID); err != nil {
			return nil, err
		}
		batch.CoachID = req.CoachID
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, fmt.Errorf("%w: capacity must be positive", apperrors.ErrValidationFailed)
		}
		batch.Capacity = *req.Capacity
	}
	if req.IsActive != nil {
		batch.IsActive = *req.IsActive
	}

	weekdays := batch.Weekdays
	if req.Weekdays != nil {
		weekdays = req.Weekdays
	}
	startTime := batch.StartTime
	if req.StartTime != nil {
		startTime = *req.StartTime
	}
	endTime := batch.EndTime
	if req.EndTime != nil {
		endTime = *req.EndTime
	}
	if req.Weekdays != nil || req.StartTime != nil || req.EndTime != nil {
		normalized, err := validateSchedule(weekdays, startTime, endTime)
		if err != nil {
			return nil, err
		}
		batch.Weekdays = normalized
		batch.StartTime = startTime
		batch.EndTime = endTime
	}

	if err := s.batchRepo.Update(ctx, batch); err != nil {
		return nil, err
	}

	return batch, nil
}

// AssignCoach puts a coach in charge of a batch
func (s *batchServiceImpl) AssignCoach(ctx context.Context, batchID, coachID int64) (*models.Batch, error) {
	if err := s.requireCoach(ctx, coachID); err != nil {
		return nil, err
	}

	batch, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	batch.CoachID = &coachID
	if err := s.batchRepo.Update(ctx, batch); err != nil {
		return nil, err
	}

	return batch, nil
}

// ListCoachBatches retrieves the batches a coach runs
func (s *batchServiceImpl) ListCoachBatches(ctx context.Context, coachID int64) ([]*models.Batch, error) {
	return s.batchRepo.GetByCoach(ctx, coachID)
}

func (s *batchServiceImpl) requireCoach(ctx context.Context, userID int64) error {
	isCoach, err := s.userRepo.IsCoach(ctx, userID)
	if err != nil {
		return err
	}
	if !isCoach {
		return apperrors.ErrNotACoach
	}
	return nil
}
