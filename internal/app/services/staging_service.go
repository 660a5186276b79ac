package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tanmay/courtside/internal/app/models"
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/app/repositories"
	"github.com/tanmay/courtside/internal/db"
	"github.com/tanmay/courtside/internal/pkg/apperrors"
	"github.com/tanmay/courtside/internal/pkg/cache"
	"github.com/tanmay/courtside/internal/pkg/logger"
)

// StagingService defines the interface for the bulk action approval workflow
type StagingService interface {
	CreateAction(ctx context.Context, req *dto.CreateStagingRequest, requestedBy int64) (*models.StagingAction, error)
	GetAction(ctx context.Context, id int64) (*models.StagingAction, error)
	ListActions(ctx context.Context, filter dto.StagingFilter, page, pageSize int) ([]*models.StagingAction, int64, error)
	Decide(ctx context.Context, id int64, approve bool, message string, decidedBy int64) (*models.StagingAction, *dto.StagingApplyResult, error)
}

// stagingServiceImpl implements the StagingService interface
type stagingServiceImpl struct {
	pool             *pgxpool.Pool
	stagingRepo      *repositories.StagingRepository
	leadRepo         *repositories.LeadRepository
	batchRepo        *repositories.BatchRepository
	userRepo         *repositories.UserRepository
	notificationRepo *repositories.NotificationRepository
	reportCache      *cache.Cache
}

// NewStagingService creates a new staging service instance
func NewStagingService(
	pool *pgxpool.Pool,
	stagingRepo *repositories.StagingRepository,
	leadRepo *repositories.LeadRepository,
	batchRepo *repositories.BatchRepository,
	userRepo *repositories.UserRepository,
	notificationRepo *repositories.NotificationRepository,
	reportCache *cache.Cache,
) StagingService {
	return &stagingServiceImpl{
		pool:             pool,
		stagingRepo:      stagingRepo,
		leadRepo:         leadRepo,
		batchRepo:        batchRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		reportCache:      reportCache,
	}
}

// CreateAction stages a bulk lead mutation for approval. The target is
// validated up front; the per-lead lifecycle check happens again at apply
// time because leads keep moving while the action sits in the queue.
func (s *stagingServiceImpl) CreateAction(ctx context.Context, req *dto.CreateStagingRequest, requestedBy int64) (*models.StagingAction, error) {
	kind := models.StagingKind(req.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown action kind %q", apperrors.ErrValidationFailed, req.Kind)
	}
	if len(req.LeadIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one lead is required", apperrors.ErrValidationFailed)
	}
	if len(req.LeadIDs) > 500 {
		return nil, fmt.Errorf("%w: at most 500 leads per action", apperrors.ErrValidationFailed)
	}

	if err := s.validateTarget(ctx, kind, req.TargetValue); err != nil {
		return nil, err
	}

	action := &models.StagingAction{
		Kind:        kind,
		LeadIDs:     req.LeadIDs,
		TargetValue: req.TargetValue,
		Reason:      req.Reason,
		Status:      models.StagingPending,
		RequestedBy: requestedBy,
	}
	if err := s.stagingRepo.Create(ctx, action); err != nil {
		return nil, err
	}

	logger.Info().
		Int64("actionID", action.ID).
		Str("kind", string(kind)).
		Int("leads", len(req.LeadIDs)).
		Msg("Bulk action staged")

	return action, nil
}

// GetAction retrieves a staged action by ID
func (s *stagingServiceImpl) GetAction(ctx context.Context, id int64) (*models.StagingAction, error) {
	return s.stagingRepo.GetByID(ctx, id)
}

// ListActions retrieves staged actions matching a filter
func (s *stagingServiceImpl) ListActions(ctx context.Context, filter dto.StagingFilter, page, pageSize int) ([]*models.StagingAction, int64, error) {
	return s.stagingRepo.GetAll(ctx, filter, page, pageSize)
}

// Decide approves or rejects a pending action. Approval applies the mutation
// to every lead in one transaction; a lead that can no longer take the change
// aborts the whole action, nothing is applied partially.
func (s *stagingServiceImpl) Decide(ctx context.Context, id int64, approve bool, message string, decidedBy int64) (*models.StagingAction, *dto.StagingApplyResult, error) {
	var action *models.StagingAction
	result := &dto.StagingApplyResult{}

	err := db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		action, err = s.stagingRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if action.Status != models.StagingPending {
			return apperrors.ErrStagingNotPending
		}

		status := models.StagingRejected
		if approve {
			status = models.StagingApproved
			if err := s.apply(ctx, tx, action, result); err != nil {
				return err
			}
		}

		if err := s.stagingRepo.DecideQ(ctx, tx, id, status, decidedBy, message); err != nil {
			return err
		}
		action.Status = status
		action.DecidedBy = &decidedBy
		action.DecisionMsg = message
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	outcome := "rejected"
	if approve {
		invalidateReports(ctx, s.reportCache)
		outcome = fmt.Sprintf("approved, %d leads updated", result.Applied)
	}
	_ = s.notificationRepo.Create(ctx, &models.Notification{
		UserID: action.RequestedBy,
		Kind:   models.NotificationStagingDecided,
		Body:   fmt.Sprintf("Your %s action was %s", action.Kind, outcome),
	})

	logger.Info().
		Int64("actionID", id).
		Bool("approved", approve).
		Int("applied", result.Applied).
		Msg("Bulk action decided")

	return action, result, nil
}

// checkApplicable verifies one lead can still take the staged mutation. A
// non-nil error aborts the surrounding transaction, so an action applies to
// every lead or to none.
func checkApplicable(lead *models.Lead, action *models.StagingAction) error {
	switch action.Kind {
	case models.StagingStatusChange:
		if verr := models.ValidateTransition(lead.Status, models.LeadStatus(action.TargetValue)); verr != nil {
			return fmt.Errorf("lead %d: %w", lead.ID, verr)
		}

	case models.StagingBatchMove:
		if lead.Status.Terminal() {
			return fmt.Errorf("%w: lead %d is in a terminal status", apperrors.ErrValidationFailed, lead.ID)
		}
		if lead.TrialAt == nil {
			return fmt.Errorf("%w: lead %d has no trial booked", apperrors.ErrValidationFailed, lead.ID)
		}
	}
	return nil
}

// apply runs the staged mutation over every lead inside the decision
// transaction
func (s *stagingServiceImpl) apply(ctx context.Context, tx pgx.Tx, action *models.StagingAction, result *dto.StagingApplyResult) error {
	for _, leadID := range action.LeadIDs {
		lead, err := s.leadRepo.GetByIDForUpdate(ctx, tx, leadID)
		if err != nil {
			if errors.Is(err, apperrors.ErrLeadNotFound) {
				return fmt.Errorf("%w: lead %d no longer exists", apperrors.ErrValidationFailed, leadID)
			}
			return err
		}

		if err := checkApplicable(lead, action); err != nil {
			return err
		}

		switch action.Kind {
		case models.StagingReassign:
			counsellorID, _ := strconv.ParseInt(action.TargetValue, 10, 64)
			err = s.leadRepo.SetCounsellorQ(ctx, tx, leadID, counsellorID)

		case models.StagingStatusChange:
			err = s.leadRepo.UpdateStatusQ(ctx, tx, leadID, models.LeadStatus(action.TargetValue))

		case models.StagingBatchMove:
			batchID, _ := strconv.ParseInt(action.TargetValue, 10, 64)
			err = s.leadRepo.SetTrialQ(ctx, tx, leadID, batchID, *lead.TrialAt)
		}

		if err != nil {
			return err
		}
		result.Applied++
	}

	return nil
}

func (s *stagingServiceImpl) validateTarget(ctx context.Context, kind models.StagingKind, target string) error {
	switch kind {
	case models.StagingReassign:
		counsellorID, err := strconv.ParseInt(target, 10, 64)
		if err != nil || counsellorID <= 0 {
			return fmt.Errorf("%w: target must be a counsellor id", apperrors.ErrValidationFailed)
		}
		if _, err := s.userRepo.GetByID(ctx, counsellorID); err != nil {
			return err
		}

	case models.StagingStatusChange:
		if !models.LeadStatus(target).Valid() {
			return fmt.Errorf("%w: target must be a pipeline status", apperrors.ErrValidationFailed)
		}

	case models.StagingBatchMove:
		batchID, err := strconv.ParseInt(target, 10, 64)
		if err != nil || batchID <= 0 {
			return fmt.Errorf("%w: target must be a batch id", apperrors.ErrValidationFailed)
		}
		if _, err := s.batchRepo.GetByID(ctx, batchID); err != nil {
			return err
		}
	}

	return nil
}
