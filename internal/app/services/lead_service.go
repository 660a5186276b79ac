package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tanmay/courtside/internal/app/models"
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/app/repositories"
	"github.com/tanmay/courtside/internal/db"
	"github.com/tanmay/courtside/internal/pkg/apperrors"
	"github.com/tanmay/courtside/internal/pkg/cache"
	"github.com/tanmay/courtside/internal/pkg/logger"
	"github.com/tanmay/courtside/internal/pkg/whatsapp"
)

// LeadService defines the interface for lead pipeline operations
type LeadService interface {
	CreateLead(ctx context.Context, req *dto.CreateLeadRequest, creatorID int64) (*models.Lead, error)
	GetLead(ctx context.Context, id int64) (*models.Lead, error)
	ListLeads(ctx context.Context, filter dto.LeadFilter, page, pageSize int) ([]*models.Lead, int64, error)
	UpdateLead(ctx context.Context, id int64, req *dto.UpdateLeadRequest) (*models.Lead, error)
	DeleteLead(ctx context.Context, id int64) error
	TransitionLead(ctx context.Context, id int64, to models.LeadStatus, note string, actorID int64) (*models.Lead, error)
	ScheduleTrial(ctx context.Context, id int64, batchID int64, trialAt time.Time, actorID int64) (*models.Lead, error)
	RecordTrialOutcome(ctx context.Context, id int64, attended bool, note string, actorID int64) (*models.Lead, error)
	AddFollowup(ctx context.Context, leadID int64, userID int64, dueAt time.Time, note string) (*models.Followup, error)
	ListFollowups(ctx context.Context, leadID int64) ([]*models.Followup, error)
	CompleteFollowup(ctx context.Context, leadID, followupID int64) error
	WhatsAppLink(ctx context.Context, id int64, template, baseURL string) (*dto.WhatsAppLinkResponse, error)
}

// leadServiceImpl implements the LeadService interface
type leadServiceImpl struct {
	pool             *pgxpool.Pool
	leadRepo         *repositories.LeadRepository
	followupRepo     *repositories.FollowupRepository
	batchRepo        *repositories.BatchRepository
	centerRepo       *repositories.CenterRepository
	userRepo         *repositories.UserRepository
	notificationRepo *repositories.NotificationRepository
	reportCache      *cache.Cache
}

// NewLeadService creates a new lead service instance
func NewLeadService(
	pool *pgxpool.Pool,
	leadRepo *repositories.LeadRepository,
	followupRepo *repositories.FollowupRepository,
	batchRepo *repositories.BatchRepository,
	centerRepo *repositories.CenterRepository,
	userRepo *repositories.UserRepository,
	notificationRepo *repositories.NotificationRepository,
	reportCache *cache.Cache,
) LeadService {
	return &leadServiceImpl{
		pool:             pool,
		leadRepo:         leadRepo,
		followupRepo:     followupRepo,
		batchRepo:        batchRepo,
		centerRepo:       centerRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		reportCache:      reportCache,
	}
}

// CreateLead registers a new lead at the top of the pipeline
func (s *leadServiceImpl) CreateLead(ctx context.Context, req *dto.CreateLeadRequest, creatorID int64) (*models.Lead, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}

	phone, err := whatsapp.NormalizePhone(req.Phone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidationFailed, err.Error())
	}

	if _, err := s.centerRepo.GetByID(ctx, req.CenterID); err != nil {
		return nil, err
	}

	lead := &models.Lead{
		Name:         strings.TrimSpace(req.Name),
		Phone:        phone,
		Email:        req.Email,
		Sport:        strings.ToLower(strings.TrimSpace(req.Sport)),
		Source:       strings.ToLower(strings.TrimSpace(req.Source)),
		Status:       models.LeadNew,
		CenterID:     req.CenterID,
		CounsellorID: req.CounsellorID,
		NextFollowUp: req.NextFollowUp,
		Notes:        req.Notes,
		JoinToken:    uuid.New().String(),
	}
	if lead.CounsellorID == nil {
		lead.CounsellorID = &creatorID
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}

	invalidateReports(ctx, s.reportCache)
	logger.Info().Int64("leadID", lead.ID).Str("source", lead.Source).Msg("Lead created")
	return lead, nil
}

// GetLead retrieves a lead with its center attached
func (s *leadServiceImpl) GetLead(ctx context.Context, id int64) (*models.Lead, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if center, err := s.centerRepo.GetByID(ctx, lead.CenterID); err == nil {
		lead.Center = center
	}
	if lead.TrialBatchID != nil {
		if batch, err := s.batchRepo.GetByID(ctx, *lead.TrialBatchID); err == nil {
			lead.TrialBatch = batch
		}
	}

	return lead, nil
}

// ListLeads retrieves leads matching a filter
func (s *leadServiceImpl) ListLeads(ctx context.Context, filter dto.LeadFilter, page, pageSize int) ([]*models.Lead, int64, error) {
	return s.leadRepo.GetAll(ctx, filter, page, pageSize)
}

// UpdateLead applies partial edits to contact fields. Status never moves
// through here.
func (s *leadServiceImpl) UpdateLead(ctx context.Context, id int64, req *dto.UpdateLeadRequest) (*models.Lead, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
		}
		lead.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		phone, err := whatsapp.NormalizePhone(*req.Phone)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidationFailed, err.Error())
		}
		lead.Phone = phone
	}
	if req.Email != nil {
		lead.Email = req.Email
	}
	if req.Sport != nil {
		lead.Sport = strings.ToLower(strings.TrimSpace(*req.Sport))
	}
	if req.Source != nil {
		lead.Source = strings.ToLower(strings.TrimSpace(*req.Source))
	}
	if req.CounsellorID != nil {
		lead.CounsellorID = req.CounsellorID
	}
	if req.NextFollowUp != nil {
		lead.NextFollowUp = req.NextFollowUp
	}
	if req.Notes != nil {
		lead.Notes = *req.Notes
	}

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, err
	}

	invalidateReports(ctx, s.reportCache)
	return lead, nil
}

// DeleteLead removes a lead entirely
func (s *leadServiceImpl) DeleteLead(ctx context.Context, id int64) error {
	if err := s.leadRepo.Delete(ctx, id); err != nil {
		return err
	}
	invalidateReports(ctx, s.reportCache)
	return nil
}

// TransitionLead moves a lead to a new pipeline status. The move is checked
// against the lifecycle table under a row lock, so concurrent transitions
// cannot race past each other.
func (s *leadServiceImpl) TransitionLead(ctx context.Context, id int64, to models.LeadStatus, note string, actorID int64) (*models.Lead, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidationFailed, string(to))
	}

	var lead *models.Lead
	err := db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		lead, err = s.leadRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if lead.Status.Terminal() {
			return apperrors.ErrLeadTerminal
		}
		if err := models.ValidateTransition(lead.Status, to); err != nil {
			return err
		}

		if err := s.leadRepo.UpdateStatusQ(ctx, tx, id, to); err != nil {
			return err
		}

		lead.Status = to
		lead.StatusChanged = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if note != "" {
		s.appendNote(ctx, lead, actorID, note)
	}

	invalidateReports(ctx, s.reportCache)
	logger.Info().Int64("leadID", id).Str("status", string(to)).Int64("actorID", actorID).Msg("Lead transitioned")
	return lead, nil
}

// ScheduleTrial books a trial slot and moves the lead to TRIAL_SCHEDULED
func (s *leadServiceImpl) ScheduleTrial(ctx context.Context, id int64, batchID int64, trialAt time.Time, actorID int64) (*models.Lead, error) {
	if trialAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: trial time must be in the future", apperrors.ErrValidationFailed)
	}

	var lead *models.Lead
	err := db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		exists, err := s.batchRepo.ExistsQ(ctx, tx, batchID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrBatchNotFound
		}

		lead, err = s.leadRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		// Rescheduling an already booked trial keeps the status; a fresh
		// booking must pass the lifecycle check.
		if lead.Status != models.LeadTrialScheduled {
			if err := models.ValidateTransition(lead.Status, models.LeadTrialScheduled); err != nil {
				return err
			}
			if err := s.leadRepo.UpdateStatusQ(ctx, tx, id, models.LeadTrialScheduled); err != nil {
				return err
			}
			lead.Status = models.LeadTrialScheduled
		}

		if err := s.leadRepo.SetTrialQ(ctx, tx, id, batchID, trialAt); err != nil {
			return err
		}

		lead.TrialBatchID = &batchID
		lead.TrialAt = &trialAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateReports(ctx, s.reportCache)
	logger.Info().Int64("leadID", id).Int64("batchID", batchID).Time("trialAt", trialAt).Msg("Trial scheduled")
	return lead, nil
}

// RecordTrialOutcome closes out a booked trial. Attendance moves the lead to
// TRIAL_ATTENDED; a no-show drops it back to CALLED for another attempt.
func (s *leadServiceImpl) RecordTrialOutcome(ctx context.Context, id int64, attended bool, note string, actorID int64) (*models.Lead, error) {
	to := models.LeadTrialAttended
	if !attended {
		to = models.LeadCalled
	}

	lead, err := s.TransitionLead(ctx, id, to, note, actorID)
	if err != nil {
		return nil, err
	}

	if lead.CounsellorID != nil && *lead.CounsellorID != actorID {
		outcome := "attended the trial"
		if !attended {
			outcome = "missed the trial"
		}
		_ = s.notificationRepo.Create(ctx, &models.Notification{
			UserID: *lead.CounsellorID,
			Kind:   models.NotificationTrialOutcome,
			Body:   fmt.Sprintf("%s %s", lead.Name, outcome),
		})
	}

	return lead, nil
}

// AddFollowup creates a dated task on a lead
func (s *leadServiceImpl) AddFollowup(ctx context.Context, leadID int64, userID int64, dueAt time.Time, note string) (*models.Followup, error) {
	lead, err := s.leadRepo.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead.Status.Terminal() {
		return nil, apperrors.ErrLeadTerminal
	}

	followup := &models.Followup{
		LeadID: leadID,
		UserID: userID,
		DueAt:  dueAt,
		Note:   note,
	}
	if err := s.followupRepo.Create(ctx, followup); err != nil {
		return nil, err
	}

	return followup, nil
}

// ListFollowups retrieves every followup on a lead
func (s *leadServiceImpl) ListFollowups(ctx context.Context, leadID int64) ([]*models.Followup, error) {
	if _, err := s.leadRepo.GetByID(ctx, leadID); err != nil {
		return nil, err
	}
	return s.followupRepo.GetByLead(ctx, leadID)
}

// CompleteFollowup marks a followup done, checking it belongs to the lead
func (s *leadServiceImpl) CompleteFollowup(ctx context.Context, leadID, followupID int64) error {
	followup, err := s.followupRepo.GetByID(ctx, followupID)
	if err != nil {
		return err
	}
	if followup.LeadID != leadID {
		return apperrors.ErrResourceNotFound
	}
	return s.followupRepo.Complete(ctx, followupID)
}

// Named message templates for the WhatsApp composer
var whatsappTemplates = map[string]string{
	"intro":          "Hi {{name}}! Thanks for your interest in {{sport}} at our academy. When can we call you?",
	"trial_reminder": "Hi {{name}}! Your trial session is booked. See you on court!",
	"join":           "Hi {{name}}! Great session today. Join here to lock in your spot: {{link}}",
}

// defaultTemplateFor picks the template matching a lead's pipeline stage
func defaultTemplateFor(status models.LeadStatus) string {
	switch status {
	case models.LeadTrialScheduled:
		return "trial_reminder"
	case models.LeadTrialAttended:
		return "join"
	default:
		return "intro"
	}
}

// renderLeadMessage fills a named template with the lead's details. An empty
// name falls back to the template matching the lead's status.
func renderLeadMessage(lead *models.Lead, template, baseURL string) (string, error) {
	if template == "" {
		template = defaultTemplateFor(lead.Status)
	}
	text, ok := whatsappTemplates[template]
	if !ok {
		return "", fmt.Errorf("%w: unknown template %q", apperrors.ErrValidationFailed, template)
	}

	return whatsapp.RenderTemplate(text, map[string]string{
		"name":  lead.Name,
		"sport": lead.Sport,
		"link":  fmt.Sprintf("%s/join/%s", strings.TrimRight(baseURL, "/"), lead.JoinToken),
	}), nil
}

// WhatsAppLink builds a prefilled wa.me chat link for a lead. The template
// defaults from the lead's pipeline stage and can be overridden by name.
func (s *leadServiceImpl) WhatsAppLink(ctx context.Context, id int64, template, baseURL string) (*dto.WhatsAppLinkResponse, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	message, err := renderLeadMessage(lead, template, baseURL)
	if err != nil {
		return nil, err
	}

	link, err := whatsapp.ChatLink(lead.Phone, message)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidationFailed, err.Error())
	}

	return &dto.WhatsAppLinkResponse{Link: link, Message: message}, nil
}

// appendNote adds a transition note onto the lead's notes field
func (s *leadServiceImpl) appendNote(ctx context.Context, lead *models.Lead, actorID int64, note string) {
	stamp := time.Now().Format("02 Jan 15:04")
	if lead.Notes != "" {
		lead.Notes += "\n"
	}
	lead.Notes += fmt.Sprintf("[%s] %s", stamp, note)

	if err := s.leadRepo.Update(ctx, lead); err != nil && !errors.Is(err, apperrors.ErrLeadNotFound) {
		logger.Warn().Err(err).Int64("leadID", lead.ID).Msg("Failed to append transition note")
	}
}
