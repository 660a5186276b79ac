package services

import (
	"context"
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
	"github.com/tanmay/courtside/internal/pkg/upi"
)

// StudentService defines the interface for student and enrollment operations
type StudentService interface {
	ConvertLead(ctx context.Context, leadID int64, req *dto.ConvertLeadRequest, actorID int64) (*models.Student, *dto.PaymentInitResponse, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	ListStudents(ctx context.Context, filter dto.StudentFilter, page, pageSize int) ([]*models.Student, int64, error)
	UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error)
	GetByRenewalToken(ctx context.Context, token string) (*models.Student, error)
	RenewByToken(ctx context.Context, token string, req *dto.RenewRequest) (*dto.PaymentInitResponse, error)
	JoinFormByToken(ctx context.Context, token string) (*dto.JoinFormResponse, error)
	JoinSubmitByToken(ctx context.Context, token string, req *dto.JoinSubmissionRequest) (*models.Student, *dto.PaymentInitResponse, error)
	ExpireLapsed(ctx context.Context) (int64, error)
	NotifyRenewalsDue(ctx context.Context) (int64, error)
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	pool             *pgxpool.Pool
	studentRepo      *repositories.StudentRepository
	leadRepo         *repositories.LeadRepository
	batchRepo        *repositories.BatchRepository
	centerRepo       *repositories.CenterRepository
	paymentRepo      *repositories.PaymentRepository
	notificationRepo *repositories.NotificationRepository
	reportCache      *cache.Cache
}

// NewStudentService creates a new student service instance
func NewStudentService(
	pool *pgxpool.Pool,
	studentRepo *repositories.StudentRepository,
	leadRepo *repositories.LeadRepository,
	batchRepo *repositories.BatchRepository,
	centerRepo *repositories.CenterRepository,
	paymentRepo *repositories.PaymentRepository,
	notificationRepo *repositories.NotificationRepository,
	reportCache *cache.Cache,
) StudentService {
	return &studentServiceImpl{
		pool:             pool,
		studentRepo:      studentRepo,
		leadRepo:         leadRepo,
		batchRepo:        batchRepo,
		centerRepo:       centerRepo,
		paymentRepo:      paymentRepo,
		notificationRepo: notificationRepo,
		reportCache:      reportCache,
	}
}

// ConvertLead turns a trial-attended lead into a paying student. The lead
// status, the student row and the enrollment payment land in one transaction.
func (s *studentServiceImpl) ConvertLead(ctx context.Context, leadID int64, req *dto.ConvertLeadRequest, actorID int64) (*models.Student, *dto.PaymentInitResponse, error) {
	plan := models.Plan(req.Plan)
	if !plan.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown plan %q", apperrors.ErrValidationFailed, req.Plan)
	}
	if req.AmountPaise <= 0 {
		return nil, nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidationFailed)
	}

	start := time.Now()
	if req.StartDate != nil {
		start = *req.StartDate
	}

	var student *models.Student
	var payment *models.Payment

	err := db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		lead, err := s.leadRepo.GetByIDForUpdate(ctx, tx, leadID)
		if err != nil {
			return err
		}
		if err := models.ValidateTransition(lead.Status, models.LeadJoined); err != nil {
			return err
		}

		center, err := s.centerRepo.GetByID(ctx, lead.CenterID)
		if err != nil {
			return err
		}

		if err := s.checkCapacity(ctx, tx, req.BatchID); err != nil {
			return err
		}

		student = &models.Student{
			LeadID:       &lead.ID,
			Name:         lead.Name,
			Phone:        lead.Phone,
			Email:        lead.Email,
			CenterID:     lead.CenterID,
			BatchID:      &req.BatchID,
			Sport:        lead.Sport,
			Plan:         plan,
			Status:       models.StudentActive,
			SubStart:     start,
			SubExpiry:    start.AddDate(0, plan.Months(), 0),
			RenewalToken: uuid.New().String(),
		}
		if err := s.studentRepo.CreateQ(ctx, tx, student); err != nil {
			return err
		}

		payment, err = s.buildPayment(student, center, models.PaymentKindJoin, plan, req.AmountPaise)
		if err != nil {
			return err
		}
		if err := s.paymentRepo.CreateQ(ctx, tx, payment); err != nil {
			return err
		}

		return s.leadRepo.UpdateStatusQ(ctx, tx, leadID, models.LeadJoined)
	})
	if err != nil {
		return nil, nil, err
	}

	invalidateReports(ctx, s.reportCache)
	logger.Info().Int64("leadID", leadID).Int64("studentID", student.ID).Str("plan", string(plan)).Msg("Lead converted to student")

	return student, &dto.PaymentInitResponse{
		PaymentID: payment.ID,
		UPILink:   payment.UPILink,
		Amount:    upi.FormatRupees(payment.AmountPs),
	}, nil
}

// GetStudent retrieves a student with its center and batch attached
func (s *studentServiceImpl) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if center, err := s.centerRepo.GetByID(ctx, student.CenterID); err == nil {
		student.Center = center
	}
	if student.BatchID != nil {
		if batch, err := s.batchRepo.GetByID(ctx, *student.BatchID); err == nil {
			student.Batch = batch
		}
	}

	return student, nil
}

// ListStudents retrieves students matching a filter
func (s *studentServiceImpl) ListStudents(ctx context.Context, filter dto.StudentFilter, page, pageSize int) ([]*models.Student, int64, error) {
	return s.studentRepo.GetAll(ctx, filter, page, pageSize)
}

// UpdateStudent applies partial edits to a student record
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
		}
		student.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		student.Phone = *req.Phone
	}
	if req.Email != nil {
		student.Email = req.Email
	}
	if req.BatchID != nil {
		if _, err := s.batchRepo.GetByID(ctx, *req.BatchID); err != nil {
			return nil, err
		}
		student.BatchID = req.BatchID
	}
	if req.Status != nil {
		status := models.StudentStatus(*req.Status)
		switch status {
		case models.StudentActive, models.StudentExpired, models.StudentOnBreak, models.StudentLeft:
			student.Status = status
		default:
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidationFailed, *req.Status)
		}
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}

// GetByRenewalToken resolves the public renewal form token
func (s *studentServiceImpl) GetByRenewalToken(ctx context.Context, token string) (*models.Student, error) {
	if token == "" {
		return nil, apperrors.ErrStudentNotFound
	}
	student, err := s.studentRepo.GetByRenewalToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if center, err := s.centerRepo.GetByID(ctx, student.CenterID); err == nil {
		student.Center = center
	}
	return student, nil
}

// RenewByToken opens a renewal payment from the public form. The subscription
// is extended only when the payment is verified.
func (s *studentServiceImpl) RenewByToken(ctx context.Context, token string, req *dto.RenewRequest) (*dto.PaymentInitResponse, error) {
	plan := models.Plan(req.Plan)
	if !plan.Valid() {
		return nil, fmt.Errorf("%w: unknown plan %q", apperrors.ErrValidationFailed, req.Plan)
	}
	if req.AmountPaise <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidationFailed)
	}

	student, err := s.studentRepo.GetByRenewalToken(ctx, token)
	if err != nil {
		return nil, err
	}

	center, err := s.centerRepo.GetByID(ctx, student.CenterID)
	if err != nil {
		return nil, err
	}

	payment, err := s.buildPayment(student, center, models.PaymentKindRenewal, plan, req.AmountPaise)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	invalidateReports(ctx, s.reportCache)
	logger.Info().Int64("studentID", student.ID).Str("plan", string(plan)).Msg("Renewal payment initiated")

	return &dto.PaymentInitResponse{
		PaymentID: payment.ID,
		UPILink:   payment.UPILink,
		Amount:    upi.FormatRupees(payment.AmountPs),
	}, nil
}

// JoinFormByToken resolves the public join form token into prefill data
func (s *studentServiceImpl) JoinFormByToken(ctx context.Context, token string) (*dto.JoinFormResponse, error) {
	if token == "" {
		return nil, apperrors.ErrLeadNotFound
	}
	lead, err := s.leadRepo.GetByJoinToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if lead.Status.Terminal() {
		return nil, apperrors.ErrLeadTerminal
	}

	center, err := s.centerRepo.GetByID(ctx, lead.CenterID)
	if err != nil {
		return nil, err
	}

	return &dto.JoinFormResponse{
		Name:   lead.Name,
		Phone:  lead.Phone,
		Email:  lead.Email,
		Sport:  lead.Sport,
		Center: center.Name,
		Plans: []string{
			string(models.PlanMonthly), string(models.PlanQuarterly),
			string(models.PlanHalfYearly), string(models.PlanAnnual),
		},
	}, nil
}

// JoinSubmitByToken completes the public join form, converting the lead
func (s *studentServiceImpl) JoinSubmitByToken(ctx context.Context, token string, req *dto.JoinSubmissionRequest) (*models.Student, *dto.PaymentInitResponse, error) {
	lead, err := s.leadRepo.GetByJoinToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	convertReq := &dto.ConvertLeadRequest{
		BatchID:     req.BatchID,
		Plan:        req.Plan,
		AmountPaise: req.AmountPaise,
	}
	student, paymentInit, err := s.ConvertLead(ctx, lead.ID, convertReq, 0)
	if err != nil {
		return nil, nil, err
	}

	if req.Email != nil {
		student.Email = req.Email
		if err := s.studentRepo.Update(ctx, student); err != nil {
			logger.Warn().Err(err).Int64("studentID", student.ID).Msg("Failed to store email from join form")
		}
	}

	return student, paymentInit, nil
}

// ExpireLapsed flips active students whose subscription has run out
func (s *studentServiceImpl) ExpireLapsed(ctx context.Context) (int64, error) {
	count, err := s.studentRepo.MarkExpired(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Info().Int64("count", count).Msg("Marked lapsed subscriptions expired")
	}
	return count, nil
}

// renewalNoticeDays is how far ahead the renewal sweep looks
const renewalNoticeDays = 7

// NotifyRenewalsDue tells counsellors about subscriptions lapsing soon. Each
// counsellor is notified once per student per day.
func (s *studentServiceImpl) NotifyRenewalsDue(ctx context.Context) (int64, error) {
	due, err := s.studentRepo.ListRenewalDue(ctx, renewalNoticeDays)
	if err != nil {
		return 0, err
	}

	var sent int64
	for _, row := range due {
		if row.CounsellorID == nil {
			continue
		}
		err := s.notificationRepo.CreateOnceToday(ctx, &models.Notification{
			UserID: *row.CounsellorID,
			Kind:   models.NotificationRenewalDue,
			Body:   fmt.Sprintf("%s's subscription expires on %s", row.Name, row.SubExpiry.Format("02 Jan")),
		})
		if err == nil {
			sent++
		}
	}
	if sent > 0 {
		logger.Info().Int64("count", sent).Msg("Sent renewal due notifications")
	}
	return sent, nil
}

func (s *studentServiceImpl) checkCapacity(ctx context.Context, q repositories.Querier, batchID int64) error {
	batch, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return err
	}
	if !batch.IsActive {
		return apperrors.ErrBatchNotFound
	}

	enrolled, err := s.studentRepo.CountActiveByBatch(ctx, q, batchID)
	if err != nil {
		return err
	}
	if enrolled >= batch.Capacity {
		return apperrors.ErrBatchFull
	}
	return nil
}

func (s *studentServiceImpl) buildPayment(student *models.Student, center *models.Center, kind models.PaymentKind, plan models.Plan, amountPaise int64) (*models.Payment, error) {
	note := fmt.Sprintf("%s %s %s", center.Code, strings.ToLower(string(kind)), student.Name)
	link, err := upi.PayLink(center.UPIVPA, center.Name, amountPaise, note)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidationFailed, err.Error())
	}

	return &models.Payment{
		StudentID: student.ID,
		CenterID:  center.ID,
		Kind:      kind,
		Plan:      plan,
		AmountPs:  amountPaise,
		UPILink:   link,
		Status:    models.PaymentPending,
	}, nil
}
