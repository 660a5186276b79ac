package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tanmay/courtside/internal/app/models"
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/app/repositories"
	"github.com/tanmay/courtside/internal/db"
	"github.com/tanmay/courtside/internal/pkg/apperrors"
	"github.com/tanmay/courtside/internal/pkg/cache"
	"github.com/tanmay/courtside/internal/pkg/filestorage"
	"github.com/tanmay/courtside/internal/pkg/logger"
	"github.com/tanmay/courtside/internal/pkg/upi"
)

// PaymentService defines the interface for payment operations
type PaymentService interface {
	GetPayment(ctx context.Context, id int64) (*models.Payment, error)
	ListPayments(ctx context.Context, filter dto.PaymentFilter, page, pageSize int) ([]*models.Payment, int64, error)
	SubmitUTR(ctx context.Context, id int64, utr string) (*models.Payment, error)
	AttachProof(ctx context.Context, id int64, file *multipart.FileHeader) (*models.Payment, error)
	Verify(ctx context.Context, id int64, approve bool, note string, actorID int64) (*models.Payment, error)
}

// paymentServiceImpl implements the PaymentService interface
type paymentServiceImpl struct {
	pool             *pgxpool.Pool
	paymentRepo      *repositories.PaymentRepository
	studentRepo      *repositories.StudentRepository
	leadRepo         *repositories.LeadRepository
	userRepo         *repositories.UserRepository
	notificationRepo *repositories.NotificationRepository
	storage          filestorage.FileStorage
	reportCache      *cache.Cache
}

// NewPaymentService creates a new payment service instance
func NewPaymentService(
	pool *pgxpool.Pool,
	paymentRepo *repositories.PaymentRepository,
	studentRepo *repositories.StudentRepository,
	leadRepo *repositories.LeadRepository,
	userRepo *repositories.UserRepository,
	notificationRepo *repositories.NotificationRepository,
	storage filestorage.FileStorage,
	reportCache *cache.Cache,
) PaymentService {
	return &paymentServiceImpl{
		pool:             pool,
		paymentRepo:      paymentRepo,
		studentRepo:      studentRepo,
		leadRepo:         leadRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		storage:          storage,
		reportCache:      reportCache,
	}
}

// GetPayment retrieves a payment by ID
func (s *paymentServiceImpl) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	return s.paymentRepo.GetByID(ctx, id)
}

// ListPayments retrieves payments matching a filter
func (s *paymentServiceImpl) ListPayments(ctx context.Context, filter dto.PaymentFilter, page, pageSize int) ([]*models.Payment, int64, error) {
	return s.paymentRepo.GetAll(ctx, filter, page, pageSize)
}

// SubmitUTR records a UPI transaction reference on a pending payment
func (s *paymentServiceImpl) SubmitUTR(ctx context.Context, id int64, utr string) (*models.Payment, error) {
	utr = strings.ToUpper(strings.TrimSpace(utr))
	if !upi.IsValidUTR(utr) {
		return nil, fmt.Errorf("%w: malformed UTR", apperrors.ErrValidationFailed)
	}

	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentPending {
		return nil, apperrors.ErrPaymentNotPending
	}

	if err := s.paymentRepo.SetUTR(ctx, id, utr); err != nil {
		return nil, err
	}
	payment.UTR = &utr

	s.notifyReviewers(ctx, payment)

	return payment, nil
}

// notifyReviewers tells the center's managers a payment is ready to verify
func (s *paymentServiceImpl) notifyReviewers(ctx context.Context, payment *models.Payment) {
	managers, _, err := s.userRepo.GetAll(ctx, dto.UserFilter{
		RoleType: string(models.RoleManager),
		CenterID: payment.CenterID,
	}, 1, 50)
	if err != nil {
		logger.Warn().Err(err).Int64("paymentID", payment.ID).Msg("Failed to load reviewers for payment notification")
		return
	}

	body := fmt.Sprintf("Payment of ₹%s has a UTR and awaits verification", upi.FormatRupees(payment.AmountPs))
	for _, manager := range managers {
		_ = s.notificationRepo.Create(ctx, &models.Notification{
			UserID: manager.ID,
			Kind:   models.NotificationPaymentReview,
			Body:   body,
		})
	}
}

// AttachProof stores an uploaded payment screenshot and links it to the payment
func (s *paymentServiceImpl) AttachProof(ctx context.Context, id int64, file *multipart.FileHeader) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentPending {
		return nil, apperrors.ErrPaymentNotPending
	}

	proofURL, err := s.storage.SaveFile(file, "payment-proofs")
	if err != nil {
		if errors.Is(err, filestorage.ErrFileTooLarge) || errors.Is(err, filestorage.ErrFileTypeNotAllowed) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidationFailed, err.Error())
		}
		return nil, fmt.Errorf("error storing payment proof: %w", err)
	}

	if err := s.paymentRepo.SetProofURL(ctx, id, proofURL); err != nil {
		// Roll the file back so the storage directory does not collect orphans
		_ = s.storage.DeleteFile(proofURL)
		return nil, err
	}
	payment.ProofURL = &proofURL

	return payment, nil
}

// Verify approves or rejects a pending payment. Approving a renewal extends
// the student's subscription in the same transaction.
func (s *paymentServiceImpl) Verify(ctx context.Context, id int64, approve bool, note string, actorID int64) (*models.Payment, error) {
	var payment *models.Payment
	var student *models.Student

	err := db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		payment, err = s.paymentRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if payment.Status != models.PaymentPending {
			return apperrors.ErrPaymentNotPending
		}

		status := models.PaymentRejected
		if approve {
			status = models.PaymentVerified
		}
		if err := s.paymentRepo.DecideQ(ctx, tx, id, status, actorID, note); err != nil {
			return err
		}
		payment.Status = status
		payment.VerifiedBy = &actorID
		payment.Note = note

		if approve && payment.Kind == models.PaymentKindRenewal {
			student, err = s.studentRepo.GetByID(ctx, payment.StudentID)
			if err != nil {
				return err
			}
			newExpiry := student.ExtendSubscription(payment.Plan, time.Now())
			if err := s.studentRepo.ExtendSubscriptionQ(ctx, tx, student.ID, payment.Plan, newExpiry); err != nil {
				return err
			}
			student.SubExpiry = newExpiry
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyCounsellor(ctx, payment, approve)
	invalidateReports(ctx, s.reportCache)

	logger.Info().
		Int64("paymentID", id).
		Bool("approved", approve).
		Int64("actorID", actorID).
		Msg("Payment decided")

	return payment, nil
}

// notifyCounsellor tells the counsellor who owns the originating lead how the
// payment was decided
func (s *paymentServiceImpl) notifyCounsellor(ctx context.Context, payment *models.Payment, approve bool) {
	student, err := s.studentRepo.GetByID(ctx, payment.StudentID)
	if err != nil || student.LeadID == nil {
		return
	}
	lead, err := s.leadRepo.GetByID(ctx, *student.LeadID)
	if err != nil || lead.CounsellorID == nil {
		return
	}

	_ = s.notificationRepo.Create(ctx, &models.Notification{
		UserID: *lead.CounsellorID,
		Kind:   models.NotificationPaymentDecided,
		Body:   paymentDecidedBody(student.Name, payment.AmountPs, approve),
	})
}

// paymentDecidedBody composes the counsellor-facing verdict message
func paymentDecidedBody(studentName string, amountPs int64, approve bool) string {
	verdict := "was rejected"
	if approve {
		verdict = "is verified"
	}
	return fmt.Sprintf("%s's payment of ₹%s %s", studentName, upi.FormatRupees(amountPs), verdict)
}
