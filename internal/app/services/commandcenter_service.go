package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tanmay/courtside/internal/app/models"
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/app/repositories"
	"github.com/tanmay/courtside/internal/pkg/helpers"
	"github.com/tanmay/courtside/internal/pkg/upi"
)

// Feed and heatmap sizing
const (
	feedLimit    = 20
	heatmapDays  = 14
	expiryWindow = 7
)

// CommandCenterService assembles the operations dashboard
type CommandCenterService interface {
	Dashboard(ctx context.Context, centerID int64) (*dto.CommandCenterResponse, error)
}

// commandCenterServiceImpl implements the CommandCenterService interface
type commandCenterServiceImpl struct {
	leadRepo     *repositories.LeadRepository
	followupRepo *repositories.FollowupRepository
	studentRepo  *repositories.StudentRepository
	paymentRepo  *repositories.PaymentRepository
	stagingRepo  *repositories.StagingRepository
}

// NewCommandCenterService creates a new command center service instance
func NewCommandCenterService(
	leadRepo *repositories.LeadRepository,
	followupRepo *repositories.FollowupRepository,
	studentRepo *repositories.StudentRepository,
	paymentRepo *repositories.PaymentRepository,
	stagingRepo *repositories.StagingRepository,
) CommandCenterService {
	return &commandCenterServiceImpl{
		leadRepo:     leadRepo,
		followupRepo: followupRepo,
		studentRepo:  studentRepo,
		paymentRepo:  paymentRepo,
		stagingRepo:  stagingRepo,
	}
}

// Dashboard builds the consolidated command center payload: a merged
// activity feed, the trial load heatmap and the day's attention counters.
func (s *commandCenterServiceImpl) Dashboard(ctx context.Context, centerID int64) (*dto.CommandCenterResponse, error) {
	feed, err := s.buildFeed(ctx, centerID)
	if err != nil {
		return nil, err
	}

	heatmap, err := s.buildHeatmap(ctx, centerID)
	if err != nil {
		return nil, err
	}

	overdue, err := s.followupRepo.CountOverdue(ctx, centerID)
	if err != nil {
		return nil, err
	}
	expiring, err := s.studentRepo.CountExpiringSoon(ctx, expiryWindow, centerID)
	if err != nil {
		return nil, err
	}
	pendingStaging, err := s.stagingRepo.CountPending(ctx)
	if err != nil {
		return nil, err
	}
	pendingPayments, err := s.paymentRepo.CountPending(ctx, centerID)
	if err != nil {
		return nil, err
	}

	return &dto.CommandCenterResponse{
		Feed:             feed,
		TrialHeatmap:     heatmap,
		OverdueFollowups: overdue,
		ExpiringSoon:     expiring,
		PendingStaging:   pendingStaging,
		PendingPayments:  pendingPayments,
	}, nil
}

// buildFeed merges lead movement and verified payments into one timeline
func (s *commandCenterServiceImpl) buildFeed(ctx context.Context, centerID int64) ([]dto.ActivityItem, error) {
	leads, err := s.leadRepo.GetRecentlyChanged(ctx, centerID, feedLimit)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.GetRecentVerified(ctx, centerID, feedLimit)
	if err != nil {
		return nil, err
	}

	feed := make([]dto.ActivityItem, 0, len(leads)+len(payments))
	for _, lead := range leads {
		leadID := lead.ID
		kind := "LEAD_MOVED"
		summary := fmt.Sprintf("%s moved to %s", lead.Name, lead.Status)
		if lead.Status == models.LeadNew {
			kind = "LEAD_CREATED"
			summary = fmt.Sprintf("%s came in via %s", lead.Name, lead.Source)
		}
		feed = append(feed, dto.ActivityItem{
			Kind:    kind,
			At:      lead.StatusChanged,
			Summary: summary,
			LeadID:  &leadID,
		})
	}
	for _, payment := range payments {
		feed = append(feed, dto.ActivityItem{
			Kind:    "PAYMENT_VERIFIED",
			At:      payment.UpdatedAt,
			Summary: fmt.Sprintf("₹%s %s payment verified", upi.FormatRupees(payment.AmountPs), payment.Plan),
		})
	}

	sort.Slice(feed, func(i, j int) bool { return feed[i].At.After(feed[j].At) })
	if len(feed) > feedLimit {
		feed = feed[:feedLimit]
	}

	return feed, nil
}

// buildHeatmap lays out scheduled trials over the coming two weeks. Every
// day appears, zero or not, so the UI can render a continuous strip.
func (s *commandCenterServiceImpl) buildHeatmap(ctx context.Context, centerID int64) ([]dto.HeatmapDay, error) {
	from := helpers.DateOnly(time.Now())
	to := from.AddDate(0, 0, heatmapDays)

	counts, err := s.leadRepo.TrialCountsByDay(ctx, from, to, centerID)
	if err != nil {
		return nil, err
	}

	heatmap := make([]dto.HeatmapDay, 0, heatmapDays)
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		heatmap = append(heatmap, dto.HeatmapDay{Date: day, Trials: counts[day]})
	}

	return heatmap, nil
}
