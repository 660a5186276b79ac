package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tanmay/courtside/internal/app/models"
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/app/repositories"
	"github.com/tanmay/courtside/internal/pkg/cache"
	"github.com/tanmay/courtside/internal/pkg/logger"
	"github.com/tanmay/courtside/internal/pkg/upi"
)

// reportCacheTTL bounds how stale a cached report may be
const reportCacheTTL = 5 * time.Minute

// reportCachePrefix keys every cached report aggregate
const reportCachePrefix = "report:"

// invalidateReports drops cached aggregates after a write to the tables the
// reports read from. Safe on a disabled cache.
func invalidateReports(ctx context.Context, c *cache.Cache) {
	c.InvalidatePrefix(ctx, reportCachePrefix)
}

// funnelOrder is the display order of pipeline stages in reports
var funnelOrder = []models.LeadStatus{
	models.LeadNew, models.LeadCalled, models.LeadTrialScheduled,
	models.LeadTrialAttended, models.LeadJoined, models.LeadNurture,
	models.LeadOnBreak, models.LeadDead,
}

// ReportService defines the interface for executive reporting
type ReportService interface {
	Funnel(ctx context.Context, period dto.ReportPeriod) (*dto.FunnelReport, error)
	Revenue(ctx context.Context, period dto.ReportPeriod) (*dto.RevenueReport, error)
	Attendance(ctx context.Context, period dto.ReportPeriod) (*dto.AttendanceReport, error)
	ExportXLSX(ctx context.Context, period dto.ReportPeriod) ([]byte, error)
	InvalidateCache(ctx context.Context)
}

// reportServiceImpl implements the ReportService interface
type reportServiceImpl struct {
	leadRepo       *repositories.LeadRepository
	paymentRepo    *repositories.PaymentRepository
	attendanceRepo *repositories.AttendanceRepository
	cache          *cache.Cache
}

// NewReportService creates a new report service instance
func NewReportService(
	leadRepo *repositories.LeadRepository,
	paymentRepo *repositories.PaymentRepository,
	attendanceRepo *repositories.AttendanceRepository,
	reportCache *cache.Cache,
) ReportService {
	return &reportServiceImpl{
		leadRepo:       leadRepo,
		paymentRepo:    paymentRepo,
		attendanceRepo: attendanceRepo,
		cache:          reportCache,
	}
}

func cacheKey(report string, period dto.ReportPeriod) string {
	return fmt.Sprintf(reportCachePrefix+"%s:%d:%d:%d",
		report, period.From.Unix(), period.To.Unix(), period.CenterID)
}

// Funnel summarizes lead progression for a period
func (s *reportServiceImpl) Funnel(ctx context.Context, period dto.ReportPeriod) (*dto.FunnelReport, error) {
	var cached dto.FunnelReport
	key := cacheKey("funnel", period)
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	byStatus, err := s.leadRepo.CountByStatus(ctx, period.From, period.To, period.CenterID)
	if err != nil {
		return nil, err
	}
	bySource, err := s.leadRepo.CountBySource(ctx, period.From, period.To, period.CenterID)
	if err != nil {
		return nil, err
	}

	report := &dto.FunnelReport{
		From:     period.From,
		To:       period.To,
		BySource: bySource,
	}
	var total, joined int64
	for _, status := range funnelOrder {
		count := byStatus[status]
		report.Stages = append(report.Stages, dto.FunnelStage{Status: string(status), Count: count})
		total += count
		if status == models.LeadJoined {
			joined = count
		}
	}
	if total > 0 {
		report.ConversionRate = float64(joined) / float64(total)
	}

	s.cache.Set(ctx, key, report, reportCacheTTL)
	return report, nil
}

// Revenue summarizes verified payments for a period
func (s *reportServiceImpl) Revenue(ctx context.Context, period dto.ReportPeriod) (*dto.RevenueReport, error) {
	var cached dto.RevenueReport
	key := cacheKey("revenue", period)
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	byCenter, err := s.paymentRepo.RevenueByCenter(ctx, period.From, period.To)
	if err != nil {
		return nil, err
	}
	byPlan, err := s.paymentRepo.RevenueByPlan(ctx, period.From, period.To, period.CenterID)
	if err != nil {
		return nil, err
	}

	report := &dto.RevenueReport{
		From:   period.From,
		To:     period.To,
		ByPlan: byPlan,
	}
	for _, row := range byCenter {
		if period.CenterID > 0 && row.CenterID != period.CenterID {
			continue
		}
		report.ByCenter = append(report.ByCenter, row)
		report.TotalPaise += row.AmountPaise
	}

	s.cache.Set(ctx, key, report, reportCacheTTL)
	return report, nil
}

// Attendance summarizes roll calls for a period
func (s *reportServiceImpl) Attendance(ctx context.Context, period dto.ReportPeriod) (*dto.AttendanceReport, error) {
	var cached dto.AttendanceReport
	key := cacheKey("attendance", period)
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	byBatch, err := s.attendanceRepo.AggregateByBatch(ctx, period.From, period.To, period.CenterID)
	if err != nil {
		return nil, err
	}

	report := &dto.AttendanceReport{
		From:    period.From,
		To:      period.To,
		ByBatch: byBatch,
	}

	s.cache.Set(ctx, key, report, reportCacheTTL)
	return report, nil
}

// setRow writes one row of values starting at column 1
func setRow(f *excelize.File, sheet string, rowNum int, values ...interface{}) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, rowNum)
		f.SetCellValue(sheet, cell, v)
	}
}

// ExportXLSX renders the funnel, revenue and attendance reports as one Excel
// workbook with a sheet per report
func (s *reportServiceImpl) ExportXLSX(ctx context.Context, period dto.ReportPeriod) ([]byte, error) {
	funnel, err := s.Funnel(ctx, period)
	if err != nil {
		return nil, err
	}
	revenue, err := s.Revenue(ctx, period)
	if err != nil {
		return nil, err
	}
	attendance, err := s.Attendance(ctx, period)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close workbook")
		}
	}()

	f.SetSheetName("Sheet1", "Funnel")
	setRow(f, "Funnel", 1, "Stage", "Leads")
	for i, stage := range funnel.Stages {
		setRow(f, "Funnel", i+2, stage.Status, stage.Count)
	}
	setRow(f, "Funnel", len(funnel.Stages)+2, "Conversion rate",
		fmt.Sprintf("%.1f%%", funnel.ConversionRate*100))

	f.NewSheet("Revenue")
	setRow(f, "Revenue", 1, "Center", "Payments", "Revenue (INR)")
	for i, row := range revenue.ByCenter {
		setRow(f, "Revenue", i+2, row.CenterName, row.Payments, upi.FormatRupees(row.AmountPaise))
	}
	setRow(f, "Revenue", len(revenue.ByCenter)+2, "Total", "", upi.FormatRupees(revenue.TotalPaise))

	f.NewSheet("Attendance")
	setRow(f, "Attendance", 1, "Batch", "Present", "Absent", "Late", "Rate")
	for i, row := range attendance.ByBatch {
		setRow(f, "Attendance", i+2, row.BatchName, row.Present, row.Absent, row.Late,
			fmt.Sprintf("%.1f%%", row.Rate*100))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}

	return buf.Bytes(), nil
}

// InvalidateCache drops every cached report, called after bulk mutations
func (s *reportServiceImpl) InvalidateCache(ctx context.Context) {
	s.cache.InvalidatePrefix(ctx, reportCachePrefix)
}
