package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/app/services"
	"github.com/tanmay/courtside/internal/middleware"
)

// ReportController handles executive report operations
type ReportController struct {
	reportService services.ReportService
}

// NewReportController creates a new ReportController
func NewReportController(reportService services.ReportService) *ReportController {
	return &ReportController{
		reportService: reportService,
	}
}

// parsePeriod reads the from/to/centerId query params. The default window
// is the trailing 30 days.
func parsePeriod(ctx *gin.Context) dto.ReportPeriod {
	from, to := parseDateRange(ctx, 30)

	period := dto.ReportPeriod{From: from, To: to}
	if v := ctx.Query("centerId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			period.CenterID = id
		}
	}

	return period
}

// GetFunnel handles the lead conversion funnel report
// @Summary Funnel report
// @Description Summarizes lead progression through the pipeline for a period
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start (YYYY-MM-DD, default: 30 days ago)"
// @Param to query string false "Range end (YYYY-MM-DD, default: today)"
// @Param centerId query int false "Restrict to one center"
// @Success 200 {object} dto.APIResponse{data=dto.FunnelReport} "Report retrieved"
// @Router /reports/funnel [get]
func (c *ReportController) GetFunnel(ctx *gin.Context) {
	report, err := c.reportService.Funnel(ctx, parsePeriod(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report))
}

// GetRevenue handles the verified revenue report
// @Summary Revenue report
// @Description Summarizes verified payments by center and plan for a period
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start (YYYY-MM-DD, default: 30 days ago)"
// @Param to query string false "Range end (YYYY-MM-DD, default: today)"
// @Param centerId query int false "Restrict to one center"
// @Success 200 {object} dto.APIResponse{data=dto.RevenueReport} "Report retrieved"
// @Router /reports/revenue [get]
func (c *ReportController) GetRevenue(ctx *gin.Context) {
	report, err := c.reportService.Revenue(ctx, parsePeriod(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report))
}

// GetAttendance handles the batch attendance report
// @Summary Attendance report
// @Description Aggregates roll calls per batch for a period
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start (YYYY-MM-DD, default: 30 days ago)"
// @Param to query string false "Range end (YYYY-MM-DD, default: today)"
// @Param centerId query int false "Restrict to one center"
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceReport} "Report retrieved"
// @Router /reports/attendance [get]
func (c *ReportController) GetAttendance(ctx *gin.Context) {
	report, err := c.reportService.Attendance(ctx, parsePeriod(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(report))
}

// ExportReports handles downloading the reports as a spreadsheet
// @Summary Export reports
// @Description Generates the funnel, revenue and attendance reports as one XLSX download
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param from query string false "Range start (YYYY-MM-DD, default: 30 days ago)"
// @Param to query string false "Range end (YYYY-MM-DD, default: today)"
// @Param centerId query int false "Restrict to one center"
// @Success 200 {file} binary "Spreadsheet"
// @Router /reports/export [get]
func (c *ReportController) ExportReports(ctx *gin.Context) {
	period := parsePeriod(ctx)

	content, err := c.reportService.ExportXLSX(ctx, period)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	filename := fmt.Sprintf("reports_%s_%s.xlsx",
		period.From.Format("20060102"), period.To.Format("20060102"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

// InvalidateCache handles flushing cached reports
// @Summary Invalidate report cache
// @Description Drops all cached report payloads so the next request recomputes them
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Cache invalidated"
// @Router /reports/cache [delete]
func (c *ReportController) InvalidateCache(ctx *gin.Context) {
	c.reportService.InvalidateCache(ctx)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Report cache invalidated"}))
}
