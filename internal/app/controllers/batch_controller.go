package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/app/services"
	"github.com/tanmay/courtside/internal/middleware"
	"github.com/tanmay/courtside/internal/pkg/helpers"
)

// BatchController handles training batch and attendance operations
type BatchController struct {
	batchService      services.BatchService
	attendanceService services.AttendanceService
}

// NewBatchController creates a new BatchController
func NewBatchController(batchService services.BatchService, attendanceService services.AttendanceService) *BatchController {
	return &BatchController{
		batchService:      batchService,
		attendanceService: attendanceService,
	}
}

// CreateBatch handles creating a training batch
// @Summary Create a new batch
// @Description Creates a training batch with a weekly schedule and capacity
// @Tags batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBatchRequest true "Batch details"
// @Success 201 {object} dto.APIResponse{data=models.Batch} "Batch created"
// @Failure 400 {object} dto.ErrorResponse "Invalid schedule"
// @Failure 404 {object} dto.ErrorResponse "Center or coach not found"
// @Router /batches [post]
func (c *BatchController) CreateBatch(ctx *gin.Context) {
	var req dto.CreateBatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	batch, err := c.batchService.CreateBatch(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(batch))
}

// GetBatch handles retrieving a single batch
// @Summary Get batch by ID
// @Description Retrieves a batch with its center and coach
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Success 200 {object} dto.APIResponse{data=models.Batch} "Batch retrieved"
// @Failure 404 {object} dto.ErrorResponse "Batch not found"
// @Router /batches/{id} [get]
func (c *BatchController) GetBatch(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid batch ID")
		errorDetail = errorDetail.WithDetails("Batch ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	batch, err := c.batchService.GetBatch(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(batch))
}

// GetAllBatches handles listing batches with filters
// @Summary List batches
// @Description Retrieves batches with enrollment counts, optional filtering and pagination
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Param centerId query int false "Filter by center ID"
// @Param sport query string false "Filter by sport"
// @Param coachId query int false "Filter by coach ID"
// @Param day query string false "Filter by weekday code (MON..SUN)"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20)"
// @Success 200 {object} dto.APIResponse{data=dto.BatchListResponse} "Batches retrieved"
// @Router /batches [get]
func (c *BatchController) GetAllBatches(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	filter := dto.BatchFilter{
		Sport: ctx.Query("sport"),
	}
	if v := ctx.Query("centerId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.CenterID = id
		}
	}
	if v := ctx.Query("coachId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.CoachID = id
		}
	}
	if v := ctx.Query("day"); v != "" {
		filter.Weekday = strings.ToUpper(strings.TrimSpace(v))
	}
	if v := ctx.Query("active"); v != "" {
		if active, err := strconv.ParseBool(v); err == nil {
			filter.Active = &active
		}
	}

	batches, total, err := c.batchService.ListBatches(ctx, filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := dto.BatchListResponse{
		Batches:    batches,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// UpdateBatch handles editing a batch
// @Summary Update a batch
// @Description Updates batch schedule, coach, capacity or active flag
// @Tags batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Param request body dto.UpdateBatchRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Batch} "Batch updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid schedule"
// @Failure 404 {object} dto.ErrorResponse "Batch not found"
// @Router /batches/{id} [put]
func (c *BatchController) UpdateBatch(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid batch ID")
		errorDetail = errorDetail.WithDetails("Batch ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdateBatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	batch, err := c.batchService.UpdateBatch(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(batch))
}

// AssignCoach handles assigning a coach to a batch
// @Summary Assign coach
// @Description Assigns an active coach to the batch
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Param coachId path int true "Coach user ID"
// @Success 200 {object} dto.APIResponse{data=models.Batch} "Coach assigned"
// @Failure 400 {object} dto.ErrorResponse "User is not an active coach"
// @Failure 404 {object} dto.ErrorResponse "Batch not found"
// @Router /batches/{id}/coach/{coachId} [put]
func (c *BatchController) AssignCoach(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid batch ID")
		errorDetail = errorDetail.WithDetails("Batch ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	coachID, err := strconv.ParseInt(ctx.Param("coachId"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid coach ID")
		errorDetail = errorDetail.WithDetails("Coach ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	batch, err := c.batchService.AssignCoach(ctx, id, coachID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(batch))
}

// GetMyBatches handles listing the authenticated coach's batches
// @Summary List own batches
// @Description Retrieves the active batches assigned to the authenticated coach
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Batch} "Batches retrieved"
// @Router /batches/mine [get]
func (c *BatchController) GetMyBatches(ctx *gin.Context) {
	batches, err := c.batchService.ListCoachBatches(ctx, middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(batches))
}

// MarkAttendance handles recording a roll call
// @Summary Mark attendance
// @Description Records attendance for a batch session. Re-marking a date overwrites earlier marks.
// @Tags batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Param request body dto.MarkAttendanceRequest true "Session date and per-student marks"
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceSheetResponse} "Attendance recorded"
// @Failure 400 {object} dto.ErrorResponse "A marked student is not in the batch roster"
// @Failure 404 {object} dto.ErrorResponse "Batch not found"
// @Router /batches/{id}/attendance [post]
func (c *BatchController) MarkAttendance(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid batch ID")
		errorDetail = errorDetail.WithDetails("Batch ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.MarkAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	sheet, err := c.attendanceService.MarkAttendance(ctx, id, &req, middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(sheet))
}

// GetAttendanceSheet handles retrieving the roll call for a date
// @Summary Get attendance sheet
// @Description Retrieves the batch roster with any recorded marks for a date
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Param date query string false "Session date (YYYY-MM-DD, default: today)"
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceSheetResponse} "Sheet retrieved"
// @Failure 404 {object} dto.ErrorResponse "Batch not found"
// @Router /batches/{id}/attendance [get]
func (c *BatchController) GetAttendanceSheet(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid batch ID")
		errorDetail = errorDetail.WithDetails("Batch ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	date := helpers.DateOnly(time.Now())
	if v := ctx.Query("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid date")
			errorDetail = errorDetail.WithDetails("Date must be formatted YYYY-MM-DD")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		date = parsed
	}

	sheet, err := c.attendanceService.GetSheet(ctx, id, date)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(sheet))
}
