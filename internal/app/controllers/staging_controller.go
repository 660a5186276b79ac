package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/app/services"
	"github.com/tanmay/courtside/internal/middleware"
	"github.com/tanmay/courtside/internal/pkg/helpers"
)

// StagingController handles staged bulk-action approval operations
type StagingController struct {
	stagingService services.StagingService
}

// NewStagingController creates a new StagingController
func NewStagingController(stagingService services.StagingService) *StagingController {
	return &StagingController{
		stagingService: stagingService,
	}
}

// CreateAction handles staging a bulk action
// @Summary Stage a bulk action
// @Description Stages a bulk lead operation for manager approval instead of applying it directly
// @Tags staging
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStagingRequest true "Action kind, leads and target"
// @Success 201 {object} dto.APIResponse{data=models.StagingAction} "Action staged"
// @Failure 400 {object} dto.ErrorResponse "Invalid kind or target"
// @Router /staging [post]
func (c *StagingController) CreateAction(ctx *gin.Context) {
	var req dto.CreateStagingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	action, err := c.stagingService.CreateAction(ctx, &req, middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(action))
}

// GetAction handles retrieving a single staged action
// @Summary Get staged action by ID
// @Description Retrieves a staged action with its decision state
// @Tags staging
// @Produce json
// @Security BearerAuth
// @Param id path int true "Action ID"
// @Success 200 {object} dto.APIResponse{data=models.StagingAction} "Action retrieved"
// @Failure 404 {object} dto.ErrorResponse "Action not found"
// @Router /staging/{id} [get]
func (c *StagingController) GetAction(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid action ID")
		errorDetail = errorDetail.WithDetails("Action ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	action, err := c.stagingService.GetAction(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(action))
}

// GetAllActions handles listing staged actions
// @Summary List staged actions
// @Description Retrieves staged actions with optional filtering and pagination
// @Tags staging
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (PENDING, APPROVED, REJECTED)"
// @Param requestedBy query int false "Filter by requesting user"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20)"
// @Success 200 {object} dto.APIResponse{data=dto.StagingListResponse} "Actions retrieved"
// @Router /staging [get]
func (c *StagingController) GetAllActions(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	filter := dto.StagingFilter{
		Status: strings.ToUpper(ctx.Query("status")),
	}
	if v := ctx.Query("requestedBy"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.RequestedBy = id
		}
	}

	actions, total, err := c.stagingService.ListActions(ctx, filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := dto.StagingListResponse{
		Actions:    actions,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// DecideAction handles approving or rejecting a staged action
// @Summary Decide a staged action
// @Description Approves or rejects a pending staged action. Approval applies the action to every lead in one transaction; any lead that cannot take the change aborts it.
// @Tags staging
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Action ID"
// @Param request body dto.DecideStagingRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.StagingDecisionResponse} "Decision recorded"
// @Failure 404 {object} dto.ErrorResponse "Action not found"
// @Failure 409 {object} dto.ErrorResponse "Action already decided"
// @Router /staging/{id}/decide [post]
func (c *StagingController) DecideAction(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid action ID")
		errorDetail = errorDetail.WithDetails("Action ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.DecideStagingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	action, result, err := c.stagingService.Decide(ctx, id, req.Approve, req.Message, middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.StagingDecisionResponse{
		Action: action,
		Result: result,
	}))
}
