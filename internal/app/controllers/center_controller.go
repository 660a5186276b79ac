package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/app/services"
	"github.com/tanmay/courtside/internal/middleware"
)

// CenterController handles academy center operations
type CenterController struct {
	centerService services.CenterService
}

// NewCenterController creates a new CenterController
func NewCenterController(centerService services.CenterService) *CenterController {
	return &CenterController{
		centerService: centerService,
	}
}

// CreateCenter handles creating a center
// @Summary Create a new center
// @Description Creates an academy center with its UPI collection VPA
// @Tags centers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCenterRequest true "Center details"
// @Success 201 {object} dto.APIResponse{data=models.Center} "Center created"
// @Failure 400 {object} dto.ErrorResponse "Malformed UPI VPA"
// @Failure 409 {object} dto.ErrorResponse "Center code already exists"
// @Router /centers [post]
func (c *CenterController) CreateCenter(ctx *gin.Context) {
	var req dto.CreateCenterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	center, err := c.centerService.CreateCenter(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(center))
}

// GetCenter handles retrieving a single center
// @Summary Get center by ID
// @Description Retrieves an academy center
// @Tags centers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Center ID"
// @Success 200 {object} dto.APIResponse{data=models.Center} "Center retrieved"
// @Failure 404 {object} dto.ErrorResponse "Center not found"
// @Router /centers/{id} [get]
func (c *CenterController) GetCenter(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid center ID")
		errorDetail = errorDetail.WithDetails("Center ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	center, err := c.centerService.GetCenter(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(center))
}

// GetAllCenters handles listing centers
// @Summary List centers
// @Description Retrieves all academy centers
// @Tags centers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CenterListResponse} "Centers retrieved"
// @Router /centers [get]
func (c *CenterController) GetAllCenters(ctx *gin.Context) {
	centers, err := c.centerService.ListCenters(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CenterListResponse{Centers: centers}))
}

// UpdateCenter handles editing a center
// @Summary Update a center
// @Description Updates center contact fields, UPI VPA or active flag
// @Tags centers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Center ID"
// @Param request body dto.UpdateCenterRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Center} "Center updated"
// @Failure 400 {object} dto.ErrorResponse "Malformed UPI VPA"
// @Failure 404 {object} dto.ErrorResponse "Center not found"
// @Router /centers/{id} [put]
func (c *CenterController) UpdateCenter(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid center ID")
		errorDetail = errorDetail.WithDetails("Center ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdateCenterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	center, err := c.centerService.UpdateCenter(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(center))
}

// DeleteCenter handles removing a center
// @Summary Delete a center
// @Description Deletes a center that has no leads, students or batches
// @Tags centers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Center ID"
// @Success 204 "Center deleted"
// @Failure 404 {object} dto.ErrorResponse "Center not found"
// @Failure 409 {object} dto.ErrorResponse "Center still has related records"
// @Router /centers/{id} [delete]
func (c *CenterController) DeleteCenter(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid center ID")
		errorDetail = errorDetail.WithDetails("Center ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.centerService.DeleteCenter(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, nil)
}
