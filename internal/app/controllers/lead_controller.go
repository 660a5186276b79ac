package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tanmay/courtside/internal/app/models"
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/app/services"
	"github.com/tanmay/courtside/internal/config"
	"github.com/tanmay/courtside/internal/middleware"
	"github.com/tanmay/courtside/internal/pkg/helpers"
)

// LeadController handles lead pipeline operations
type LeadController struct {
	leadService services.LeadService
	cfg         *config.Config
}

// NewLeadController creates a new LeadController
func NewLeadController(leadService services.LeadService, cfg *config.Config) *LeadController {
	return &LeadController{
		leadService: leadService,
		cfg:         cfg,
	}
}

// CreateLead handles lead intake
// @Summary Create a new lead
// @Description Registers a new enquiry in the pipeline with status NEW
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLeadRequest true "Lead details"
// @Success 201 {object} dto.APIResponse{data=models.Lead} "Lead created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "An open lead with this phone already exists"
// @Router /leads [post]
func (c *LeadController) CreateLead(ctx *gin.Context) {
	var req dto.CreateLeadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	lead, err := c.leadService.CreateLead(ctx, &req, middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(lead))
}

// GetLead handles retrieving a single lead
// @Summary Get lead by ID
// @Description Retrieves a lead with its current pipeline status
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} dto.APIResponse{data=models.Lead} "Lead retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid lead ID"
// @Failure 404 {object} dto.ErrorResponse "Lead not found"
// @Router /leads/{id} [get]
func (c *LeadController) GetLead(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lead ID")
		errorDetail = errorDetail.WithDetails("Lead ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	lead, err := c.leadService.GetLead(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(lead))
}

// GetAllLeads handles listing leads with filters
// @Summary List leads
// @Description Retrieves leads with optional filtering and pagination
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by pipeline status"
// @Param centerId query int false "Filter by center ID"
// @Param sport query string false "Filter by sport"
// @Param source query string false "Filter by source"
// @Param counsellorId query int false "Filter by assigned counsellor"
// @Param search query string false "Match against name or phone"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20)"
// @Success 200 {object} dto.APIResponse{data=dto.LeadListResponse} "Leads retrieved"
// @Router /leads [get]
func (c *LeadController) GetAllLeads(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	filter := dto.LeadFilter{
		Status: strings.ToUpper(ctx.Query("status")),
		Sport:  ctx.Query("sport"),
		Source: ctx.Query("source"),
		Search: ctx.Query("search"),
	}
	if v := ctx.Query("centerId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.CenterID = id
		}
	}
	if v := ctx.Query("counsellorId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.CounsellorID = id
		}
	}

	leads, total, err := c.leadService.ListLeads(ctx, filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := dto.LeadListResponse{
		Leads:      leads,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// UpdateLead handles editing lead contact fields
// @Summary Update a lead
// @Description Updates lead contact fields. Status changes must go through the transition endpoint.
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param request body dto.UpdateLeadRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Lead} "Lead updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Lead not found"
// @Router /leads/{id} [put]
func (c *LeadController) UpdateLead(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lead ID")
		errorDetail = errorDetail.WithDetails("Lead ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdateLeadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	lead, err := c.leadService.UpdateLead(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(lead))
}

// DeleteLead handles removing a lead
// @Summary Delete a lead
// @Description Deletes a lead and its followups
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 204 "Lead deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid lead ID"
// @Failure 404 {object} dto.ErrorResponse "Lead not found"
// @Router /leads/{id} [delete]
func (c *LeadController) DeleteLead(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lead ID")
		errorDetail = errorDetail.WithDetails("Lead ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.leadService.DeleteLead(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, nil)
}

// TransitionLead handles a pipeline status change
// @Summary Move a lead to a new status
// @Description Applies a pipeline transition. Illegal moves are rejected with the allowed next statuses.
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param request body dto.TransitionLeadRequest true "Target status and optional note"
// @Success 200 {object} dto.APIResponse{data=models.Lead} "Lead moved"
// @Failure 400 {object} dto.ErrorResponse "Illegal transition"
// @Failure 404 {object} dto.ErrorResponse "Lead not found"
// @Failure 409 {object} dto.ErrorResponse "Lead is in a terminal status"
// @Router /leads/{id}/transition [post]
func (c *LeadController) TransitionLead(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lead ID")
		errorDetail = errorDetail.WithDetails("Lead ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.TransitionLeadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	to := models.LeadStatus(strings.ToUpper(req.Status))
	lead, err := c.leadService.TransitionLead(ctx, id, to, req.Note, middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(lead))
}

// ScheduleTrial handles booking a trial session
// @Summary Schedule a trial
// @Description Books a trial session in a batch and moves the lead to TRIAL_SCHEDULED
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param request body dto.ScheduleTrialRequest true "Batch and trial time"
// @Success 200 {object} dto.APIResponse{data=models.Lead} "Trial scheduled"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or trial time in the past"
// @Failure 404 {object} dto.ErrorResponse "Lead or batch not found"
// @Router /leads/{id}/trial [post]
func (c *LeadController) ScheduleTrial(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lead ID")
		errorDetail = errorDetail.WithDetails("Lead ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.ScheduleTrialRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	lead, err := c.leadService.ScheduleTrial(ctx, id, req.BatchID, req.TrialAt, middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(lead))
}

// RecordTrialOutcome handles marking a trial attended or missed
// @Summary Record trial outcome
// @Description Marks the scheduled trial as attended or missed and moves the lead accordingly
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param request body dto.TrialOutcomeRequest true "Outcome"
// @Success 200 {object} dto.APIResponse{data=models.Lead} "Outcome recorded"
// @Failure 400 {object} dto.ErrorResponse "Lead has no scheduled trial"
// @Failure 404 {object} dto.ErrorResponse "Lead not found"
// @Router /leads/{id}/trial/outcome [post]
func (c *LeadController) RecordTrialOutcome(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lead ID")
		errorDetail = errorDetail.WithDetails("Lead ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.TrialOutcomeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	lead, err := c.leadService.RecordTrialOutcome(ctx, id, req.Attended, req.Note, middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(lead))
}

// AddFollowup handles adding a dated followup task to a lead
// @Summary Add a followup
// @Description Creates a dated followup task on a lead
// @Tags leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param request body dto.CreateFollowupRequest true "Due time and note"
// @Success 201 {object} dto.APIResponse{data=models.Followup} "Followup created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Lead not found"
// @Router /leads/{id}/followups [post]
func (c *LeadController) AddFollowup(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lead ID")
		errorDetail = errorDetail.WithDetails("Lead ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.CreateFollowupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	followup, err := c.leadService.AddFollowup(ctx, id, middleware.GetUserID(ctx), req.DueAt, req.Note)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(followup))
}

// GetFollowups handles listing a lead's followups
// @Summary List followups
// @Description Retrieves all followups of a lead ordered by due time
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Followup} "Followups retrieved"
// @Failure 404 {object} dto.ErrorResponse "Lead not found"
// @Router /leads/{id}/followups [get]
func (c *LeadController) GetFollowups(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lead ID")
		errorDetail = errorDetail.WithDetails("Lead ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	followups, err := c.leadService.ListFollowups(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(followups))
}

// CompleteFollowup handles marking a followup as done
// @Summary Complete a followup
// @Description Marks a followup task as completed
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param followupId path int true "Followup ID"
// @Success 200 {object} dto.APIResponse "Followup completed"
// @Failure 404 {object} dto.ErrorResponse "Followup not found or already completed"
// @Router /leads/{id}/followups/{followupId}/complete [post]
func (c *LeadController) CompleteFollowup(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lead ID")
		errorDetail = errorDetail.WithDetails("Lead ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	followupID, err := strconv.ParseInt(ctx.Param("followupId"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid followup ID")
		errorDetail = errorDetail.WithDetails("Followup ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.leadService.CompleteFollowup(ctx, id, followupID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Followup completed"}))
}

// GetWhatsAppLink handles composing a wa.me deep link for a lead
// @Summary Get WhatsApp link
// @Description Composes a wa.me link with a message template matching the lead's status
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param template query string false "Template name (intro, trial_reminder, join)"
// @Success 200 {object} dto.APIResponse{data=dto.WhatsAppLinkResponse} "Link composed"
// @Failure 400 {object} dto.ErrorResponse "Unknown template"
// @Failure 404 {object} dto.ErrorResponse "Lead not found"
// @Router /leads/{id}/whatsapp [get]
func (c *LeadController) GetWhatsAppLink(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lead ID")
		errorDetail = errorDetail.WithDetails("Lead ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	link, err := c.leadService.WhatsAppLink(ctx, id, ctx.Query("template"), c.cfg.Server.BaseURL)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(link))
}
