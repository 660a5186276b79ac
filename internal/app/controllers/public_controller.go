package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tanmay/courtside/internal/app/models"
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/app/services"
	"github.com/tanmay/courtside/internal/middleware"
)

// PublicController handles unauthenticated token-based forms: the join
// form sent to trial-attended leads and the renewal form sent to students.
type PublicController struct {
	studentService services.StudentService
}

// NewPublicController creates a new PublicController
func NewPublicController(studentService services.StudentService) *PublicController {
	return &PublicController{
		studentService: studentService,
	}
}

// GetJoinForm handles prefilling the public join form
// @Summary Get join form
// @Description Returns prefilled join form data for a lead's join token
// @Tags public
// @Produce json
// @Param token path string true "Join token"
// @Success 200 {object} dto.APIResponse{data=dto.JoinFormResponse} "Form data retrieved"
// @Failure 404 {object} dto.ErrorResponse "Unknown token"
// @Router /public/join/{token} [get]
func (c *PublicController) GetJoinForm(ctx *gin.Context) {
	form, err := c.studentService.JoinFormByToken(ctx, ctx.Param("token"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(form))
}

// SubmitJoinForm handles the public join form submission
// @Summary Submit join form
// @Description Converts the lead behind the token into an enrolled student and returns the payment link
// @Tags public
// @Accept json
// @Produce json
// @Param token path string true "Join token"
// @Param request body dto.JoinSubmissionRequest true "Chosen batch, plan and amount"
// @Success 201 {object} dto.APIResponse{data=dto.ConversionResponse} "Student enrolled"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or lead not eligible"
// @Failure 404 {object} dto.ErrorResponse "Unknown token"
// @Failure 409 {object} dto.ErrorResponse "Batch is full"
// @Router /public/join/{token} [post]
func (c *PublicController) SubmitJoinForm(ctx *gin.Context) {
	var req dto.JoinSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student, payment, err := c.studentService.JoinSubmitByToken(ctx, ctx.Param("token"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.ConversionResponse{
		Student: student,
		Payment: payment,
	}))
}

// GetRenewForm handles prefilling the public renewal form
// @Summary Get renewal form
// @Description Returns the subscription summary for a student's renewal token
// @Tags public
// @Produce json
// @Param token path string true "Renewal token"
// @Success 200 {object} dto.APIResponse{data=dto.RenewFormResponse} "Form data retrieved"
// @Failure 404 {object} dto.ErrorResponse "Unknown token"
// @Router /public/renew/{token} [get]
func (c *PublicController) GetRenewForm(ctx *gin.Context) {
	student, err := c.studentService.GetByRenewalToken(ctx, ctx.Param("token"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	form := dto.RenewFormResponse{
		Name:      student.Name,
		Sport:     student.Sport,
		Plan:      string(student.Plan),
		ExpiresAt: student.SubExpiry,
		Plans: []string{
			string(models.PlanMonthly), string(models.PlanQuarterly),
			string(models.PlanHalfYearly), string(models.PlanAnnual),
		},
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(form))
}

// SubmitRenewal handles the public renewal form submission
// @Summary Submit renewal
// @Description Creates a pending renewal payment and returns the UPI link. The subscription extends once the payment is verified.
// @Tags public
// @Accept json
// @Produce json
// @Param token path string true "Renewal token"
// @Param request body dto.RenewRequest true "Chosen plan and amount"
// @Success 201 {object} dto.APIResponse{data=dto.PaymentInitResponse} "Payment created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Unknown token"
// @Router /public/renew/{token} [post]
func (c *PublicController) SubmitRenewal(ctx *gin.Context) {
	var req dto.RenewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	payment, err := c.studentService.RenewByToken(ctx, ctx.Param("token"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(payment))
}
