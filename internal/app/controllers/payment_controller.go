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

// PaymentController handles UPI payment operations
type PaymentController struct {
	paymentService services.PaymentService
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(paymentService services.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// GetPayment handles retrieving a single payment
// @Summary Get payment by ID
// @Description Retrieves a payment with its verification state
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} dto.APIResponse{data=models.Payment} "Payment retrieved"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Router /payments/{id} [get]
func (c *PaymentController) GetPayment(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid payment ID")
		errorDetail = errorDetail.WithDetails("Payment ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	payment, err := c.paymentService.GetPayment(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(payment))
}

// GetAllPayments handles listing payments with filters
// @Summary List payments
// @Description Retrieves payments with optional filtering and pagination
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (PENDING, VERIFIED, REJECTED)"
// @Param centerId query int false "Filter by center ID"
// @Param studentId query int false "Filter by student ID"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20)"
// @Success 200 {object} dto.APIResponse{data=dto.PaymentListResponse} "Payments retrieved"
// @Router /payments [get]
func (c *PaymentController) GetAllPayments(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	filter := dto.PaymentFilter{
		Status: strings.ToUpper(ctx.Query("status")),
	}
	if v := ctx.Query("centerId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.CenterID = id
		}
	}
	if v := ctx.Query("studentId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.StudentID = id
		}
	}

	payments, total, err := c.paymentService.ListPayments(ctx, filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := dto.PaymentListResponse{
		Payments:   payments,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// SubmitUTR handles attaching a UPI transaction reference to a pending payment
// @Summary Submit UTR
// @Description Attaches the UPI transaction reference to a pending payment and notifies reviewers
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Param request body dto.SubmitUTRRequest true "Transaction reference"
// @Success 200 {object} dto.APIResponse{data=models.Payment} "UTR recorded"
// @Failure 400 {object} dto.ErrorResponse "Malformed UTR"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Failure 409 {object} dto.ErrorResponse "Payment is not pending"
// @Router /payments/{id}/utr [post]
func (c *PaymentController) SubmitUTR(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid payment ID")
		errorDetail = errorDetail.WithDetails("Payment ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.SubmitUTRRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	payment, err := c.paymentService.SubmitUTR(ctx, id, req.UTR)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(payment))
}

// AttachProof handles uploading a payment screenshot
// @Summary Upload payment proof
// @Description Attaches a payment screenshot to a pending payment
// @Tags payments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Param file formData file true "Screenshot file"
// @Success 200 {object} dto.APIResponse{data=models.Payment} "Proof attached"
// @Failure 400 {object} dto.ErrorResponse "Invalid or missing file"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Failure 409 {object} dto.ErrorResponse "Payment is not pending"
// @Router /payments/{id}/proof [post]
func (c *PaymentController) AttachProof(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid payment ID")
		errorDetail = errorDetail.WithDetails("Payment ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid or missing file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	payment, err := c.paymentService.AttachProof(ctx, id, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(payment))
}

// VerifyPayment handles the manual verification decision
// @Summary Verify a payment
// @Description Approves or rejects a pending payment. Approving a renewal extends the subscription.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Param request body dto.VerifyPaymentRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.Payment} "Decision recorded"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Failure 409 {object} dto.ErrorResponse "Payment is not pending"
// @Router /payments/{id}/verify [post]
func (c *PaymentController) VerifyPayment(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid payment ID")
		errorDetail = errorDetail.WithDetails("Payment ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.VerifyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	payment, err := c.paymentService.Verify(ctx, id, req.Approve, req.Note, middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(payment))
}
