package dto

import (
	"time"

	"github.com/tanmay/courtside/internal/app/models"
)

// ConvertLeadRequest turns a trial-attended lead into a paying student
type ConvertLeadRequest struct {
	BatchID     int64  `json:"batchId" binding:"required,min=1"`
	Plan        string `json:"plan" binding:"required" example:"QUARTERLY"`
	AmountPaise int64  `json:"amountPaise" binding:"required,min=1"`
	StartDate   *time.Time `json:"startDate,omitempty"` // Defaults to today
}

// UpdateStudentRequest represents editable student fields
type UpdateStudentRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty" binding:"omitempty,email"`
	BatchID *int64  `json:"batchId,omitempty"`
	Status  *string `json:"status,omitempty" example:"ON_BREAK"`
}

// StudentFilter carries list filters parsed from query parameters
type StudentFilter struct {
	Status       string
	CenterID     int64
	BatchID      int64
	Search       string // Matches name or phone
	ExpiringDays int    // Only students whose subscription expires within N days
}

// StudentListResponse represents a page of students
type StudentListResponse struct {
	Students   []*models.Student `json:"students"`
	Pagination PaginationInfo    `json:"pagination"`
}

// RenewRequest renews a subscription through the public token form
type RenewRequest struct {
	Plan        string `json:"plan" binding:"required" example:"MONTHLY"`
	AmountPaise int64  `json:"amountPaise" binding:"required,min=1"`
}

// JoinFormResponse prefills the public join form from a lead
type JoinFormResponse struct {
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	Email  *string `json:"email,omitempty"`
	Sport  string  `json:"sport"`
	Center string  `json:"center"`
	Plans  []string `json:"plans"`
}

// RenewFormResponse prefills the public renewal form
type RenewFormResponse struct {
	Name      string    `json:"name"`
	Sport     string    `json:"sport"`
	Plan      string    `json:"plan"`
	ExpiresAt time.Time `json:"expiresAt"`
	Plans     []string  `json:"plans"`
}

// JoinSubmissionRequest completes the public join form
type JoinSubmissionRequest struct {
	BatchID     int64  `json:"batchId" binding:"required,min=1"`
	Plan        string `json:"plan" binding:"required"`
	AmountPaise int64  `json:"amountPaise" binding:"required,min=1"`
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
}

// ConversionResponse carries the enrolled student and the joining payment link
type ConversionResponse struct {
	Student *models.Student     `json:"student"`
	Payment *PaymentInitResponse `json:"payment"`
}

// PaymentInitResponse carries the UPI deep link for a created payment
type PaymentInitResponse struct {
	PaymentID int64  `json:"paymentId"`
	UPILink   string `json:"upiLink" example:"upi://pay?pa=courtside.blr@okaxis&am=4500.00&cu=INR"`
	Amount    string `json:"amount" example:"4500.00"`
}
