package dto

import (
	"github.com/tanmay/courtside/internal/app/models"
)

// SubmitUTRRequest attaches a UPI transaction reference to a pending payment
type SubmitUTRRequest struct {
	UTR string `json:"utr" binding:"required" example:"412345678901"`
}

// VerifyPaymentRequest records a manual verification decision
type VerifyPaymentRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note,omitempty"`
}

// PaymentFilter carries list filters parsed from query parameters
type PaymentFilter struct {
	Status    string
	CenterID  int64
	StudentID int64
}

// PaymentListResponse represents a page of payments
type PaymentListResponse struct {
	Payments   []*models.Payment `json:"payments"`
	Pagination PaginationInfo    `json:"pagination"`
}
