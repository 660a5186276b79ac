package dto

import (
	"github.com/tanmay/courtside/internal/app/models"
)

// CreateCenterRequest represents the data needed to create a center
type CreateCenterRequest struct {
	Name    string `json:"name" binding:"required" example:"Courtside Indiranagar"`
	Code    string `json:"code" binding:"required" example:"BLR-IND"`
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required" example:"Bengaluru"`
	UPIVPA  string `json:"upiVpa" binding:"required" example:"courtside.ind@okaxis"`
}

// UpdateCenterRequest represents editable center fields
type UpdateCenterRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
	UPIVPA  *string `json:"upiVpa,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// CenterListResponse represents all centers visible to the caller
type CenterListResponse struct {
	Centers []*models.Center `json:"centers"`
}

// NotificationListResponse represents a page of notifications
type NotificationListResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
	Pagination    PaginationInfo         `json:"pagination"`
}
