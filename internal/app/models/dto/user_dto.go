package dto

import (
	"github.com/tanmay/courtside/internal/app/models"
)

// CreateUserRequest represents the data needed to create a staff account
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	RoleType  string `json:"roleType" binding:"required" example:"COUNSELLOR"`
	CenterID  *int64 `json:"centerId,omitempty"`
}

// UpdateUserRequest represents editable staff account fields
type UpdateUserRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	RoleType  *string `json:"roleType,omitempty"`
	CenterID  *int64  `json:"centerId,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// ChangePasswordRequest updates the caller's own password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// UserFilter carries list filters parsed from query parameters
type UserFilter struct {
	RoleType string
	CenterID int64
	Active   *bool
}

// UserListResponse represents a page of staff accounts
type UserListResponse struct {
	Users      []*models.User `json:"users"`
	Pagination PaginationInfo `json:"pagination"`
}
