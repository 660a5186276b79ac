package dto

import (
	"github.com/tanmay/courtside/internal/app/models"
)

// CreateStagingRequest stages a bulk action over a set of leads for approval
type CreateStagingRequest struct {
	Kind        string  `json:"kind" binding:"required" example:"REASSIGN"`
	LeadIDs     []int64 `json:"leadIds" binding:"required,min=1"`
	TargetValue string  `json:"targetValue" binding:"required" example:"7"`
	Reason      string  `json:"reason,omitempty"`
}

// DecideStagingRequest approves or rejects a pending staged action
type DecideStagingRequest struct {
	Approve bool   `json:"approve"`
	Message string `json:"message,omitempty"`
}

// StagingFilter carries list filters parsed from query parameters
type StagingFilter struct {
	Status      string
	RequestedBy int64
}

// StagingListResponse represents a page of staged actions
type StagingListResponse struct {
	Actions    []*models.StagingAction `json:"actions"`
	Pagination PaginationInfo          `json:"pagination"`
}

// StagingDecisionResponse couples the decided action with its apply outcome.
// Result is nil for rejections.
type StagingDecisionResponse struct {
	Action *models.StagingAction `json:"action"`
	Result *StagingApplyResult   `json:"result,omitempty"`
}

// StagingApplyResult reports the outcome of an approved action. Application
// is all or nothing, so Applied always equals the action's lead count.
type StagingApplyResult struct {
	Applied int `json:"applied"`
}
