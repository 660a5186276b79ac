package dto

import (
	"time"

	"github.com/tanmay/courtside/internal/app/models"
)

// CreateLeadRequest represents lead intake data
type CreateLeadRequest struct {
	Name         string     `json:"name" binding:"required"`
	Phone        string     `json:"phone" binding:"required"`
	Email        *string    `json:"email,omitempty" binding:"omitempty,email"`
	Sport        string     `json:"sport" binding:"required"`
	Source       string     `json:"source" binding:"required"`
	CenterID     int64      `json:"centerId" binding:"required,min=1"`
	CounsellorID *int64     `json:"counsellorId,omitempty"`
	NextFollowUp *time.Time `json:"nextFollowUp,omitempty"`
	Notes        string     `json:"notes"`
}

// UpdateLeadRequest represents editable lead fields. Status is not among
// them; status changes go through the transition endpoint.
type UpdateLeadRequest struct {
	Name         *string    `json:"name,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Email        *string    `json:"email,omitempty" binding:"omitempty,email"`
	Sport        *string    `json:"sport,omitempty"`
	Source       *string    `json:"source,omitempty"`
	CounsellorID *int64     `json:"counsellorId,omitempty"`
	NextFollowUp *time.Time `json:"nextFollowUp,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// TransitionLeadRequest moves a lead to a new pipeline status
type TransitionLeadRequest struct {
	Status string `json:"status" binding:"required" example:"CALLED"`
	Note   string `json:"note"`
}

// ScheduleTrialRequest books a trial session for a lead
type ScheduleTrialRequest struct {
	BatchID int64     `json:"batchId" binding:"required,min=1"`
	TrialAt time.Time `json:"trialAt" binding:"required"`
}

// TrialOutcomeRequest records whether the lead showed up for the trial
type TrialOutcomeRequest struct {
	Attended bool   `json:"attended"`
	Note     string `json:"note"`
}

// LeadFilter carries list filters parsed from query parameters
type LeadFilter struct {
	Status       string
	CenterID     int64
	Sport        string
	Source       string
	CounsellorID int64
	Search       string // Matches name or phone
}

// LeadListResponse represents a page of leads
type LeadListResponse struct {
	Leads      []*models.Lead `json:"leads"`
	Pagination PaginationInfo `json:"pagination"`
}

// CreateFollowupRequest adds a dated task to a lead
type CreateFollowupRequest struct {
	DueAt time.Time `json:"dueAt" binding:"required"`
	Note  string    `json:"note" binding:"required"`
}

// WhatsAppLinkResponse carries a composed wa.me deep link
type WhatsAppLinkResponse struct {
	Link    string `json:"link" example:"https://wa.me/919876543210?text=Hi%20Rohan"`
	Message string `json:"message"`
}
