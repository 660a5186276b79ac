package models

import (
	"fmt"
	"time"
)

// LeadStatus represents a stage in the sales pipeline
type LeadStatus string

const (
	LeadNew            LeadStatus = "NEW"
	LeadCalled         LeadStatus = "CALLED"
	LeadTrialScheduled LeadStatus = "TRIAL_SCHEDULED"
	LeadTrialAttended  LeadStatus = "TRIAL_ATTENDED"
	LeadJoined         LeadStatus = "JOINED"
	LeadNurture        LeadStatus = "NURTURE"
	LeadDead           LeadStatus = "DEAD"
	LeadOnBreak        LeadStatus = "ON_BREAK"
)

// Valid reports whether the status is a known pipeline stage.
func (s LeadStatus) Valid() bool {
	_, ok := leadTransitions[s]
	return ok
}

// Terminal reports whether the status ends the pipeline. A JOINED lead
// continues its life as a Student record.
func (s LeadStatus) Terminal() bool {
	return s == LeadJoined || s == LeadDead
}

// leadTransitions is the single source of truth for the lead lifecycle.
// Every status change in the system, whether from a single update, a trial
// outcome, a conversion or an approved bulk action, is checked against this
// table.
var leadTransitions = map[LeadStatus][]LeadStatus{
	LeadNew:            {LeadCalled, LeadNurture, LeadDead},
	LeadCalled:         {LeadTrialScheduled, LeadNurture, LeadDead, LeadOnBreak},
	LeadTrialScheduled: {LeadTrialAttended, LeadCalled, LeadNurture, LeadDead, LeadOnBreak},
	LeadTrialAttended:  {LeadJoined, LeadNurture, LeadDead, LeadOnBreak},
	LeadNurture:        {LeadCalled, LeadTrialScheduled, LeadDead},
	LeadOnBreak:        {LeadCalled, LeadTrialScheduled, LeadDead},
	LeadJoined:         {},
	LeadDead:           {},
}

// ErrInvalidTransition is returned when a lead status change is not allowed
// by the lifecycle table.
type ErrInvalidTransition struct {
	From LeadStatus
	To   LeadStatus
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid lead transition %s -> %s", e.From, e.To)
}

// CanTransition reports whether a lead may move from one status to another.
func CanTransition(from, to LeadStatus) bool {
	for _, next := range leadTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an ErrInvalidTransition if the move is not
// allowed. Unknown statuses are rejected as well.
func ValidateTransition(from, to LeadStatus) error {
	if !from.Valid() || !to.Valid() || !CanTransition(from, to) {
		return &ErrInvalidTransition{From: from, To: to}
	}
	return nil
}

// Lead defines the lead model based on the 'leads' table
type Lead struct {
	ID            int64      `json:"id" db:"id" example:"1"`
	Name          string     `json:"name" db:"name" example:"Rohan Mehta"`
	Phone         string     `json:"phone" db:"phone" example:"+919876543210"`
	Email         *string    `json:"email,omitempty" db:"email"`
	Sport         string     `json:"sport" db:"sport" example:"badminton"`
	Source        string     `json:"source" db:"source" example:"walk-in"`
	Status        LeadStatus `json:"status" db:"status" example:"NEW"`
	CenterID      int64      `json:"centerId" db:"center_id"`
	CounsellorID  *int64     `json:"counsellorId,omitempty" db:"counsellor_id"` // Assigned staff user (nullable)
	TrialBatchID  *int64     `json:"trialBatchId,omitempty" db:"trial_batch_id"`
	TrialAt       *time.Time `json:"trialAt,omitempty" db:"trial_at"`
	NextFollowUp  *time.Time `json:"nextFollowUp,omitempty" db:"next_follow_up"`
	Notes         string     `json:"notes" db:"notes"`
	JoinToken     string     `json:"-" db:"join_token"` // Public token for the join form (excluded from JSON)
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
	StatusChanged time.Time  `json:"statusChangedAt" db:"status_changed_at"`

	// Relations (populated when needed)
	Center     *Center `json:"center,omitempty"`
	Counsellor *User   `json:"counsellor,omitempty"`
	TrialBatch *Batch  `json:"trialBatch,omitempty"`
}

// Followup defines a dated task on a lead based on the 'followups' table
type Followup struct {
	ID          int64      `json:"id" db:"id"`
	LeadID      int64      `json:"leadId" db:"lead_id"`
	UserID      int64      `json:"userId" db:"user_id"` // Staff user the task belongs to
	DueAt       time.Time  `json:"dueAt" db:"due_at"`
	Note        string     `json:"note" db:"note"`
	CompletedAt *time.Time `json:"completedAt,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`

	Lead *Lead `json:"lead,omitempty"`
}
