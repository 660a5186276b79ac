package models

import "time"

// StagingStatus represents the approval state of a bulk action
type StagingStatus string

const (
	StagingPending  StagingStatus = "PENDING"
	StagingApproved StagingStatus = "APPROVED"
	StagingRejected StagingStatus = "REJECTED"
)

// StagingKind identifies what a bulk action mutates
type StagingKind string

const (
	StagingReassign     StagingKind = "REASSIGN"      // Move leads to another counsellor
	StagingStatusChange StagingKind = "STATUS_CHANGE" // Move leads to another pipeline status
	StagingBatchMove    StagingKind = "BATCH_MOVE"    // Change the trial batch on leads
)

// Valid reports whether the kind is a known bulk action kind.
func (k StagingKind) Valid() bool {
	switch k {
	case StagingReassign, StagingStatusChange, StagingBatchMove:
		return true
	}
	return false
}

// StagingAction defines a bulk lead mutation awaiting approval, based on the
// 'staging_actions' table. The mutation is not applied until an ADMIN or
// MANAGER approves it; application happens in a single transaction and each
// affected lead is re-validated against the lifecycle table at that point.
type StagingAction struct {
	ID          int64         `json:"id" db:"id"`
	Kind        StagingKind   `json:"kind" db:"kind" example:"STATUS_CHANGE"`
	LeadIDs     []int64       `json:"leadIds" db:"lead_ids"`
	TargetValue string        `json:"targetValue" db:"target_value"` // Status, counsellor id or batch id depending on kind
	Reason      string        `json:"reason" db:"reason"`
	Status      StagingStatus `json:"status" db:"status" example:"PENDING"`
	RequestedBy int64         `json:"requestedBy" db:"requested_by"`
	DecidedBy   *int64        `json:"decidedBy,omitempty" db:"decided_by"`
	DecidedAt   *time.Time    `json:"decidedAt,omitempty" db:"decided_at"`
	DecisionMsg string        `json:"decisionMessage" db:"decision_msg"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`

	Requester *User `json:"requester,omitempty"`
}
