package dto

import (
	"time"

	"github.com/tanmay/courtside/internal/app/models"
)

// CreateBatchRequest represents the data needed to create a batch
type CreateBatchRequest struct {
	Name      string   `json:"name" binding:"required" example:"U-14 Morning"`
	CenterID  int64    `json:"centerId" binding:"required,min=1"`
	Sport     string   `json:"sport" binding:"required" example:"badminton"`
	CoachID   *int64   `json:"coachId,omitempty"`
	Weekdays  []string `json:"weekdays" binding:"required,min=1" example:"MON,WED,FRI"`
	StartTime string   `json:"startTime" binding:"required" example:"06:30"`
	EndTime   string   `json:"endTime" binding:"required" example:"08:00"`
	Capacity  int      `json:"capacity" binding:"required,min=1"`
}

// UpdateBatchRequest represents editable batch fields
type UpdateBatchRequest struct {
	Name      *string  `json:"name,omitempty"`
	CoachID   *int64   `json:"coachId,omitempty"`
	Weekdays  []string `json:"weekdays,omitempty"`
	StartTime *string  `json:"startTime,omitempty"`
	EndTime   *string  `json:"endTime,omitempty"`
	Capacity  *int     `json:"capacity,omitempty" binding:"omitempty,min=1"`
	IsActive  *bool    `json:"isActive,omitempty"`
}

// BatchFilter carries list filters parsed from query parameters
type BatchFilter struct {
	CenterID int64
	Sport    string
	CoachID  int64
	Weekday  string
	Active   *bool
}

// BatchListResponse represents a page of batches
type BatchListResponse struct {
	Batches    []*models.Batch `json:"batches"`
	Pagination PaginationInfo  `json:"pagination"`
}

// AttendanceMark is one student's status within a roll call
type AttendanceMark struct {
	StudentID int64  `json:"studentId" binding:"required,min=1"`
	Status    string `json:"status" binding:"required" example:"PRESENT"`
}

// MarkAttendanceRequest records a roll call for one batch session
type MarkAttendanceRequest struct {
	Date  time.Time        `json:"date" binding:"required"`
	Marks []AttendanceMark `json:"marks" binding:"required,min=1,dive"`
}

// AttendanceSheetResponse returns the roster with any recorded marks for a date
type AttendanceSheetResponse struct {
	BatchID int64                `json:"batchId"`
	Date    time.Time            `json:"date"`
	Entries []*models.Attendance `json:"entries"`
	Roster  []*models.Student    `json:"roster"`
}
