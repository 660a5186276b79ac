package models

import "time"

// Batch defines a scheduled training-session group based on the 'batches' table
type Batch struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Name      string    `json:"name" db:"name" example:"U-14 Badminton Evening"`
	CenterID  int64     `json:"centerId" db:"center_id"`
	Sport     string    `json:"sport" db:"sport" example:"badminton"`
	CoachID   *int64    `json:"coachId,omitempty" db:"coach_id"` // Staff user with the COACH role (nullable)
	Weekdays  []string  `json:"weekdays" db:"weekdays" example:"MON,WED,FRI"`
	StartTime string    `json:"startTime" db:"start_time" example:"17:00"` // 24h HH:MM, local to the center
	EndTime   string    `json:"endTime" db:"end_time" example:"18:30"`
	Capacity  int       `json:"capacity" db:"capacity" example:"24"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Center   *Center `json:"center,omitempty"`
	Coach    *User   `json:"coach,omitempty"`
	Enrolled int     `json:"enrolled,omitempty"` // Active student count, filled by list queries
}

// Attendance defines one attendance mark based on the 'attendance' table.
// Unique per (batch, student, date); marking again overwrites the row.
type Attendance struct {
	ID        int64            `json:"id" db:"id"`
	BatchID   int64            `json:"batchId" db:"batch_id"`
	StudentID int64            `json:"studentId" db:"student_id"`
	Date      time.Time        `json:"date" db:"date"` // Date only, midnight UTC
	Status    AttendanceStatus `json:"status" db:"status" example:"PRESENT"`
	MarkedBy  int64            `json:"markedBy" db:"marked_by"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`

	Student *Student `json:"student,omitempty"`
}
