package models

import "time"

// Center defines an academy location based on the 'centers' table
type Center struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Name      string    `json:"name" db:"name" example:"Indiranagar Arena"`
	Code      string    `json:"code" db:"code" example:"BLR01"`
	Address   string    `json:"address" db:"address"`
	City      string    `json:"city" db:"city" example:"Bengaluru"`
	UPIVPA    string    `json:"upiVpa" db:"upi_vpa" example:"courtside.blr@okaxis"` // Collection VPA for UPI deep links
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
