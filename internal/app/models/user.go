package models

import (
	"time"
)

// User defines the staff user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Email       string     `json:"email" db:"email" example:"admin@courtside.in"`
	Password    string     `json:"-" db:"password"` // Hashed password (excluded from JSON)
	FirstName   string     `json:"firstName" db:"first_name" example:"Priya"`
	LastName    string     `json:"lastName" db:"last_name" example:"Nair"`
	Phone       string     `json:"phone" db:"phone" example:"+919812345678"`
	RoleType    RoleType   `json:"roleType" db:"role_type" example:"COUNSELLOR"`
	CenterID    *int64     `json:"centerId,omitempty" db:"center_id"` // Nil for admins, who see all centers
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	Center *Center `json:"center,omitempty"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Notification defines an in-app notification based on the 'notifications' table
type Notification struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Kind      string    `json:"kind" db:"kind" example:"STAGING_DECIDED"`
	Body      string    `json:"body" db:"body"`
	IsRead    bool      `json:"isRead" db:"is_read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Notification kinds produced by the application.
const (
	NotificationStagingDecided = "STAGING_DECIDED"
	NotificationTrialOutcome   = "TRIAL_OUTCOME"
	NotificationRenewalDue     = "RENEWAL_DUE"
	NotificationPaymentReview  = "PAYMENT_REVIEW"
	NotificationPaymentDecided = "PAYMENT_DECIDED"
)
