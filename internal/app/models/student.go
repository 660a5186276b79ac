package models

import "time"

// Student defines a converted, paying member based on the 'students' table
type Student struct {
	ID           int64         `json:"id" db:"id" example:"1"`
	LeadID       *int64        `json:"leadId,omitempty" db:"lead_id"` // Originating lead, nil for direct joins
	Name         string        `json:"name" db:"name" example:"Rohan Mehta"`
	Phone        string        `json:"phone" db:"phone" example:"+919876543210"`
	Email        *string       `json:"email,omitempty" db:"email"`
	CenterID     int64         `json:"centerId" db:"center_id"`
	BatchID      *int64        `json:"batchId,omitempty" db:"batch_id"`
	Sport        string        `json:"sport" db:"sport"`
	Plan         Plan          `json:"plan" db:"plan" example:"QUARTERLY"`
	Status       StudentStatus `json:"status" db:"status" example:"ACTIVE"`
	SubStart     time.Time     `json:"subscriptionStart" db:"sub_start"`
	SubExpiry    time.Time     `json:"subscriptionExpiry" db:"sub_expiry"`
	RenewalToken string        `json:"-" db:"renewal_token"` // Public token for the renewal form (excluded from JSON)
	CreatedAt    time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Center *Center `json:"center,omitempty"`
	Batch  *Batch  `json:"batch,omitempty"`
}

// ExtendSubscription returns the new expiry after renewing with a plan.
// Renewing before expiry extends from the current expiry; renewing after a
// lapse restarts from now.
func (s *Student) ExtendSubscription(plan Plan, now time.Time) time.Time {
	base := s.SubExpiry
	if base.Before(now) {
		base = now
	}
	return base.AddDate(0, plan.Months(), 0)
}

// PaymentKind distinguishes an enrollment payment from a renewal. Verifying
// a renewal extends the subscription; the joining period is granted at
// conversion time.
type PaymentKind string

const (
	PaymentKindJoin    PaymentKind = "JOIN"
	PaymentKindRenewal PaymentKind = "RENEWAL"
)

// Payment defines a payment record based on the 'payments' table
type Payment struct {
	ID         int64         `json:"id" db:"id"`
	StudentID  int64         `json:"studentId" db:"student_id"`
	CenterID   int64         `json:"centerId" db:"center_id"`
	Kind       PaymentKind   `json:"kind" db:"kind" example:"RENEWAL"`
	Plan       Plan          `json:"plan" db:"plan"`
	AmountPs   int64         `json:"amountPaise" db:"amount_paise"` // Amount in paise to avoid float arithmetic
	UPILink    string        `json:"upiLink" db:"upi_link"`
	UTR        *string       `json:"utr,omitempty" db:"utr"` // Unique Transaction Reference, filled on submission
	ProofURL   *string       `json:"proofUrl,omitempty" db:"proof_url"`
	Status     PaymentStatus `json:"status" db:"status" example:"PENDING"`
	VerifiedBy *int64        `json:"verifiedBy,omitempty" db:"verified_by"`
	Note       string        `json:"note" db:"note"`
	CreatedAt  time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time     `json:"updatedAt" db:"updated_at"`

	Student *Student `json:"student,omitempty"`
}
