package models

// RoleType defines the staff user role type
type RoleType string

const (
	RoleAdmin      RoleType = "ADMIN"
	RoleManager    RoleType = "MANAGER"
	RoleCounsellor RoleType = "COUNSELLOR"
	RoleCoach      RoleType = "COACH"
)

// Valid reports whether the role is one of the known roles.
func (r RoleType) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCounsellor, RoleCoach:
		return true
	}
	return false
}

// Plan represents a subscription plan duration
type Plan string

const (
	PlanMonthly    Plan = "MONTHLY"
	PlanQuarterly  Plan = "QUARTERLY"
	PlanHalfYearly Plan = "HALF_YEARLY"
	PlanAnnual     Plan = "ANNUAL"
)

// Months returns the number of calendar months the plan covers.
func (p Plan) Months() int {
	switch p {
	case PlanMonthly:
		return 1
	case PlanQuarterly:
		return 3
	case PlanHalfYearly:
		return 6
	case PlanAnnual:
		return 12
	}
	return 0
}

// Valid reports whether the plan is a known plan.
func (p Plan) Valid() bool {
	return p.Months() > 0
}

// PaymentStatus represents the verification state of a payment record
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentVerified PaymentStatus = "VERIFIED"
	PaymentRejected PaymentStatus = "REJECTED"
)

// AttendanceStatus represents a single attendance mark
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
)

// Valid reports whether the attendance status is known.
func (a AttendanceStatus) Valid() bool {
	switch a {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	}
	return false
}

// StudentStatus represents the membership state of a student
type StudentStatus string

const (
	StudentActive  StudentStatus = "ACTIVE"
	StudentExpired StudentStatus = "EXPIRED"
	StudentOnBreak StudentStatus = "ON_BREAK"
	StudentLeft    StudentStatus = "LEFT"
)
