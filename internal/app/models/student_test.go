package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tanmay/courtside/internal/app/models"
)

func TestPlanMonths(t *testing.T) {
	cases := []struct {
		plan   models.Plan
		months int
	}{
		{models.PlanMonthly, 1},
		{models.PlanQuarterly, 3},
		{models.PlanHalfYearly, 6},
		{models.PlanAnnual, 12},
		{models.Plan("WEEKLY"), 0},
		{models.Plan(""), 0},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.months, tc.plan.Months(), "plan %q", tc.plan)
		assert.Equal(t, tc.months > 0, tc.plan.Valid(), "plan %q", tc.plan)
	}
}

func TestExtendSubscriptionBeforeExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	student := &models.Student{
		SubExpiry: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	}

	// Renewal before expiry extends from the current expiry, the student
	// does not lose the remaining days.
	got := student.ExtendSubscription(models.PlanQuarterly, now)
	assert.Equal(t, time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestExtendSubscriptionAfterLapse(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	student := &models.Student{
		SubExpiry: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	// A lapsed subscription restarts from now, not from the old expiry.
	got := student.ExtendSubscription(models.PlanMonthly, now)
	assert.Equal(t, time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC), got)
}

func TestExtendSubscriptionAnnual(t *testing.T) {
	now := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	student := &models.Student{SubExpiry: now}

	got := student.ExtendSubscription(models.PlanAnnual, now)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), got)
}
