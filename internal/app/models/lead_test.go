package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanmay/courtside/internal/app/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    models.LeadStatus
		to      models.LeadStatus
		allowed bool
	}{
		{"new to called", models.LeadNew, models.LeadCalled, true},
		{"new to nurture", models.LeadNew, models.LeadNurture, true},
		{"new to dead", models.LeadNew, models.LeadDead, true},
		{"new cannot skip to trial", models.LeadNew, models.LeadTrialScheduled, false},
		{"new cannot join directly", models.LeadNew, models.LeadJoined, false},
		{"called to trial scheduled", models.LeadCalled, models.LeadTrialScheduled, true},
		{"called to on break", models.LeadCalled, models.LeadOnBreak, true},
		{"called cannot join", models.LeadCalled, models.LeadJoined, false},
		{"trial scheduled to attended", models.LeadTrialScheduled, models.LeadTrialAttended, true},
		{"trial scheduled back to called", models.LeadTrialScheduled, models.LeadCalled, true},
		{"trial attended to joined", models.LeadTrialAttended, models.LeadJoined, true},
		{"trial attended to nurture", models.LeadTrialAttended, models.LeadNurture, true},
		{"nurture back to called", models.LeadNurture, models.LeadCalled, true},
		{"nurture to trial scheduled", models.LeadNurture, models.LeadTrialScheduled, true},
		{"nurture cannot join", models.LeadNurture, models.LeadJoined, false},
		{"on break to called", models.LeadOnBreak, models.LeadCalled, true},
		{"joined is terminal", models.LeadJoined, models.LeadCalled, false},
		{"dead is terminal", models.LeadDead, models.LeadNurture, false},
		{"no self transition", models.LeadCalled, models.LeadCalled, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, models.CanTransition(tc.from, tc.to))
		})
	}
}

func TestValidateTransition(t *testing.T) {
	require.NoError(t, models.ValidateTransition(models.LeadNew, models.LeadCalled))
	require.NoError(t, models.ValidateTransition(models.LeadTrialAttended, models.LeadJoined))

	err := models.ValidateTransition(models.LeadJoined, models.LeadCalled)
	require.Error(t, err)

	var transitionErr *models.ErrInvalidTransition
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, models.LeadJoined, transitionErr.From)
	assert.Equal(t, models.LeadCalled, transitionErr.To)
	assert.Contains(t, err.Error(), "JOINED")
	assert.Contains(t, err.Error(), "CALLED")
}

func TestValidateTransitionUnknownStatus(t *testing.T) {
	err := models.ValidateTransition(models.LeadStatus("BOGUS"), models.LeadCalled)
	require.Error(t, err)

	err = models.ValidateTransition(models.LeadNew, models.LeadStatus("bogus"))
	require.Error(t, err)
}

func TestLeadStatusValid(t *testing.T) {
	for _, s := range []models.LeadStatus{
		models.LeadNew, models.LeadCalled, models.LeadTrialScheduled,
		models.LeadTrialAttended, models.LeadJoined, models.LeadNurture,
		models.LeadDead, models.LeadOnBreak,
	} {
		assert.True(t, s.Valid(), "expected %s to be valid", s)
	}

	assert.False(t, models.LeadStatus("").Valid())
	assert.False(t, models.LeadStatus("joined").Valid())
}

func TestLeadStatusTerminal(t *testing.T) {
	assert.True(t, models.LeadJoined.Terminal())
	assert.True(t, models.LeadDead.Terminal())
	assert.False(t, models.LeadNew.Terminal())
	assert.False(t, models.LeadNurture.Terminal())
	assert.False(t, models.LeadOnBreak.Terminal())
}
