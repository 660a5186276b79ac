package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanmay/courtside/internal/app/models"
	"github.com/tanmay/courtside/internal/pkg/apperrors"
)

func TestRenderLeadMessageDefaultsFromStatus(t *testing.T) {
	lead := &models.Lead{
		ID:        1,
		Name:      "Aarav",
		Sport:     "badminton",
		JoinToken: "tok-123",
	}

	cases := []struct {
		name     string
		status   models.LeadStatus
		contains string
	}{
		{"fresh lead gets the intro", models.LeadNew, "interest in badminton"},
		{"called lead gets the intro", models.LeadCalled, "When can we call you"},
		{"booked trial gets the reminder", models.LeadTrialScheduled, "trial session is booked"},
		{"attended trial gets the join link", models.LeadTrialAttended, "/join/tok-123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lead.Status = tc.status
			msg, err := renderLeadMessage(lead, "", "https://courtside.in")
			require.NoError(t, err)
			assert.Contains(t, msg, "Aarav")
			assert.Contains(t, msg, tc.contains)
		})
	}
}

func TestRenderLeadMessageTemplateOverride(t *testing.T) {
	lead := &models.Lead{
		ID:        2,
		Name:      "Diya",
		Sport:     "tennis",
		Status:    models.LeadNew,
		JoinToken: "tok-456",
	}

	// An explicit name wins over the status default.
	msg, err := renderLeadMessage(lead, "join", "https://courtside.in/")
	require.NoError(t, err)
	assert.Contains(t, msg, "https://courtside.in/join/tok-456")
}

func TestRenderLeadMessageUnknownTemplate(t *testing.T) {
	lead := &models.Lead{ID: 3, Name: "Diya", Status: models.LeadNew}

	_, err := renderLeadMessage(lead, "nope", "https://courtside.in")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Contains(t, err.Error(), `"nope"`)
}
