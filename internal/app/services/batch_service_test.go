package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanmay/courtside/internal/pkg/apperrors"
)

func TestValidateSchedule(t *testing.T) {
	days, err := validateSchedule([]string{"MON", "WED", "FRI"}, "17:00", "18:30")
	require.NoError(t, err)
	assert.Equal(t, []string{"MON", "WED", "FRI"}, days)
}

func TestValidateScheduleNormalizesDays(t *testing.T) {
	// Lowercase and padded day codes are accepted, duplicates collapse.
	days, err := validateSchedule([]string{"mon", " tue ", "MON"}, "06:00", "07:00")
	require.NoError(t, err)
	assert.Equal(t, []string{"MON", "TUE"}, days)
}

func TestValidateScheduleRejectsBadInput(t *testing.T) {
	cases := []struct {
		name     string
		weekdays []string
		start    string
		end      string
	}{
		{"no weekdays", nil, "17:00", "18:00"},
		{"unknown weekday", []string{"MONDAY"}, "17:00", "18:00"},
		{"bad start time", []string{"MON"}, "25:00", "18:00"},
		{"bad end time", []string{"MON"}, "17:00", "9:00"},
		{"start after end", []string{"MON"}, "18:00", "17:00"},
		{"zero length session", []string{"MON"}, "17:00", "17:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validateSchedule(tc.weekdays, tc.start, tc.end)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}
