package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanmay/courtside/internal/app/models/dto"
)

func TestCreateLeadRequestCarriesFirstFollowUp(t *testing.T) {
	payload := `{
		"name": "Rohan Mehta",
		"phone": "9876543210",
		"sport": "badminton",
		"source": "walk-in",
		"centerId": 1,
		"nextFollowUp": "2025-06-03T10:00:00Z"
	}`

	var req dto.CreateLeadRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	require.NotNil(t, req.NextFollowUp)
	assert.Equal(t, time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC), req.NextFollowUp.UTC())
	assert.Equal(t, "Rohan Mehta", req.Name)
}
