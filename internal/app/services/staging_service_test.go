package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanmay/courtside/internal/app/models"
	"github.com/tanmay/courtside/internal/pkg/apperrors"
)

func TestCheckApplicableStatusChange(t *testing.T) {
	action := &models.StagingAction{
		Kind:        models.StagingStatusChange,
		TargetValue: string(models.LeadDead),
	}

	require.NoError(t, checkApplicable(&models.Lead{ID: 1, Status: models.LeadNurture}, action))

	// A lead that moved to a terminal status while the action sat in the
	// queue must fail the check, which aborts the whole transaction.
	err := checkApplicable(&models.Lead{ID: 2, Status: models.LeadJoined}, action)
	require.Error(t, err)

	var transitionErr *models.ErrInvalidTransition
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, models.LeadJoined, transitionErr.From)
	assert.Contains(t, err.Error(), "lead 2")
}

func TestCheckApplicableBatchMove(t *testing.T) {
	trialAt := time.Date(2025, 6, 5, 17, 0, 0, 0, time.UTC)
	action := &models.StagingAction{Kind: models.StagingBatchMove, TargetValue: "4"}

	require.NoError(t, checkApplicable(&models.Lead{ID: 1, Status: models.LeadTrialScheduled, TrialAt: &trialAt}, action))

	err := checkApplicable(&models.Lead{ID: 2, Status: models.LeadDead, TrialAt: &trialAt}, action)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = checkApplicable(&models.Lead{ID: 3, Status: models.LeadCalled}, action)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCheckApplicableReassign(t *testing.T) {
	// Reassignment has no lifecycle precondition, even terminal leads can
	// change hands for reporting purposes.
	action := &models.StagingAction{Kind: models.StagingReassign, TargetValue: "7"}
	require.NoError(t, checkApplicable(&models.Lead{ID: 1, Status: models.LeadDead}, action))
}
