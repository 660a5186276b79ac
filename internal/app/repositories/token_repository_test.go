package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tanmay/courtside/internal/app/repositories"
)

func TestCleanupExpiredTokensReportsCount(t *testing.T) {
	r := repositories.NewTokenRepository(nil)

	// The maintenance loop logs how many tokens each sweep removed, so the
	// cleanup must report a count alongside its error.
	var cleanup func(context.Context) (int64, error) = r.CleanupExpiredTokens
	require.NotNil(t, cleanup)
}
