package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tanmay/courtside/internal/app/models/dto"
)

func TestCacheKeysShareInvalidationPrefix(t *testing.T) {
	period := dto.ReportPeriod{
		From:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		CenterID: 2,
	}

	// Every cached report must sit under the prefix the write paths drop,
	// otherwise a mutation leaves stale aggregates behind.
	for _, report := range []string{"funnel", "revenue", "attendance"} {
		assert.True(t, strings.HasPrefix(cacheKey(report, period), reportCachePrefix))
	}
}

func TestCacheKeyVariesByPeriodAndCenter(t *testing.T) {
	base := dto.ReportPeriod{
		From:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		CenterID: 2,
	}
	otherCenter := base
	otherCenter.CenterID = 3
	otherPeriod := base
	otherPeriod.To = base.To.AddDate(0, 1, 0)

	assert.NotEqual(t, cacheKey("funnel", base), cacheKey("funnel", otherCenter))
	assert.NotEqual(t, cacheKey("funnel", base), cacheKey("funnel", otherPeriod))
	assert.NotEqual(t, cacheKey("funnel", base), cacheKey("revenue", base))
}

func TestInvalidateReportsWithDisabledCache(t *testing.T) {
	// Services hold a nil cache when Redis is not configured; the hook must
	// be a no-op rather than a panic.
	invalidateReports(context.Background(), nil)
}
