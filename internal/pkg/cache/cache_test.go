package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tanmay/courtside/internal/pkg/cache"
)

func TestNewWithNilClient(t *testing.T) {
	assert.Nil(t, cache.New(nil))
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *cache.Cache
	ctx := context.Background()

	var dest map[string]int
	assert.False(t, c.Get(ctx, "reports:funnel", &dest))
	assert.Nil(t, dest)

	// Set and InvalidatePrefix must not panic on a disabled cache.
	c.Set(ctx, "reports:funnel", map[string]int{"new": 3}, time.Minute)
	c.InvalidatePrefix(ctx, "reports:")
}
