package helpers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tanmay/courtside/internal/pkg/helpers"
)

func TestCalculateOffsetLimit(t *testing.T) {
	cases := []struct {
		name       string
		page, size int
		offset     uint64
		limit      int
	}{
		{"first page", 1, 20, 0, 20},
		{"third page", 3, 10, 20, 10},
		{"zero page defaults", 0, 10, 0, 10},
		{"negative page defaults", -5, 10, 0, 10},
		{"zero size defaults", 2, 0, 20, helpers.DefaultPageSize},
		{"oversized page size capped", 1, 500, 0, helpers.DefaultPageSize},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			offset, limit := helpers.CalculateOffsetLimit(tc.page, tc.size)
			assert.Equal(t, tc.offset, offset)
			assert.Equal(t, tc.limit, limit)
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := helpers.NewPaginationInfo(45, 2, 20)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 20, info.PageSize)
	assert.Equal(t, int64(45), info.TotalItems)
}

func TestNewPaginationInfoEmptyResult(t *testing.T) {
	info := helpers.NewPaginationInfo(0, 1, 20)
	assert.Equal(t, 1, info.CurrentPage)
	assert.Equal(t, 1, info.TotalPages)
	assert.Equal(t, int64(0), info.TotalItems)
}

func TestNewPaginationInfoPageBeyondEnd(t *testing.T) {
	// Requesting past the last page clamps to the last page.
	info := helpers.NewPaginationInfo(30, 10, 20)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 2, info.TotalPages)
}

func TestNewPaginationInfoExactMultiple(t *testing.T) {
	info := helpers.NewPaginationInfo(40, 1, 20)
	assert.Equal(t, 2, info.TotalPages)
}
