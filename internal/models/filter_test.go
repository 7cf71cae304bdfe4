package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskFilterNormalize(t *testing.T) {
	tests := []struct {
		name         string
		filter       TaskFilter
		wantPage     int
		wantPageSize int
	}{
		{
			name:         "zero values get defaults",
			filter:       TaskFilter{},
			wantPage:     1,
			wantPageSize: DefaultPageSize,
		},
		{
			name:         "negative values get defaults",
			filter:       TaskFilter{Page: -3, PageSize: -1},
			wantPage:     1,
			wantPageSize: DefaultPageSize,
		},
		{
			name:         "valid values are kept",
			filter:       TaskFilter{Page: 4, PageSize: 25},
			wantPage:     4,
			wantPageSize: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Normalize()
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantPageSize, got.PageSize)
		})
	}
}

func TestTaskFilterOffset(t *testing.T) {
	filter := TaskFilter{Page: 3, PageSize: 10}
	assert.Equal(t, 20, filter.Offset())

	filter = TaskFilter{}.Normalize()
	assert.Equal(t, 0, filter.Offset())
}
