package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskOverdue(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{
			name: "pending past due",
			task: Task{DueDate: &yesterday},
			want: true,
		},
		{
			name: "pending not yet due",
			task: Task{DueDate: &tomorrow},
			want: false,
		},
		{
			name: "pending without due date",
			task: Task{},
			want: false,
		},
		{
			name: "completed past due",
			task: Task{Completed: true, DueDate: &yesterday},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.Overdue(now))
		})
	}
}

func TestNewTaskStats(t *testing.T) {
	t.Run("empty set has zero rate", func(t *testing.T) {
		stats := NewTaskStats(0, 0, 0)
		assert.Equal(t, 0, stats.Total)
		assert.Equal(t, 0, stats.Pending)
		assert.Equal(t, float64(0), stats.CompletionRate)
	})

	t.Run("one of four completed", func(t *testing.T) {
		stats := NewTaskStats(4, 1, 2)
		assert.Equal(t, 3, stats.Pending)
		assert.Equal(t, 2, stats.Overdue)
		assert.Equal(t, 25.0, stats.CompletionRate)
	})

	t.Run("rate is rounded to one decimal", func(t *testing.T) {
		stats := NewTaskStats(3, 1, 0)
		assert.Equal(t, 33.3, stats.CompletionRate)

		stats = NewTaskStats(3, 2, 0)
		assert.Equal(t, 66.7, stats.CompletionRate)
	})
}
