package models

import (
	"math"
	"time"
)

type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Completed   bool
	DueDate     *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Overdue reports whether the task is past its due date and still
// pending. It is derived at read time and never persisted, so a
// completed task is never overdue.
func (t *Task) Overdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

type TaskStats struct {
	Total          int
	Completed      int
	Pending        int
	Overdue        int
	CompletionRate float64
}

// NewTaskStats derives the pending count and the completion rate so
// every store computes them the same way. The rate is a percentage
// rounded to one decimal place, and 0 when there are no tasks at all
// (a policy decision, not an error).
func NewTaskStats(total, completed, overdue int) TaskStats {
	stats := TaskStats{
		Total:     total,
		Completed: completed,
		Pending:   total - completed,
		Overdue:   overdue,
	}
	if total > 0 {
		rate := float64(completed) / float64(total) * 100
		stats.CompletionRate = math.Round(rate*10) / 10
	}
	return stats
}
