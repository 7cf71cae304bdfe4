package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anlevch/go-taskboard/internal/models"
	"github.com/anlevch/go-taskboard/internal/storage"
)

func boolPtr(b bool) *bool { return &b }

func timePtr(t time.Time) *time.Time { return &t }

// seedTask inserts a task with a created-at offset so ordering is
// deterministic: higher seq means created later.
func seedTask(t *testing.T, store *TaskStore, seq int, task models.Task) models.Task {
	t.Helper()

	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	if task.ID == "" {
		task.ID = fmt.Sprintf("task-%03d", seq)
	}
	task.CreatedAt = base.Add(time.Duration(seq) * time.Minute)
	task.UpdatedAt = task.CreatedAt

	require.NoError(t, store.Insert(context.Background(), &task))
	return task
}

func TestQueryScope(t *testing.T) {
	store := NewTaskStore()
	seedTask(t, store, 1, models.Task{OwnerID: "alice", Title: "write report"})
	seedTask(t, store, 2, models.Task{OwnerID: "bob", Title: "review report"})
	seedTask(t, store, 3, models.Task{OwnerID: "alice", Title: "send invoices"})

	filter := models.TaskFilter{}.Normalize()

	items, total, err := store.Query(context.Background(), storage.OwnedBy("alice"), filter)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, task := range items {
		assert.Equal(t, "alice", task.OwnerID)
	}

	_, total, err = store.Query(context.Background(), storage.AllOwners(), filter)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestQueryFilters(t *testing.T) {
	store := NewTaskStore()
	now := time.Now()

	seedTask(t, store, 1, models.Task{
		OwnerID: "alice", Title: "Buy groceries", Description: "milk and eggs",
	})
	seedTask(t, store, 2, models.Task{
		OwnerID: "alice", Title: "File taxes",
		Completed: true, CompletedAt: timePtr(now),
	})
	seedTask(t, store, 3, models.Task{
		OwnerID: "alice", Title: "Call plumber",
		DueDate: timePtr(now.Add(-48 * time.Hour)),
	})

	scope := storage.OwnedBy("alice")

	t.Run("completed tri-state", func(t *testing.T) {
		_, total, err := store.Query(context.Background(), scope,
			models.TaskFilter{Completed: boolPtr(true)}.Normalize())
		require.NoError(t, err)
		assert.Equal(t, 1, total)

		_, total, err = store.Query(context.Background(), scope,
			models.TaskFilter{Completed: boolPtr(false)}.Normalize())
		require.NoError(t, err)
		assert.Equal(t, 2, total)

		_, total, err = store.Query(context.Background(), scope,
			models.TaskFilter{}.Normalize())
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})

	t.Run("search matches title and description case-insensitively", func(t *testing.T) {
		items, total, err := store.Query(context.Background(), scope,
			models.TaskFilter{Search: "GROCERIES"}.Normalize())
		require.NoError(t, err)
		require.Equal(t, 1, total)
		assert.Equal(t, "Buy groceries", items[0].Title)

		_, total, err = store.Query(context.Background(), scope,
			models.TaskFilter{Search: "Milk"}.Normalize())
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})

	t.Run("overdue only", func(t *testing.T) {
		items, total, err := store.Query(context.Background(), scope,
			models.TaskFilter{OverdueOnly: true}.Normalize())
		require.NoError(t, err)
		require.Equal(t, 1, total)
		assert.Equal(t, "Call plumber", items[0].Title)
	})

	t.Run("predicates combine with AND", func(t *testing.T) {
		_, total, err := store.Query(context.Background(), scope,
			models.TaskFilter{Completed: boolPtr(false), Search: "taxes"}.Normalize())
		require.NoError(t, err)
		assert.Equal(t, 0, total)
	})

	t.Run("empty match set is a normal empty page", func(t *testing.T) {
		items, total, err := store.Query(context.Background(), scope,
			models.TaskFilter{Search: "no such task"}.Normalize())
		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, items)
	})
}

func TestQueryOrderingAndPagination(t *testing.T) {
	store := NewTaskStore()
	const n = 7
	for i := 1; i <= n; i++ {
		seedTask(t, store, i, models.Task{
			OwnerID: "alice",
			Title:   fmt.Sprintf("task %d", i),
		})
	}

	scope := storage.OwnedBy("alice")

	t.Run("newest created first", func(t *testing.T) {
		items, total, err := store.Query(context.Background(), scope,
			models.TaskFilter{}.Normalize())
		require.NoError(t, err)
		require.Equal(t, n, total)
		for i := 1; i < len(items); i++ {
			assert.True(t, !items[i-1].CreatedAt.Before(items[i].CreatedAt))
		}
	})

	t.Run("pages partition the match set", func(t *testing.T) {
		const pageSize = 3
		seen := make(map[string]bool)
		for page := 1; page <= 3; page++ {
			items, total, err := store.Query(context.Background(), scope,
				models.TaskFilter{Page: page, PageSize: pageSize}.Normalize())
			require.NoError(t, err)
			assert.Equal(t, n, total)
			for _, task := range items {
				assert.False(t, seen[task.ID], "task %s returned twice", task.ID)
				seen[task.ID] = true
			}
		}
		assert.Len(t, seen, n)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		items, total, err := store.Query(context.Background(), scope,
			models.TaskFilter{Page: 5, PageSize: 3}.Normalize())
		require.NoError(t, err)
		assert.Equal(t, n, total)
		assert.Empty(t, items)
	})

	t.Run("created-at ties broken by id", func(t *testing.T) {
		tied := NewTaskStore()
		createdAt := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
		for _, id := range []string{"b", "a", "c"} {
			require.NoError(t, tied.Insert(context.Background(), &models.Task{
				ID:        id,
				OwnerID:   "alice",
				Title:     "tied",
				CreatedAt: createdAt,
				UpdatedAt: createdAt,
			}))
		}

		items, _, err := tied.Query(context.Background(), storage.OwnedBy("alice"),
			models.TaskFilter{}.Normalize())
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "c", items[0].ID)
		assert.Equal(t, "b", items[1].ID)
		assert.Equal(t, "a", items[2].ID)
	})
}

func TestStats(t *testing.T) {
	store := NewTaskStore()
	now := time.Now()

	seedTask(t, store, 1, models.Task{OwnerID: "alice", Title: "t1"})
	seedTask(t, store, 2, models.Task{
		OwnerID: "alice", Title: "t2",
		DueDate: timePtr(now.Add(-24 * time.Hour)),
	})
	seedTask(t, store, 3, models.Task{
		OwnerID: "alice", Title: "t3",
		Completed: true, CompletedAt: timePtr(now),
		DueDate: timePtr(now.Add(-24 * time.Hour)),
	})
	seedTask(t, store, 4, models.Task{OwnerID: "bob", Title: "t4"})

	t.Run("scoped to one owner", func(t *testing.T) {
		stats, err := store.Stats(context.Background(), storage.OwnedBy("alice"))
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Total)
		assert.Equal(t, 1, stats.Completed)
		assert.Equal(t, 2, stats.Pending)
		// The completed task past its due date is not overdue.
		assert.Equal(t, 1, stats.Overdue)
		assert.Equal(t, 33.3, stats.CompletionRate)
	})

	t.Run("unrestricted scope covers every owner", func(t *testing.T) {
		stats, err := store.Stats(context.Background(), storage.AllOwners())
		require.NoError(t, err)
		assert.Equal(t, 4, stats.Total)
	})

	t.Run("empty scope yields zero rate", func(t *testing.T) {
		stats, err := store.Stats(context.Background(), storage.OwnedBy("nobody"))
		require.NoError(t, err)
		assert.Equal(t, 0, stats.Total)
		assert.Equal(t, float64(0), stats.CompletionRate)
	})
}

func TestGetUpdateDelete(t *testing.T) {
	store := NewTaskStore()
	task := seedTask(t, store, 1, models.Task{OwnerID: "alice", Title: "t1"})

	t.Run("get by id", func(t *testing.T) {
		got, err := store.GetByID(context.Background(), task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.Title, got.Title)

		_, err = store.GetByID(context.Background(), "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("update missing task", func(t *testing.T) {
		missing := task
		missing.ID = "missing"
		err := store.Update(context.Background(), &missing)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete is permanent", func(t *testing.T) {
		require.NoError(t, store.Delete(context.Background(), task.ID))

		_, err := store.GetByID(context.Background(), task.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = store.Delete(context.Background(), task.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
