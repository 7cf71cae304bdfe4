// Package memory provides a mutex-guarded in-memory task store with
// the same query semantics as the Postgres store. It backs the test
// suite and local runs without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anlevch/go-taskboard/internal/models"
	"github.com/anlevch/go-taskboard/internal/storage"
)

type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]models.Task
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]models.Task),
	}
}

// matches applies the filter predicates to a single task. Overdue is
// evaluated against the supplied clock reading and never stored.
func matches(task *models.Task, filter models.TaskFilter, now time.Time) bool {
	if filter.Completed != nil && task.Completed != *filter.Completed {
		return false
	}
	if filter.Search != "" {
		term := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(task.Title), term) &&
			!strings.Contains(strings.ToLower(task.Description), term) {
			return false
		}
	}
	if filter.OverdueOnly && !task.Overdue(now) {
		return false
	}
	return true
}

func (s *TaskStore) Query(ctx context.Context, scope storage.Scope, filter models.TaskFilter) ([]models.Task, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	matched := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if scope.Contains(task.OwnerID) && matches(&task, filter, now) {
			matched = append(matched, task)
		}
	}

	// Newest first, ties broken by id, matching the Postgres
	// ORDER BY created_at DESC, id DESC.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	offset := filter.Offset()
	if offset >= total {
		return []models.Task{}, total, nil
	}

	end := offset + filter.PageSize
	if end > total {
		end = total
	}

	page := make([]models.Task, end-offset)
	copy(page, matched[offset:end])
	return page, total, nil
}

func (s *TaskStore) Stats(ctx context.Context, scope storage.Scope) (models.TaskStats, error) {
	if err := ctx.Err(); err != nil {
		return models.TaskStats{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	var total, completed, overdue int
	for _, task := range s.tasks {
		if !scope.Contains(task.OwnerID) {
			continue
		}
		total++
		if task.Completed {
			completed++
		}
		if task.Overdue(now) {
			overdue++
		}
	}
	return models.NewTaskStats(total, completed, overdue), nil
}

func (s *TaskStore) GetByID(ctx context.Context, id string) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &task, nil
}

func (s *TaskStore) Insert(ctx context.Context, task *models.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[task.ID] = *task
	return nil
}

func (s *TaskStore) Update(ctx context.Context, task *models.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; !ok {
		return storage.ErrNotFound
	}
	s.tasks[task.ID] = *task
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}
