package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/anlevch/go-taskboard/internal/models"
	"github.com/anlevch/go-taskboard/internal/storage"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	store  storage.TaskStore
}

func NewTaskService(
	logger zerolog.Logger,
	store storage.TaskStore,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		store:  store,
	}
}

// scopeFor resolves the caller into an ownership scope. This is the
// only place privilege widens visibility; the store itself trusts
// whatever scope it receives.
func scopeFor(caller models.Caller) storage.Scope {
	if caller.Privileged {
		return storage.AllOwners()
	}
	return storage.OwnedBy(caller.ID)
}

func (s *taskServiceImpl) List(ctx context.Context, caller models.Caller, filter models.TaskFilter) (*TaskPage, error) {
	filter = filter.Normalize()

	items, total, err := s.store.Query(ctx, scopeFor(caller), filter)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("caller_id", caller.ID).
			Msg("failed to query tasks")
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	s.logger.Debug().
		Str("caller_id", caller.ID).
		Int("count", len(items)).
		Int("total", total).
		Msg("listed tasks")
	return &TaskPage{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// authorize loads a task and checks it against the caller. A task
// owned by someone else is ErrTaskAccessDenied for an unprivileged
// caller, never ErrTaskNotFound, and the error carries no detail
// about the record itself.
func (s *taskServiceImpl) authorize(ctx context.Context, caller models.Caller, id string) (*models.Task, error) {
	task, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to load task")
		return nil, fmt.Errorf("load task: %w", err)
	}

	if task.OwnerID != caller.ID && !caller.Privileged {
		s.logger.Warn().
			Str("task_id", id).
			Str("caller_id", caller.ID).
			Msg("caller may not access task")
		return nil, ErrTaskAccessDenied
	}
	return task, nil
}

func (s *taskServiceImpl) Get(ctx context.Context, caller models.Caller, id string) (*models.Task, error) {
	return s.authorize(ctx, caller, id)
}

func (s *taskServiceImpl) Create(ctx context.Context, caller models.Caller, params CreateTaskParams) (*models.Task, error) {
	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, fmt.Errorf("generate task uuid: %w", err)
	}

	now := time.Now()
	task := &models.Task{
		ID:          taskUUID.String(),
		OwnerID:     caller.ID,
		Title:       params.Title,
		Description: params.Description,
		DueDate:     params.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.store.Insert(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to insert task")
		return nil, fmt.Errorf("insert task: %w", err)
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("owner_id", task.OwnerID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) Update(ctx context.Context, caller models.Caller, id string, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.authorize(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task.Title = params.Title
	task.Description = params.Description
	task.DueDate = params.DueDate
	task.UpdatedAt = now

	// The completion transition is resolved against the previously
	// stored state, not the input alone: only a flip touches the
	// completed-at timestamp.
	switch {
	case params.Completed && !task.Completed:
		task.Completed = true
		task.CompletedAt = &now
	case !params.Completed && task.Completed:
		task.Completed = false
		task.CompletedAt = nil
	}

	err = s.store.Update(ctx, task)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to update task")
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Bool("completed", task.Completed).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) Delete(ctx context.Context, caller models.Caller, id string) error {
	_, err := s.authorize(ctx, caller, id)
	if err != nil {
		return err
	}

	err = s.store.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return fmt.Errorf("delete task: %w", err)
	}

	s.logger.Info().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) Stats(ctx context.Context, caller models.Caller) (*models.TaskStats, error) {
	stats, err := s.store.Stats(ctx, scopeFor(caller))
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("caller_id", caller.ID).
			Msg("failed to aggregate stats")
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}

	s.logger.Debug().
		Str("caller_id", caller.ID).
		Int("total", stats.Total).
		Msg("aggregated stats")
	return &stats, nil
}
