package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/anlevch/go-taskboard/internal/models"
	"github.com/anlevch/go-taskboard/internal/storage"
)

type TaskStore struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskStore(logger zerolog.Logger, pgPool *pgxpool.Pool) *TaskStore {
	return &TaskStore{
		logger: logger,
		pgPool: pgPool,
	}
}

// buildConditions assembles the WHERE clause for a scope and filter.
// Predicates combine with AND; absent filter fields add no condition.
// Overdue is evaluated against now() at query time and is never
// written back to the row.
func buildConditions(scope storage.Scope, filter models.TaskFilter) (string, []any) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 4)

	if !scope.All() {
		args = append(args, scope.OwnerID())
		conds = append(conds, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		conds = append(conds, fmt.Sprintf("completed = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if filter.OverdueOnly {
		conds = append(conds, "NOT completed AND due_date IS NOT NULL AND due_date < now()")
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func (s *TaskStore) Query(ctx context.Context, scope storage.Scope, filter models.TaskFilter) ([]models.Task, int, error) {
	where, args := buildConditions(scope, filter)

	countQuery := fmt.Sprintf(`
SELECT count(*)
FROM tasks
%s
`, where)

	var total int
	err := s.pgPool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to count tasks")
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	selectQuery := fmt.Sprintf(`
SELECT id,
       owner_id,
       title,
       description,
       completed,
       due_date,
       completed_at,
       created_at,
       updated_at
FROM tasks
%s
ORDER BY created_at DESC, id DESC
LIMIT $%d OFFSET $%d
`, where, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, filter.Offset())

	rows, err := s.pgPool.Query(ctx, selectQuery, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, 0, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0, filter.PageSize)
	for rows.Next() {
		var task models.Task
		err = rows.Scan(
			&task.ID,
			&task.OwnerID,
			&task.Title,
			&task.Description,
			&task.Completed,
			&task.DueDate,
			&task.CompletedAt,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, 0, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, 0, fmt.Errorf("iterate tasks: %w", err)
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Int("total", total).
		Msg("selected tasks")
	return tasks, total, nil
}

func (s *TaskStore) Stats(ctx context.Context, scope storage.Scope) (models.TaskStats, error) {
	where := ""
	args := make([]any, 0, 1)
	if !scope.All() {
		where = "WHERE owner_id = $1"
		args = append(args, scope.OwnerID())
	}

	statsQuery := fmt.Sprintf(`
SELECT count(*),
       count(*) FILTER (WHERE completed),
       count(*) FILTER (WHERE NOT completed AND due_date IS NOT NULL AND due_date < now())
FROM tasks
%s
`, where)

	var total, completed, overdue int
	err := s.pgPool.QueryRow(ctx, statsQuery, args...).Scan(&total, &completed, &overdue)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to aggregate task stats")
		return models.TaskStats{}, fmt.Errorf("aggregate task stats: %w", err)
	}

	s.logger.Debug().
		Int("total", total).
		Msg("aggregated task stats")
	return models.NewTaskStats(total, completed, overdue), nil
}

func (s *TaskStore) GetByID(ctx context.Context, id string) (*models.Task, error) {
	const selectTaskByIDQuery = `
SELECT owner_id,
       title,
       description,
       completed,
       due_date,
       completed_at,
       created_at,
       updated_at
FROM tasks
WHERE id = $1
`
	task := &models.Task{ID: id}
	err := s.pgPool.QueryRow(
		ctx,
		selectTaskByIDQuery,
		id,
	).Scan(
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.DueDate,
		&task.CompletedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to select task by id")
		return nil, fmt.Errorf("select task by id: %w", err)
	}
	return task, nil
}

func (s *TaskStore) Insert(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (id,
                   owner_id,
                   title,
                   description,
                   completed,
                   due_date,
                   completed_at,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	_, err := s.pgPool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		task.Completed,
		task.DueDate,
		task.CompletedAt,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to insert task")
		return fmt.Errorf("insert task: %w", err)
	}

	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")
	return nil
}

func (s *TaskStore) Update(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    completed = $3,
    due_date = $4,
    completed_at = $5,
    updated_at = $6
WHERE id = $7
`
	tag, err := s.pgPool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Completed,
		task.DueDate,
		task.CompletedAt,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("updated task")
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := s.pgPool.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	s.logger.Debug().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}
