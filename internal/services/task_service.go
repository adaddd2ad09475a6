package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"tasktrack/internal/models"
	"tasktrack/internal/timecalc"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	now    func() time.Time
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
		now:    time.Now,
	}
}

// validateNewTask rejects tasks without a title or category. Both are
// required columns; everything else has a default or is optional.
func validateNewTask(title, category string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrTaskValidation)
	}
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: category is required", ErrTaskValidation)
	}
	return nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	err := validateNewTask(params.Title, params.Category)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", params.UserID).
			Msg("invalid task")
		return nil, err
	}

	task := &models.Task{
		UserID:      params.UserID,
		Title:       params.Title,
		Description: params.Description,
		Category:    params.Category,
		Priority:    params.Priority,
		CreatedAt:   s.now().UTC(),
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	if params.Deadline != "" {
		deadline, err := timecalc.ParseTimestamp(params.Deadline)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("deadline", params.Deadline).
				Msg("invalid deadline")
			return nil, err
		}
		task.Deadline = &deadline
	}

	const insertTaskQuery = `
INSERT INTO tasks (user_id,
                   title,
                   description,
                   category,
                   priority,
                   deadline,
                   completed,
                   progress,
                   created_at)
VALUES ($1, $2, $3, $4, $5, $6, FALSE, 0, $7)
RETURNING id
`
	err = s.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		task.UserID,
		task.Title,
		task.Description,
		task.Category,
		task.Priority,
		task.Deadline,
		task.CreatedAt,
	).Scan(&task.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("inserted task")

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

// getOwnedTask fetches a task by id and checks ownership. A missing row
// yields ErrTaskNotFound, a row owned by someone else ErrTaskForbidden.
func (s *taskServiceImpl) getOwnedTask(ctx context.Context, userID string, taskID int64) (*models.Task, error) {
	task := &models.Task{ID: taskID}

	const selectTaskByIDQuery = `
SELECT user_id,
       title,
       description,
       category,
       priority,
       deadline,
       start_time,
       end_time,
       completed,
       progress,
       created_at
FROM tasks
WHERE id = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectTaskByIDQuery,
		task.ID,
	).Scan(
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Category,
		&task.Priority,
		&task.Deadline,
		&task.StartTime,
		&task.EndTime,
		&task.Completed,
		&task.Progress,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Int64("task_id", taskID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to select task by id")
		return nil, err
	}

	if task.UserID != userID {
		s.logger.Error().
			Int64("task_id", taskID).
			Str("user_id", userID).
			Msg("task belongs to another user")
		return nil, ErrTaskForbidden
	}
	return task, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, userID string, taskID int64) (*models.Task, error) {
	return s.getOwnedTask(ctx, userID, taskID)
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID, titleFilter string) ([]*models.Task, error) {
	const selectTasksByUserIDQuery = `
SELECT id,
       title,
       description,
       category,
       priority,
       deadline,
       start_time,
       end_time,
       completed,
       progress,
       created_at
FROM tasks
WHERE user_id = $1
ORDER BY created_at
`
	const selectTasksByUserIDAndTitleQuery = `
SELECT id,
       title,
       description,
       category,
       priority,
       deadline,
       start_time,
       end_time,
       completed,
       progress,
       created_at
FROM tasks
WHERE user_id = $1 AND
      title ILIKE '%' || $2 || '%'
ORDER BY created_at
`
	var (
		rows pgx.Rows
		err  error
	)
	if titleFilter == "" {
		rows, err = s.pgPool.Query(ctx, selectTasksByUserIDQuery, userID)
	} else {
		rows, err = s.pgPool.Query(ctx, selectTasksByUserIDAndTitleQuery, userID, titleFilter)
	}
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks by user id")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := &models.Task{UserID: userID}
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Category,
			&task.Priority,
			&task.Deadline,
			&task.StartTime,
			&task.EndTime,
			&task.Completed,
			&task.Progress,
			&task.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("selected tasks by user id")
	return tasks, nil
}

// applyTimestampField resolves one raw timestamp field of a partial
// update: nil keeps the current value, an empty string clears it, and
// anything else must parse.
func applyTimestampField(raw *string, current *time.Time) (*time.Time, error) {
	if raw == nil {
		return current, nil
	}
	if *raw == "" {
		return nil, nil
	}
	parsed, err := timecalc.ParseTimestamp(*raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.getOwnedTask(ctx, params.UserID, params.ID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Category != nil {
		task.Category = *params.Category
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.Completed != nil {
		task.Completed = *params.Completed
	}
	if params.Progress != nil {
		task.Progress = *params.Progress
	}

	err = validateNewTask(task.Title, task.Category)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("invalid task update")
		return nil, err
	}

	task.Deadline, err = applyTimestampField(params.Deadline, task.Deadline)
	if err == nil {
		task.StartTime, err = applyTimestampField(params.StartTime, task.StartTime)
	}
	if err == nil {
		task.EndTime, err = applyTimestampField(params.EndTime, task.EndTime)
	}
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("invalid timestamp in task update")
		return nil, err
	}

	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    category = $3,
    priority = $4,
    deadline = $5,
    start_time = $6,
    end_time = $7,
    completed = $8,
    progress = $9
WHERE id = $10
`
	_, err = s.pgPool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Category,
		task.Priority,
		task.Deadline,
		task.StartTime,
		task.EndTime,
		task.Completed,
		task.Progress,
		task.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID string, taskID int64) error {
	_, err := s.getOwnedTask(ctx, userID, taskID)
	if err != nil {
		return err
	}

	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	_, err = s.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		taskID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to delete task")
		return err
	}

	s.logger.Info().
		Int64("task_id", taskID).
		Str("user_id", userID).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) StartTask(ctx context.Context, userID string, taskID int64) (*models.Task, error) {
	task, err := s.getOwnedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task.StartTime = &now

	const updateStartTimeQuery = `
UPDATE tasks
SET start_time = $1
WHERE id = $2
`
	_, err = s.pgPool.Exec(
		ctx,
		updateStartTimeQuery,
		task.StartTime,
		task.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to set start time")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("user_id", userID).
		Msg("started task")
	return task, nil
}

func (s *taskServiceImpl) EndTask(ctx context.Context, userID string, taskID int64) (*models.Task, error) {
	task, err := s.getOwnedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task.EndTime = &now

	const updateEndTimeQuery = `
UPDATE tasks
SET end_time = $1
WHERE id = $2
`
	_, err = s.pgPool.Exec(
		ctx,
		updateEndTimeQuery,
		task.EndTime,
		task.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to set end time")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("user_id", userID).
		Msg("ended task")
	return task, nil
}

func (s *taskServiceImpl) CompleteTask(ctx context.Context, userID string, taskID int64) (*models.Task, error) {
	task, err := s.getOwnedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	// Idempotent: completing a completed task is a no-op.
	task.Completed = true

	const updateCompletedQuery = `
UPDATE tasks
SET completed = TRUE
WHERE id = $1
`
	_, err = s.pgPool.Exec(
		ctx,
		updateCompletedQuery,
		task.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to mark task completed")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("user_id", userID).
		Msg("completed task")
	return task, nil
}
