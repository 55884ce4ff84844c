package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-board/internal/models"
	"github.com/adanyl0v/go-todo-board/internal/store"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	store  store.Store
	now    func() time.Time
}

func NewTaskService(
	logger zerolog.Logger,
	st store.Store,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		store:  st,
		now:    time.Now,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params models.TaskCreate) (*models.Task, error) {
	if params.Title == "" {
		return nil, ErrInvalidTaskTitle
	}

	now := models.Timestamp(s.now())
	task := &models.Task{
		ID:        uuid.NewString(),
		Title:     params.Title,
		Status:    models.StatusTodo,
		Priority:  models.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Status != nil {
		if !params.Status.Valid() {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *params.Status
	}
	if params.Priority != nil {
		if !params.Priority.Valid() {
			return nil, ErrInvalidTaskPriority
		}
		task.Priority = *params.Priority
	}
	if params.DueDate != nil {
		dueDate := models.Timestamp(*params.DueDate)
		task.DueDate = &dueDate
	}
	if params.ProjectID != nil && *params.ProjectID != "" {
		projectID := *params.ProjectID
		task.ProjectID = &projectID
	}

	err := s.store.Tasks().InsertOne(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTasks(ctx context.Context, params GetTasksParams) ([]models.Task, error) {
	filter := store.Filter{}
	if params.ProjectID != "" {
		filter["project_id"] = params.ProjectID
	}
	if params.Status != "" {
		if !params.Status.Valid() {
			return nil, ErrInvalidTaskStatus
		}
		filter["status"] = string(params.Status)
	}

	return s.findTasks(ctx, filter)
}

func (s *taskServiceImpl) GetTasksByProjectID(ctx context.Context, projectID string) ([]models.Task, error) {
	return s.findTasks(ctx, store.Filter{"project_id": projectID})
}

func (s *taskServiceImpl) findTasks(ctx context.Context, filter store.Filter) ([]models.Task, error) {
	tasks, err := s.store.Tasks().Find(ctx, filter, store.FindOptions{
		SortBy:     listSortKey,
		Descending: true,
		Limit:      store.MaxFindLimit,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Msg("selected tasks")

	return tasks, nil
}

func (s *taskServiceImpl) GetTaskByID(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.store.Tasks().FindOne(ctx, store.Filter{"id": taskID})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Warn().
				Str("task_id", taskID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", taskID).
		Msg("selected task")

	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	update := params.Update
	if update.Title != nil && *update.Title == "" {
		return nil, ErrInvalidTaskTitle
	}
	if update.Status != nil && !update.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}
	if update.Priority != nil && !update.Priority.Valid() {
		return nil, ErrInvalidTaskPriority
	}

	existing, err := s.GetTaskByID(ctx, params.ID)
	if err != nil {
		return nil, err
	}

	fields := store.Fields(update.Fields())
	fields["updated_at"] = refreshedAt(s.now(), existing.UpdatedAt)

	matched, err := s.store.Tasks().UpdateOne(ctx, store.Filter{"id": params.ID}, fields)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", params.ID).
			Msg("failed to update task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", params.ID).
		Int64("matched", matched).
		Int("fields", len(fields)).
		Msg("updated task")

	// Not atomic with the write: a concurrent delete surfaces as not found.
	task, err := s.GetTaskByID(ctx, params.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", params.ID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, taskID string) error {
	deleted, err := s.store.Tasks().DeleteOne(ctx, store.Filter{"id": taskID})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		return err
	}
	if deleted == 0 {
		s.logger.Warn().
			Str("task_id", taskID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Info().
		Str("task_id", taskID).
		Msg("deleted task")
	return nil
}

// refreshedAt returns the next updated_at value. It never goes back in time,
// even if the wall clock does.
func refreshedAt(now, previous time.Time) time.Time {
	now = models.Timestamp(now)
	if now.Before(previous) {
		return previous
	}
	return now
}
