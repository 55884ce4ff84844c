package services

import (
	"context"
	"errors"

	"github.com/adanyl0v/go-todo-board/internal/models"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrProjectNotFound     = errors.New("project not found")
	ErrInvalidTaskTitle    = errors.New("invalid task title")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
	ErrInvalidProjectName  = errors.New("invalid project name")
	ErrInvalidProjectColor = errors.New("invalid project color")
)

// listSortKey is the order every listing uses, newest first.
const listSortKey = "created_at"

type TaskService interface {
	// CreateTask stores a new task with a generated ID, fresh timestamps
	// and defaults for the fields left nil.
	//
	// It returns ErrInvalidTaskTitle, ErrInvalidTaskStatus or
	// ErrInvalidTaskPriority if the input is malformed. The project ID
	// is not checked against existing projects.
	CreateTask(ctx context.Context, params models.TaskCreate) (*models.Task, error)

	// GetTasks returns up to 1000 tasks, newest first, optionally
	// filtered by project and status.
	GetTasks(ctx context.Context, params GetTasksParams) ([]models.Task, error)

	// GetTaskByID returns ErrTaskNotFound if there is no such task.
	GetTaskByID(ctx context.Context, taskID string) (*models.Task, error)

	// GetTasksByProjectID is GetTasks filtered by project only.
	GetTasksByProjectID(ctx context.Context, projectID string) ([]models.Task, error)

	// UpdateTask applies the non-nil fields of the update and refreshes
	// updated_at, then reads the task back.
	//
	// It returns ErrTaskNotFound if the task doesn't exist before the
	// write or disappears before the read.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// DeleteTask returns ErrTaskNotFound if nothing was deleted.
	DeleteTask(ctx context.Context, taskID string) error
}

type ProjectService interface {
	CreateProject(ctx context.Context, params models.ProjectCreate) (*models.Project, error)
	GetProjects(ctx context.Context) ([]models.Project, error)
	GetProjectByID(ctx context.Context, projectID string) (*models.Project, error)
	UpdateProject(ctx context.Context, params UpdateProjectParams) (*models.Project, error)

	// DeleteProject deletes the tasks of the project and then the project.
	//
	// It returns ErrProjectNotFound if the project didn't exist, even
	// when tasks referencing it were deleted.
	DeleteProject(ctx context.Context, projectID string) error
}

type StatsService interface {
	GetStats(ctx context.Context) (*models.Stats, error)
}

type GetTasksParams struct {
	// Empty values disable the filter.
	ProjectID string
	Status    models.TaskStatus
}

type UpdateTaskParams struct {
	ID     string
	Update models.TaskUpdate
}

type UpdateProjectParams struct {
	ID     string
	Update models.ProjectUpdate
}
