package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-board/internal/models"
	"github.com/adanyl0v/go-todo-board/internal/store"
	"github.com/adanyl0v/go-todo-board/internal/store/memory"
)

type clock struct {
	t time.Time
}

func (c *clock) Now() time.Time {
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type testServices struct {
	store    store.Store
	clock    *clock
	tasks    *taskServiceImpl
	projects *projectServiceImpl
	stats    StatsService
}

func newTestServices(t *testing.T, st store.Store) *testServices {
	t.Helper()

	c := &clock{t: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
	tasks := NewTaskService(zerolog.Nop(), st).(*taskServiceImpl)
	tasks.now = c.Now
	projects := NewProjectService(zerolog.Nop(), st).(*projectServiceImpl)
	projects.now = c.Now

	return &testServices{
		store:    st,
		clock:    c,
		tasks:    tasks,
		projects: projects,
		stats:    NewStatsService(zerolog.Nop(), st),
	}
}

func ptr[T any](v T) *T {
	return &v
}

func (s *testServices) mustCreateTask(t *testing.T, params models.TaskCreate) *models.Task {
	t.Helper()
	task, err := s.tasks.CreateTask(context.Background(), params)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	s.clock.Advance(time.Second)
	return task
}

func (s *testServices) mustCreateProject(t *testing.T, name string) *models.Project {
	t.Helper()
	project, err := s.projects.CreateProject(context.Background(), models.ProjectCreate{Name: name})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	s.clock.Advance(time.Second)
	return project
}

func TestCreateTaskDefaults(t *testing.T) {
	s := newTestServices(t, memory.New())

	task := s.mustCreateTask(t, models.TaskCreate{Title: "X"})

	if task.ID == "" {
		t.Error("empty id")
	}
	if task.Status != models.StatusTodo {
		t.Errorf("status = %s, want todo", task.Status)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("priority = %s, want medium", task.Priority)
	}
	if task.Description != "" || task.DueDate != nil || task.ProjectID != nil {
		t.Errorf("optional fields set: %+v", task)
	}
	if !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Errorf("created_at %v != updated_at %v", task.CreatedAt, task.UpdatedAt)
	}
}

func TestCreateTaskUniqueIDs(t *testing.T) {
	s := newTestServices(t, memory.New())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		task := s.mustCreateTask(t, models.TaskCreate{Title: "X"})
		if seen[task.ID] {
			t.Fatalf("duplicate id %s", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestCreateTaskRejectsInvalidInput(t *testing.T) {
	s := newTestServices(t, memory.New())
	ctx := context.Background()

	tests := []struct {
		name   string
		params models.TaskCreate
		want   error
	}{
		{name: "title", params: models.TaskCreate{}, want: ErrInvalidTaskTitle},
		{name: "status", params: models.TaskCreate{Title: "X", Status: ptr(models.TaskStatus("blocked"))}, want: ErrInvalidTaskStatus},
		{name: "priority", params: models.TaskCreate{Title: "X", Priority: ptr(models.TaskPriority("urgent"))}, want: ErrInvalidTaskPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.tasks.CreateTask(ctx, tt.params)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	n, err := s.store.Tasks().Count(ctx, nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("%d tasks stored after invalid input", n)
	}
}

func TestTaskRoundTrip(t *testing.T) {
	s := newTestServices(t, memory.New())
	ctx := context.Background()

	due := time.Date(2026, 10, 25, 12, 0, 0, 123456789, time.UTC)
	created := s.mustCreateTask(t, models.TaskCreate{
		Title:       "Write report",
		Description: ptr("quarterly"),
		Priority:    ptr(models.PriorityLow),
		DueDate:     &due,
		ProjectID:   ptr("p1"),
	})

	got, err := s.tasks.GetTaskByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	assertTasksEqual(t, got, created)

	again, err := s.tasks.GetTaskByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	assertTasksEqual(t, again, got)

	if !got.DueDate.Equal(due.Truncate(time.Millisecond)) {
		t.Errorf("due date = %v, want %v", got.DueDate, due)
	}
}

func assertTasksEqual(t *testing.T, got, want *models.Task) {
	t.Helper()
	if got.ID != want.ID ||
		got.Title != want.Title ||
		got.Description != want.Description ||
		got.Status != want.Status ||
		got.Priority != want.Priority ||
		!got.CreatedAt.Equal(want.CreatedAt) ||
		!got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if (got.DueDate == nil) != (want.DueDate == nil) ||
		(got.DueDate != nil && !got.DueDate.Equal(*want.DueDate)) {
		t.Errorf("due date = %v, want %v", got.DueDate, want.DueDate)
	}
	if (got.ProjectID == nil) != (want.ProjectID == nil) ||
		(got.ProjectID != nil && *got.ProjectID != *want.ProjectID) {
		t.Errorf("project id = %v, want %v", got.ProjectID, want.ProjectID)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	s := newTestServices(t, memory.New())

	_, err := s.tasks.GetTaskByID(context.Background(), "missing")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestUpdateTaskMergesOnlySuppliedFields(t *testing.T) {
	s := newTestServices(t, memory.New())
	ctx := context.Background()

	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	created := s.mustCreateTask(t, models.TaskCreate{
		Title:       "X",
		Description: ptr("d"),
		Priority:    ptr(models.PriorityLow),
		DueDate:     &due,
	})

	updated, err := s.tasks.UpdateTask(ctx, UpdateTaskParams{
		ID:     created.ID,
		Update: models.TaskUpdate{Status: ptr(models.StatusDone)},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Status != models.StatusDone {
		t.Errorf("status = %s, want done", updated.Status)
	}
	if updated.Title != "X" || updated.Description != "d" || updated.Priority != models.PriorityLow {
		t.Errorf("unsupplied fields changed: %+v", updated)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(due) {
		t.Errorf("due date = %v, want %v", updated.DueDate, due)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("updated_at %v not after %v", updated.UpdatedAt, created.UpdatedAt)
	}
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		t.Errorf("updated_at %v before created_at %v", updated.UpdatedAt, updated.CreatedAt)
	}
}

func TestUpdateTaskAllowsAnyStatusTransition(t *testing.T) {
	s := newTestServices(t, memory.New())
	task := s.mustCreateTask(t, models.TaskCreate{Title: "X"})

	for _, status := range []models.TaskStatus{models.StatusDone, models.StatusTodo, models.StatusInProgress, models.StatusTodo} {
		updated, err := s.tasks.UpdateTask(context.Background(), UpdateTaskParams{
			ID:     task.ID,
			Update: models.TaskUpdate{Status: ptr(status)},
		})
		if err != nil {
			t.Fatalf("set %s: %v", status, err)
		}
		if updated.Status != status {
			t.Errorf("status = %s, want %s", updated.Status, status)
		}
	}
}

func TestUpdateTaskUpdatedAtNeverDecreases(t *testing.T) {
	s := newTestServices(t, memory.New())
	task := s.mustCreateTask(t, models.TaskCreate{Title: "X"})

	s.clock.Advance(-time.Hour)
	updated, err := s.tasks.UpdateTask(context.Background(), UpdateTaskParams{
		ID:     task.ID,
		Update: models.TaskUpdate{Title: ptr("Y")},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.UpdatedAt.Before(task.UpdatedAt) {
		t.Errorf("updated_at went back from %v to %v", task.UpdatedAt, updated.UpdatedAt)
	}
}

func TestUpdateTaskEmptyRefreshesUpdatedAt(t *testing.T) {
	s := newTestServices(t, memory.New())
	task := s.mustCreateTask(t, models.TaskCreate{Title: "X"})

	updated, err := s.tasks.UpdateTask(context.Background(), UpdateTaskParams{ID: task.ID})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.UpdatedAt.After(task.UpdatedAt) {
		t.Errorf("updated_at %v not after %v", updated.UpdatedAt, task.UpdatedAt)
	}
	if updated.Title != task.Title {
		t.Errorf("title = %q, want %q", updated.Title, task.Title)
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	s := newTestServices(t, memory.New())

	_, err := s.tasks.UpdateTask(context.Background(), UpdateTaskParams{
		ID:     "missing",
		Update: models.TaskUpdate{Title: ptr("Y")},
	})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestDeleteTask(t *testing.T) {
	s := newTestServices(t, memory.New())
	ctx := context.Background()
	task := s.mustCreateTask(t, models.TaskCreate{Title: "X"})

	err := s.tasks.DeleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	err = s.tasks.DeleteTask(ctx, task.ID)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("second delete: err = %v, want ErrTaskNotFound", err)
	}
}

func TestGetTasksFiltersAndOrder(t *testing.T) {
	s := newTestServices(t, memory.New())
	ctx := context.Background()

	first := s.mustCreateTask(t, models.TaskCreate{Title: "1", ProjectID: ptr("p1")})
	second := s.mustCreateTask(t, models.TaskCreate{Title: "2", ProjectID: ptr("p2")})
	third := s.mustCreateTask(t, models.TaskCreate{Title: "3", ProjectID: ptr("p1"), Status: ptr(models.StatusDone)})

	all, err := s.tasks.GetTasks(ctx, GetTasksParams{})
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	assertTaskIDs(t, all, third.ID, second.ID, first.ID)

	byProject, err := s.tasks.GetTasks(ctx, GetTasksParams{ProjectID: "p1"})
	if err != nil {
		t.Fatalf("get by project: %v", err)
	}
	assertTaskIDs(t, byProject, third.ID, first.ID)

	byBoth, err := s.tasks.GetTasks(ctx, GetTasksParams{ProjectID: "p1", Status: models.StatusTodo})
	if err != nil {
		t.Fatalf("get by project and status: %v", err)
	}
	assertTaskIDs(t, byBoth, first.ID)

	_, err = s.tasks.GetTasks(ctx, GetTasksParams{Status: "blocked"})
	if !errors.Is(err, ErrInvalidTaskStatus) {
		t.Errorf("err = %v, want ErrInvalidTaskStatus", err)
	}
}

func assertTaskIDs(t *testing.T, tasks []models.Task, ids ...string) {
	t.Helper()
	if len(tasks) != len(ids) {
		t.Fatalf("got %d tasks, want %d", len(tasks), len(ids))
	}
	for i, id := range ids {
		if tasks[i].ID != id {
			t.Errorf("tasks[%d] = %s, want %s", i, tasks[i].ID, id)
		}
	}
}
