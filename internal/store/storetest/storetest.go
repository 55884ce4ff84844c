// Package storetest checks that a store.Store implementation behaves the way
// the services expect. Each adapter package runs it against its own backend.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adanyl0v/go-todo-board/internal/models"
	"github.com/adanyl0v/go-todo-board/internal/store"
)

// Run runs the suite. newStore must return an empty store every time.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("InsertAndFindOne", func(t *testing.T) { testInsertAndFindOne(t, newStore(t)) })
	t.Run("DuplicateID", func(t *testing.T) { testDuplicateID(t, newStore(t)) })
	t.Run("FindFilterSortLimit", func(t *testing.T) { testFindFilterSortLimit(t, newStore(t)) })
	t.Run("UpdateOne", func(t *testing.T) { testUpdateOne(t, newStore(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("CountAndDistinct", func(t *testing.T) { testCountAndDistinct(t, newStore(t)) })
	t.Run("Projects", func(t *testing.T) { testProjects(t, newStore(t)) })
}

var base = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func newTask(id string, offset time.Duration, projectID *string) models.Task {
	created := base.Add(offset)
	return models.Task{
		ID:          id,
		Title:       "task " + id,
		Description: "",
		Status:      models.StatusTodo,
		Priority:    models.PriorityMedium,
		ProjectID:   projectID,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func insertTasks(t *testing.T, s store.Store, tasks ...models.Task) {
	t.Helper()
	for i := range tasks {
		if err := s.Tasks().InsertOne(context.Background(), &tasks[i]); err != nil {
			t.Fatalf("insert task %s: %v", tasks[i].ID, err)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}

func testInsertAndFindOne(t *testing.T, s store.Store) {
	ctx := context.Background()
	task := newTask("t1", 0, ptr("p1"))
	task.DueDate = ptr(base.Add(72 * time.Hour))
	insertTasks(t, s, task)

	got, err := s.Tasks().FindOne(ctx, store.Filter{"id": "t1"})
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if got.Title != task.Title || got.Status != task.Status || got.Priority != task.Priority {
		t.Errorf("got %+v, want %+v", got, task)
	}
	if got.ProjectID == nil || *got.ProjectID != "p1" {
		t.Errorf("project id = %v, want p1", got.ProjectID)
	}
	if got.DueDate == nil || !got.DueDate.Equal(*task.DueDate) {
		t.Errorf("due date = %v, want %v", got.DueDate, task.DueDate)
	}
	if !got.CreatedAt.Equal(task.CreatedAt) {
		t.Errorf("created at = %v, want %v", got.CreatedAt, task.CreatedAt)
	}

	_, err = s.Tasks().FindOne(ctx, store.Filter{"id": "missing"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("find missing: err = %v, want ErrNotFound", err)
	}
}

func testDuplicateID(t *testing.T, s store.Store) {
	insertTasks(t, s, newTask("t1", 0, nil))

	dup := newTask("t1", time.Second, nil)
	err := s.Tasks().InsertOne(context.Background(), &dup)
	if !errors.Is(err, store.ErrDuplicateID) {
		t.Errorf("err = %v, want ErrDuplicateID", err)
	}
}

func testFindFilterSortLimit(t *testing.T, s store.Store) {
	ctx := context.Background()
	insertTasks(t, s,
		newTask("t1", 0, ptr("p1")),
		newTask("t2", time.Minute, ptr("p2")),
		newTask("t3", 2*time.Minute, ptr("p1")),
		newTask("t4", 3*time.Minute, nil),
	)

	all, err := s.Tasks().Find(ctx, nil, store.FindOptions{SortBy: "created_at", Descending: true})
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	assertIDs(t, all, "t4", "t3", "t2", "t1")

	byProject, err := s.Tasks().Find(ctx, store.Filter{"project_id": "p1"}, store.FindOptions{SortBy: "created_at", Descending: true})
	if err != nil {
		t.Fatalf("find by project: %v", err)
	}
	assertIDs(t, byProject, "t3", "t1")

	limited, err := s.Tasks().Find(ctx, nil, store.FindOptions{SortBy: "created_at", Limit: 2})
	if err != nil {
		t.Fatalf("find limited: %v", err)
	}
	assertIDs(t, limited, "t1", "t2")

	none, err := s.Tasks().Find(ctx, store.Filter{"status": string(models.StatusDone)}, store.FindOptions{})
	if err != nil {
		t.Fatalf("find none: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("find none = %#v, want empty non-nil slice", none)
	}
}

func assertIDs(t *testing.T, tasks []models.Task, ids ...string) {
	t.Helper()
	if len(tasks) != len(ids) {
		t.Fatalf("got %d tasks, want %d", len(tasks), len(ids))
	}
	for i, id := range ids {
		if tasks[i].ID != id {
			t.Errorf("tasks[%d].ID = %s, want %s", i, tasks[i].ID, id)
		}
	}
}

func testUpdateOne(t *testing.T, s store.Store) {
	ctx := context.Background()
	insertTasks(t, s, newTask("t1", 0, ptr("p1")))

	updatedAt := base.Add(time.Hour)
	matched, err := s.Tasks().UpdateOne(ctx, store.Filter{"id": "t1"}, store.Fields{
		"status":     string(models.StatusDone),
		"project_id": nil,
		"updated_at": updatedAt,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if matched != 1 {
		t.Errorf("matched = %d, want 1", matched)
	}

	got, err := s.Tasks().FindOne(ctx, store.Filter{"id": "t1"})
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if got.Status != models.StatusDone {
		t.Errorf("status = %s, want done", got.Status)
	}
	if got.ProjectID != nil {
		t.Errorf("project id = %v, want nil", *got.ProjectID)
	}
	if got.Title != "task t1" || got.Priority != models.PriorityMedium {
		t.Errorf("unrelated fields changed: %+v", got)
	}
	if !got.UpdatedAt.Equal(updatedAt) {
		t.Errorf("updated at = %v, want %v", got.UpdatedAt, updatedAt)
	}

	matched, err = s.Tasks().UpdateOne(ctx, store.Filter{"id": "missing"}, store.Fields{"title": "x"})
	if err != nil {
		t.Fatalf("update missing: %v", err)
	}
	if matched != 0 {
		t.Errorf("matched = %d, want 0", matched)
	}
}

func testDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	insertTasks(t, s,
		newTask("t1", 0, ptr("p1")),
		newTask("t2", time.Minute, ptr("p1")),
		newTask("t3", 2*time.Minute, ptr("p2")),
	)

	deleted, err := s.Tasks().DeleteMany(ctx, store.Filter{"project_id": "p1"})
	if err != nil {
		t.Fatalf("delete many: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	deleted, err = s.Tasks().DeleteOne(ctx, store.Filter{"id": "t3"})
	if err != nil {
		t.Fatalf("delete one: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	deleted, err = s.Tasks().DeleteOne(ctx, store.Filter{"id": "t3"})
	if err != nil {
		t.Fatalf("delete one again: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}
}

func testCountAndDistinct(t *testing.T, s store.Store) {
	ctx := context.Background()
	done := newTask("t2", time.Minute, ptr("p1"))
	done.Status = models.StatusDone
	done.Priority = models.PriorityHigh
	high := newTask("t3", 2*time.Minute, ptr("p2"))
	high.Priority = models.PriorityHigh
	insertTasks(t, s, newTask("t1", 0, ptr("p1")), done, high, newTask("t4", 3*time.Minute, nil))

	total, err := s.Tasks().Count(ctx, nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}

	highOpen, err := s.Tasks().Count(ctx, store.Filter{
		"priority": string(models.PriorityHigh),
		"status":   store.Ne(string(models.StatusDone)),
	})
	if err != nil {
		t.Fatalf("count high: %v", err)
	}
	if highOpen != 1 {
		t.Errorf("high and not done = %d, want 1", highOpen)
	}

	projects, err := s.Tasks().Distinct(ctx, "project_id", store.Filter{"project_id": store.Ne(nil)})
	if err != nil {
		t.Fatalf("distinct: %v", err)
	}
	if len(projects) != 2 {
		t.Errorf("distinct project ids = %v, want 2 values", projects)
	}
}

func testProjects(t *testing.T, s store.Store) {
	ctx := context.Background()
	project := models.Project{
		ID:          "p1",
		Name:        "Marketing",
		Description: "launch",
		Color:       models.DefaultProjectColor,
		CreatedAt:   base,
		UpdatedAt:   base,
	}
	if err := s.Projects().InsertOne(ctx, &project); err != nil {
		t.Fatalf("insert project: %v", err)
	}

	got, err := s.Projects().FindOne(ctx, store.Filter{"id": "p1"})
	if err != nil {
		t.Fatalf("find project: %v", err)
	}
	if got.Name != project.Name || got.Description != project.Description || got.Color != project.Color {
		t.Errorf("got %+v, want %+v", *got, project)
	}
	if !got.CreatedAt.Equal(project.CreatedAt) || !got.UpdatedAt.Equal(project.UpdatedAt) {
		t.Errorf("timestamps = %v/%v, want %v", got.CreatedAt, got.UpdatedAt, base)
	}

	n, err := s.Projects().Count(ctx, nil)
	if err != nil {
		t.Fatalf("count projects: %v", err)
	}
	if n != 1 {
		t.Errorf("projects = %d, want 1", n)
	}
}
