package models

import "time"

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// Valid reports whether s is one of the known statuses. Any valid status
// may follow any other one.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          string       `bson:"id" db:"id"`
	Title       string       `bson:"title" db:"title"`
	Description string       `bson:"description" db:"description"`
	Status      TaskStatus   `bson:"status" db:"status"`
	Priority    TaskPriority `bson:"priority" db:"priority"`
	DueDate     *time.Time   `bson:"due_date" db:"due_date"`
	ProjectID   *string      `bson:"project_id" db:"project_id"`
	CreatedAt   time.Time    `bson:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `bson:"updated_at" db:"updated_at"`
}

// TaskCreate holds the caller supplied part of a new task. Nil fields
// take their defaults.
type TaskCreate struct {
	Title       string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     *time.Time
	ProjectID   *string
}

// TaskUpdate is a partial update. Only non-nil fields are applied.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     *time.Time
	ProjectID   *string
}

func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil &&
		u.Description == nil &&
		u.Status == nil &&
		u.Priority == nil &&
		u.DueDate == nil &&
		u.ProjectID == nil
}

// Fields returns the document fields the update sets, keyed by their
// stored names. It never includes updated_at.
func (u TaskUpdate) Fields() map[string]any {
	fields := make(map[string]any)
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.Status != nil {
		fields["status"] = string(*u.Status)
	}
	if u.Priority != nil {
		fields["priority"] = string(*u.Priority)
	}
	if u.DueDate != nil {
		fields["due_date"] = Timestamp(*u.DueDate)
	}
	if u.ProjectID != nil {
		// An empty project id detaches the task.
		if *u.ProjectID == "" {
			fields["project_id"] = nil
		} else {
			fields["project_id"] = *u.ProjectID
		}
	}
	return fields
}

// Timestamp normalizes t to the precision every store keeps.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
