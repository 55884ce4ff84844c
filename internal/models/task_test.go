package models

import (
	"testing"
	"time"
)

func TestTaskUpdateFieldsOnlySupplied(t *testing.T) {
	status := StatusDone
	fields := TaskUpdate{Status: &status}.Fields()

	if len(fields) != 1 {
		t.Fatalf("fields = %v, want only status", fields)
	}
	if fields["status"] != "done" {
		t.Errorf("status = %v, want done", fields["status"])
	}
}

func TestTaskUpdateFieldsNormalizesDueDate(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	due := time.Date(2026, 10, 18, 12, 30, 0, 123456789, loc)

	fields := TaskUpdate{DueDate: &due}.Fields()

	got, ok := fields["due_date"].(time.Time)
	if !ok {
		t.Fatalf("due_date has type %T", fields["due_date"])
	}
	want := time.Date(2026, 10, 18, 9, 30, 0, 123000000, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("due_date = %v, want %v", got, want)
	}
}

func TestTaskUpdateIsEmpty(t *testing.T) {
	if !(TaskUpdate{}).IsEmpty() {
		t.Error("zero update is not empty")
	}
	title := "x"
	if (TaskUpdate{Title: &title}).IsEmpty() {
		t.Error("update with title is empty")
	}
}

func TestStatusAndPriorityAreClosed(t *testing.T) {
	for _, s := range []TaskStatus{StatusTodo, StatusInProgress, StatusDone} {
		if !s.Valid() {
			t.Errorf("%q is not valid", s)
		}
	}
	if TaskStatus("completed").Valid() {
		t.Error("unknown status is valid")
	}
	if TaskPriority("urgent").Valid() {
		t.Error("unknown priority is valid")
	}
	if !PriorityHigh.Valid() {
		t.Error("high is not valid")
	}
}

func TestIsHexColor(t *testing.T) {
	tests := map[string]bool{
		DefaultProjectColor: true,
		"#fff":              true,
		"#6D28D9":           true,
		"8B5CF6":            false,
		"#12345":            false,
		"purple":            false,
	}
	for in, want := range tests {
		if got := IsHexColor(in); got != want {
			t.Errorf("IsHexColor(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTaskUpdateFieldsEmptyProjectDetaches(t *testing.T) {
	empty := ""
	fields := TaskUpdate{ProjectID: &empty}.Fields()

	v, ok := fields["project_id"]
	if !ok {
		t.Fatal("project_id missing")
	}
	if v != nil {
		t.Errorf("project_id = %v, want nil", v)
	}
}
