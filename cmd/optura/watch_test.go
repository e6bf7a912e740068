package main

import (
	"testing"
	"time"

	"github.com/HANSKMIEL/Optura/internal/model"
)

func TestDiffTasks(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	a := &model.Task{ID: "tk-a", UpdatedAt: t0}
	b := &model.Task{ID: "tk-b", UpdatedAt: t0}

	seen := make(map[string]time.Time)

	// First pass: everything is new.
	changed := diffTasks([]*model.Task{a, b}, seen)
	if len(changed) != 2 {
		t.Fatalf("first diff = %d changes, want 2", len(changed))
	}

	// Unchanged pass: nothing reported.
	changed = diffTasks([]*model.Task{a, b}, seen)
	if len(changed) != 0 {
		t.Fatalf("second diff = %d changes, want 0", len(changed))
	}

	// One task updated.
	b2 := &model.Task{ID: "tk-b", UpdatedAt: t1}
	changed = diffTasks([]*model.Task{a, b2}, seen)
	if len(changed) != 1 || changed[0].ID != "tk-b" {
		t.Fatalf("third diff = %+v, want only tk-b", changed)
	}
}
