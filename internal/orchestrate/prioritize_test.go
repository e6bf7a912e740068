package orchestrate

import (
	"testing"

	"github.com/HANSKMIEL/Optura/internal/model"
)

func orderedTask(id string, status model.TaskStatus, order int) *model.Task {
	t := task(id, "pj-1", id, status, nil)
	t.Order = order
	return t
}

func applyChanges(tasks []*model.Task, res *model.ReprioritizeResult) {
	byID := make(map[string]*model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	for _, c := range res.Changes {
		byID[c.TaskID].Order = c.NewOrder
	}
}

func TestReprioritizeFavorsWorkInFlight(t *testing.T) {
	tasks := []*model.Task{
		orderedTask("tk-a", model.StatusPending, 0),
		orderedTask("tk-b", model.StatusInProgress, 1),
		orderedTask("tk-c", model.StatusBlocked, 2),
		orderedTask("tk-d", model.StatusReview, 3),
	}

	res := Reprioritize("pj-1", tasks)
	// Expected order: in_progress, review, pending, blocked.
	want := map[string]int{"tk-b": 0, "tk-d": 1, "tk-a": 2, "tk-c": 3}
	applyChanges(tasks, res)
	for _, tk := range tasks {
		if tk.Order != want[tk.ID] {
			t.Errorf("%s order = %d, want %d", tk.ID, tk.Order, want[tk.ID])
		}
	}
	if res.TotalTasks != 4 {
		t.Errorf("total tasks = %d, want 4", res.TotalTasks)
	}
}

func TestReprioritizeStableWithinRank(t *testing.T) {
	tasks := []*model.Task{
		orderedTask("tk-a", model.StatusPending, 0),
		orderedTask("tk-b", model.StatusPending, 1),
		orderedTask("tk-c", model.StatusPending, 2),
	}

	res := Reprioritize("pj-1", tasks)
	if len(res.Changes) != 0 {
		t.Errorf("equal-rank tasks in order should yield no changes, got %v", res.Changes)
	}
}

func TestReprioritizeMinimalChangeSet(t *testing.T) {
	tasks := []*model.Task{
		orderedTask("tk-a", model.StatusInProgress, 0),
		orderedTask("tk-b", model.StatusPending, 1),
		orderedTask("tk-c", model.StatusBlocked, 2),
	}

	// Already in rank order: nothing to report.
	res := Reprioritize("pj-1", tasks)
	if len(res.Changes) != 0 {
		t.Errorf("expected empty change set, got %v", res.Changes)
	}
}

func TestReprioritizeIdempotent(t *testing.T) {
	tasks := []*model.Task{
		orderedTask("tk-a", model.StatusCompleted, 0),
		orderedTask("tk-b", model.StatusInProgress, 1),
		orderedTask("tk-c", model.StatusPending, 2),
		orderedTask("tk-d", model.StatusReview, 3),
	}

	first := Reprioritize("pj-1", tasks)
	if len(first.Changes) == 0 {
		t.Fatal("expected first pass to move tasks")
	}
	applyChanges(tasks, first)

	second := Reprioritize("pj-1", tasks)
	if len(second.Changes) != 0 {
		t.Errorf("second pass should be a no-op, got %v", second.Changes)
	}
}
