package server

import (
	"testing"

	"github.com/HANSKMIEL/Optura/internal/model"
	"github.com/HANSKMIEL/Optura/internal/orchestrate"
)

func hoursPtr(h float64) *float64 { return &h }

// seedChain builds A -> B -> C with estimates 2h, 3h, 1h.
func seedChain(ms *mockStore) {
	seedProject(ms, "pj-1", "demo")
	a := seedTask(ms, "tk-a", "pj-1", "A", model.StatusPending, 0)
	b := seedTask(ms, "tk-b", "pj-1", "B", model.StatusPending, 1)
	c := seedTask(ms, "tk-c", "pj-1", "C", model.StatusPending, 2)
	a.EstimateHours = hoursPtr(2)
	b.EstimateHours = hoursPtr(3)
	c.EstimateHours = hoursPtr(1)
	ms.deps["tk-b"] = []*model.TaskDependency{{TaskID: "tk-b", DependsOnTaskID: "tk-a"}}
	ms.deps["tk-c"] = []*model.TaskDependency{{TaskID: "tk-c", DependsOnTaskID: "tk-b"}}
}

func TestHandleCriticalPath(t *testing.T) {
	_, ms, h := newTestServer()
	seedChain(ms)

	rec := doJSON(t, h, "GET", "/v1/projects/pj-1/critical-path", nil)
	requireStatus(t, rec, 200)

	var got model.CriticalPathResult
	decodeJSON(t, rec, &got)
	if got.TotalHours != 6 {
		t.Fatalf("total hours = %v, want 6", got.TotalHours)
	}
	if len(got.CriticalPath) != 3 {
		t.Fatalf("path length = %d, want 3", len(got.CriticalPath))
	}
	for i, want := range []string{"tk-a", "tk-b", "tk-c"} {
		if got.CriticalPath[i].TaskID != want {
			t.Fatalf("path[%d] = %q, want %q", i, got.CriticalPath[i].TaskID, want)
		}
	}
}

func TestHandleCriticalPathCycle(t *testing.T) {
	_, ms, h := newTestServer()
	seedChain(ms)
	// Close the loop: A depends on C.
	ms.deps["tk-a"] = []*model.TaskDependency{{TaskID: "tk-a", DependsOnTaskID: "tk-c"}}

	rec := doJSON(t, h, "GET", "/v1/projects/pj-1/critical-path", nil)
	requireStatus(t, rec, 200)

	var got model.CriticalPathResult
	decodeJSON(t, rec, &got)
	if got.Error != orchestrate.CircularDependency {
		t.Fatalf("error = %q, want %q", got.Error, orchestrate.CircularDependency)
	}
	if len(got.CriticalPath) != 0 || got.TotalHours != 0 {
		t.Fatalf("cycle result not empty: %+v", got)
	}
}

func TestHandleGetGraph(t *testing.T) {
	_, ms, h := newTestServer()
	seedChain(ms)

	rec := doJSON(t, h, "GET", "/v1/projects/pj-1/graph", nil)
	requireStatus(t, rec, 200)

	var got model.GraphResponse
	decodeJSON(t, rec, &got)
	if len(got.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(got.Nodes))
	}
	if len(got.Edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(got.Edges))
	}
	// Edges point from prerequisite to dependent.
	want := map[string]string{"tk-a": "tk-b", "tk-b": "tk-c"}
	for _, e := range got.Edges {
		if want[e.From] != e.To {
			t.Fatalf("unexpected edge %s -> %s", e.From, e.To)
		}
	}
}

func TestHandleNextActions(t *testing.T) {
	_, ms, h := newTestServer()
	seedChain(ms)

	rec := doJSON(t, h, "GET", "/v1/projects/pj-1/next-actions", nil)
	requireStatus(t, rec, 200)

	var got model.NextActions
	decodeJSON(t, rec, &got)
	if len(got.Actionable) != 1 || got.Actionable[0].TaskID != "tk-a" {
		t.Fatalf("actionable = %+v", got.Actionable)
	}
	if len(got.Blocked) != 2 {
		t.Fatalf("blocked = %+v", got.Blocked)
	}
	if got.Blocked[0].TaskID != "tk-b" || got.Blocked[0].BlockedBy[0] != "A" {
		t.Fatalf("blocked[0] = %+v", got.Blocked[0])
	}
}

func TestHandleNextActionsApprovalBucket(t *testing.T) {
	_, ms, h := newTestServer()
	seedChain(ms)
	// A finished, B now ready but awaiting sign-off.
	ms.tasks["tk-a"].Status = model.StatusCompleted
	ms.tasks["tk-b"].Status = model.StatusReview
	ms.tasks["tk-b"].RequiresApproval = true

	rec := doJSON(t, h, "GET", "/v1/projects/pj-1/next-actions", nil)
	requireStatus(t, rec, 200)

	var got model.NextActions
	decodeJSON(t, rec, &got)
	if len(got.NeedsApproval) != 1 || got.NeedsApproval[0].TaskID != "tk-b" {
		t.Fatalf("needs_approval = %+v", got.NeedsApproval)
	}
	if len(got.Actionable) != 0 {
		t.Fatalf("actionable = %+v", got.Actionable)
	}
	if len(got.Blocked) != 1 || got.Blocked[0].TaskID != "tk-c" {
		t.Fatalf("blocked = %+v", got.Blocked)
	}
}

func TestHandleNextActionsLimit(t *testing.T) {
	_, ms, h := newTestServer()
	seedChain(ms)

	rec := doJSON(t, h, "GET", "/v1/projects/pj-1/next-actions?limit=1", nil)
	requireStatus(t, rec, 200)

	var got model.NextActions
	decodeJSON(t, rec, &got)
	if len(got.Blocked) != 1 {
		t.Fatalf("blocked = %d, want 1 after limit", len(got.Blocked))
	}
}

func TestHandleReprioritize(t *testing.T) {
	_, ms, h := newTestServer()
	seedProject(ms, "pj-1", "demo")
	// Completed work sorted after pending work; orders are stale.
	seedTask(ms, "tk-done", "pj-1", "Done", model.StatusCompleted, 0)
	seedTask(ms, "tk-next", "pj-1", "Next", model.StatusPending, 1)

	rec := doJSON(t, h, "POST", "/v1/projects/pj-1/reprioritize", nil)
	requireStatus(t, rec, 200)

	var got model.ReprioritizeResult
	decodeJSON(t, rec, &got)
	if got.TotalTasks != 2 {
		t.Fatalf("total tasks = %d, want 2", got.TotalTasks)
	}
	if len(got.Changes) != 2 {
		t.Fatalf("changes = %+v, want both tasks to move", got.Changes)
	}
	if ms.tasks["tk-next"].Order != 0 || ms.tasks["tk-done"].Order != 1 {
		t.Fatalf("orders not persisted: next=%d done=%d",
			ms.tasks["tk-next"].Order, ms.tasks["tk-done"].Order)
	}

	// A second pass finds nothing to move.
	rec = doJSON(t, h, "POST", "/v1/projects/pj-1/reprioritize", nil)
	requireStatus(t, rec, 200)
	decodeJSON(t, rec, &got)
	if len(got.Changes) != 0 {
		t.Fatalf("second pass changes = %+v, want none", got.Changes)
	}
}

func TestHandleStatusSummary(t *testing.T) {
	_, ms, h := newTestServer()
	seedChain(ms)
	ms.tasks["tk-a"].Status = model.StatusCompleted

	rec := doJSON(t, h, "GET", "/v1/projects/pj-1/status-summary", nil)
	requireStatus(t, rec, 200)

	var got model.StatusSummary
	decodeJSON(t, rec, &got)
	if got.ProjectID != "pj-1" || got.ProjectName != "demo" {
		t.Fatalf("project fields = %q %q", got.ProjectID, got.ProjectName)
	}
	if got.TotalTasks != 3 {
		t.Fatalf("total tasks = %d, want 3", got.TotalTasks)
	}
	if got.TaskCounts[model.StatusCompleted] != 1 || got.TaskCounts[model.StatusPending] != 2 {
		t.Fatalf("task counts = %+v", got.TaskCounts)
	}
	// Every status is reported, even at zero.
	if n, ok := got.TaskCounts[model.StatusFailed]; !ok || n != 0 {
		t.Fatalf("failed count = %d (present %v), want explicit 0", n, ok)
	}
	if got.TotalEstimateHours != 6 || got.CompletedEstimateHours != 2 {
		t.Fatalf("estimates = %v/%v, want 2/6",
			got.CompletedEstimateHours, got.TotalEstimateHours)
	}
	if got.ProgressPercent != 33.33 {
		t.Fatalf("progress = %v, want 33.33", got.ProgressPercent)
	}
	if got.CriticalPathHours != 6 {
		t.Fatalf("critical path hours = %v, want 6", got.CriticalPathHours)
	}
	// B is unblocked by A's completion; C still waits on B.
	if len(got.NextActions) != 1 || got.NextActions[0].TaskID != "tk-b" {
		t.Fatalf("next actions = %+v", got.NextActions)
	}
	if len(got.NeedsApproval) != 0 {
		t.Fatalf("needs approval = %+v, want none", got.NeedsApproval)
	}
}

func TestHandleStatusSummaryCapsNextActions(t *testing.T) {
	_, ms, h := newTestServer()
	seedProject(ms, "pj-1", "demo")
	// Five independent tasks, all immediately actionable.
	for _, id := range []string{"tk-1", "tk-2", "tk-3", "tk-4", "tk-5"} {
		seedTask(ms, id, "pj-1", "Task "+id, model.StatusPending, 0)
	}

	rec := doJSON(t, h, "GET", "/v1/projects/pj-1/status-summary", nil)
	requireStatus(t, rec, 200)

	var got model.StatusSummary
	decodeJSON(t, rec, &got)
	if len(got.NextActions) != 3 {
		t.Fatalf("next actions = %d, want capped at 3", len(got.NextActions))
	}
}

func TestHandleStatusSummaryUnknownProject(t *testing.T) {
	_, _, h := newTestServer()

	rec := doJSON(t, h, "GET", "/v1/projects/pj-ghost/status-summary", nil)
	requireStatus(t, rec, 404)
}
