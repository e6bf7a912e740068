package server

import (
	"context"
	"strings"
	"testing"

	"github.com/HANSKMIEL/Optura/internal/model"
	"github.com/HANSKMIEL/Optura/internal/planner"
)

func TestHandleGeneratePlan(t *testing.T) {
	_, ms, h := newTestServer()
	seedProject(ms, "pj-1", "demo")

	rec := doJSON(t, h, "POST", "/v1/projects/pj-1/plan", nil)
	requireStatus(t, rec, 200)

	var plan planner.Plan
	decodeJSON(t, rec, &plan)
	if len(plan.Tasks) != 3 {
		t.Fatalf("expected 3 proposals from the fallback producer, got %d", len(plan.Tasks))
	}
	if plan.RiskLevel != "medium" || plan.EstimatedTotalHours != 8.0 {
		t.Fatalf("unexpected plan summary: risk=%q hours=%v", plan.RiskLevel, plan.EstimatedTotalHours)
	}

	// Generating a plan moves the project into planning but persists no tasks.
	if ms.projects["pj-1"].Status != model.ProjectPlanning {
		t.Fatalf("project status = %q, want planning", ms.projects["pj-1"].Status)
	}
	if len(ms.tasks) != 0 {
		t.Fatalf("plan generation created %d tasks, want 0", len(ms.tasks))
	}
}

func TestHandleAcceptPlan(t *testing.T) {
	_, ms, h := newTestServer()
	seedProject(ms, "pj-1", "demo")

	plan, err := planner.NewFallbackProducer().GeneratePlan(context.Background(), &planner.PlanRequest{
		ProjectName: "demo",
		Goal:        "ship demo",
	})
	if err != nil {
		t.Fatalf("fallback plan: %v", err)
	}

	rec := doJSON(t, h, "POST", "/v1/projects/pj-1/plan/accept", plan)
	requireStatus(t, rec, 201)

	var got struct {
		Project *model.Project `json:"project"`
		Tasks   []*model.Task  `json:"tasks"`
	}
	decodeJSON(t, rec, &got)
	if got.Project.Status != model.ProjectInProgress {
		t.Fatalf("project status = %q, want in_progress", got.Project.Status)
	}
	if len(got.Tasks) != 3 {
		t.Fatalf("expected 3 created tasks, got %d", len(got.Tasks))
	}
	for _, task := range got.Tasks {
		if !strings.HasPrefix(task.ID, "tk-") {
			t.Fatalf("task ID %q missing tk- prefix", task.ID)
		}
		if task.Status != model.StatusPending {
			t.Fatalf("task %s status = %q, want pending", task.ID, task.Status)
		}
	}

	// The proposals' test and security-check plans land on the created tasks.
	for i, task := range got.Tasks {
		if string(task.Tests) != string(plan.Tasks[i].Tests) {
			t.Fatalf("task %d tests = %s, want %s", i, task.Tests, plan.Tasks[i].Tests)
		}
		if string(task.SecurityChecks) != string(plan.Tasks[i].SecurityChecks) {
			t.Fatalf("task %d security checks = %s, want %s",
				i, task.SecurityChecks, plan.Tasks[i].SecurityChecks)
		}
	}
	if stored := ms.tasks[got.Tasks[1].ID]; len(stored.Tests) == 0 || len(stored.SecurityChecks) == 0 {
		t.Fatalf("stored task missing tests/security checks: %+v", stored)
	}

	// Index-based dependencies resolve to the created IDs: task 1 depends on
	// task 0, task 2 on task 1.
	deps, _ := ms.GetTaskDependencies(context.Background(), got.Tasks[1].ID)
	if len(deps) != 1 || deps[0].DependsOnTaskID != got.Tasks[0].ID {
		t.Fatalf("task 1 dependencies = %+v", deps)
	}
	deps, _ = ms.GetTaskDependencies(context.Background(), got.Tasks[2].ID)
	if len(deps) != 1 || deps[0].DependsOnTaskID != got.Tasks[1].ID {
		t.Fatalf("task 2 dependencies = %+v", deps)
	}
}

func TestHandleAcceptPlanRejectsInvalid(t *testing.T) {
	_, ms, h := newTestServer()
	seedProject(ms, "pj-1", "demo")

	// Dependency index out of range.
	rec := doJSON(t, h, "POST", "/v1/projects/pj-1/plan/accept", map[string]any{
		"tasks": []map[string]any{
			{"name": "A", "dependencies": []int{5}},
		},
	})
	requireStatus(t, rec, 400)
	if len(ms.tasks) != 0 {
		t.Fatalf("invalid plan created %d tasks", len(ms.tasks))
	}
}

func TestHandleGeneratePlanUnknownProject(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, "POST", "/v1/projects/pj-nope/plan", nil)
	requireStatus(t, rec, 404)
}
