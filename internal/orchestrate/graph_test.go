package orchestrate

import (
	"testing"

	"github.com/HANSKMIEL/Optura/internal/model"
)

func task(id, projectID, name string, status model.TaskStatus, hours *float64) *model.Task {
	return &model.Task{
		ID:            id,
		ProjectID:     projectID,
		Name:          name,
		Status:        status,
		EstimateHours: hours,
	}
}

func hoursPtr(h float64) *float64 { return &h }

func dep(taskID, dependsOn string) *model.TaskDependency {
	return &model.TaskDependency{TaskID: taskID, DependsOnTaskID: dependsOn}
}

func TestBuildGraphEmpty(t *testing.T) {
	g, err := BuildGraph("pj-1", nil, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Len() != 0 {
		t.Errorf("expected empty graph, got %d nodes", g.Len())
	}
}

func TestBuildGraphDefaultDuration(t *testing.T) {
	tasks := []*model.Task{
		task("tk-a", "pj-1", "A", model.StatusPending, nil),
		task("tk-b", "pj-1", "B", model.StatusPending, hoursPtr(2.5)),
	}
	g, err := BuildGraph("pj-1", tasks, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ia, _ := g.Lookup("tk-a")
	if got := g.Nodes[ia].Hours; got != 1.0 {
		t.Errorf("unestimated task duration = %v, want default 1.0", got)
	}
	if g.Nodes[ia].Estimated {
		t.Error("unestimated task should not be marked estimated")
	}
	ib, _ := g.Lookup("tk-b")
	if got := g.Nodes[ib].Hours; got != 2.5 {
		t.Errorf("estimated task duration = %v, want 2.5", got)
	}
}

func TestBuildGraphEdges(t *testing.T) {
	tasks := []*model.Task{
		task("tk-a", "pj-1", "A", model.StatusPending, nil),
		task("tk-b", "pj-1", "B", model.StatusPending, nil),
	}
	deps := []*model.TaskDependency{dep("tk-b", "tk-a")}

	g, err := BuildGraph("pj-1", tasks, deps, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ia, _ := g.Lookup("tk-a")
	ib, _ := g.Lookup("tk-b")
	if len(g.Dependents(ia)) != 1 || g.Dependents(ia)[0] != ib {
		t.Errorf("expected edge tk-a -> tk-b, got dependents %v", g.Dependents(ia))
	}
	if len(g.Prerequisites(ib)) != 1 || g.Prerequisites(ib)[0] != ia {
		t.Errorf("expected tk-b to require tk-a, got prerequisites %v", g.Prerequisites(ib))
	}
}

func TestBuildGraphRejectsForeignTask(t *testing.T) {
	tasks := []*model.Task{task("tk-a", "pj-other", "A", model.StatusPending, nil)}
	if _, err := BuildGraph("pj-1", tasks, nil, DefaultConfig()); err == nil {
		t.Error("expected error for task from another project")
	}
}

func TestBuildGraphRejectsUnknownEndpoint(t *testing.T) {
	tasks := []*model.Task{task("tk-a", "pj-1", "A", model.StatusPending, nil)}
	deps := []*model.TaskDependency{dep("tk-a", "tk-ghost")}
	if _, err := BuildGraph("pj-1", tasks, deps, DefaultConfig()); err == nil {
		t.Error("expected error for edge referencing unknown task")
	}
}

func TestTopoOrderDetectsCycle(t *testing.T) {
	tasks := []*model.Task{
		task("tk-a", "pj-1", "A", model.StatusPending, nil),
		task("tk-b", "pj-1", "B", model.StatusPending, nil),
	}
	deps := []*model.TaskDependency{
		dep("tk-b", "tk-a"),
		dep("tk-a", "tk-b"),
	}
	g, err := BuildGraph("pj-1", tasks, deps, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, acyclic := g.topoOrder(); acyclic {
		t.Error("expected cycle to be detected")
	}
}
