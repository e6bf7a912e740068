package sync

import (
	"context"
	"database/sql"
	"sort"

	"github.com/HANSKMIEL/Optura/internal/model"
	"github.com/HANSKMIEL/Optura/internal/store"
)

// mockStore is a minimal in-memory store for sync tests.
type mockStore struct {
	projects map[string]*model.Project
	tasks    map[string]*model.Task
	deps     map[string][]*model.TaskDependency
}

func newMockStore() *mockStore {
	return &mockStore{
		projects: make(map[string]*model.Project),
		tasks:    make(map[string]*model.Task),
		deps:     make(map[string][]*model.TaskDependency),
	}
}

func (m *mockStore) CreateProject(_ context.Context, project *model.Project) error {
	m.projects[project.ID] = project
	return nil
}

func (m *mockStore) GetProject(_ context.Context, id string) (*model.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (m *mockStore) ListProjects(_ context.Context, _ model.ProjectFilter) ([]*model.Project, int, error) {
	var result []*model.Project
	for _, p := range m.projects {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, len(result), nil
}

func (m *mockStore) UpdateProject(_ context.Context, project *model.Project) error {
	m.projects[project.ID] = project
	return nil
}

func (m *mockStore) DeleteProject(_ context.Context, id string) error {
	delete(m.projects, id)
	return nil
}

func (m *mockStore) CreateTask(_ context.Context, task *model.Task) error {
	m.tasks[task.ID] = task
	return nil
}

func (m *mockStore) GetTask(_ context.Context, id string) (*model.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return t, nil
}

func (m *mockStore) GetTaskForUpdate(ctx context.Context, id string) (*model.Task, error) {
	return m.GetTask(ctx, id)
}

func (m *mockStore) ListTasks(_ context.Context, filter model.TaskFilter) ([]*model.Task, error) {
	var result []*model.Task
	for _, t := range m.tasks {
		if filter.ProjectID != "" && t.ProjectID != filter.ProjectID {
			continue
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *mockStore) UpdateTask(_ context.Context, task *model.Task) error {
	m.tasks[task.ID] = task
	return nil
}

func (m *mockStore) UpdateTaskOrders(_ context.Context, _ string, changes []*model.OrderChange) error {
	for _, c := range changes {
		if t, ok := m.tasks[c.TaskID]; ok {
			t.Order = c.NewOrder
		}
	}
	return nil
}

func (m *mockStore) DeleteTask(_ context.Context, id string) error {
	delete(m.tasks, id)
	return nil
}

func (m *mockStore) AddDependency(_ context.Context, dep *model.TaskDependency) error {
	if dep.TaskID == dep.DependsOnTaskID {
		return store.ErrSelfDependency
	}
	m.deps[dep.TaskID] = append(m.deps[dep.TaskID], dep)
	return nil
}

func (m *mockStore) RemoveDependency(_ context.Context, taskID, dependsOnTaskID string) error {
	deps := m.deps[taskID]
	for i, d := range deps {
		if d.DependsOnTaskID == dependsOnTaskID {
			m.deps[taskID] = append(deps[:i], deps[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockStore) ListDependencies(_ context.Context, projectID string) ([]*model.TaskDependency, error) {
	var result []*model.TaskDependency
	for tid, deps := range m.deps {
		t, ok := m.tasks[tid]
		if !ok || t.ProjectID != projectID {
			continue
		}
		result = append(result, deps...)
	}
	return result, nil
}

func (m *mockStore) GetTaskDependencies(_ context.Context, taskID string) ([]*model.TaskDependency, error) {
	return m.deps[taskID], nil
}

func (m *mockStore) RecordAudit(_ context.Context, _ *model.AuditEntry) error {
	return nil
}

func (m *mockStore) ListAudit(_ context.Context, _ string) ([]*model.AuditEntry, error) {
	return nil, nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }
