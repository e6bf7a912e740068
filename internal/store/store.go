package store

import (
	"context"
	"errors"

	"github.com/HANSKMIEL/Optura/internal/model"
)

// ErrSelfDependency is returned when a task is asked to depend on itself.
var ErrSelfDependency = errors.New("task cannot depend on itself")

// ErrNoTransaction is returned when GetTaskForUpdate is called outside
// RunInTransaction, where a row lock would not outlive the statement.
var ErrNoTransaction = errors.New("GetTaskForUpdate requires a transaction")

// Store defines the persistence interface for projects, tasks, and
// dependency edges. Not-found conditions surface as sql.ErrNoRows.
type Store interface {
	// Project CRUD
	CreateProject(ctx context.Context, project *model.Project) error
	GetProject(ctx context.Context, id string) (*model.Project, error)
	ListProjects(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, int, error) // returns projects, total count, error
	UpdateProject(ctx context.Context, project *model.Project) error
	DeleteProject(ctx context.Context, id string) error

	// Task CRUD
	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	// GetTaskForUpdate locks the task row for the remainder of the enclosing
	// transaction, serializing concurrent lifecycle transitions on one task.
	// Only meaningful inside RunInTransaction; implementations return
	// ErrNoTransaction otherwise.
	GetTaskForUpdate(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error)
	UpdateTask(ctx context.Context, task *model.Task) error
	UpdateTaskOrders(ctx context.Context, projectID string, changes []*model.OrderChange) error
	DeleteTask(ctx context.Context, id string) error

	// Dependencies
	AddDependency(ctx context.Context, dep *model.TaskDependency) error
	RemoveDependency(ctx context.Context, taskID, dependsOnTaskID string) error
	ListDependencies(ctx context.Context, projectID string) ([]*model.TaskDependency, error)
	GetTaskDependencies(ctx context.Context, taskID string) ([]*model.TaskDependency, error)

	// Audit log
	RecordAudit(ctx context.Context, entry *model.AuditEntry) error
	ListAudit(ctx context.Context, projectID string) ([]*model.AuditEntry, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
