package events

import (
	"context"

	"github.com/HANSKMIEL/Optura/internal/model"
)

// Event topic constants
const (
	TopicProjectCreated     = "optura.project.created"
	TopicProjectUpdated     = "optura.project.updated"
	TopicProjectDeleted     = "optura.project.deleted"
	TopicPlanGenerated      = "optura.plan.generated"
	TopicPlanAccepted       = "optura.plan.accepted"
	TopicTaskCreated        = "optura.task.created"
	TopicTaskUpdated        = "optura.task.updated"
	TopicTaskApproved       = "optura.task.approved"
	TopicTaskRejected       = "optura.task.rejected"
	TopicTaskCompleted      = "optura.task.completed"
	TopicTaskDeleted        = "optura.task.deleted"
	TopicDependencyAdded    = "optura.dependency.added"
	TopicDependencyRemoved  = "optura.dependency.removed"
	TopicTasksReprioritized = "optura.tasks.reprioritized"
)

// Event types

type ProjectCreated struct {
	Project *model.Project `json:"project"`
}

type ProjectUpdated struct {
	Project *model.Project `json:"project"`
	Changes map[string]any `json:"changes"` // field name -> new value
}

type ProjectDeleted struct {
	ProjectID string `json:"project_id"`
}

type PlanGenerated struct {
	ProjectID string `json:"project_id"`
	TaskCount int    `json:"task_count"`
	RiskLevel string `json:"risk_level"`
}

type PlanAccepted struct {
	ProjectID string   `json:"project_id"`
	TaskIDs   []string `json:"task_ids"`
}

type TaskCreated struct {
	Task *model.Task `json:"task"`
}

type TaskUpdated struct {
	Task    *model.Task    `json:"task"`
	Changes map[string]any `json:"changes"`
}

type TaskApproved struct {
	Task       *model.Task `json:"task"`
	ApprovedBy string      `json:"approved_by"`
}

type TaskRejected struct {
	Task   *model.Task `json:"task"`
	Reason string      `json:"reason"`
}

type TaskCompleted struct {
	Task *model.Task `json:"task"`
}

type TaskDeleted struct {
	TaskID string `json:"task_id"`
}

type DependencyAdded struct {
	Dependency *model.TaskDependency `json:"dependency"`
}

type DependencyRemoved struct {
	TaskID          string `json:"task_id"`
	DependsOnTaskID string `json:"depends_on_task_id"`
}

type TasksReprioritized struct {
	ProjectID string               `json:"project_id"`
	Changes   []*model.OrderChange `json:"changes"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
