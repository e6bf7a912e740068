// Package client provides a transport-agnostic interface for the Optura
// service and an HTTP/JSON implementation that talks to the Optura REST API.
package client

import (
	"context"
	"encoding/json"

	"github.com/HANSKMIEL/Optura/internal/model"
	"github.com/HANSKMIEL/Optura/internal/planner"
)

// OpturaClient is the interface that all Optura CLI commands use to
// communicate with the server. It is implemented by HTTPClient (default) and
// can be backed by any transport.
type OpturaClient interface {
	// Project CRUD
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*model.Project, error)
	GetProject(ctx context.Context, id string) (*model.Project, error)
	ListProjects(ctx context.Context, req *ListProjectsRequest) (*ListProjectsResponse, error)
	UpdateProject(ctx context.Context, id string, req *UpdateProjectRequest) (*model.Project, error)
	DeleteProject(ctx context.Context, id string) error

	// Planning
	GeneratePlan(ctx context.Context, projectID string) (*planner.Plan, error)
	AcceptPlan(ctx context.Context, projectID string, plan *planner.Plan) (*AcceptPlanResponse, error)

	// Task CRUD
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListProjectTasks(ctx context.Context, projectID string, req *ListTasksRequest) (*ListTasksResponse, error)
	UpdateTask(ctx context.Context, id string, req *UpdateTaskRequest) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error

	// Task lifecycle
	GenerateSpec(ctx context.Context, taskID string) (*model.Task, error)
	RecordTestResults(ctx context.Context, taskID string, results json.RawMessage) (*model.Task, error)
	ApproveTask(ctx context.Context, taskID, approvedBy string) (*model.Task, error)
	RejectTask(ctx context.Context, taskID, reason string) (*model.Task, error)
	CompleteTask(ctx context.Context, taskID string) (*model.Task, error)

	// Dependencies
	AddDependency(ctx context.Context, req *AddDependencyRequest) (*model.TaskDependency, error)
	RemoveDependency(ctx context.Context, taskID, dependsOnTaskID string) error
	GetDependencies(ctx context.Context, taskID string) ([]*model.TaskDependency, error)

	// Orchestration
	CriticalPath(ctx context.Context, projectID string) (*model.CriticalPathResult, error)
	GetGraph(ctx context.Context, projectID string) (*model.GraphResponse, error)
	NextActions(ctx context.Context, projectID string, limit int) (*model.NextActions, error)
	Reprioritize(ctx context.Context, projectID string) (*model.ReprioritizeResult, error)
	StatusSummary(ctx context.Context, projectID string) (*model.StatusSummary, error)

	// Audit
	ListAudit(ctx context.Context, projectID string) ([]*model.AuditEntry, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateProjectRequest holds parameters for creating a project.
type CreateProjectRequest struct {
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	Goal               string          `json:"goal"`
	AcceptanceCriteria json.RawMessage `json:"acceptance_criteria,omitempty"`
	Environment        string          `json:"environment,omitempty"`
	CreatedBy          string          `json:"created_by,omitempty"`
}

// ListProjectsRequest holds parameters for listing projects.
type ListProjectsRequest struct {
	Status []string `json:"status,omitempty"`
	Search string   `json:"search,omitempty"`
	Limit  int      `json:"limit,omitempty"`
	Offset int      `json:"offset,omitempty"`
}

// ListProjectsResponse is the response from ListProjects.
type ListProjectsResponse struct {
	Projects []*model.Project `json:"projects"`
	Total    int              `json:"total"`
}

// UpdateProjectRequest holds optional parameters for updating a project.
// Nil pointer fields mean "don't change".
type UpdateProjectRequest struct {
	Name               *string         `json:"name,omitempty"`
	Description        *string         `json:"description,omitempty"`
	Goal               *string         `json:"goal,omitempty"`
	AcceptanceCriteria json.RawMessage `json:"acceptance_criteria,omitempty"`
	Environment        *string         `json:"environment,omitempty"`
	Status             *string         `json:"status,omitempty"`
	RiskLevel          *string         `json:"risk_level,omitempty"`
}

// AcceptPlanResponse is the response from AcceptPlan.
type AcceptPlanResponse struct {
	Project *model.Project `json:"project"`
	Tasks   []*model.Task  `json:"tasks"`
}

// CreateTaskRequest holds parameters for creating a task.
type CreateTaskRequest struct {
	ProjectID        string          `json:"project_id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Inputs           json.RawMessage `json:"inputs,omitempty"`
	Outputs          json.RawMessage `json:"outputs,omitempty"`
	Tests            json.RawMessage `json:"tests,omitempty"`
	SecurityChecks   json.RawMessage `json:"security_checks,omitempty"`
	EstimateHours    *float64        `json:"estimate_hours,omitempty"`
	ConfidenceScore  *float64        `json:"confidence_score,omitempty"`
	RequiresApproval bool            `json:"requires_approval,omitempty"`
	Order            int             `json:"order,omitempty"`
}

// ListTasksRequest holds parameters for listing a project's tasks.
type ListTasksRequest struct {
	Status []string `json:"status,omitempty"`
}

// ListTasksResponse is the response from ListProjectTasks.
type ListTasksResponse struct {
	Tasks []*model.Task `json:"tasks"`
	Total int           `json:"total"`
}

// UpdateTaskRequest holds optional parameters for updating a task.
// Nil pointer fields mean "don't change".
type UpdateTaskRequest struct {
	Name             *string         `json:"name,omitempty"`
	Description      *string         `json:"description,omitempty"`
	Inputs           json.RawMessage `json:"inputs,omitempty"`
	Outputs          json.RawMessage `json:"outputs,omitempty"`
	Tests            json.RawMessage `json:"tests,omitempty"`
	SecurityChecks   json.RawMessage `json:"security_checks,omitempty"`
	EstimateHours    *float64        `json:"estimate_hours,omitempty"`
	ConfidenceScore  *float64        `json:"confidence_score,omitempty"`
	RequiresApproval *bool           `json:"requires_approval,omitempty"`
	Status           *string         `json:"status,omitempty"`
	Order            *int            `json:"order,omitempty"`
}

// AddDependencyRequest holds parameters for adding a dependency edge.
type AddDependencyRequest struct {
	TaskID          string `json:"task_id"`
	DependsOnTaskID string `json:"depends_on_task_id"`
	CreatedBy       string `json:"created_by,omitempty"`
}
