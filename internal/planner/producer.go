// Package planner turns project goals into structured task plans and
// per-task specifications. The default producer calls an LLM over
// HTTP/JSON and falls back to a deterministic plan when the model is
// unavailable or returns something unusable.
package planner

import (
	"context"
	"encoding/json"
)

// Producer generates plans and specifications. Implemented by
// OpenAIProducer (default when an API key is configured) and
// FallbackProducer.
type Producer interface {
	// GeneratePlan breaks a project goal into ordered tasks with
	// dependencies expressed as indices into the returned task list.
	GeneratePlan(ctx context.Context, req *PlanRequest) (*Plan, error)

	// GenerateSpec produces a machine-readable specification for a
	// single task.
	GenerateSpec(ctx context.Context, req *SpecRequest) (json.RawMessage, error)
}

// PlanRequest holds the project context a plan is generated from.
type PlanRequest struct {
	ProjectName        string   `json:"project_name"`
	Goal               string   `json:"goal"`
	Description        string   `json:"description"`
	AcceptanceCriteria []string `json:"acceptance_criteria,omitempty"`
	Environment        string   `json:"environment,omitempty"`
}

// TaskProposal is a single task in a generated plan. Dependencies are
// indices of earlier entries in the plan's task list, resolved to real
// task IDs when the plan is accepted.
type TaskProposal struct {
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Inputs           json.RawMessage `json:"inputs,omitempty"`
	Outputs          json.RawMessage `json:"outputs,omitempty"`
	Tests            json.RawMessage `json:"tests,omitempty"`
	SecurityChecks   json.RawMessage `json:"security_checks,omitempty"`
	EstimateHours    float64         `json:"estimate_hours"`
	Order            int             `json:"order"`
	RequiresApproval bool            `json:"requires_approval"`
	ConfidenceScore  float64         `json:"confidence_score"`
	Dependencies     []int           `json:"dependencies"`
}

// Plan is a full generated breakdown for a project.
type Plan struct {
	Tasks               []*TaskProposal `json:"tasks"`
	RiskLevel           string          `json:"risk_level"`
	EstimatedTotalHours float64         `json:"estimated_total_hours"`
}

// Validate checks plan structure: at least one task, every task named,
// and every dependency index pointing at another task in the plan.
func (p *Plan) Validate() error {
	if len(p.Tasks) == 0 {
		return &PlanError{Reason: "plan contains no tasks"}
	}
	for i, t := range p.Tasks {
		if t.Name == "" {
			return &PlanError{Reason: "task missing name", TaskIndex: i}
		}
		for _, d := range t.Dependencies {
			if d < 0 || d >= len(p.Tasks) || d == i {
				return &PlanError{Reason: "dependency index out of range", TaskIndex: i}
			}
		}
	}
	return nil
}

// SpecRequest holds the task context a specification is generated from.
type SpecRequest struct {
	TaskName        string          `json:"task_name"`
	TaskDescription string          `json:"task_description"`
	ProjectContext  string          `json:"project_context,omitempty"`
	Inputs          json.RawMessage `json:"inputs,omitempty"`
	Outputs         json.RawMessage `json:"outputs,omitempty"`
	Tests           json.RawMessage `json:"tests,omitempty"`
}

// PlanError reports a structurally invalid plan.
type PlanError struct {
	Reason    string
	TaskIndex int
}

func (e *PlanError) Error() string { return "invalid plan: " + e.Reason }
