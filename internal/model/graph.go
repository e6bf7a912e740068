package model

// GraphNode is a task rendered as a dependency-graph node.
type GraphNode struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Status           TaskStatus `json:"status"`
	EstimateHours    *float64   `json:"estimate_hours,omitempty"`
	RequiresApproval bool       `json:"requires_approval"`
	Order            int        `json:"order"`
}

// GraphEdge is a dependency rendered as a graph edge, pointing from the
// prerequisite to its dependent.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GraphResponse is the response for the dependency-graph endpoint.
type GraphResponse struct {
	ProjectID string       `json:"project_id"`
	Nodes     []*GraphNode `json:"nodes"`
	Edges     []*GraphEdge `json:"edges"`
}

// PathStep is one task along a critical path.
type PathStep struct {
	TaskID        string     `json:"task_id"`
	Name          string     `json:"name"`
	EstimateHours float64    `json:"estimate_hours"`
	Status        TaskStatus `json:"status"`
}

// CriticalPathResult carries the longest weighted path through a project's
// dependency graph. Error is "circular_dependency" when the edge set is not
// a DAG; in that case the path is empty and TotalHours is zero.
type CriticalPathResult struct {
	ProjectID    string      `json:"project_id"`
	CriticalPath []*PathStep `json:"critical_path"`
	TotalHours   float64     `json:"total_hours"`
	Error        string      `json:"error,omitempty"`
}

// TaskRef is a compact task reference used in readiness listings.
type TaskRef struct {
	TaskID        string     `json:"task_id"`
	Name          string     `json:"name"`
	Status        TaskStatus `json:"status"`
	EstimateHours *float64   `json:"estimate_hours,omitempty"`
}

// BlockedTask names a task together with the unmet prerequisites holding it back.
type BlockedTask struct {
	TaskID    string   `json:"task_id"`
	Name      string   `json:"name"`
	BlockedBy []string `json:"blocked_by"` // names of incomplete prerequisite tasks
}

// NextActions partitions a project's non-terminal tasks by readiness.
type NextActions struct {
	ProjectID     string         `json:"project_id"`
	Actionable    []*TaskRef     `json:"actionable"`
	NeedsApproval []*TaskRef     `json:"needs_approval"`
	Blocked       []*BlockedTask `json:"blocked"`
}

// StatusSummary is a rolled-up view of a project: per-status task counts,
// progress measured in completed estimate hours, the critical-path length,
// and the most pressing next actions.
type StatusSummary struct {
	ProjectID              string             `json:"project_id"`
	ProjectName            string             `json:"project_name"`
	Status                 ProjectStatus      `json:"status"`
	RiskLevel              RiskLevel          `json:"risk_level"`
	TaskCounts             map[TaskStatus]int `json:"task_counts"`
	TotalTasks             int                `json:"total_tasks"`
	TotalEstimateHours     float64            `json:"total_estimate_hours"`
	CompletedEstimateHours float64            `json:"completed_estimate_hours"`
	ProgressPercent        float64            `json:"progress_percent"`
	CriticalPathHours      float64            `json:"critical_path_hours"`
	NextActions            []*TaskRef         `json:"next_actions"`
	NeedsApproval          []*TaskRef         `json:"needs_approval"`
}

// OrderChange records one task whose display order moved during reprioritization.
type OrderChange struct {
	TaskID   string `json:"task_id"`
	Name     string `json:"name"`
	OldOrder int    `json:"old_order"`
	NewOrder int    `json:"new_order"`
}

// ReprioritizeResult is the minimal change set produced by a reprioritization pass.
type ReprioritizeResult struct {
	ProjectID  string         `json:"project_id"`
	Changes    []*OrderChange `json:"changes"`
	TotalTasks int            `json:"total_tasks"`
}
