package model

import (
	"encoding/json"
	"time"
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusBlocked    TaskStatus = "blocked"
	StatusReview     TaskStatus = "review"
	StatusApproved   TaskStatus = "approved"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
)

// AllTaskStatuses lists every known task status, in lifecycle order.
var AllTaskStatuses = []TaskStatus{
	StatusPending, StatusInProgress, StatusBlocked, StatusReview,
	StatusApproved, StatusCompleted, StatusFailed,
}

// String returns the string representation of the status.
func (s TaskStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusBlocked, StatusReview,
		StatusApproved, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether the status excludes the task from scheduling.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Task is the core work-item record.
type Task struct {
	ID               string          `json:"id"`
	ProjectID        string          `json:"project_id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Inputs           json.RawMessage `json:"inputs,omitempty"`
	Outputs          json.RawMessage `json:"outputs,omitempty"`
	Tests            json.RawMessage `json:"tests,omitempty"`
	SecurityChecks   json.RawMessage `json:"security_checks,omitempty"`
	EstimateHours    *float64        `json:"estimate_hours,omitempty"`
	Status           TaskStatus      `json:"status"`
	ConfidenceScore  *float64        `json:"confidence_score,omitempty"`
	RequiresApproval bool            `json:"requires_approval"`
	ApprovedBy       string          `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	RejectionReason  string          `json:"rejection_reason,omitempty"`
	Order            int             `json:"order"`
	Spec             json.RawMessage `json:"spec,omitempty"`
	TestResults      json.RawMessage `json:"test_results,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Relational data -- populated by queries, not stored in the tasks table.
	Dependencies []*TaskDependency `json:"dependencies,omitempty"`
}

// HasSpec reports whether the task carries a non-empty specification.
func (t *Task) HasSpec() bool {
	return len(t.Spec) > 0 && string(t.Spec) != "null" && string(t.Spec) != "{}"
}

// HasTestResults reports whether the task carries a non-empty test-results document.
func (t *Task) HasTestResults() bool {
	return len(t.TestResults) > 0 && string(t.TestResults) != "null"
}

// TestStatus extracts the "status" field from the test-results document.
// Returns an empty string when test results are absent or malformed.
func (t *Task) TestStatus() string {
	if !t.HasTestResults() {
		return ""
	}
	var tr struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(t.TestResults, &tr); err != nil {
		return ""
	}
	return tr.Status
}
