package model

import (
	"encoding/json"
	"time"
)

// RiskLevel classifies the overall risk of a project.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// IsValid checks whether the risk level is a known value.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// ProjectStatus represents the aggregate state of a project.
type ProjectStatus string

const (
	ProjectDraft      ProjectStatus = "draft"
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectReview     ProjectStatus = "review"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectArchived   ProjectStatus = "archived"
)

// IsValid checks whether the project status is a known value.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectDraft, ProjectPlanning, ProjectInProgress, ProjectReview,
		ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

// Project groups tasks under a shared goal.
type Project struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	Goal               string          `json:"goal,omitempty"`
	AcceptanceCriteria json.RawMessage `json:"acceptance_criteria,omitempty"`
	RiskLevel          RiskLevel       `json:"risk_level"`
	Status             ProjectStatus   `json:"status"`
	Environment        string          `json:"environment,omitempty"`
	CreatedBy          string          `json:"created_by,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
