package model

import "time"

// TaskDependency represents a directed edge between two tasks: TaskID cannot
// be considered ready until DependsOnTaskID is completed.
type TaskDependency struct {
	TaskID          string    `json:"task_id"`
	DependsOnTaskID string    `json:"depends_on_task_id"`
	CreatedAt       time.Time `json:"created_at"`
	CreatedBy       string    `json:"created_by,omitempty"`
}
