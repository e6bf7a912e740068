package model

import (
	"encoding/json"
	"time"
)

// AuditEntry is a persisted record of an action taken against a project or task.
type AuditEntry struct {
	ID        int64           `json:"id"`
	ProjectID string          `json:"project_id"`
	TaskID    string          `json:"task_id,omitempty"`
	Action    string          `json:"action"`
	Actor     string          `json:"actor,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
