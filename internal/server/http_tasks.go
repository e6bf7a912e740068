package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/HANSKMIEL/Optura/internal/events"
	"github.com/HANSKMIEL/Optura/internal/idgen"
	"github.com/HANSKMIEL/Optura/internal/model"
	"github.com/HANSKMIEL/Optura/internal/orchestrate"
	"github.com/HANSKMIEL/Optura/internal/planner"
	"github.com/HANSKMIEL/Optura/internal/store"
)

// createTaskInput holds parameters for creating a task.
type createTaskInput struct {
	ProjectID        string          `json:"project_id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Inputs           json.RawMessage `json:"inputs"`
	Outputs          json.RawMessage `json:"outputs"`
	Tests            json.RawMessage `json:"tests"`
	SecurityChecks   json.RawMessage `json:"security_checks"`
	EstimateHours    *float64        `json:"estimate_hours"`
	ConfidenceScore  *float64        `json:"confidence_score"`
	RequiresApproval bool            `json:"requires_approval"`
	Order            int             `json:"order"`
}

// createTask validates input, persists a new task, and publishes a
// TaskCreated event. Returns inputError for validation failures.
func (s *Server) createTask(ctx context.Context, in createTaskInput) (*model.Task, error) {
	if _, err := s.store.GetProject(ctx, in.ProjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inputError("project " + in.ProjectID + " not found")
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	now := time.Now().UTC()
	id, err := idgen.NewTaskID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}

	task := &model.Task{
		ID:               id,
		ProjectID:        in.ProjectID,
		Name:             in.Name,
		Description:      in.Description,
		Inputs:           in.Inputs,
		Outputs:          in.Outputs,
		Tests:            in.Tests,
		SecurityChecks:   in.SecurityChecks,
		EstimateHours:    in.EstimateHours,
		Status:           model.StatusPending,
		ConfidenceScore:  in.ConfidenceScore,
		RequiresApproval: in.RequiresApproval,
		Order:            in.Order,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := model.ValidateTask(task); err != nil {
		return nil, inputError("invalid task: " + err.Error())
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.recordAndPublish(ctx, events.TopicTaskCreated, task.ProjectID, task.ID, "",
		events.TaskCreated{Task: task})

	return task, nil
}

// handleCreateTask handles POST /v1/tasks.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in createTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	task, err := s.createTask(r.Context(), in)
	if err != nil {
		var ie inputError
		if errors.As(err, &ie) {
			writeError(w, http.StatusBadRequest, ie.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// handleGetTask handles GET /v1/tasks/{id}.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	task, err := s.store.GetTask(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// handleListProjectTasks handles GET /v1/projects/{id}/tasks.
func (s *Server) handleListProjectTasks(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	filter := model.TaskFilter{ProjectID: projectID}
	if v := r.URL.Query().Get("status"); v != "" {
		for _, st := range strings.Split(v, ",") {
			filter.Status = append(filter.Status, model.TaskStatus(st))
		}
	}

	tasks, err := s.store.ListTasks(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}

	if tasks == nil {
		tasks = []*model.Task{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// updateTaskInput holds parameters for updating a task.
// Pointer fields indicate optionality: nil means "don't change".
type updateTaskInput struct {
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

// handleUpdateTask handles PATCH /v1/tasks/{id}.
// Status changes here are plain edits; the gated transitions live on the
// approve/reject/complete endpoints.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in updateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	task, err := s.store.GetTask(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}

	changes := make(map[string]any)
	if in.Name != nil {
		task.Name = *in.Name
		changes["name"] = *in.Name
	}
	if in.Description != nil {
		task.Description = *in.Description
		changes["description"] = *in.Description
	}
	if in.Inputs != nil {
		task.Inputs = in.Inputs
		changes["inputs"] = json.RawMessage(in.Inputs)
	}
	if in.Outputs != nil {
		task.Outputs = in.Outputs
		changes["outputs"] = json.RawMessage(in.Outputs)
	}
	if in.Tests != nil {
		task.Tests = in.Tests
		changes["tests"] = json.RawMessage(in.Tests)
	}
	if in.SecurityChecks != nil {
		task.SecurityChecks = in.SecurityChecks
		changes["security_checks"] = json.RawMessage(in.SecurityChecks)
	}
	if in.EstimateHours != nil {
		task.EstimateHours = in.EstimateHours
		changes["estimate_hours"] = *in.EstimateHours
	}
	if in.ConfidenceScore != nil {
		task.ConfidenceScore = in.ConfidenceScore
		changes["confidence_score"] = *in.ConfidenceScore
	}
	if in.RequiresApproval != nil {
		task.RequiresApproval = *in.RequiresApproval
		changes["requires_approval"] = *in.RequiresApproval
	}
	if in.Status != nil {
		status := model.TaskStatus(*in.Status)
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid task status "+*in.Status)
			return
		}
		task.Status = status
		changes["status"] = *in.Status
	}
	if in.Order != nil {
		task.Order = *in.Order
		changes["order"] = *in.Order
	}

	if err := model.ValidateTask(task); err != nil {
		writeError(w, http.StatusBadRequest, "invalid task: "+err.Error())
		return
	}

	task.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateTask(r.Context(), task); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update task")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicTaskUpdated, task.ProjectID, task.ID, "",
		events.TaskUpdated{Task: task, Changes: changes})

	writeJSON(w, http.StatusOK, task)
}

// handleDeleteTask handles DELETE /v1/tasks/{id}.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	task, err := s.store.GetTask(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}

	if err := s.store.DeleteTask(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete task")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicTaskDeleted, task.ProjectID, id, "",
		events.TaskDeleted{TaskID: id})

	w.WriteHeader(http.StatusNoContent)
}

// handleGenerateSpec handles POST /v1/tasks/{id}/spec.
// Asks the producer for a machine-readable spec and attaches it to the task.
func (s *Server) handleGenerateSpec(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	task, err := s.store.GetTask(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}

	projectContext := ""
	if project, err := s.store.GetProject(r.Context(), task.ProjectID); err == nil {
		projectContext = project.Goal
		if project.Description != "" {
			projectContext += "\n" + project.Description
		}
	}

	spec, err := s.producer.GenerateSpec(r.Context(), &planner.SpecRequest{
		TaskName:        task.Name,
		TaskDescription: task.Description,
		ProjectContext:  projectContext,
		Inputs:          task.Inputs,
		Outputs:         task.Outputs,
		Tests:           task.Tests,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate spec: "+err.Error())
		return
	}

	task.Spec = spec
	task.ConfidenceScore = specConfidence(spec)
	task.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateTask(r.Context(), task); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update task")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicTaskUpdated, task.ProjectID, task.ID, "",
		events.TaskUpdated{Task: task, Changes: map[string]any{"spec": "generated"}})

	writeJSON(w, http.StatusOK, task)
}

// specConfidence extracts the confidence score a generated spec reports
// for itself. Specs without one score 0.5.
func specConfidence(spec json.RawMessage) *float64 {
	var doc struct {
		ConfidenceScore *float64 `json:"confidence_score"`
	}
	if err := json.Unmarshal(spec, &doc); err == nil && doc.ConfidenceScore != nil {
		return doc.ConfidenceScore
	}
	conf := 0.5
	return &conf
}

// handleRecordTestResults handles POST /v1/tasks/{id}/test-results.
// Stores the test-results document verbatim; no status transition happens
// here. Completion gates read the document later.
func (s *Server) handleRecordTestResults(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var results json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&results); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	task, err := s.store.GetTask(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}

	task.TestResults = results
	task.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateTask(r.Context(), task); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update task")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicTaskUpdated, task.ProjectID, task.ID, "",
		events.TaskUpdated{Task: task, Changes: map[string]any{"test_results": json.RawMessage(results)}})

	writeJSON(w, http.StatusOK, task)
}

// transitionTask locks the task row, applies fn, and persists the result,
// all inside one store transaction. Gate errors and not-found pass through
// to the caller.
func (s *Server) transitionTask(ctx context.Context, id string, fn func(t *model.Task) error) (*model.Task, error) {
	var task *model.Task
	err := s.store.RunInTransaction(ctx, func(tx store.Store) error {
		t, err := tx.GetTaskForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}
		t.UpdatedAt = time.Now().UTC()
		if err := tx.UpdateTask(ctx, t); err != nil {
			return err
		}
		task = t
		return nil
	})
	return task, err
}

// writeTransitionError maps transition failures to HTTP status codes.
func writeTransitionError(w http.ResponseWriter, err error) {
	if ge, ok := orchestrate.IsGateError(err); ok {
		writeGateError(w, ge)
		return
	}
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// handleApproveTask handles POST /v1/tasks/{id}/approve.
func (s *Server) handleApproveTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in struct {
		ApprovedBy string `json:"approved_by"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	task, err := s.transitionTask(r.Context(), id, func(t *model.Task) error {
		return s.lifecycle.Approve(t, in.ApprovedBy)
	})
	if err != nil {
		writeTransitionError(w, err)
		return
	}

	s.recordAndPublish(r.Context(), events.TopicTaskApproved, task.ProjectID, task.ID, in.ApprovedBy,
		events.TaskApproved{Task: task, ApprovedBy: in.ApprovedBy})

	writeJSON(w, http.StatusOK, task)
}

// handleRejectTask handles POST /v1/tasks/{id}/reject.
func (s *Server) handleRejectTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	task, err := s.transitionTask(r.Context(), id, func(t *model.Task) error {
		s.lifecycle.Reject(t, in.Reason)
		return nil
	})
	if err != nil {
		writeTransitionError(w, err)
		return
	}

	s.recordAndPublish(r.Context(), events.TopicTaskRejected, task.ProjectID, task.ID, "",
		events.TaskRejected{Task: task, Reason: in.Reason})

	writeJSON(w, http.StatusOK, task)
}

// handleCompleteTask handles POST /v1/tasks/{id}/complete.
func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	task, err := s.transitionTask(r.Context(), id, func(t *model.Task) error {
		return s.lifecycle.Complete(t)
	})
	if err != nil {
		writeTransitionError(w, err)
		return
	}

	s.recordAndPublish(r.Context(), events.TopicTaskCompleted, task.ProjectID, task.ID, "",
		events.TaskCompleted{Task: task})

	writeJSON(w, http.StatusOK, task)
}
