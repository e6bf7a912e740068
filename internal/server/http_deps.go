package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/HANSKMIEL/Optura/internal/events"
	"github.com/HANSKMIEL/Optura/internal/model"
	"github.com/HANSKMIEL/Optura/internal/store"
)

// handleAddDependency handles POST /v1/dependencies.
func (s *Server) handleAddDependency(w http.ResponseWriter, r *http.Request) {
	var in struct {
		TaskID          string `json:"task_id"`
		DependsOnTaskID string `json:"depends_on_task_id"`
		CreatedBy       string `json:"created_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.TaskID == "" {
		writeError(w, http.StatusBadRequest, "task_id is required")
		return
	}
	if in.DependsOnTaskID == "" {
		writeError(w, http.StatusBadRequest, "depends_on_task_id is required")
		return
	}

	// Both endpoints must exist and live in the same project.
	task, err := s.store.GetTask(r.Context(), in.TaskID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "task "+in.TaskID+" not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	prereq, err := s.store.GetTask(r.Context(), in.DependsOnTaskID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "task "+in.DependsOnTaskID+" not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if task.ProjectID != prereq.ProjectID {
		writeError(w, http.StatusBadRequest, "tasks belong to different projects")
		return
	}

	dep := &model.TaskDependency{
		TaskID:          in.TaskID,
		DependsOnTaskID: in.DependsOnTaskID,
		CreatedAt:       time.Now().UTC(),
		CreatedBy:       in.CreatedBy,
	}
	if err := s.store.AddDependency(r.Context(), dep); err != nil {
		if errors.Is(err, store.ErrSelfDependency) {
			writeError(w, http.StatusBadRequest, "task cannot depend on itself")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to add dependency")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicDependencyAdded, task.ProjectID, dep.TaskID, dep.CreatedBy,
		events.DependencyAdded{Dependency: dep})

	writeJSON(w, http.StatusCreated, dep)
}

// handleRemoveDependency handles DELETE /v1/dependencies.
// The edge is named by task_id and depends_on_task_id query parameters.
func (s *Server) handleRemoveDependency(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	taskID := q.Get("task_id")
	dependsOn := q.Get("depends_on_task_id")
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "task_id is required")
		return
	}
	if dependsOn == "" {
		writeError(w, http.StatusBadRequest, "depends_on_task_id is required")
		return
	}

	task, err := s.store.GetTask(r.Context(), taskID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}

	if err := s.store.RemoveDependency(r.Context(), taskID, dependsOn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "dependency not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to remove dependency")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicDependencyRemoved, task.ProjectID, taskID, "",
		events.DependencyRemoved{TaskID: taskID, DependsOnTaskID: dependsOn})

	w.WriteHeader(http.StatusNoContent)
}

// handleGetTaskDependencies handles GET /v1/tasks/{id}/dependencies.
func (s *Server) handleGetTaskDependencies(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := s.store.GetTask(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return
	}

	deps, err := s.store.GetTaskDependencies(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get dependencies")
		return
	}
	if deps == nil {
		deps = []*model.TaskDependency{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"dependencies": deps,
		"total":        len(deps),
	})
}
