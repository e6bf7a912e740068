package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/HANSKMIEL/Optura/internal/events"
	"github.com/HANSKMIEL/Optura/internal/idgen"
	"github.com/HANSKMIEL/Optura/internal/model"
)

// createProjectInput holds parameters for creating a project.
type createProjectInput struct {
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	Goal               string          `json:"goal"`
	AcceptanceCriteria json.RawMessage `json:"acceptance_criteria"`
	Environment        string          `json:"environment"`
	CreatedBy          string          `json:"created_by"`
}

// createProject validates input, persists a new project, and publishes a
// ProjectCreated event. Returns inputError for validation failures.
func (s *Server) createProject(ctx context.Context, in createProjectInput) (*model.Project, error) {
	now := time.Now().UTC()
	id, err := idgen.NewProjectID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}

	project := &model.Project{
		ID:                 id,
		Name:               in.Name,
		Description:        in.Description,
		Goal:               in.Goal,
		AcceptanceCriteria: in.AcceptanceCriteria,
		RiskLevel:          model.RiskMedium,
		Status:             model.ProjectDraft,
		Environment:        in.Environment,
		CreatedBy:          in.CreatedBy,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := model.ValidateProject(project); err != nil {
		return nil, inputError("invalid project: " + err.Error())
	}

	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.recordAndPublish(ctx, events.TopicProjectCreated, project.ID, "", project.CreatedBy,
		events.ProjectCreated{Project: project})

	return project, nil
}

// handleCreateProject handles POST /v1/projects.
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in createProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	project, err := s.createProject(r.Context(), in)
	if err != nil {
		var ie inputError
		if errors.As(err, &ie) {
			writeError(w, http.StatusBadRequest, ie.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

// handleListProjects handles GET /v1/projects.
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ProjectFilter{
		Search: q.Get("search"),
	}
	if v := q.Get("status"); v != "" {
		for _, st := range strings.Split(v, ",") {
			filter.Status = append(filter.Status, model.ProjectStatus(st))
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	projects, total, err := s.store.ListProjects(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}

	// Ensure projects is never null in JSON output.
	if projects == nil {
		projects = []*model.Project{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"projects": projects,
		"total":    total,
	})
}

// handleGetProject handles GET /v1/projects/{id}.
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	project, err := s.store.GetProject(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get project")
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// updateProjectInput holds parameters for updating a project.
// Pointer fields indicate optionality: nil means "don't change".
type updateProjectInput struct {
	Name               *string         `json:"name,omitempty"`
	Description        *string         `json:"description,omitempty"`
	Goal               *string         `json:"goal,omitempty"`
	AcceptanceCriteria json.RawMessage `json:"acceptance_criteria,omitempty"`
	Environment        *string         `json:"environment,omitempty"`
	Status             *string         `json:"status,omitempty"`
	RiskLevel          *string         `json:"risk_level,omitempty"`
}

// handleUpdateProject handles PATCH /v1/projects/{id}.
func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in updateProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	project, err := s.store.GetProject(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get project")
		return
	}

	changes := make(map[string]any)
	if in.Name != nil {
		project.Name = *in.Name
		changes["name"] = *in.Name
	}
	if in.Description != nil {
		project.Description = *in.Description
		changes["description"] = *in.Description
	}
	if in.Goal != nil {
		project.Goal = *in.Goal
		changes["goal"] = *in.Goal
	}
	if in.AcceptanceCriteria != nil {
		project.AcceptanceCriteria = in.AcceptanceCriteria
		changes["acceptance_criteria"] = json.RawMessage(in.AcceptanceCriteria)
	}
	if in.Environment != nil {
		project.Environment = *in.Environment
		changes["environment"] = *in.Environment
	}
	if in.Status != nil {
		status := model.ProjectStatus(*in.Status)
		if !status.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid project status "+*in.Status)
			return
		}
		project.Status = status
		changes["status"] = *in.Status
	}
	if in.RiskLevel != nil {
		risk := model.RiskLevel(*in.RiskLevel)
		if !risk.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid risk level "+*in.RiskLevel)
			return
		}
		project.RiskLevel = risk
		changes["risk_level"] = *in.RiskLevel
	}

	if err := model.ValidateProject(project); err != nil {
		writeError(w, http.StatusBadRequest, "invalid project: "+err.Error())
		return
	}

	project.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateProject(r.Context(), project); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update project")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicProjectUpdated, project.ID, "", "",
		events.ProjectUpdated{Project: project, Changes: changes})

	writeJSON(w, http.StatusOK, project)
}

// handleDeleteProject handles DELETE /v1/projects/{id}.
// Tasks, dependencies, and audit entries cascade in the database.
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.DeleteProject(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete project")
		return
	}

	// No audit entry: the row it would reference is gone. Publish only.
	if err := s.publisher.Publish(r.Context(), events.TopicProjectDeleted, events.ProjectDeleted{ProjectID: id}); err != nil {
		slog.Warn("failed to publish event", "topic", events.TopicProjectDeleted, "project_id", id, "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}
