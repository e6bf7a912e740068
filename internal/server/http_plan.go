package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/HANSKMIEL/Optura/internal/events"
	"github.com/HANSKMIEL/Optura/internal/idgen"
	"github.com/HANSKMIEL/Optura/internal/model"
	"github.com/HANSKMIEL/Optura/internal/planner"
	"github.com/HANSKMIEL/Optura/internal/store"
)

// handleGeneratePlan handles POST /v1/projects/{id}/plan.
// Asks the producer for a task breakdown and returns the proposals without
// persisting them. The project moves to planning and picks up the plan's
// risk level.
func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
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

	var criteria []string
	if len(project.AcceptanceCriteria) > 0 {
		_ = json.Unmarshal(project.AcceptanceCriteria, &criteria)
	}

	plan, err := s.producer.GeneratePlan(r.Context(), &planner.PlanRequest{
		ProjectName:        project.Name,
		Goal:               project.Goal,
		Description:        project.Description,
		AcceptanceCriteria: criteria,
		Environment:        project.Environment,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate plan: "+err.Error())
		return
	}

	project.Status = model.ProjectPlanning
	if risk := model.RiskLevel(plan.RiskLevel); risk.IsValid() {
		project.RiskLevel = risk
	}
	project.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateProject(r.Context(), project); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update project")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicPlanGenerated, project.ID, "", "",
		events.PlanGenerated{
			ProjectID: project.ID,
			TaskCount: len(plan.Tasks),
			RiskLevel: plan.RiskLevel,
		})

	writeJSON(w, http.StatusOK, plan)
}

// handleAcceptPlan handles POST /v1/projects/{id}/plan/accept.
// Creates one task per proposal and resolves index-based dependencies to
// task IDs, all within a single transaction. The project moves to
// in_progress.
func (s *Server) handleAcceptPlan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var plan planner.Plan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := plan.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
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

	now := time.Now().UTC()
	tasks := make([]*model.Task, len(plan.Tasks))
	for i, proposal := range plan.Tasks {
		taskID, err := idgen.NewTaskID()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to generate ID")
			return
		}
		task := &model.Task{
			ID:               taskID,
			ProjectID:        project.ID,
			Name:             proposal.Name,
			Description:      proposal.Description,
			Inputs:           proposal.Inputs,
			Outputs:          proposal.Outputs,
			Tests:            proposal.Tests,
			SecurityChecks:   proposal.SecurityChecks,
			Status:           model.StatusPending,
			RequiresApproval: proposal.RequiresApproval,
			Order:            proposal.Order,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if proposal.EstimateHours > 0 {
			est := proposal.EstimateHours
			task.EstimateHours = &est
		}
		if proposal.ConfidenceScore > 0 {
			conf := proposal.ConfidenceScore
			task.ConfidenceScore = &conf
		}
		if err := model.ValidateTask(task); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid task %d: %s", i, err.Error()))
			return
		}
		tasks[i] = task
	}

	err = s.store.RunInTransaction(r.Context(), func(tx store.Store) error {
		for _, task := range tasks {
			if err := tx.CreateTask(r.Context(), task); err != nil {
				return fmt.Errorf("failed to create task %s: %w", task.ID, err)
			}
		}
		for i, proposal := range plan.Tasks {
			for _, depIdx := range proposal.Dependencies {
				dep := &model.TaskDependency{
					TaskID:          tasks[i].ID,
					DependsOnTaskID: tasks[depIdx].ID,
					CreatedAt:       now,
				}
				if err := tx.AddDependency(r.Context(), dep); err != nil {
					return fmt.Errorf("failed to add dependency: %w", err)
				}
			}
		}
		project.Status = model.ProjectInProgress
		project.UpdatedAt = now
		return tx.UpdateProject(r.Context(), project)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	taskIDs := make([]string, len(tasks))
	for i, task := range tasks {
		taskIDs[i] = task.ID
	}
	s.recordAndPublish(r.Context(), events.TopicPlanAccepted, project.ID, "", "",
		events.PlanAccepted{ProjectID: project.ID, TaskIDs: taskIDs})

	writeJSON(w, http.StatusCreated, map[string]any{
		"project": project,
		"tasks":   tasks,
	})
}
