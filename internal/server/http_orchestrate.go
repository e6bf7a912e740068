package server

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/HANSKMIEL/Optura/internal/events"
	"github.com/HANSKMIEL/Optura/internal/model"
	"github.com/HANSKMIEL/Optura/internal/orchestrate"
)

// loadGraph fetches a project's tasks and dependency edges and assembles
// the scheduling graph. Returns sql.ErrNoRows when the project is unknown.
func (s *Server) loadGraph(ctx context.Context, projectID string) (*orchestrate.Graph, []*model.Task, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, nil, err
	}
	tasks, err := s.store.ListTasks(ctx, model.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, nil, err
	}
	deps, err := s.store.ListDependencies(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	g, err := orchestrate.BuildGraph(projectID, tasks, deps, s.graphCfg)
	if err != nil {
		return nil, nil, err
	}
	return g, tasks, nil
}

// handleCriticalPath handles GET /v1/projects/{id}/critical-path.
// A cyclic dependency set is reported in the result body, not as an HTTP
// error.
func (s *Server) handleCriticalPath(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	g, _, err := s.loadGraph(r.Context(), projectID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, orchestrate.CriticalPath(g))
}

// handleGetGraph handles GET /v1/projects/{id}/graph.
// Returns tasks as nodes and dependencies as edges pointing from the
// prerequisite to its dependent.
func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	g, tasks, err := s.loadGraph(r.Context(), projectID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	nodes := make([]*model.GraphNode, 0, len(tasks))
	for _, t := range tasks {
		nodes = append(nodes, &model.GraphNode{
			ID:               t.ID,
			Name:             t.Name,
			Status:           t.Status,
			EstimateHours:    t.EstimateHours,
			RequiresApproval: t.RequiresApproval,
			Order:            t.Order,
		})
	}
	edges := []*model.GraphEdge{}
	for i := 0; i < g.Len(); i++ {
		node := g.Nodes[i]
		for _, j := range g.Dependents(i) {
			edges = append(edges, &model.GraphEdge{From: node.ID, To: g.Nodes[j].ID})
		}
	}

	writeJSON(w, http.StatusOK, &model.GraphResponse{
		ProjectID: projectID,
		Nodes:     nodes,
		Edges:     edges,
	})
}

// handleNextActions handles GET /v1/projects/{id}/next-actions.
// The classifier returns complete lists; an optional limit query parameter
// truncates each list for display.
func (s *Server) handleNextActions(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	g, _, err := s.loadGraph(r.Context(), projectID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	actions := orchestrate.Classify(g)

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			if len(actions.Actionable) > n {
				actions.Actionable = actions.Actionable[:n]
			}
			if len(actions.NeedsApproval) > n {
				actions.NeedsApproval = actions.NeedsApproval[:n]
			}
			if len(actions.Blocked) > n {
				actions.Blocked = actions.Blocked[:n]
			}
		}
	}

	writeJSON(w, http.StatusOK, actions)
}

// handleStatusSummary handles GET /v1/projects/{id}/status-summary.
// Rolls the project up into per-status counts, hour-weighted progress, the
// critical-path length, and the top actionable tasks.
func (s *Server) handleStatusSummary(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	project, err := s.store.GetProject(r.Context(), projectID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get project")
		return
	}

	g, tasks, err := s.loadGraph(r.Context(), projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	counts := make(map[model.TaskStatus]int, len(model.AllTaskStatuses))
	for _, st := range model.AllTaskStatuses {
		counts[st] = 0
	}

	var totalEstimate, completedEstimate float64
	for _, t := range tasks {
		counts[t.Status]++
		if t.EstimateHours != nil {
			totalEstimate += *t.EstimateHours
			if t.Status == model.StatusCompleted {
				completedEstimate += *t.EstimateHours
			}
		}
	}

	var progress float64
	if totalEstimate > 0 {
		progress = math.Round(completedEstimate/totalEstimate*100*100) / 100
	}

	critPath := orchestrate.CriticalPath(g)
	actions := orchestrate.Classify(g)

	actionable := actions.Actionable
	if len(actionable) > 3 {
		actionable = actionable[:3]
	}

	writeJSON(w, http.StatusOK, &model.StatusSummary{
		ProjectID:              project.ID,
		ProjectName:            project.Name,
		Status:                 project.Status,
		RiskLevel:              project.RiskLevel,
		TaskCounts:             counts,
		TotalTasks:             len(tasks),
		TotalEstimateHours:     totalEstimate,
		CompletedEstimateHours: completedEstimate,
		ProgressPercent:        progress,
		CriticalPathHours:      critPath.TotalHours,
		NextActions:            actionable,
		NeedsApproval:          actions.NeedsApproval,
	})
}

// handleReprioritize handles POST /v1/projects/{id}/reprioritize.
// Computes the minimal order change set and persists it in one transaction.
func (s *Server) handleReprioritize(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	if _, err := s.store.GetProject(r.Context(), projectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get project")
		return
	}

	tasks, err := s.store.ListTasks(r.Context(), model.TaskFilter{ProjectID: projectID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}

	result := orchestrate.Reprioritize(projectID, tasks)

	if len(result.Changes) > 0 {
		if err := s.store.UpdateTaskOrders(r.Context(), projectID, result.Changes); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to persist order changes")
			return
		}
		s.recordAndPublish(r.Context(), events.TopicTasksReprioritized, projectID, "", "",
			events.TasksReprioritized{ProjectID: projectID, Changes: result.Changes})
	}

	writeJSON(w, http.StatusOK, result)
}
