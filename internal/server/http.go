package server

import (
	"encoding/json"
	"net/http"

	"github.com/HANSKMIEL/Optura/internal/orchestrate"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *Server) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/projects", s.handleCreateProject)
	mux.HandleFunc("GET /v1/projects", s.handleListProjects)
	mux.HandleFunc("GET /v1/projects/{id}", s.handleGetProject)
	mux.HandleFunc("PATCH /v1/projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /v1/projects/{id}", s.handleDeleteProject)
	mux.HandleFunc("POST /v1/projects/{id}/plan", s.handleGeneratePlan)
	mux.HandleFunc("POST /v1/projects/{id}/plan/accept", s.handleAcceptPlan)
	mux.HandleFunc("GET /v1/projects/{id}/tasks", s.handleListProjectTasks)
	mux.HandleFunc("GET /v1/projects/{id}/critical-path", s.handleCriticalPath)
	mux.HandleFunc("GET /v1/projects/{id}/graph", s.handleGetGraph)
	mux.HandleFunc("GET /v1/projects/{id}/next-actions", s.handleNextActions)
	mux.HandleFunc("GET /v1/projects/{id}/status-summary", s.handleStatusSummary)
	mux.HandleFunc("POST /v1/projects/{id}/reprioritize", s.handleReprioritize)
	mux.HandleFunc("GET /v1/projects/{id}/audit", s.handleListAudit)
	mux.HandleFunc("POST /v1/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /v1/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PATCH /v1/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /v1/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("POST /v1/tasks/{id}/spec", s.handleGenerateSpec)
	mux.HandleFunc("POST /v1/tasks/{id}/test-results", s.handleRecordTestResults)
	mux.HandleFunc("POST /v1/tasks/{id}/approve", s.handleApproveTask)
	mux.HandleFunc("POST /v1/tasks/{id}/reject", s.handleRejectTask)
	mux.HandleFunc("POST /v1/tasks/{id}/complete", s.handleCompleteTask)
	mux.HandleFunc("GET /v1/tasks/{id}/dependencies", s.handleGetTaskDependencies)
	mux.HandleFunc("POST /v1/dependencies", s.handleAddDependency)
	mux.HandleFunc("DELETE /v1/dependencies", s.handleRemoveDependency)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return AuthMiddleware(authToken, mux)
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeGateError writes a 400 response carrying the gate kind so callers
// can distinguish which lifecycle precondition failed.
func writeGateError(w http.ResponseWriter, ge *orchestrate.GateError) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": ge.Message,
		"gate":  string(ge.Kind),
	})
}
