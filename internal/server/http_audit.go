package server

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/HANSKMIEL/Optura/internal/model"
)

// handleListAudit handles GET /v1/projects/{id}/audit.
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	if _, err := s.store.GetProject(r.Context(), projectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get project")
		return
	}

	entries, err := s.store.ListAudit(r.Context(), projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list audit entries")
		return
	}
	if entries == nil {
		entries = []*model.AuditEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   len(entries),
	})
}
