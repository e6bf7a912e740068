// Package server implements the Optura HTTP API: project and task CRUD,
// plan generation and acceptance, the gated task lifecycle, and the
// orchestration endpoints (critical path, graph, readiness,
// reprioritization).
package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/HANSKMIEL/Optura/internal/events"
	"github.com/HANSKMIEL/Optura/internal/model"
	"github.com/HANSKMIEL/Optura/internal/orchestrate"
	"github.com/HANSKMIEL/Optura/internal/planner"
	"github.com/HANSKMIEL/Optura/internal/store"
)

// Server wires the store, event publisher, plan producer, and the
// orchestration core behind the HTTP API.
type Server struct {
	store     store.Store
	publisher events.Publisher
	producer  planner.Producer
	lifecycle *orchestrate.Lifecycle
	graphCfg  orchestrate.Config
}

// NewServer returns a new Server backed by the given store, publisher,
// and plan producer.
func NewServer(s store.Store, p events.Publisher, producer planner.Producer, cfg orchestrate.Config) *Server {
	return &Server{
		store:     s,
		publisher: p,
		producer:  producer,
		lifecycle: orchestrate.NewLifecycle(),
		graphCfg:  cfg,
	}
}

// recordAndPublish writes an audit entry and publishes the event to NATS.
// Both operations are best-effort; failures are logged but do not block
// the caller.
func (s *Server) recordAndPublish(ctx context.Context, topic, projectID, taskID, actor string, event any) {
	details, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event", "topic", topic, "project_id", projectID, "error", err)
		return
	}
	if err := s.store.RecordAudit(ctx, &model.AuditEntry{
		ProjectID: projectID,
		TaskID:    taskID,
		Action:    topic,
		Actor:     actor,
		Details:   details,
	}); err != nil {
		slog.Warn("failed to record audit entry", "topic", topic, "project_id", projectID, "error", err)
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "project_id", projectID, "error", err)
	}
}

// inputError indicates invalid user input. The HTTP layer maps this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
