package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/HANSKMIEL/Optura/internal/model"
	"github.com/HANSKMIEL/Optura/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version      string    `json:"version"`
	Type         string    `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	ProjectCount int       `json:"project_count"`
	TaskCount    int       `json:"task_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ExportJSONL writes all projects and their tasks from the store as JSONL
// to w. Projects and tasks are sorted by ID; each task embeds its
// dependency edges.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	projects, _, err := s.ListProjects(ctx, model.ProjectFilter{})
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].ID < projects[j].ID
	})

	var tasks []*model.Task
	for _, p := range projects {
		pt, err := s.ListTasks(ctx, model.TaskFilter{ProjectID: p.ID})
		if err != nil {
			return fmt.Errorf("list tasks for %s: %w", p.ID, err)
		}
		tasks = append(tasks, pt...)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ID < tasks[j].ID
	})

	// Embed dependency edges on each task.
	for _, t := range tasks {
		deps, err := s.GetTaskDependencies(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("get dependencies for %s: %w", t.ID, err)
		}
		t.Dependencies = deps
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	// Write header.
	if err := enc.Encode(header{
		Version:      "1",
		Type:         "header",
		Timestamp:    time.Now().UTC(),
		ProjectCount: len(projects),
		TaskCount:    len(tasks),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	// Write projects.
	for _, p := range projects {
		if err := enc.Encode(record{Type: "project", Data: p}); err != nil {
			return fmt.Errorf("encode project %s: %w", p.ID, err)
		}
	}

	// Write tasks.
	for _, t := range tasks {
		if err := enc.Encode(record{Type: "task", Data: t}); err != nil {
			return fmt.Errorf("encode task %s: %w", t.ID, err)
		}
	}

	return nil
}
