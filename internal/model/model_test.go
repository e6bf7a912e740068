package model

import (
	"encoding/json"
	"testing"
)

func TestTaskStatusIsValid(t *testing.T) {
	valid := []TaskStatus{
		StatusPending, StatusInProgress, StatusBlocked, StatusReview,
		StatusApproved, StatusCompleted, StatusFailed,
	}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []TaskStatus{"", "done", "OPEN", "Pending"} {
		if s.IsValid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestTaskStatusIsTerminal(t *testing.T) {
	if !StatusCompleted.IsTerminal() || !StatusFailed.IsTerminal() {
		t.Error("completed and failed should be terminal")
	}
	for _, s := range []TaskStatus{StatusPending, StatusInProgress, StatusBlocked, StatusReview, StatusApproved} {
		if s.IsTerminal() {
			t.Errorf("%q should not be terminal", s)
		}
	}
}

func TestTaskHasSpec(t *testing.T) {
	for _, tc := range []struct {
		name string
		spec json.RawMessage
		want bool
	}{
		{"absent", nil, false},
		{"json null", json.RawMessage(`null`), false},
		{"empty object", json.RawMessage(`{}`), false},
		{"populated", json.RawMessage(`{"objective":"build it"}`), true},
	} {
		task := &Task{Spec: tc.spec}
		if got := task.HasSpec(); got != tc.want {
			t.Errorf("%s: HasSpec() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTaskTestStatus(t *testing.T) {
	task := &Task{TestResults: json.RawMessage(`{"status":"passed","total":3}`)}
	if got := task.TestStatus(); got != "passed" {
		t.Errorf("TestStatus() = %q, want %q", got, "passed")
	}

	task = &Task{}
	if got := task.TestStatus(); got != "" {
		t.Errorf("TestStatus() with no results = %q, want empty", got)
	}

	task = &Task{TestResults: json.RawMessage(`not json`)}
	if got := task.TestStatus(); got != "" {
		t.Errorf("TestStatus() with malformed results = %q, want empty", got)
	}
}

func TestValidateTask(t *testing.T) {
	est := 2.0
	valid := &Task{
		ID:            "tk-abc",
		ProjectID:     "pj-xyz",
		Name:          "Implement parser",
		Status:        StatusPending,
		EstimateHours: &est,
	}
	if err := ValidateTask(valid); err != nil {
		t.Fatalf("expected valid task, got %v", err)
	}

	bad := 0.0
	neg := -1.5
	for _, tc := range []struct {
		name  string
		task  *Task
		field string
	}{
		{"missing name", &Task{ProjectID: "pj-x", Status: StatusPending}, "name"},
		{"missing project", &Task{Name: "x", Status: StatusPending}, "project_id"},
		{"bad status", &Task{Name: "x", ProjectID: "pj-x", Status: "done"}, "status"},
		{"zero estimate", &Task{Name: "x", ProjectID: "pj-x", Status: StatusPending, EstimateHours: &bad}, "estimate_hours"},
		{"bad confidence", &Task{Name: "x", ProjectID: "pj-x", Status: StatusPending, ConfidenceScore: &neg}, "confidence_score"},
		{"bad spec json", &Task{Name: "x", ProjectID: "pj-x", Status: StatusPending, Spec: json.RawMessage(`{`)}, "spec"},
	} {
		err := ValidateTask(tc.task)
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		ve, ok := err.(*ValidationError)
		if !ok {
			t.Errorf("%s: expected *ValidationError, got %T", tc.name, err)
			continue
		}
		found := false
		for _, fe := range ve.Errors {
			if fe.Field == tc.field {
				found = true
			}
		}
		if !found {
			t.Errorf("%s: expected error on field %q, got %v", tc.name, tc.field, ve)
		}
	}
}

func TestValidateProject(t *testing.T) {
	valid := &Project{
		ID:        "pj-abc",
		Name:      "Optura rebuild",
		Status:    ProjectDraft,
		RiskLevel: RiskLow,
	}
	if err := ValidateProject(valid); err != nil {
		t.Fatalf("expected valid project, got %v", err)
	}

	invalid := &Project{Name: "", Status: "weird", RiskLevel: "none"}
	err := ValidateProject(invalid)
	if err == nil {
		t.Fatal("expected error")
	}
	ve := err.(*ValidationError)
	if len(ve.Errors) != 3 {
		t.Errorf("expected 3 field errors, got %d: %v", len(ve.Errors), ve)
	}
}
