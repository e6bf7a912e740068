package planner

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFallbackPlanIsValidChain(t *testing.T) {
	p := NewFallbackProducer()
	plan, err := p.GeneratePlan(context.Background(), &PlanRequest{
		ProjectName: "demo",
		Goal:        "build the thing",
		Description: "a thing that does things",
	})
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if err := plan.Validate(); err != nil {
		t.Fatalf("fallback plan invalid: %v", err)
	}
	if len(plan.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(plan.Tasks))
	}
	if got := plan.Tasks[1].Dependencies; len(got) != 1 || got[0] != 0 {
		t.Errorf("task 1 dependencies = %v, want [0]", got)
	}
	if got := plan.Tasks[2].Dependencies; len(got) != 1 || got[0] != 1 {
		t.Errorf("task 2 dependencies = %v, want [1]", got)
	}
	if plan.EstimatedTotalHours != 8.0 {
		t.Errorf("total hours = %v, want 8.0", plan.EstimatedTotalHours)
	}
	if !plan.Tasks[0].RequiresApproval || plan.Tasks[1].RequiresApproval {
		t.Error("approval flags do not match fallback plan")
	}
}

func TestFallbackSpecEchoesTask(t *testing.T) {
	p := NewFallbackProducer()
	raw, err := p.GenerateSpec(context.Background(), &SpecRequest{
		TaskName:        "Implementation",
		TaskDescription: "write the code",
		Inputs:          json.RawMessage(`{"specification":"doc"}`),
	})
	if err != nil {
		t.Fatalf("GenerateSpec: %v", err)
	}
	var spec map[string]any
	if err := json.Unmarshal(raw, &spec); err != nil {
		t.Fatalf("spec is not valid JSON: %v", err)
	}
	if spec["task_name"] != "Implementation" {
		t.Errorf("task_name = %v", spec["task_name"])
	}
	if spec["objective"] != "write the code" {
		t.Errorf("objective = %v", spec["objective"])
	}
	if _, ok := spec["test_cases"]; !ok {
		t.Error("spec missing test_cases")
	}
}

func TestPlanValidate(t *testing.T) {
	tests := []struct {
		name    string
		plan    *Plan
		wantErr bool
	}{
		{"empty", &Plan{}, true},
		{"unnamed task", &Plan{Tasks: []*TaskProposal{{}}}, true},
		{"dep out of range", &Plan{Tasks: []*TaskProposal{{Name: "a", Dependencies: []int{5}}}}, true},
		{"self dep", &Plan{Tasks: []*TaskProposal{{Name: "a", Dependencies: []int{0}}}}, true},
		{"ok", &Plan{Tasks: []*TaskProposal{{Name: "a"}, {Name: "b", Dependencies: []int{0}}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func chatServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIGeneratePlan(t *testing.T) {
	content := "```json\n{\"tasks\":[{\"name\":\"Setup\",\"estimate_hours\":1,\"dependencies\":[]},{\"name\":\"Build\",\"estimate_hours\":3,\"dependencies\":[0]}],\"risk_level\":\"low\",\"estimated_total_hours\":4}\n```"
	srv := chatServer(t, content, http.StatusOK)
	defer srv.Close()

	p := NewOpenAIProducer("test-key", "gpt-4o-mini", discardLogger(), WithBaseURL(srv.URL))
	plan, err := p.GeneratePlan(context.Background(), &PlanRequest{ProjectName: "demo", Goal: "ship it"})
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if len(plan.Tasks) != 2 || plan.Tasks[0].Name != "Setup" {
		t.Fatalf("unexpected plan: %+v", plan)
	}
	if plan.RiskLevel != "low" {
		t.Errorf("risk_level = %q", plan.RiskLevel)
	}
}

func TestOpenAIFallsBackOnServerError(t *testing.T) {
	srv := chatServer(t, "", http.StatusInternalServerError)
	defer srv.Close()

	p := NewOpenAIProducer("test-key", "gpt-4o-mini", discardLogger(), WithBaseURL(srv.URL))
	plan, err := p.GeneratePlan(context.Background(), &PlanRequest{ProjectName: "demo", Goal: "ship it"})
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	// Fallback plan has the fixed three-task shape.
	if len(plan.Tasks) != 3 || plan.Tasks[0].Name != "Research and Requirements" {
		t.Fatalf("expected fallback plan, got %+v", plan)
	}
}

func TestOpenAIFallsBackOnInvalidJSON(t *testing.T) {
	srv := chatServer(t, "sorry, I cannot help with that", http.StatusOK)
	defer srv.Close()

	p := NewOpenAIProducer("test-key", "gpt-4o-mini", discardLogger(), WithBaseURL(srv.URL))
	plan, err := p.GeneratePlan(context.Background(), &PlanRequest{ProjectName: "demo", Goal: "ship it"})
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if len(plan.Tasks) != 3 {
		t.Fatalf("expected fallback plan, got %d tasks", len(plan.Tasks))
	}
}

func TestOpenAIGenerateSpecRequiresKeys(t *testing.T) {
	// Valid JSON but missing required keys triggers the fallback.
	srv := chatServer(t, `{"task_name":"x","objective":"y"}`, http.StatusOK)
	defer srv.Close()

	p := NewOpenAIProducer("test-key", "gpt-4o-mini", discardLogger(), WithBaseURL(srv.URL))
	raw, err := p.GenerateSpec(context.Background(), &SpecRequest{TaskName: "x", TaskDescription: "y"})
	if err != nil {
		t.Fatalf("GenerateSpec: %v", err)
	}
	var spec map[string]any
	if err := json.Unmarshal(raw, &spec); err != nil {
		t.Fatalf("spec not JSON: %v", err)
	}
	if spec["confidence_score"] != 0.5 {
		t.Errorf("expected fallback spec, got %v", spec)
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{\"a\":1}", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"Here you go:\n```json\n{\"a\":1}\n```\nEnjoy!", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripCodeFences(tt.in); got != tt.want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
