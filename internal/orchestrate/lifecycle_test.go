package orchestrate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/HANSKMIEL/Optura/internal/model"
)

func fixedLifecycle(ts time.Time) *Lifecycle {
	return &Lifecycle{Now: func() time.Time { return ts }}
}

func TestApproveRequiresSpec(t *testing.T) {
	lc := NewLifecycle()
	tk := &model.Task{ID: "tk-a", Status: model.StatusReview}

	err := lc.Approve(tk, "alice")
	ge, ok := IsGateError(err)
	if !ok || ge.Kind != GateSpecMissing {
		t.Fatalf("expected spec_missing gate error, got %v", err)
	}
	if tk.Status != model.StatusReview {
		t.Errorf("status changed on gate failure: %s", tk.Status)
	}

	// Null spec is still missing.
	tk.Spec = json.RawMessage(`null`)
	if err := lc.Approve(tk, "alice"); err == nil {
		t.Error("expected gate error for null spec")
	}
}

func TestApproveRecordsApprover(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	lc := fixedLifecycle(now)
	tk := &model.Task{
		ID:              "tk-a",
		Status:          model.StatusReview,
		Spec:            json.RawMessage(`{"objective":"ship"}`),
		RejectionReason: "needs more detail",
	}

	if err := lc.Approve(tk, "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tk.Status != model.StatusApproved {
		t.Errorf("status = %s, want approved", tk.Status)
	}
	if tk.ApprovedBy != "alice" || tk.ApprovedAt == nil || !tk.ApprovedAt.Equal(now) {
		t.Errorf("approver not recorded: by=%q at=%v", tk.ApprovedBy, tk.ApprovedAt)
	}
	if tk.RejectionReason != "" {
		t.Error("prior rejection reason should be cleared")
	}
}

func TestRejectClearsApproval(t *testing.T) {
	now := time.Now().UTC()
	lc := NewLifecycle()
	tk := &model.Task{
		ID:         "tk-a",
		Status:     model.StatusApproved,
		ApprovedBy: "alice",
		ApprovedAt: &now,
	}

	lc.Reject(tk, "scope too broad")
	if tk.Status != model.StatusPending {
		t.Errorf("status = %s, want pending", tk.Status)
	}
	if tk.RejectionReason != "scope too broad" {
		t.Errorf("rejection reason = %q", tk.RejectionReason)
	}
	if tk.ApprovedBy != "" || tk.ApprovedAt != nil {
		t.Error("approval fields should be cleared")
	}
}

func TestCompleteGates(t *testing.T) {
	lc := NewLifecycle()

	for _, tc := range []struct {
		name string
		task *model.Task
		want GateKind
	}{
		{
			name: "missing test results",
			task: &model.Task{ID: "tk-a", Status: model.StatusApproved},
			want: GateTestResultsMissing,
		},
		{
			name: "failed tests",
			task: &model.Task{
				ID:          "tk-a",
				Status:      model.StatusApproved,
				TestResults: json.RawMessage(`{"status":"failed"}`),
			},
			want: GateTestsFailed,
		},
		{
			name: "approval required but not approved",
			task: &model.Task{
				ID:               "tk-a",
				Status:           model.StatusReview,
				RequiresApproval: true,
				TestResults:      json.RawMessage(`{"status":"passed"}`),
			},
			want: GateApprovalRequired,
		},
	} {
		err := lc.Complete(tc.task)
		ge, ok := IsGateError(err)
		if !ok {
			t.Errorf("%s: expected gate error, got %v", tc.name, err)
			continue
		}
		if ge.Kind != tc.want {
			t.Errorf("%s: gate = %s, want %s", tc.name, ge.Kind, tc.want)
		}
		if tc.task.Status == model.StatusCompleted {
			t.Errorf("%s: status advanced despite gate failure", tc.name)
		}
	}
}

func TestCompleteSucceeds(t *testing.T) {
	lc := NewLifecycle()

	// No approval required: passing tests are enough.
	tk := &model.Task{
		ID:          "tk-a",
		Status:      model.StatusInProgress,
		TestResults: json.RawMessage(`{"status":"passed","total":5}`),
	}
	if err := lc.Complete(tk); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tk.Status != model.StatusCompleted {
		t.Errorf("status = %s, want completed", tk.Status)
	}

	// Approval required and already approved.
	tk = &model.Task{
		ID:               "tk-b",
		Status:           model.StatusApproved,
		RequiresApproval: true,
		TestResults:      json.RawMessage(`{"status":"passed"}`),
	}
	if err := lc.Complete(tk); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tk.Status != model.StatusCompleted {
		t.Errorf("status = %s, want completed", tk.Status)
	}
}

func TestApproveThenCompleteFlow(t *testing.T) {
	lc := NewLifecycle()
	tk := &model.Task{ID: "tk-a", Status: model.StatusReview, RequiresApproval: true}

	// Approval blocked until a spec exists.
	if err := lc.Approve(tk, "alice"); err == nil {
		t.Fatal("expected spec_missing")
	}
	tk.Spec = json.RawMessage(`{"objective":"ship"}`)
	if err := lc.Approve(tk, "alice"); err != nil {
		t.Fatalf("approve after adding spec: %v", err)
	}

	// Completion blocked until test results exist.
	err := lc.Complete(tk)
	ge, ok := IsGateError(err)
	if !ok || ge.Kind != GateTestResultsMissing {
		t.Fatalf("expected test_results_missing, got %v", err)
	}
	tk.TestResults = json.RawMessage(`{"status":"passed"}`)
	if err := lc.Complete(tk); err != nil {
		t.Fatalf("complete after recording results: %v", err)
	}
	if tk.Status != model.StatusCompleted {
		t.Errorf("status = %s, want completed", tk.Status)
	}
}
