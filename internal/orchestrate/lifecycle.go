package orchestrate

import (
	"time"

	"github.com/HANSKMIEL/Optura/internal/model"
)

// Lifecycle applies gated status transitions to a single task. Each method
// checks its preconditions and mutates the task in place; persisting the
// changed task as one atomic write is the caller's job, under whatever
// serialization the storage layer provides for that task.
type Lifecycle struct {
	// Now is the clock used for approval timestamps. Defaults to time.Now.
	Now func() time.Time
}

// NewLifecycle returns a Lifecycle using the wall clock.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{Now: time.Now}
}

// Approve moves the task to approved, recording who approved it and when.
// Gate: the task must carry a non-empty specification. A prior rejection
// reason is cleared.
func (l *Lifecycle) Approve(t *model.Task, approvedBy string) error {
	if !t.HasSpec() {
		return &GateError{
			Kind:    GateSpecMissing,
			Message: "task cannot be approved without a machine-readable specification; generate a spec first",
		}
	}

	now := l.Now().UTC()
	t.Status = model.StatusApproved
	t.ApprovedBy = approvedBy
	t.ApprovedAt = &now
	t.RejectionReason = ""
	return nil
}

// Reject sends the task back to pending with the given reason. There is no
// gate; any prior approval is cleared.
func (l *Lifecycle) Reject(t *model.Task, reason string) {
	t.Status = model.StatusPending
	t.RejectionReason = reason
	t.ApprovedBy = ""
	t.ApprovedAt = nil
}

// Complete moves the task to completed. Gates, in order: test results must
// be present, they must not report failure, and a task that requires
// approval must already be approved.
func (l *Lifecycle) Complete(t *model.Task) error {
	if !t.HasTestResults() {
		return &GateError{
			Kind:    GateTestResultsMissing,
			Message: "task cannot be completed without test results; run tests first",
		}
	}
	if t.TestStatus() == "failed" {
		return &GateError{
			Kind:    GateTestsFailed,
			Message: "task cannot be completed with failed tests",
		}
	}
	if t.RequiresApproval && t.Status != model.StatusApproved {
		return &GateError{
			Kind:    GateApprovalRequired,
			Message: "task requires human approval before completion",
		}
	}

	t.Status = model.StatusCompleted
	return nil
}
