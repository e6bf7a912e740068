// Package orchestrate implements the task scheduling core: dependency-graph
// construction, critical-path analysis, readiness classification,
// reprioritization, and the gated task lifecycle.
package orchestrate

// GateKind identifies which lifecycle precondition was violated.
type GateKind string

const (
	GateSpecMissing        GateKind = "spec_missing"
	GateTestResultsMissing GateKind = "test_results_missing"
	GateTestsFailed        GateKind = "tests_failed"
	GateApprovalRequired   GateKind = "approval_required"
)

// GateError is returned when a lifecycle transition is blocked by an
// unsatisfied precondition. Gate failures are user-correctable and are
// never retried automatically.
type GateError struct {
	Kind    GateKind
	Message string
}

func (e *GateError) Error() string {
	return e.Message
}

// IsGateError reports whether err is a gate violation and returns it if so.
func IsGateError(err error) (*GateError, bool) {
	ge, ok := err.(*GateError)
	return ge, ok
}

// CircularDependency is the error value reported in critical-path results
// when the project's edge set contains a cycle. It is a reported outcome,
// not a failure of the analysis call.
const CircularDependency = "circular_dependency"
