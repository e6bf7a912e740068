package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateTask checks a Task for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the task is valid.
func ValidateTask(t *Task) error {
	var ve ValidationError

	// Name: required and at most 255 characters.
	name := strings.TrimSpace(t.Name)
	if name == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	} else if len([]rune(name)) > 255 {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "must be 255 characters or fewer"})
	}

	if t.ProjectID == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "project_id", Message: "is required"})
	}

	// Status: must be a valid enum value (closed set).
	if !t.Status.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: fmt.Sprintf("invalid value %q", t.Status),
		})
	}

	// EstimateHours: must be positive when present.
	if t.EstimateHours != nil && *t.EstimateHours <= 0 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "estimate_hours",
			Message: fmt.Sprintf("must be positive, got %v", *t.EstimateHours),
		})
	}

	// ConfidenceScore: must be within [0, 1] when present.
	if t.ConfidenceScore != nil && (*t.ConfidenceScore < 0 || *t.ConfidenceScore > 1) {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "confidence_score",
			Message: fmt.Sprintf("must be between 0 and 1, got %v", *t.ConfidenceScore),
		})
	}

	// JSON documents: must be valid JSON if present.
	for _, doc := range []struct {
		field string
		raw   json.RawMessage
	}{
		{"inputs", t.Inputs},
		{"outputs", t.Outputs},
		{"spec", t.Spec},
		{"test_results", t.TestResults},
	} {
		if len(doc.raw) > 0 && !json.Valid(doc.raw) {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   doc.field,
				Message: "contains invalid JSON",
			})
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateProject checks a Project for constraint violations.
func ValidateProject(p *Project) error {
	var ve ValidationError

	name := strings.TrimSpace(p.Name)
	if name == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	} else if len([]rune(name)) > 255 {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "must be 255 characters or fewer"})
	}

	if !p.Status.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: fmt.Sprintf("invalid value %q", p.Status),
		})
	}

	if !p.RiskLevel.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "risk_level",
			Message: fmt.Sprintf("invalid value %q", p.RiskLevel),
		})
	}

	if len(p.AcceptanceCriteria) > 0 && !json.Valid(p.AcceptanceCriteria) {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "acceptance_criteria",
			Message: "contains invalid JSON",
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
