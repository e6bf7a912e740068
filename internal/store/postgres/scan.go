package postgres

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/HANSKMIEL/Optura/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanProject scans a single row into a model.Project.
// The row must contain columns in the order defined by projectColumns.
func scanProject(row scannable) (*model.Project, error) {
	var p model.Project
	var (
		description sql.NullString
		goal        sql.NullString
		criteria    []byte
		environment sql.NullString
		createdBy   sql.NullString
	)

	err := row.Scan(
		&p.ID,
		&p.Name,
		&description,
		&goal,
		&criteria,
		&p.RiskLevel,
		&p.Status,
		&environment,
		&createdBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Description = description.String
	p.Goal = goal.String
	p.Environment = environment.String
	p.CreatedBy = createdBy.String
	if len(criteria) > 0 {
		p.AcceptanceCriteria = json.RawMessage(criteria)
	}

	return &p, nil
}

// scanProjectWithTotal scans a row that has a leading total_count column
// followed by the standard project columns. Used by queryListProjects with
// COUNT(*) OVER().
func scanProjectWithTotal(row scannable) (*model.Project, int, error) {
	var total int
	var p model.Project
	var (
		description sql.NullString
		goal        sql.NullString
		criteria    []byte
		environment sql.NullString
		createdBy   sql.NullString
	)

	err := row.Scan(
		&total,
		&p.ID,
		&p.Name,
		&description,
		&goal,
		&criteria,
		&p.RiskLevel,
		&p.Status,
		&environment,
		&createdBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, 0, err
	}

	p.Description = description.String
	p.Goal = goal.String
	p.Environment = environment.String
	p.CreatedBy = createdBy.String
	if len(criteria) > 0 {
		p.AcceptanceCriteria = json.RawMessage(criteria)
	}

	return &p, total, nil
}

// scanTask scans a single row into a model.Task.
// The row must contain columns in the order defined by taskColumns.
func scanTask(row scannable) (*model.Task, error) {
	var t model.Task
	var (
		description     sql.NullString
		inputs          []byte
		outputs         []byte
		tests           []byte
		securityChecks  []byte
		estimateHours   sql.NullFloat64
		confidenceScore sql.NullFloat64
		approvedBy      sql.NullString
		approvedAt      sql.NullTime
		rejectionReason sql.NullString
		spec            []byte
		testResults     []byte
	)

	err := row.Scan(
		&t.ID,
		&t.ProjectID,
		&t.Name,
		&description,
		&inputs,
		&outputs,
		&tests,
		&securityChecks,
		&estimateHours,
		&t.Status,
		&confidenceScore,
		&t.RequiresApproval,
		&approvedBy,
		&approvedAt,
		&rejectionReason,
		&t.Order,
		&spec,
		&testResults,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Description = description.String
	t.ApprovedBy = approvedBy.String
	t.RejectionReason = rejectionReason.String

	if estimateHours.Valid {
		v := estimateHours.Float64
		t.EstimateHours = &v
	}
	if confidenceScore.Valid {
		v := confidenceScore.Float64
		t.ConfidenceScore = &v
	}
	if approvedAt.Valid {
		ts := approvedAt.Time
		t.ApprovedAt = &ts
	}
	if len(inputs) > 0 {
		t.Inputs = json.RawMessage(inputs)
	}
	if len(outputs) > 0 {
		t.Outputs = json.RawMessage(outputs)
	}
	if len(tests) > 0 {
		t.Tests = json.RawMessage(tests)
	}
	if len(securityChecks) > 0 {
		t.SecurityChecks = json.RawMessage(securityChecks)
	}
	if len(spec) > 0 {
		t.Spec = json.RawMessage(spec)
	}
	if len(testResults) > 0 {
		t.TestResults = json.RawMessage(testResults)
	}

	return &t, nil
}

// scanDependencies drains a dependency result set.
func scanDependencies(rows *sql.Rows) ([]*model.TaskDependency, error) {
	var deps []*model.TaskDependency
	for rows.Next() {
		var d model.TaskDependency
		var createdBy sql.NullString
		if err := rows.Scan(&d.TaskID, &d.DependsOnTaskID, &d.CreatedAt, &createdBy); err != nil {
			return nil, err
		}
		d.CreatedBy = createdBy.String
		deps = append(deps, &d)
	}
	return deps, rows.Err()
}

// scanAuditEntry scans a single audit_log row.
func scanAuditEntry(row scannable) (*model.AuditEntry, error) {
	var e model.AuditEntry
	var (
		taskID  sql.NullString
		actor   sql.NullString
		details []byte
	)

	err := row.Scan(
		&e.ID,
		&e.ProjectID,
		&taskID,
		&e.Action,
		&actor,
		&details,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.TaskID = taskID.String
	e.Actor = actor.String
	if len(details) > 0 {
		e.Details = json.RawMessage(details)
	}

	return &e, nil
}

// nullString converts an empty string to a SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullTimePtr converts a nil *time.Time to a SQL NULL.
func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullFloatPtr converts a nil *float64 to a SQL NULL.
func nullFloatPtr(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// jsonbBytes converts a raw JSON document to a driver value, mapping an
// empty document to NULL.
func jsonbBytes(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
