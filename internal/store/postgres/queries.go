package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/HANSKMIEL/Optura/internal/model"
	"github.com/HANSKMIEL/Optura/internal/store"
)

// projectColumns is the column list used for SELECT statements on the projects table.
const projectColumns = `id, name, description, goal, acceptance_criteria,
	risk_level, status, environment, created_by, created_at, updated_at`

// taskColumns is the column list used for SELECT statements on the tasks table.
const taskColumns = `id, project_id, name, description, inputs, outputs,
	tests, security_checks, estimate_hours, status, confidence_score,
	requires_approval, approved_by, approved_at, rejection_reason, task_order,
	spec, test_results, created_at, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// --- Projects ---

func queryCreateProject(ctx context.Context, db executor, p *model.Project) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO projects (
			id, name, description, goal, acceptance_criteria,
			risk_level, status, environment, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11
		)`,
		p.ID,
		p.Name,
		p.Description,
		p.Goal,
		jsonbBytes(p.AcceptanceCriteria),
		string(p.RiskLevel),
		string(p.Status),
		nullString(p.Environment),
		nullString(p.CreatedBy),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func queryGetProject(ctx context.Context, db executor, id string) (*model.Project, error) {
	row := db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

func queryListProjects(ctx context.Context, db executor, filter model.ProjectFilter) ([]*model.Project, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			placeholders[i] = nextArg()
			args = append(args, string(s))
		}
		whereClauses = append(whereClauses, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	if filter.Search != "" {
		p := nextArg()
		whereClauses = append(whereClauses,
			fmt.Sprintf("(name ILIKE '%%' || %s || '%%' OR description ILIKE '%%' || %s || '%%')", p, p))
		args = append(args, filter.Search)
	}

	query := `SELECT COUNT(*) OVER() AS total_count, ` + projectColumns + ` FROM projects`
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	if filter.Limit > 0 {
		query += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + nextArg()
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		projects []*model.Project
		total    int
	)
	for rows.Next() {
		p, n, err := scanProjectWithTotal(rows)
		if err != nil {
			return nil, 0, err
		}
		total = n
		projects = append(projects, p)
	}
	return projects, total, rows.Err()
}

func queryUpdateProject(ctx context.Context, db executor, p *model.Project) error {
	res, err := db.ExecContext(ctx, `
		UPDATE projects SET
			name = $2, description = $3, goal = $4, acceptance_criteria = $5,
			risk_level = $6, status = $7, environment = $8, updated_at = $9
		WHERE id = $1`,
		p.ID,
		p.Name,
		p.Description,
		p.Goal,
		jsonbBytes(p.AcceptanceCriteria),
		string(p.RiskLevel),
		string(p.Status),
		nullString(p.Environment),
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func queryDeleteProject(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// --- Tasks ---

func queryCreateTask(ctx context.Context, db executor, t *model.Task) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, project_id, name, description, inputs, outputs,
			tests, security_checks, estimate_hours, status, confidence_score,
			requires_approval, approved_by, approved_at, rejection_reason, task_order,
			spec, test_results, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16,
			$17, $18, $19, $20
		)`,
		t.ID,
		t.ProjectID,
		t.Name,
		t.Description,
		jsonbBytes(t.Inputs),
		jsonbBytes(t.Outputs),
		jsonbBytes(t.Tests),
		jsonbBytes(t.SecurityChecks),
		nullFloatPtr(t.EstimateHours),
		string(t.Status),
		nullFloatPtr(t.ConfidenceScore),
		t.RequiresApproval,
		nullString(t.ApprovedBy),
		nullTimePtr(t.ApprovedAt),
		nullString(t.RejectionReason),
		t.Order,
		jsonbBytes(t.Spec),
		jsonbBytes(t.TestResults),
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

func queryGetTask(ctx context.Context, db executor, id string, forUpdate bool) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	row := db.QueryRowContext(ctx, query, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, err
	}

	deps, err := queryGetTaskDependencies(ctx, db, id)
	if err != nil {
		return nil, err
	}
	t.Dependencies = deps

	return t, nil
}

func queryListTasks(ctx context.Context, db executor, filter model.TaskFilter) ([]*model.Task, error) {
	whereClauses := []string{"project_id = $1"}
	args := []any{filter.ProjectID}
	argIdx := 1

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			placeholders[i] = nextArg()
			args = append(args, string(s))
		}
		whereClauses = append(whereClauses, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` +
		strings.Join(whereClauses, " AND ") + ` ORDER BY task_order, id`

	if filter.Limit > 0 {
		query += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + nextArg()
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func queryUpdateTask(ctx context.Context, db executor, t *model.Task) error {
	res, err := db.ExecContext(ctx, `
		UPDATE tasks SET
			name = $2, description = $3, inputs = $4, outputs = $5,
			tests = $6, security_checks = $7, estimate_hours = $8,
			status = $9, confidence_score = $10, requires_approval = $11,
			approved_by = $12, approved_at = $13, rejection_reason = $14,
			task_order = $15, spec = $16, test_results = $17, updated_at = $18
		WHERE id = $1`,
		t.ID,
		t.Name,
		t.Description,
		jsonbBytes(t.Inputs),
		jsonbBytes(t.Outputs),
		jsonbBytes(t.Tests),
		jsonbBytes(t.SecurityChecks),
		nullFloatPtr(t.EstimateHours),
		string(t.Status),
		nullFloatPtr(t.ConfidenceScore),
		t.RequiresApproval,
		nullString(t.ApprovedBy),
		nullTimePtr(t.ApprovedAt),
		nullString(t.RejectionReason),
		t.Order,
		jsonbBytes(t.Spec),
		jsonbBytes(t.TestResults),
		t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func queryUpdateTaskOrders(ctx context.Context, db executor, projectID string, changes []*model.OrderChange) error {
	for _, c := range changes {
		res, err := db.ExecContext(ctx,
			`UPDATE tasks SET task_order = $1, updated_at = NOW() WHERE id = $2 AND project_id = $3`,
			c.NewOrder, c.TaskID, projectID,
		)
		if err != nil {
			return err
		}
		if err := requireRow(res); err != nil {
			return fmt.Errorf("task %s: %w", c.TaskID, err)
		}
	}
	return nil
}

func queryDeleteTask(ctx context.Context, db executor, id string) error {
	// Dependency edges go with the task via ON DELETE CASCADE.
	res, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// --- Dependencies ---

func queryAddDependency(ctx context.Context, db executor, dep *model.TaskDependency) error {
	if dep.TaskID == dep.DependsOnTaskID {
		return store.ErrSelfDependency
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO task_dependencies (task_id, depends_on_task_id, created_at, created_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (task_id, depends_on_task_id) DO NOTHING`,
		dep.TaskID,
		dep.DependsOnTaskID,
		dep.CreatedAt,
		nullString(dep.CreatedBy),
	)
	return err
}

func queryRemoveDependency(ctx context.Context, db executor, taskID, dependsOnTaskID string) error {
	res, err := db.ExecContext(ctx,
		`DELETE FROM task_dependencies WHERE task_id = $1 AND depends_on_task_id = $2`,
		taskID, dependsOnTaskID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func queryListDependencies(ctx context.Context, db executor, projectID string) ([]*model.TaskDependency, error) {
	// Edges are project-scoped by the project of the dependent task.
	rows, err := db.QueryContext(ctx, `
		SELECT d.task_id, d.depends_on_task_id, d.created_at, d.created_by
		FROM task_dependencies d
		JOIN tasks t ON t.id = d.task_id
		WHERE t.project_id = $1
		ORDER BY d.task_id, d.depends_on_task_id`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDependencies(rows)
}

func queryGetTaskDependencies(ctx context.Context, db executor, taskID string) ([]*model.TaskDependency, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT task_id, depends_on_task_id, created_at, created_by
		FROM task_dependencies
		WHERE task_id = $1
		ORDER BY depends_on_task_id`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDependencies(rows)
}

// --- Audit log ---

func queryRecordAudit(ctx context.Context, db executor, entry *model.AuditEntry) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO audit_log (project_id, task_id, action, actor, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		entry.ProjectID,
		nullString(entry.TaskID),
		entry.Action,
		nullString(entry.Actor),
		jsonbBytes(entry.Details),
		entry.CreatedAt,
	).Scan(&entry.ID)
}

func queryListAudit(ctx context.Context, db executor, projectID string) ([]*model.AuditEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, project_id, task_id, action, actor, details, created_at
		FROM audit_log
		WHERE project_id = $1
		ORDER BY id DESC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.AuditEntry
	for rows.Next() {
		e, err := scanAuditEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// requireRow converts a zero-rows-affected result into sql.ErrNoRows.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
