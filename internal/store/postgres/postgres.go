// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/HANSKMIEL/Optura/internal/model"
	"github.com/HANSKMIEL/Optura/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateProject(ctx context.Context, p *model.Project) error {
	return queryCreateProject(ctx, s.db, p)
}

func (s *PostgresStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	return queryGetProject(ctx, s.db, id)
}

func (s *PostgresStore) ListProjects(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, int, error) {
	return queryListProjects(ctx, s.db, filter)
}

func (s *PostgresStore) UpdateProject(ctx context.Context, p *model.Project) error {
	return queryUpdateProject(ctx, s.db, p)
}

func (s *PostgresStore) DeleteProject(ctx context.Context, id string) error {
	return queryDeleteProject(ctx, s.db, id)
}

func (s *PostgresStore) CreateTask(ctx context.Context, t *model.Task) error {
	return queryCreateTask(ctx, s.db, t)
}

func (s *PostgresStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return queryGetTask(ctx, s.db, id, false)
}

func (s *PostgresStore) GetTaskForUpdate(ctx context.Context, id string) (*model.Task, error) {
	// In autocommit mode a FOR UPDATE lock is released at statement end,
	// so the lock the caller is asking for would never be held.
	return nil, store.ErrNoTransaction
}

func (s *PostgresStore) ListTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error) {
	return queryListTasks(ctx, s.db, filter)
}

func (s *PostgresStore) UpdateTask(ctx context.Context, t *model.Task) error {
	return queryUpdateTask(ctx, s.db, t)
}

func (s *PostgresStore) UpdateTaskOrders(ctx context.Context, projectID string, changes []*model.OrderChange) error {
	return s.RunInTransaction(ctx, func(tx store.Store) error {
		return tx.UpdateTaskOrders(ctx, projectID, changes)
	})
}

func (s *PostgresStore) DeleteTask(ctx context.Context, id string) error {
	return queryDeleteTask(ctx, s.db, id)
}

func (s *PostgresStore) AddDependency(ctx context.Context, dep *model.TaskDependency) error {
	return queryAddDependency(ctx, s.db, dep)
}

func (s *PostgresStore) RemoveDependency(ctx context.Context, taskID, dependsOnTaskID string) error {
	return queryRemoveDependency(ctx, s.db, taskID, dependsOnTaskID)
}

func (s *PostgresStore) ListDependencies(ctx context.Context, projectID string) ([]*model.TaskDependency, error) {
	return queryListDependencies(ctx, s.db, projectID)
}

func (s *PostgresStore) GetTaskDependencies(ctx context.Context, taskID string) ([]*model.TaskDependency, error) {
	return queryGetTaskDependencies(ctx, s.db, taskID)
}

func (s *PostgresStore) RecordAudit(ctx context.Context, entry *model.AuditEntry) error {
	return queryRecordAudit(ctx, s.db, entry)
}

func (s *PostgresStore) ListAudit(ctx context.Context, projectID string) ([]*model.AuditEntry, error) {
	return queryListAudit(ctx, s.db, projectID)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) CreateProject(ctx context.Context, p *model.Project) error {
	return queryCreateProject(ctx, s.tx, p)
}

func (s *txStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	return queryGetProject(ctx, s.tx, id)
}

func (s *txStore) ListProjects(ctx context.Context, filter model.ProjectFilter) ([]*model.Project, int, error) {
	return queryListProjects(ctx, s.tx, filter)
}

func (s *txStore) UpdateProject(ctx context.Context, p *model.Project) error {
	return queryUpdateProject(ctx, s.tx, p)
}

func (s *txStore) DeleteProject(ctx context.Context, id string) error {
	return queryDeleteProject(ctx, s.tx, id)
}

func (s *txStore) CreateTask(ctx context.Context, t *model.Task) error {
	return queryCreateTask(ctx, s.tx, t)
}

func (s *txStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return queryGetTask(ctx, s.tx, id, false)
}

func (s *txStore) GetTaskForUpdate(ctx context.Context, id string) (*model.Task, error) {
	return queryGetTask(ctx, s.tx, id, true)
}

func (s *txStore) ListTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error) {
	return queryListTasks(ctx, s.tx, filter)
}

func (s *txStore) UpdateTask(ctx context.Context, t *model.Task) error {
	return queryUpdateTask(ctx, s.tx, t)
}

func (s *txStore) UpdateTaskOrders(ctx context.Context, projectID string, changes []*model.OrderChange) error {
	return queryUpdateTaskOrders(ctx, s.tx, projectID, changes)
}

func (s *txStore) DeleteTask(ctx context.Context, id string) error {
	return queryDeleteTask(ctx, s.tx, id)
}

func (s *txStore) AddDependency(ctx context.Context, dep *model.TaskDependency) error {
	return queryAddDependency(ctx, s.tx, dep)
}

func (s *txStore) RemoveDependency(ctx context.Context, taskID, dependsOnTaskID string) error {
	return queryRemoveDependency(ctx, s.tx, taskID, dependsOnTaskID)
}

func (s *txStore) ListDependencies(ctx context.Context, projectID string) ([]*model.TaskDependency, error) {
	return queryListDependencies(ctx, s.tx, projectID)
}

func (s *txStore) GetTaskDependencies(ctx context.Context, taskID string) ([]*model.TaskDependency, error) {
	return queryGetTaskDependencies(ctx, s.tx, taskID)
}

func (s *txStore) RecordAudit(ctx context.Context, entry *model.AuditEntry) error {
	return queryRecordAudit(ctx, s.tx, entry)
}

func (s *txStore) ListAudit(ctx context.Context, projectID string) ([]*model.AuditEntry, error) {
	return queryListAudit(ctx, s.tx, projectID)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
