package sqlx

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Stmt wraps *sqlx.Stmt with OpenTelemetry instrumentation. The query text
// is kept so spans for later executions carry the statement descriptor.
type Stmt struct {
	*sqlx.Stmt
	cfg   *config
	query string
}

// GetContext executes the prepared statement for a single row.
func (s *Stmt) GetContext(ctx context.Context, dest interface{}, args ...interface{}) error {
	return s.cfg.ic.Intercept(ctx, s.cfg.descriptor(s.query), func(ctx context.Context) error {
		return s.Stmt.GetContext(ctx, dest, args...)
	})
}

// SelectContext executes the prepared statement and scans results into dest.
func (s *Stmt) SelectContext(ctx context.Context, dest interface{}, args ...interface{}) error {
	return s.cfg.ic.Intercept(ctx, s.cfg.descriptor(s.query), func(ctx context.Context) error {
		return s.Stmt.SelectContext(ctx, dest, args...)
	})
}

// ExecContext executes the prepared statement.
func (s *Stmt) ExecContext(ctx context.Context, args ...interface{}) (sql.Result, error) {
	var result sql.Result
	err := s.cfg.ic.Intercept(ctx, s.cfg.descriptor(s.query), func(ctx context.Context) error {
		var err error
		result, err = s.Stmt.ExecContext(ctx, args...)
		return err
	})
	return result, err
}

// QueryContext executes the prepared statement and returns rows.
func (s *Stmt) QueryContext(ctx context.Context, args ...interface{}) (*sql.Rows, error) {
	var rows *sql.Rows
	err := s.cfg.ic.Intercept(ctx, s.cfg.descriptor(s.query), func(ctx context.Context) error {
		var err error
		rows, err = s.Stmt.QueryContext(ctx, args...)
		return err
	})
	return rows, err
}

// QueryxContext executes the prepared statement and returns sqlx.Rows.
func (s *Stmt) QueryxContext(ctx context.Context, args ...interface{}) (*sqlx.Rows, error) {
	var rows *sqlx.Rows
	err := s.cfg.ic.Intercept(ctx, s.cfg.descriptor(s.query), func(ctx context.Context) error {
		var err error
		rows, err = s.Stmt.QueryxContext(ctx, args...)
		return err
	})
	return rows, err
}

// QueryRowxContext executes the prepared statement for a single sqlx.Row.
// The span ends when the query is issued; row errors surface at Scan time.
func (s *Stmt) QueryRowxContext(ctx context.Context, args ...interface{}) *sqlx.Row {
	ctx, end := s.cfg.ic.Start(ctx, s.cfg.descriptor(s.query))
	row := s.Stmt.QueryRowxContext(ctx, args...)
	end(nil)
	return row
}

// Close closes the prepared statement.
func (s *Stmt) Close() error {
	return s.Stmt.Close()
}

// NamedStmt wraps *sqlx.NamedStmt with OpenTelemetry instrumentation.
type NamedStmt struct {
	*sqlx.NamedStmt
	cfg   *config
	query string
}

// GetContext executes the named statement for a single row.
func (s *NamedStmt) GetContext(ctx context.Context, dest interface{}, arg interface{}) error {
	return s.cfg.ic.Intercept(ctx, s.cfg.descriptor(s.query), func(ctx context.Context) error {
		return s.NamedStmt.GetContext(ctx, dest, arg)
	})
}

// SelectContext executes the named statement and scans results into dest.
func (s *NamedStmt) SelectContext(ctx context.Context, dest interface{}, arg interface{}) error {
	return s.cfg.ic.Intercept(ctx, s.cfg.descriptor(s.query), func(ctx context.Context) error {
		return s.NamedStmt.SelectContext(ctx, dest, arg)
	})
}

// ExecContext executes the named statement.
func (s *NamedStmt) ExecContext(ctx context.Context, arg interface{}) (sql.Result, error) {
	var result sql.Result
	err := s.cfg.ic.Intercept(ctx, s.cfg.descriptor(s.query), func(ctx context.Context) error {
		var err error
		result, err = s.NamedStmt.ExecContext(ctx, arg)
		return err
	})
	return result, err
}

// QueryContext executes the named statement and returns rows.
func (s *NamedStmt) QueryContext(ctx context.Context, arg interface{}) (*sql.Rows, error) {
	var rows *sql.Rows
	err := s.cfg.ic.Intercept(ctx, s.cfg.descriptor(s.query), func(ctx context.Context) error {
		var err error
		rows, err = s.NamedStmt.QueryContext(ctx, arg)
		return err
	})
	return rows, err
}

// QueryxContext executes the named statement and returns sqlx.Rows.
func (s *NamedStmt) QueryxContext(ctx context.Context, arg interface{}) (*sqlx.Rows, error) {
	var rows *sqlx.Rows
	err := s.cfg.ic.Intercept(ctx, s.cfg.descriptor(s.query), func(ctx context.Context) error {
		var err error
		rows, err = s.NamedStmt.QueryxContext(ctx, arg)
		return err
	})
	return rows, err
}

// QueryRowxContext executes the named statement for a single sqlx.Row.
// The span ends when the query is issued; row errors surface at Scan time.
func (s *NamedStmt) QueryRowxContext(ctx context.Context, arg interface{}) *sqlx.Row {
	ctx, end := s.cfg.ic.Start(ctx, s.cfg.descriptor(s.query))
	row := s.NamedStmt.QueryRowxContext(ctx, arg)
	end(nil)
	return row
}

// Close closes the named statement.
func (s *NamedStmt) Close() error {
	return s.NamedStmt.Close()
}
