package sqlx

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Tx wraps *sqlx.Tx with OpenTelemetry instrumentation.
type Tx struct {
	*sqlx.Tx
	cfg *config
}

// GetContext executes a query that returns at most one row and scans into dest.
func (tx *Tx) GetContext(
	ctx context.Context,
	dest interface{},
	query string,
	args ...interface{},
) error {
	return tx.cfg.ic.Intercept(ctx, tx.cfg.descriptor(query), func(ctx context.Context) error {
		return tx.Tx.GetContext(ctx, dest, query, args...)
	})
}

// SelectContext executes a query and scans all results into dest.
func (tx *Tx) SelectContext(
	ctx context.Context,
	dest interface{},
	query string,
	args ...interface{},
) error {
	return tx.cfg.ic.Intercept(ctx, tx.cfg.descriptor(query), func(ctx context.Context) error {
		return tx.Tx.SelectContext(ctx, dest, query, args...)
	})
}

// NamedExecContext executes a named query within the transaction.
func (tx *Tx) NamedExecContext(
	ctx context.Context,
	query string,
	arg interface{},
) (sql.Result, error) {
	var result sql.Result
	err := tx.cfg.ic.Intercept(ctx, tx.cfg.descriptor(query), func(ctx context.Context) error {
		var err error
		result, err = tx.Tx.NamedExecContext(ctx, query, arg)
		return err
	})
	return result, err
}

// ExecContext executes a query without returning rows.
func (tx *Tx) ExecContext(
	ctx context.Context,
	query string,
	args ...interface{},
) (sql.Result, error) {
	var result sql.Result
	err := tx.cfg.ic.Intercept(ctx, tx.cfg.descriptor(query), func(ctx context.Context) error {
		var err error
		result, err = tx.Tx.ExecContext(ctx, query, args...)
		return err
	})
	return result, err
}

// QueryContext executes a query and returns rows.
func (tx *Tx) QueryContext(
	ctx context.Context,
	query string,
	args ...interface{},
) (*sql.Rows, error) {
	var rows *sql.Rows
	err := tx.cfg.ic.Intercept(ctx, tx.cfg.descriptor(query), func(ctx context.Context) error {
		var err error
		rows, err = tx.Tx.QueryContext(ctx, query, args...)
		return err
	})
	return rows, err
}

// QueryxContext executes a query and returns sqlx.Rows.
func (tx *Tx) QueryxContext(
	ctx context.Context,
	query string,
	args ...interface{},
) (*sqlx.Rows, error) {
	var rows *sqlx.Rows
	err := tx.cfg.ic.Intercept(ctx, tx.cfg.descriptor(query), func(ctx context.Context) error {
		var err error
		rows, err = tx.Tx.QueryxContext(ctx, query, args...)
		return err
	})
	return rows, err
}

// QueryRowxContext executes a query and returns a single sqlx.Row.
// The span ends when the query is issued; row errors surface at Scan time.
func (tx *Tx) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	ctx, end := tx.cfg.ic.Start(ctx, tx.cfg.descriptor(query))
	row := tx.Tx.QueryRowxContext(ctx, query, args...)
	end(nil)
	return row
}

// PreparexContext prepares an instrumented statement within the transaction.
func (tx *Tx) PreparexContext(ctx context.Context, query string) (*Stmt, error) {
	var stmt *sqlx.Stmt
	err := tx.cfg.ic.Intercept(ctx, tx.cfg.descriptor(query), func(ctx context.Context) error {
		var err error
		stmt, err = tx.Tx.PreparexContext(ctx, query)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Stmt{Stmt: stmt, cfg: tx.cfg, query: query}, nil
}

// PrepareNamedContext prepares an instrumented named statement within the
// transaction.
func (tx *Tx) PrepareNamedContext(ctx context.Context, query string) (*NamedStmt, error) {
	var stmt *sqlx.NamedStmt
	err := tx.cfg.ic.Intercept(ctx, tx.cfg.descriptor(query), func(ctx context.Context) error {
		var err error
		stmt, err = tx.Tx.PrepareNamedContext(ctx, query)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &NamedStmt{NamedStmt: stmt, cfg: tx.cfg, query: query}, nil
}

// StmtxContext returns a transaction-specific version of an instrumented
// prepared statement.
func (tx *Tx) StmtxContext(ctx context.Context, stmt *Stmt) *Stmt {
	return &Stmt{
		Stmt:  tx.Tx.StmtxContext(ctx, stmt.Stmt),
		cfg:   tx.cfg,
		query: stmt.query,
	}
}

// Rebind transforms a query from QUESTION to the driver's bindvar type.
func (tx *Tx) Rebind(query string) string {
	return tx.Tx.Rebind(query)
}

// Commit commits the transaction.
// Commit and Rollback happen after the statement contexts are done, so
// their spans start fresh traces rather than inheriting a stale context.
func (tx *Tx) Commit() error {
	return tx.cfg.ic.Intercept(context.Background(), tx.cfg.descriptor("COMMIT"),
		func(context.Context) error {
			return tx.Tx.Commit()
		})
}

// Rollback aborts the transaction.
func (tx *Tx) Rollback() error {
	return tx.cfg.ic.Intercept(context.Background(), tx.cfg.descriptor("ROLLBACK"),
		func(context.Context) error {
			return tx.Tx.Rollback()
		})
}
