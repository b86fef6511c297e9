package sql

import (
	"context"
	"database/sql/driver"
)

// Compile-time interface checks.
var (
	_ driver.Stmt             = (*tracedStmt)(nil)
	_ driver.StmtExecContext  = (*tracedStmt)(nil)
	_ driver.StmtQueryContext = (*tracedStmt)(nil)
)

// tracedStmt wraps a driver.Stmt with the interception layer.
type tracedStmt struct {
	stmt  driver.Stmt
	cfg   *config
	query string
}

// newTracedStmt creates a new instrumented statement.
func newTracedStmt(stmt driver.Stmt, cfg *config, query string) *tracedStmt {
	return &tracedStmt{
		stmt:  stmt,
		cfg:   cfg,
		query: query,
	}
}

// Close implements driver.Stmt.
func (s *tracedStmt) Close() error {
	return s.stmt.Close()
}

// NumInput implements driver.Stmt.
func (s *tracedStmt) NumInput() int {
	return s.stmt.NumInput()
}

// Exec implements driver.Stmt.
// Deprecated: Use ExecContext instead. This exists for driver.Stmt interface compatibility.
func (s *tracedStmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.stmt.Exec(args) //nolint:staticcheck // Required for driver.Stmt interface
}

// Query implements driver.Stmt.
// Deprecated: Use QueryContext instead. This exists for driver.Stmt interface compatibility.
func (s *tracedStmt) Query(args []driver.Value) (driver.Rows, error) {
	return s.stmt.Query(args) //nolint:staticcheck // Required for driver.Stmt interface
}

// ExecContext implements driver.StmtExecContext.
func (s *tracedStmt) ExecContext(
	ctx context.Context,
	args []driver.NamedValue,
) (driver.Result, error) {
	var result driver.Result

	err := s.cfg.ic.Intercept(ctx, s.cfg.descriptor(s.query),
		func(ctx context.Context) error {
			var err error
			if execer, ok := s.stmt.(driver.StmtExecContext); ok {
				result, err = execer.ExecContext(ctx, args)
				return err
			}
			// Fallback to non-context version
			result, err = s.stmt.Exec(namedValueToValue(args)) //nolint:staticcheck // Fallback for older drivers
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// QueryContext implements driver.StmtQueryContext.
func (s *tracedStmt) QueryContext(
	ctx context.Context,
	args []driver.NamedValue,
) (driver.Rows, error) {
	var rows driver.Rows

	err := s.cfg.ic.Intercept(ctx, s.cfg.descriptor(s.query),
		func(ctx context.Context) error {
			var err error
			if queryer, ok := s.stmt.(driver.StmtQueryContext); ok {
				rows, err = queryer.QueryContext(ctx, args)
				return err
			}
			// Fallback to non-context version
			rows, err = s.stmt.Query(namedValueToValue(args)) //nolint:staticcheck // Fallback for older drivers
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// namedValueToValue converts NamedValue slice to Value slice.
func namedValueToValue(named []driver.NamedValue) []driver.Value {
	values := make([]driver.Value, len(named))
	for i, nv := range named {
		values[i] = nv.Value
	}
	return values
}
