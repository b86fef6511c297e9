package sql

import (
	"context"
	"database/sql/driver"
)

// Compile-time interface checks.
var (
	_ driver.Conn               = (*tracedConn)(nil)
	_ driver.ConnPrepareContext = (*tracedConn)(nil)
	_ driver.ConnBeginTx        = (*tracedConn)(nil)
	_ driver.ExecerContext      = (*tracedConn)(nil)
	_ driver.QueryerContext     = (*tracedConn)(nil)
	_ driver.Pinger             = (*tracedConn)(nil)
	_ driver.SessionResetter    = (*tracedConn)(nil)
	_ driver.Validator          = (*tracedConn)(nil)
)

// tracedConn wraps a driver.Conn with the interception layer.
type tracedConn struct {
	conn driver.Conn
	cfg  *config
}

// newTracedConn creates a new instrumented connection.
func newTracedConn(conn driver.Conn, cfg *config) *tracedConn {
	return &tracedConn{
		conn: conn,
		cfg:  cfg,
	}
}

// Prepare implements driver.Conn. Preparation itself is not traced; the
// statement's executions are.
func (c *tracedConn) Prepare(query string) (driver.Stmt, error) {
	stmt, err := c.conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	return newTracedStmt(stmt, c.cfg, query), nil
}

// Close implements driver.Conn.
func (c *tracedConn) Close() error {
	return c.conn.Close()
}

// Begin implements driver.Conn.
// Deprecated: Use BeginTx instead. This exists for driver.Conn interface compatibility.
func (c *tracedConn) Begin() (driver.Tx, error) {
	tx, err := c.conn.Begin() //nolint:staticcheck // Required for driver.Conn interface
	if err != nil {
		return nil, err
	}
	return newTracedTx(tx, c.cfg), nil
}

// PrepareContext implements driver.ConnPrepareContext.
func (c *tracedConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	var stmt driver.Stmt
	var err error

	if preparer, ok := c.conn.(driver.ConnPrepareContext); ok {
		stmt, err = preparer.PrepareContext(ctx, query)
	} else {
		stmt, err = c.conn.Prepare(query)
	}

	if err != nil {
		return nil, err
	}
	return newTracedStmt(stmt, c.cfg, query), nil
}

// BeginTx implements driver.ConnBeginTx.
func (c *tracedConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	var tx driver.Tx

	err := c.cfg.ic.Intercept(ctx, c.cfg.descriptor("BEGIN"),
		func(ctx context.Context) error {
			var err error
			if beginner, ok := c.conn.(driver.ConnBeginTx); ok {
				tx, err = beginner.BeginTx(ctx, opts)
			} else {
				tx, err = c.conn.Begin() //nolint:staticcheck // Fallback for older drivers
			}
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	return newTracedTx(tx, c.cfg), nil
}

// ExecContext implements driver.ExecerContext.
func (c *tracedConn) ExecContext(
	ctx context.Context,
	query string,
	args []driver.NamedValue,
) (driver.Result, error) {
	execer, ok := c.conn.(driver.ExecerContext)
	if !ok {
		// Let database/sql fall back to prepare-and-execute.
		return nil, driver.ErrSkip
	}

	var result driver.Result
	err := c.cfg.ic.Intercept(ctx, c.cfg.descriptor(query),
		func(ctx context.Context) error {
			var err error
			result, err = execer.ExecContext(ctx, query, args)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// QueryContext implements driver.QueryerContext.
func (c *tracedConn) QueryContext(
	ctx context.Context,
	query string,
	args []driver.NamedValue,
) (driver.Rows, error) {
	queryer, ok := c.conn.(driver.QueryerContext)
	if !ok {
		// Let database/sql fall back to prepare-and-query.
		return nil, driver.ErrSkip
	}

	var rows driver.Rows
	err := c.cfg.ic.Intercept(ctx, c.cfg.descriptor(query),
		func(ctx context.Context) error {
			var err error
			rows, err = queryer.QueryContext(ctx, query, args)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Ping implements driver.Pinger.
func (c *tracedConn) Ping(ctx context.Context) error {
	return c.cfg.ic.Intercept(ctx, c.cfg.descriptor("PING"),
		func(ctx context.Context) error {
			if pinger, ok := c.conn.(driver.Pinger); ok {
				return pinger.Ping(ctx)
			}
			return nil
		},
	)
}

// ResetSession implements driver.SessionResetter.
func (c *tracedConn) ResetSession(ctx context.Context) error {
	if resetter, ok := c.conn.(driver.SessionResetter); ok {
		return resetter.ResetSession(ctx)
	}
	return nil
}

// IsValid implements driver.Validator.
func (c *tracedConn) IsValid() bool {
	if validator, ok := c.conn.(driver.Validator); ok {
		return validator.IsValid()
	}
	return true
}
