package sql

import (
	"context"
	"database/sql/driver"
)

// Compile-time interface check.
var _ driver.Tx = (*tracedTx)(nil)

// tracedTx wraps a driver.Tx with the interception layer.
type tracedTx struct {
	tx  driver.Tx
	cfg *config
}

// newTracedTx creates a new instrumented transaction.
func newTracedTx(tx driver.Tx, cfg *config) *tracedTx {
	return &tracedTx{
		tx:  tx,
		cfg: cfg,
	}
}

// Commit implements driver.Tx. driver.Tx carries no context, so the commit
// span is a root of its own trace.
func (t *tracedTx) Commit() error {
	return t.cfg.ic.Intercept(context.Background(), t.cfg.descriptor("COMMIT"),
		func(context.Context) error {
			return t.tx.Commit()
		},
	)
}

// Rollback implements driver.Tx.
func (t *tracedTx) Rollback() error {
	return t.cfg.ic.Intercept(context.Background(), t.cfg.descriptor("ROLLBACK"),
		func(context.Context) error {
			return t.tx.Rollback()
		},
	)
}
