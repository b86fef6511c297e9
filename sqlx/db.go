package sqlx

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// DB wraps *sqlx.DB with OpenTelemetry instrumentation.
// It provides instrumented versions of all sqlx-specific methods
// like Get, Select, NamedExec, and NamedQuery.
type DB struct {
	*sqlx.DB
	cfg *config
}

// Open opens a database connection with OpenTelemetry instrumentation.
// It returns a *DB that wraps *sqlx.DB with automatic tracing and metrics.
//
// Example:
//
//	db, err := dbsqlx.Open("pgx", dsn,
//	    dbsqlx.WithDBSystem("postgresql"),
//	    dbsqlx.WithDBName("mydb"),
//	)
func Open(driverName, dsn string, opts ...Option) (*DB, error) {
	cfg := newConfig(opts...)
	cfg.Provider = driverName

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	return &DB{DB: db, cfg: cfg}, nil
}

// Connect opens and verifies a database connection.
// It is equivalent to Open followed by Ping.
func Connect(ctx context.Context, driverName, dsn string, opts ...Option) (*DB, error) {
	cfg := newConfig(opts...)
	cfg.Provider = driverName

	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, err
	}

	return &DB{DB: db, cfg: cfg}, nil
}

// NewDB wraps an existing *sql.DB with sqlx and instrumentation.
//
// Example:
//
//	sqlDB, _ := sql.Open("pgx", dsn)
//	db := dbsqlx.NewDB(sqlDB, "pgx",
//	    dbsqlx.WithDBSystem("postgresql"),
//	)
func NewDB(db *sql.DB, driverName string, opts ...Option) *DB {
	cfg := newConfig(opts...)
	cfg.Provider = driverName
	return &DB{
		DB:  sqlx.NewDb(db, driverName),
		cfg: cfg,
	}
}

// MustConnect is like Connect but panics on error.
func MustConnect(ctx context.Context, driverName, dsn string, opts ...Option) *DB {
	db, err := Connect(ctx, driverName, dsn, opts...)
	if err != nil {
		panic(err)
	}
	return db
}

// MustOpen is like Open but panics on error.
func MustOpen(driverName, dsn string, opts ...Option) *DB {
	db, err := Open(driverName, dsn, opts...)
	if err != nil {
		panic(err)
	}
	return db
}

// GetContext executes a query that is expected to return at most one row
// and scans the result into dest.
func (db *DB) GetContext(
	ctx context.Context,
	dest interface{},
	query string,
	args ...interface{},
) error {
	return db.cfg.ic.Intercept(ctx, db.cfg.descriptor(query), func(ctx context.Context) error {
		return db.DB.GetContext(ctx, dest, query, args...)
	})
}

// SelectContext executes a query and scans all results into dest.
func (db *DB) SelectContext(
	ctx context.Context,
	dest interface{},
	query string,
	args ...interface{},
) error {
	return db.cfg.ic.Intercept(ctx, db.cfg.descriptor(query), func(ctx context.Context) error {
		return db.DB.SelectContext(ctx, dest, query, args...)
	})
}

// NamedExecContext executes a named query.
func (db *DB) NamedExecContext(
	ctx context.Context,
	query string,
	arg interface{},
) (sql.Result, error) {
	var result sql.Result
	err := db.cfg.ic.Intercept(ctx, db.cfg.descriptor(query), func(ctx context.Context) error {
		var err error
		result, err = db.DB.NamedExecContext(ctx, query, arg)
		return err
	})
	return result, err
}

// NamedQueryContext executes a named query and returns rows.
func (db *DB) NamedQueryContext(
	ctx context.Context,
	query string,
	arg interface{},
) (*sqlx.Rows, error) {
	var rows *sqlx.Rows
	err := db.cfg.ic.Intercept(ctx, db.cfg.descriptor(query), func(ctx context.Context) error {
		var err error
		rows, err = db.DB.NamedQueryContext(ctx, query, arg)
		return err
	})
	return rows, err
}

// QueryxContext executes a query and returns sqlx.Rows.
func (db *DB) QueryxContext(
	ctx context.Context,
	query string,
	args ...interface{},
) (*sqlx.Rows, error) {
	var rows *sqlx.Rows
	err := db.cfg.ic.Intercept(ctx, db.cfg.descriptor(query), func(ctx context.Context) error {
		var err error
		rows, err = db.DB.QueryxContext(ctx, query, args...)
		return err
	})
	return rows, err
}

// QueryRowxContext executes a query and returns a single sqlx.Row.
// The span ends when the query is issued; row errors surface at Scan time.
func (db *DB) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	ctx, end := db.cfg.ic.Start(ctx, db.cfg.descriptor(query))
	row := db.DB.QueryRowxContext(ctx, query, args...)
	end(nil)
	return row
}

// BeginTxx starts an instrumented transaction.
func (db *DB) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	var tx *sqlx.Tx
	err := db.cfg.ic.Intercept(ctx, db.cfg.descriptor("BEGIN"), func(ctx context.Context) error {
		var err error
		tx, err = db.DB.BeginTxx(ctx, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Tx{Tx: tx, cfg: db.cfg}, nil
}

// Beginx starts an instrumented transaction with default options.
func (db *DB) Beginx() (*Tx, error) {
	return db.BeginTxx(context.Background(), nil)
}

// MustBeginTx starts a transaction and panics on error.
func (db *DB) MustBeginTx(ctx context.Context, opts *sql.TxOptions) *Tx {
	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		panic(err)
	}
	return tx
}

// MustBegin starts a transaction and panics on error.
func (db *DB) MustBegin() *Tx {
	return db.MustBeginTx(context.Background(), nil)
}

// PrepareNamedContext prepares an instrumented named statement.
func (db *DB) PrepareNamedContext(ctx context.Context, query string) (*NamedStmt, error) {
	var stmt *sqlx.NamedStmt
	err := db.cfg.ic.Intercept(ctx, db.cfg.descriptor(query), func(ctx context.Context) error {
		var err error
		stmt, err = db.DB.PrepareNamedContext(ctx, query)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &NamedStmt{NamedStmt: stmt, cfg: db.cfg, query: query}, nil
}

// PrepareNamed prepares a named statement without context.
func (db *DB) PrepareNamed(query string) (*NamedStmt, error) {
	return db.PrepareNamedContext(context.Background(), query)
}

// PreparexContext prepares an instrumented statement.
func (db *DB) PreparexContext(ctx context.Context, query string) (*Stmt, error) {
	var stmt *sqlx.Stmt
	err := db.cfg.ic.Intercept(ctx, db.cfg.descriptor(query), func(ctx context.Context) error {
		var err error
		stmt, err = db.DB.PreparexContext(ctx, query)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Stmt{Stmt: stmt, cfg: db.cfg, query: query}, nil
}

// Preparex prepares a statement without context.
func (db *DB) Preparex(query string) (*Stmt, error) {
	return db.PreparexContext(context.Background(), query)
}

// Rebind transforms a query from QUESTION to the DB driver's bindvar type.
func (db *DB) Rebind(query string) string {
	return db.DB.Rebind(query)
}

// BindNamed binds a named query to a map or struct.
func (db *DB) BindNamed(query string, arg interface{}) (string, []interface{}, error) {
	return db.DB.BindNamed(query, arg)
}

// DriverName returns the driver name.
func (db *DB) DriverName() string {
	return db.DB.DriverName()
}

// MapperFunc sets a custom field name mapper.
func (db *DB) MapperFunc(mf func(string) string) {
	db.DB.MapperFunc(mf)
}

// Unsafe returns a version of DB that silently ignores missing destination fields.
func (db *DB) Unsafe() *DB {
	return &DB{
		DB:  db.DB.Unsafe(),
		cfg: db.cfg,
	}
}

// PingContext verifies the database connection.
func (db *DB) PingContext(ctx context.Context) error {
	return db.cfg.ic.Intercept(ctx, db.cfg.descriptor("PING"), func(ctx context.Context) error {
		return db.DB.PingContext(ctx)
	})
}

// ExecContext executes a query without returning rows.
func (db *DB) ExecContext(
	ctx context.Context,
	query string,
	args ...interface{},
) (sql.Result, error) {
	var result sql.Result
	err := db.cfg.ic.Intercept(ctx, db.cfg.descriptor(query), func(ctx context.Context) error {
		var err error
		result, err = db.DB.ExecContext(ctx, query, args...)
		return err
	})
	return result, err
}

// QueryContext executes a query and returns rows.
func (db *DB) QueryContext(
	ctx context.Context,
	query string,
	args ...interface{},
) (*sql.Rows, error) {
	var rows *sql.Rows
	err := db.cfg.ic.Intercept(ctx, db.cfg.descriptor(query), func(ctx context.Context) error {
		var err error
		rows, err = db.DB.QueryContext(ctx, query, args...)
		return err
	})
	return rows, err
}

// QueryRowContext executes a query and returns a single row.
// The span ends when the query is issued; row errors surface at Scan time.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	ctx, end := db.cfg.ic.Start(ctx, db.cfg.descriptor(query))
	row := db.DB.QueryRowContext(ctx, query, args...)
	end(nil)
	return row
}
