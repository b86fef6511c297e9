// Package sqlx provides an instrumented sqlx wrapper with automatic
// OpenTelemetry tracing and metrics.
//
// This package wraps github.com/jmoiron/sqlx so that sqlx-specific methods
// like Get, Select, NamedExec, and NamedQuery are traced the same way the
// low-level driver operations are, in addition to the standard
// database/sql operations.
//
// Usage:
//
//	import dbsqlx "github.com/arcline-labs/dbtrace-go/sqlx"
//
//	db, err := dbsqlx.Open("pgx", dsn,
//	    dbsqlx.WithDBSystem("postgresql"),
//	    dbsqlx.WithDBName("myapp"),
//	)
//	// db is *dbsqlx.DB - wraps *sqlx.DB with instrumentation
//
//	var user User
//	err = db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", 1)
//
//	var users []User
//	err = db.SelectContext(ctx, &users, "SELECT * FROM users")
//
// Spans started here carry the caller's context, so a query issued inside
// an existing trace becomes a child span; a query issued with a fresh
// context starts its own trace. Policy hooks (WithFilter, WithEnrich,
// WithStatementText) behave exactly as in the driver-level layer.
package sqlx
