package dbtest

import (
	"context"
	"fmt"
)

// Kind selects a backend implementation.
type Kind string

const (
	// SQLite is an in-process database with permissive integer arithmetic:
	// division by zero yields NULL, not an error.
	SQLite Kind = "sqlite"

	// Postgres is a containerized server with strict arithmetic:
	// division by zero fails the statement.
	Postgres Kind = "postgres"

	// Mock is a scriptable sqlmock backend used to reproduce strict
	// server-side errors without a server.
	Mock Kind = "mock"
)

// Backend is a running database fixture. The backend kind determines
// connection parameters but is otherwise opaque to the interception layer.
type Backend interface {
	// DriverName is the database/sql driver to open connections with.
	DriverName() string

	// ConnectionString returns the DSN for this backend.
	ConnectionString() string

	// System is the backend's db.system identifier.
	System() string

	// DatabaseName is the target database provisioned for the fixture.
	DatabaseName() string

	// Close releases the fixture. Safe to call once per backend.
	Close() error
}

// Start provisions a backend of the given kind. Unsupported kinds fail here,
// at setup time; nothing is retried.
func Start(ctx context.Context, kind Kind) (Backend, error) {
	switch kind {
	case SQLite:
		return StartSQLite(), nil
	case Postgres:
		return StartPostgres(ctx)
	case Mock:
		return StartMock()
	default:
		return nil, fmt.Errorf("unsupported backend kind %q", kind)
	}
}
