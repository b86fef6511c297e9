package dbtest

import (
	"fmt"

	"github.com/google/uuid"

	// Registers the pure-Go "sqlite" driver.
	_ "modernc.org/sqlite"
)

// SQLiteBackend is an in-process, in-memory SQLite database.
//
// SQLite is the permissive-arithmetic fixture: SELECT 1/0 yields a NULL
// value and a successful statement.
type SQLiteBackend struct {
	dsn string
}

// StartSQLite provisions a private in-memory database. The shared-cache DSN
// keeps the database alive across the connections of one *sql.DB pool.
func StartSQLite() *SQLiteBackend {
	return &SQLiteBackend{
		dsn: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}
}

// DriverName implements Backend.
func (b *SQLiteBackend) DriverName() string { return "sqlite" }

// ConnectionString implements Backend.
func (b *SQLiteBackend) ConnectionString() string { return b.dsn }

// System implements Backend.
func (b *SQLiteBackend) System() string { return "sqlite" }

// DatabaseName implements Backend. SQLite names its primary database "main".
func (b *SQLiteBackend) DatabaseName() string { return "main" }

// Close implements Backend. The database disappears with its connections.
func (b *SQLiteBackend) Close() error { return nil }
