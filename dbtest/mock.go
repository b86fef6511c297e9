package dbtest

import (
	"database/sql"
	"fmt"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

// DivideByZeroMessage is the statement error raised by strict SQL servers
// on integer division by zero.
const DivideByZeroMessage = "Divide by zero error encountered."

// MockBackend is a scriptable fixture backed by go-sqlmock. It stands in
// for a strict-arithmetic server: tests program the exact errors the real
// server would raise.
type MockBackend struct {
	dsn  string
	mock sqlmock.Sqlmock

	// anchor keeps the sqlmock connection registered under dsn so further
	// sql.Open calls against the same DSN reach the same mock.
	anchor *sql.DB
}

// StartMock provisions a mock backend under a unique DSN.
func StartMock() (*MockBackend, error) {
	dsn := "dbtest_mock_" + uuid.NewString()

	db, mock, err := sqlmock.NewWithDSN(dsn, sqlmock.MonitorPingsOption(true))
	if err != nil {
		return nil, fmt.Errorf("failed to start mock backend: %w", err)
	}

	return &MockBackend{
		dsn:    dsn,
		mock:   mock,
		anchor: db,
	}, nil
}

// Mock exposes the expectation API for scripting server behavior.
func (b *MockBackend) Mock() sqlmock.Sqlmock { return b.mock }

// ExpectDivideByZero scripts the strict-server response for the given query:
// the statement fails with DivideByZeroMessage.
func (b *MockBackend) ExpectDivideByZero(query string) {
	b.mock.ExpectQuery(query).WillReturnError(fmt.Errorf("%s", DivideByZeroMessage))
}

// DriverName implements Backend.
func (b *MockBackend) DriverName() string { return "sqlmock" }

// ConnectionString implements Backend.
func (b *MockBackend) ConnectionString() string { return b.dsn }

// System implements Backend. The mock scripts Microsoft SQL Server
// semantics for arithmetic errors.
func (b *MockBackend) System() string { return "mssql" }

// DatabaseName implements Backend.
func (b *MockBackend) DatabaseName() string { return "master" }

// Close implements Backend.
func (b *MockBackend) Close() error { return b.anchor.Close() }
