package database

import (
	"context"
	"time"

	"github.com/arcline-labs/dbtrace-go/dbtrace"
	"github.com/arcline-labs/dbtrace-go/example/sqlx/internal/config"
	dbsqlx "github.com/arcline-labs/dbtrace-go/sqlx"
	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver
)

// DB wraps the instrumented sqlx connection
type DB struct {
	*dbsqlx.DB
}

// New creates a new instrumented sqlx connection. Statement text is
// captured in sanitized form so literal values never reach the trace
// backend.
func New(ctx context.Context) (*DB, error) {
	db, err := dbsqlx.Open("pgx", config.DefaultDSN,
		dbsqlx.WithDBSystem(config.DefaultDBSystem),
		dbsqlx.WithDBName(config.DefaultDBName),
		dbsqlx.WithInstanceName(config.DefaultInstance),
		dbsqlx.WithStatementText(),
		dbsqlx.WithSemConv(dbtrace.SemConvCurrent),
		dbsqlx.WithStatementSanitizer(dbtrace.DefaultStatementSanitizer),
	)
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(config.DefaultMaxOpen)
	db.SetMaxIdleConns(config.DefaultMaxIdle)
	db.SetConnMaxLifetime(time.Duration(config.DefaultMaxLifetime) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(config.DefaultMaxIdleTime) * time.Second)

	return &DB{DB: db}, nil
}
