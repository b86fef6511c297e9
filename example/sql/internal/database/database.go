package database

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/arcline-labs/dbtrace-go/dbtrace"
	"github.com/arcline-labs/dbtrace-go/example/sql/internal/config"
	dbsql "github.com/arcline-labs/dbtrace-go/sql"
	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// New creates a new instrumented database connection. The demo wires all
// three policy hooks: PING spans are filtered out, successful spans are
// tagged with the deployment region, and sanitized statement text is
// captured under current conventions.
func New(ctx context.Context) (*DB, error) {
	db, err := dbsql.Open("pgx", config.DefaultDSN,
		dbsql.WithDBSystem(config.DefaultDBSystem),
		dbsql.WithDBName(config.DefaultDBName),
		dbsql.WithInstanceName(config.DefaultInstance),
		dbsql.WithFilter(func(provider string, d dbtrace.Descriptor) bool {
			return !strings.EqualFold(d.Operation(), "PING")
		}),
		dbsql.WithEnrich(func(span trace.Span, d dbtrace.Descriptor) {
			span.SetAttributes(attribute.String("deployment.region", "eu-west-1"))
		}),
		dbsql.WithStatementText(),
		dbsql.WithSemConv(dbtrace.SemConvCurrent),
		dbsql.WithStatementSanitizer(dbtrace.DefaultStatementSanitizer),
	)
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(config.DefaultMaxOpen)
	db.SetMaxIdleConns(config.DefaultMaxIdle)
	db.SetConnMaxLifetime(time.Duration(config.DefaultMaxLifetime) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(config.DefaultMaxIdleTime) * time.Second)

	// Pool metrics pick up db.system and db.name from the wrapped driver
	err = dbsql.RecordPoolMetrics(db, otel.GetMeterProvider().Meter("example-app"))
	if err != nil {
		log.Printf("Failed to register pool metrics: %v", err)
	}

	return &DB{DB: db}, nil
}
