// Package sql provides an instrumented database/sql driver wrapper built on
// the dbtrace interception layer.
//
// # Features
//
//   - OpenTelemetry span per driver operation (exec, query, tx, ping)
//   - Policy hooks: filter, enrich, statement-text capture toggle
//   - Legacy and current statement-text attribute conventions
//   - Connection pool metrics
//   - Full compatibility with database/sql
//
// # Quick Start
//
// Open a database connection with instrumentation:
//
//	import dbsql "github.com/arcline-labs/dbtrace-go/sql"
//
//	db, err := dbsql.Open("pgx", dsn,
//	    dbsql.WithDBSystem("postgresql"),
//	    dbsql.WithDBName("myapp"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	// Use like standard *sql.DB
//	rows, err := db.QueryContext(ctx, "SELECT * FROM users")
//
// # Policy Hooks
//
// Suppress spans, add attributes, or opt into statement capture:
//
//	db, _ := dbsql.Open("pgx", dsn,
//	    dbsql.WithDBSystem("postgresql"),
//	    dbsql.WithStatementText(),
//	    dbsql.WithFilter(func(provider string, d dbtrace.Descriptor) bool {
//	        return d.Operation() != "PING"
//	    }),
//	    dbsql.WithEnrich(func(span trace.Span, d dbtrace.Descriptor) {
//	        span.SetAttributes(attribute.String("team", "payments"))
//	    }),
//	)
//
// Statement capture is off by default; when off, spans carry no statement
// text at all.
//
// # Driver Registration
//
// For more control, register a wrapped driver:
//
//	drv := dbsql.WrapDriver(pq.Driver{},
//	    dbsql.WithDBSystem("postgresql"),
//	)
//	sql.Register("postgres-traced", drv)
//
//	db, _ := sql.Open("postgres-traced", dsn)
//
// # Observability
//
// Traces:
//   - Span per operation, named after the target database
//   - Attributes: db.system, db.name, db.operation, db.instance,
//     and db.statement or db.query.text when capture is enabled
//
// Metrics:
//   - db.client.operation.duration (histogram)
//   - db.client.connections.* pool gauges via RecordPoolMetrics
package sql
