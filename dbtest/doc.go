// Package dbtest provides ephemeral database backends and span-recording
// helpers for exercising the interception layer end to end.
//
// Backends expose a uniform fixture surface: a driver name, a connection
// string, and the backend's db.system identifier. Arithmetic semantics
// differ per backend on purpose: SQLite silently yields NULL on integer
// division by zero, while the strict mock backend raises an error, so tests
// can pin both behaviors instead of unifying them.
//
//	backend, err := dbtest.Start(ctx, dbtest.SQLite)
//	if err != nil { ... }
//	defer backend.Close()
//
//	db, _ := dbsql.Open(backend.DriverName(), backend.ConnectionString(),
//	    dbsql.WithDBSystem(backend.System()),
//	    dbsql.WithDBName(backend.DatabaseName()),
//	)
//
// The Recorder is a synchronous in-memory span exporter: appends are
// serialized, export never fails, and helpers pick out root spans for
// canonical-operation assertions.
package dbtest
