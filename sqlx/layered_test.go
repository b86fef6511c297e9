package sqlx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcline-labs/dbtrace-go/dbtest"
	dbsql "github.com/arcline-labs/dbtrace-go/sql"
)

// Both layers instrumented: the driver span must nest under the sqlx span.
func TestLayeredInstrumentation_Nesting(t *testing.T) {
	backend := dbtest.StartSQLite()
	defer backend.Close()

	recorder := dbtest.NewRecorder()

	sqlDB, err := dbsql.Open(backend.DriverName(), backend.ConnectionString(),
		dbsql.WithTracerProvider(recorder.TracerProvider()),
		dbsql.WithDBSystem(backend.System()),
		dbsql.WithDBName(backend.DatabaseName()),
	)
	require.NoError(t, err)

	db := NewDB(sqlDB, backend.DriverName(),
		WithTracerProvider(recorder.TracerProvider()),
		WithDBSystem(backend.System()),
		WithDBName(backend.DatabaseName()),
	)
	defer db.Close()

	_, err = db.ExecContext(context.Background(), "CREATE TABLE orders (id INTEGER)")
	require.NoError(t, err)
	_, err = db.ExecContext(context.Background(), "INSERT INTO orders VALUES (1)")
	require.NoError(t, err)
	recorder.Reset()

	var id int
	require.NoError(t, db.GetContext(context.Background(), &id, "SELECT id FROM orders WHERE id = 1"))
	assert.Equal(t, 1, id)

	spans := recorder.Spans()
	require.Len(t, spans, 2)

	// driver span ends before the sqlx span
	inner, outer := spans[0], spans[1]
	assert.Equal(t, "github.com/arcline-labs/dbtrace-go/sql", inner.InstrumentationScope.Name)
	assert.Equal(t, "github.com/arcline-labs/dbtrace-go/sqlx", outer.InstrumentationScope.Name)

	assert.Equal(t, outer.SpanContext.TraceID(), inner.SpanContext.TraceID())
	assert.Equal(t, outer.SpanContext.SpanID(), inner.Parent.SpanID())
	assert.False(t, outer.Parent.SpanID().IsValid())
}

// When the high-level call fails before the driver runs, only the outer
// span exists.
func TestLayeredInstrumentation_OuterFailureAlone(t *testing.T) {
	backend := dbtest.StartSQLite()
	defer backend.Close()

	recorder := dbtest.NewRecorder()

	sqlDB, err := dbsql.Open(backend.DriverName(), backend.ConnectionString(),
		dbsql.WithTracerProvider(recorder.TracerProvider()),
		dbsql.WithDBSystem(backend.System()),
		dbsql.WithDBName("layered_fail"),
	)
	require.NoError(t, err)

	db := NewDB(sqlDB, backend.DriverName(),
		WithTracerProvider(recorder.TracerProvider()),
		WithDBSystem(backend.System()),
		WithDBName("layered_fail"),
	)
	defer db.Close()

	// :missing has no counterpart in the argument map, so binding fails
	// before any driver operation is issued
	_, err = db.NamedExecContext(context.Background(),
		"INSERT INTO orders (id) VALUES (:missing)",
		map[string]interface{}{"id": 1},
	)
	require.Error(t, err)

	spans := recorder.Spans()
	require.Len(t, spans, 1)
	assert.Equal(t, "github.com/arcline-labs/dbtrace-go/sqlx", spans[0].InstrumentationScope.Name)
}
