package sqlx

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
)

func TestTx_CommitSpans(t *testing.T) {
	db, mock, exporter := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	_, err = tx.ExecContext(context.Background(), "INSERT INTO users (name) VALUES (?)", "alice")
	require.NoError(t, err)

	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)
	for _, span := range spans {
		assert.Equal(t, "orders", span.Name)
		assert.Equal(t, codes.Unset, span.Status.Code)
	}
	assert.True(t, hasAttr(spans[0], "db.operation", "BEGIN"))
	assert.True(t, hasAttr(spans[1], "db.operation", "INSERT"))
	assert.True(t, hasAttr(spans[2], "db.operation", "COMMIT"))
}

func TestTx_RollbackSpans(t *testing.T) {
	db, mock, exporter := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	_, err = tx.ExecContext(context.Background(), "UPDATE users SET name = ?", "bob")
	require.Error(t, err)

	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)

	update := spans[1]
	assert.Equal(t, codes.Error, update.Status.Code)
	assert.Equal(t, "deadlock detected", update.Status.Description)
	assert.Empty(t, update.Events)

	rollback := spans[2]
	assert.True(t, hasAttr(rollback, "db.operation", "ROLLBACK"))
	assert.Equal(t, codes.Unset, rollback.Status.Code)
}

func TestTx_BeginError(t *testing.T) {
	db, mock, exporter := newTestDB(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	tx, err := db.BeginTxx(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, tx)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}

func TestTx_GetContext(t *testing.T) {
	db, mock, exporter := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	var id int
	require.NoError(t, tx.GetContext(context.Background(), &id, "SELECT id FROM users WHERE id = ?", 3))
	assert.Equal(t, 3, id)

	require.NoError(t, tx.Commit())

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)
	assert.True(t, hasAttr(spans[1], "db.operation", "SELECT"))
}

func TestTx_NamedExecContext(t *testing.T) {
	db, mock, exporter := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	_, err = tx.NamedExecContext(context.Background(),
		"INSERT INTO users (name) VALUES (:name)",
		map[string]interface{}{"name": "carol"},
	)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)
	assert.True(t, hasAttr(spans[1], "db.operation", "INSERT"))
}
