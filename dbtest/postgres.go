package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	// Registers the "pgx" driver for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	postgresImage    = "postgres:17-alpine"
	postgresUser     = "dbtrace"
	postgresPassword = "dbtrace"
	postgresDatabase = "dbtrace"
)

// PostgresBackend is a containerized PostgreSQL server.
//
// PostgreSQL is a strict-arithmetic fixture: SELECT 1/0 fails the statement
// with a division-by-zero error.
type PostgresBackend struct {
	container testcontainers.Container
	dsn       string
	logger    zerolog.Logger
}

// StartPostgres launches a PostgreSQL container and waits until the server
// accepts connections. Requires a running container runtime.
func StartPostgres(ctx context.Context) (*PostgresBackend, error) {
	logger := zerolog.New(os.Stderr).With().Str("backend", "postgres").Logger()

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		Name:         "dbtrace-pg-" + uuid.NewString()[:8],
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDatabase,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to resolve container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to resolve container port: %w", err)
	}

	b := &PostgresBackend{
		container: container,
		dsn: fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			postgresUser, postgresPassword, host, port.Port(), postgresDatabase),
		logger: logger,
	}

	if err := b.waitReady(ctx); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	logger.Debug().Str("dsn", b.dsn).Msg("postgres backend ready")
	return b, nil
}

// waitReady pings the server until it answers; the log wait gate above can
// fire slightly before the socket actually accepts queries.
func (b *PostgresBackend) waitReady(ctx context.Context) error {
	db, err := sql.Open("pgx", b.dsn)
	if err != nil {
		return fmt.Errorf("failed to open readiness probe: %w", err)
	}
	defer db.Close()

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, db.PingContext(ctx)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(30*time.Second),
		backoff.WithNotify(func(err error, next time.Duration) {
			b.logger.Debug().Err(err).Dur("next", next).Msg("postgres not ready yet")
		}),
	)
	if err != nil {
		return fmt.Errorf("postgres never became ready: %w", err)
	}
	return nil
}

// DriverName implements Backend.
func (b *PostgresBackend) DriverName() string { return "pgx" }

// ConnectionString implements Backend.
func (b *PostgresBackend) ConnectionString() string { return b.dsn }

// System implements Backend.
func (b *PostgresBackend) System() string { return "postgresql" }

// DatabaseName implements Backend.
func (b *PostgresBackend) DatabaseName() string { return postgresDatabase }

// Close implements Backend.
func (b *PostgresBackend) Close() error {
	return b.container.Terminate(context.Background())
}
