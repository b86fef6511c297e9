package sql

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/arcline-labs/dbtrace-go/dbtrace"
)

const (
	// scope is the instrumentation scope name for OpenTelemetry.
	scope = "github.com/arcline-labs/dbtrace-go/sql"
)

// config holds the configuration for the driver-level layer.
type config struct {
	// ic is the shared interception core; all spans and metrics for this
	// wrapped driver flow through it.
	ic *dbtrace.Interceptor

	// coreOpts collects interception options until the core is built.
	coreOpts []dbtrace.Option

	// DBSystem identifies the database management system (DBMS) product.
	// Examples: "postgresql", "mysql", "sqlite", "mssql"
	DBSystem string

	// DBName is the name of the database being accessed.
	DBName string

	// InstanceName distinguishes connections to the same database,
	// such as "primary" or "replica-1". Added as "db.instance".
	InstanceName string

	// Provider is the driver registration name commands are attributed to.
	// Empty when the wrapped driver was supplied without a name
	// (WrapDriver); filter callbacks see the empty string in that case.
	Provider string
}

// newConfig creates a new config with defaults and applies options.
func newConfig(opts ...Option) *config {
	cfg := &config{}

	for _, opt := range opts {
		opt(cfg)
	}

	core := append([]dbtrace.Option{dbtrace.WithScopeName(scope)}, cfg.coreOpts...)
	cfg.ic = dbtrace.New(core...)

	return cfg
}

// descriptor builds the command snapshot handed to the interception core.
func (cfg *config) descriptor(statement string) dbtrace.Descriptor {
	return dbtrace.Descriptor{
		Provider:  cfg.Provider,
		System:    cfg.DBSystem,
		Database:  cfg.DBName,
		Instance:  cfg.InstanceName,
		Statement: statement,
	}
}

// Option configures the instrumentation.
type Option func(*config)

// WithTracerProvider sets a custom tracer provider.
// If not called, the global provider from otel.GetTracerProvider() is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *config) {
		cfg.coreOpts = append(cfg.coreOpts, dbtrace.WithTracerProvider(tp))
	}
}

// WithMeterProvider sets a custom meter provider.
// If not called, the global provider from otel.GetMeterProvider() is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *config) {
		cfg.coreOpts = append(cfg.coreOpts, dbtrace.WithMeterProvider(mp))
	}
}

// WithLogger sets the logger for debug-level interception notes.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.coreOpts = append(cfg.coreOpts, dbtrace.WithLogger(logger))
	}
}

// WithDBSystem sets the database system identifier (DBMS product),
// added as the "db.system" attribute on all spans.
//
// Common values: "postgresql", "mysql", "sqlite", "mssql", "oracle".
func WithDBSystem(system string) Option {
	return func(cfg *config) {
		cfg.DBSystem = system
	}
}

// WithDBName sets the database name being accessed, added as the "db.name"
// attribute and used as the span name.
func WithDBName(name string) Option {
	return func(cfg *config) {
		cfg.DBName = name
	}
}

// WithInstanceName sets an identifier for this specific connection,
// added as the "db.instance" attribute.
//
// Use this to distinguish connections to the SAME database:
//   - Primary/replica setups: "primary", "replica-1"
//   - Read/write splits: "read", "write"
//   - Sharded databases: "shard-0", "shard-1"
func WithInstanceName(name string) Option {
	return func(cfg *config) {
		cfg.InstanceName = name
	}
}

// WithFilter installs a filter hook, invoked exactly once per operation
// before span creation. Returning false suppresses the span; the operation
// still executes.
func WithFilter(f dbtrace.Filter) Option {
	return func(cfg *config) {
		cfg.coreOpts = append(cfg.coreOpts, dbtrace.WithFilter(f))
	}
}

// WithEnrich installs an enrichment hook, invoked with the live span after
// a successful operation.
func WithEnrich(e dbtrace.Enrich) Option {
	return func(cfg *config) {
		cfg.coreOpts = append(cfg.coreOpts, dbtrace.WithEnrich(e))
	}
}

// WithStatementText enables recording of statement text on spans.
// Off by default; when off, spans carry no statement-text attribute at all.
func WithStatementText() Option {
	return func(cfg *config) {
		cfg.coreOpts = append(cfg.coreOpts, dbtrace.WithStatementText())
	}
}

// WithSemConv selects the semantic-convention version for the captured
// statement text: dbtrace.SemConvLegacy ("db.statement", default) or
// dbtrace.SemConvCurrent ("db.query.text").
func WithSemConv(v dbtrace.SemConv) Option {
	return func(cfg *config) {
		cfg.coreOpts = append(cfg.coreOpts, dbtrace.WithSemConv(v))
	}
}

// WithStatementSanitizer sets a sanitizer applied to statement text before
// capture. Use dbtrace.DefaultStatementSanitizer to mask literal values.
func WithStatementSanitizer(fn func(string) string) Option {
	return func(cfg *config) {
		cfg.coreOpts = append(cfg.coreOpts, dbtrace.WithStatementSanitizer(fn))
	}
}
