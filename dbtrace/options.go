package dbtrace

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// scope is the instrumentation scope name for OpenTelemetry.
	// This identifies the library in traces and metrics.
	scope = "github.com/arcline-labs/dbtrace-go/dbtrace"
)

// SemConv selects which semantic-convention key carries captured
// statement text. Exactly one representation is emitted per span.
type SemConv int

const (
	// SemConvLegacy emits statement text as "db.statement".
	SemConvLegacy SemConv = iota

	// SemConvCurrent emits statement text as "db.query.text".
	SemConvCurrent
)

// Filter decides whether a command is traced at all. It is invoked exactly
// once per intercepted command, before span creation. Returning false
// suppresses the span; the command still executes and its error still
// propagates. providerName may be empty when the command's origin is unknown.
type Filter func(providerName string, d Descriptor) bool

// Enrich may add or overwrite attributes on the span of a successfully
// executed command. It runs after the span is created and before it ends,
// on the success path only. It must not end the span.
type Enrich func(span trace.Span, d Descriptor)

// config holds the configuration for the interception layer.
type config struct {
	// ScopeName is the instrumentation scope reported on spans and metrics.
	// Wrapping layers set their own import path here.
	ScopeName string

	// TracerProvider is the tracer provider to use.
	// If not set, uses the global provider via otel.GetTracerProvider().
	TracerProvider trace.TracerProvider

	// MeterProvider is the meter provider to use.
	// If not set, uses the global provider via otel.GetMeterProvider().
	MeterProvider metric.MeterProvider

	// Tracer is the tracer instance created from TracerProvider.
	Tracer trace.Tracer

	// Meter is the meter instance created from MeterProvider.
	Meter metric.Meter

	// Metrics holds the metric instruments.
	Metrics *metrics

	// Logger receives debug-level notes (filtered commands). Defaults to
	// a no-op logger; the success path never logs above debug.
	Logger zerolog.Logger

	// Filter suppresses spans for commands it rejects. Optional.
	Filter Filter

	// Enrich adds attributes to spans of successful commands. Optional.
	Enrich Enrich

	// CaptureStatement controls whether statement text is recorded.
	// Off by default: when false the statement-text attribute is absent
	// entirely, not empty-valued.
	CaptureStatement bool

	// SemConv selects the statement-text attribute key.
	SemConv SemConv

	// StatementSanitizer rewrites statement text before capture.
	// If nil, captured text is recorded as-is.
	StatementSanitizer func(statement string) string
}

// newConfig creates a new config with defaults and applies options.
func newConfig(opts ...Option) *config {
	cfg := &config{
		ScopeName:      scope,
		TracerProvider: otel.GetTracerProvider(),
		MeterProvider:  otel.GetMeterProvider(),
		Logger:         zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	// Initialize tracer and meter after options are applied. With no global
	// provider configured these are no-op implementations: safe, no data.
	cfg.Tracer = cfg.TracerProvider.Tracer(cfg.ScopeName)
	cfg.Meter = cfg.MeterProvider.Meter(cfg.ScopeName)

	cfg.Metrics, _ = newMetrics(cfg.Meter)

	return cfg
}

// Option configures the interception layer.
type Option func(*config)

// WithScopeName sets the instrumentation scope name reported on spans and
// metrics. Layers built on this package pass their own import path so their
// spans remain distinguishable from each other.
func WithScopeName(name string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.ScopeName = name
		}
	}
}

// WithTracerProvider sets a custom tracer provider.
// If not called, the global provider from otel.GetTracerProvider() is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *config) {
		cfg.TracerProvider = tp
	}
}

// WithMeterProvider sets a custom meter provider.
// If not called, the global provider from otel.GetMeterProvider() is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *config) {
		cfg.MeterProvider = mp
	}
}

// WithLogger sets the logger for debug-level interception notes.
//
// Example:
//
//	ic := dbtrace.New(dbtrace.WithLogger(zerolog.New(os.Stderr)))
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.Logger = logger
	}
}

// WithFilter installs a filter callback. The filter is invoked exactly once
// per intercepted command; returning false means no span is started for it.
//
// Example - trace writes only:
//
//	dbtrace.WithFilter(func(provider string, d dbtrace.Descriptor) bool {
//	    return d.Operation() != "SELECT"
//	})
func WithFilter(f Filter) Option {
	return func(cfg *config) {
		cfg.Filter = f
	}
}

// WithEnrich installs an enrichment callback, invoked with the live span and
// the command descriptor after the command succeeds.
//
// Example:
//
//	dbtrace.WithEnrich(func(span trace.Span, d dbtrace.Descriptor) {
//	    span.SetAttributes(attribute.String("tenant", tenantOf(d.Database)))
//	})
func WithEnrich(e Enrich) Option {
	return func(cfg *config) {
		cfg.Enrich = e
	}
}

// WithStatementText enables recording of statement text on spans.
// Capture is off by default; when off, neither the legacy nor the current
// statement-text attribute appears on any span.
func WithStatementText() Option {
	return func(cfg *config) {
		cfg.CaptureStatement = true
	}
}

// WithSemConv selects the semantic-convention version for the statement-text
// attribute: SemConvLegacy ("db.statement", default) or SemConvCurrent
// ("db.query.text"). Only the selected key is ever emitted.
func WithSemConv(v SemConv) Option {
	return func(cfg *config) {
		cfg.SemConv = v
	}
}

// WithStatementSanitizer sets a sanitizer applied to statement text before
// capture. Use DefaultStatementSanitizer to mask literal values.
//
// Example:
//
//	ic := dbtrace.New(
//	    dbtrace.WithStatementText(),
//	    dbtrace.WithStatementSanitizer(dbtrace.DefaultStatementSanitizer),
//	)
//	// Statement: "SELECT * FROM users WHERE id = 123"
//	// Recorded as: "SELECT * FROM users WHERE id = ?"
func WithStatementSanitizer(fn func(string) string) Option {
	return func(cfg *config) {
		cfg.StatementSanitizer = fn
	}
}
