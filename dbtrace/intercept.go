package dbtrace

import (
	"context"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Interceptor wraps database command execution with span emission.
// It is safe for concurrent use; spans for concurrent commands are isolated
// by the context passed to Start, not by shared state.
type Interceptor struct {
	cfg *config
}

// New creates an Interceptor with the given options.
func New(opts ...Option) *Interceptor {
	return &Interceptor{cfg: newConfig(opts...)}
}

// EndFunc finalizes the span for one intercepted command. A nil error ends
// the span with status Unset after running the enrich hook; a non-nil error
// ends it with status Error and the error message as description, with no
// events attached. Calling it more than once is a no-op after the first call.
type EndFunc func(err error)

// Start begins interception of one command.
//
// The filter hook, when configured, runs exactly once here. If it rejects
// the command no span is started: the returned context is ctx unchanged and
// the returned EndFunc does nothing. Otherwise a client-kind span is started
// as a child of any span in ctx (or as a root), carrying the mapped
// descriptor attributes.
//
// The returned EndFunc must be invoked on every exit path of the wrapped
// command. Callers that cannot guarantee that should use Intercept instead.
func (i *Interceptor) Start(ctx context.Context, d Descriptor) (context.Context, EndFunc) {
	cfg := i.cfg

	if cfg.Filter != nil && !cfg.Filter(d.Provider, d) {
		cfg.Logger.Debug().
			Str("provider", d.Provider).
			Str("db", d.Database).
			Str("operation", d.Operation()).
			Msg("command filtered from tracing")
		return ctx, func(error) {}
	}

	start := time.Now()
	ctx, span := cfg.Tracer.Start(ctx, spanNameFor(d),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(cfg.attributes(d)...),
	)

	var ended atomic.Bool
	end := func(err error) {
		if !ended.CompareAndSwap(false, true) {
			return
		}

		cfg.Metrics.recordOperationDuration(ctx, time.Since(start), d, err)

		if err != nil {
			// Status only: the failure is not re-logged as a span event,
			// the caller still receives the error unchanged.
			span.SetStatus(codes.Error, err.Error())
			span.End()
			return
		}

		if cfg.Enrich != nil {
			cfg.Enrich(span, d)
		}
		span.End()
	}

	return ctx, end
}

// Intercept runs fn under a span for the described command, guaranteeing the
// span reaches a terminal state on every exit path: success, error,
// cancellation of ctx, or a panic inside fn. fn's error is returned
// unchanged.
func (i *Interceptor) Intercept(
	ctx context.Context,
	d Descriptor,
	fn func(ctx context.Context) error,
) error {
	ctx, end := i.Start(ctx, d)

	var err error
	defer func() { end(err) }()

	err = fn(ctx)
	return err
}
