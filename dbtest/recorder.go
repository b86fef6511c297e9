package dbtest

import (
	"context"
	"sync"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// Recorder is an in-memory span exporter for assertions. It never returns an
// error from ExportSpans, so instrumented code under test cannot observe the
// recorder itself failing.
type Recorder struct {
	mu    sync.Mutex
	spans tracetest.SpanStubs
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// TracerProvider returns a provider that exports synchronously into the
// recorder, so spans are visible as soon as they end.
func (r *Recorder) TracerProvider() *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSyncer(r))
}

// ExportSpans implements sdktrace.SpanExporter.
func (r *Recorder) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spans = append(r.spans, tracetest.SpanStubsFromReadOnlySpans(spans)...)
	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (r *Recorder) Shutdown(context.Context) error {
	r.Reset()
	return nil
}

// Spans returns a copy of all recorded spans in end order.
func (r *Recorder) Spans() tracetest.SpanStubs {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(tracetest.SpanStubs, len(r.spans))
	copy(out, r.spans)
	return out
}

// Roots returns recorded spans that have no recorded parent.
func (r *Recorder) Roots() tracetest.SpanStubs {
	var roots tracetest.SpanStubs
	for _, s := range r.Spans() {
		if !s.Parent.SpanID().IsValid() {
			roots = append(roots, s)
		}
	}
	return roots
}

// ByName returns recorded spans with the given name.
func (r *Recorder) ByName(name string) tracetest.SpanStubs {
	var out tracetest.SpanStubs
	for _, s := range r.Spans() {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

// Reset discards all recorded spans.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spans = nil
}
