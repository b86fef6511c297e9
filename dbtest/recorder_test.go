package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

func TestRecorder_SpansVisibleOnEnd(t *testing.T) {
	recorder := NewRecorder()
	tracer := recorder.TracerProvider().Tracer("test")

	_, span := tracer.Start(context.Background(), "orders")
	assert.Empty(t, recorder.Spans(), "span still open")
	span.End()

	spans := recorder.Spans()
	require.Len(t, spans, 1)
	assert.Equal(t, "orders", spans[0].Name)
}

func TestRecorder_Roots(t *testing.T) {
	recorder := NewRecorder()
	tracer := recorder.TracerProvider().Tracer("test")

	ctx, parent := tracer.Start(context.Background(), "outer")
	_, child := tracer.Start(ctx, "inner")
	child.End()
	parent.End()

	roots := recorder.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, "outer", roots[0].Name)

	inner := recorder.ByName("inner")
	require.Len(t, inner, 1)
	assert.Equal(t, roots[0].SpanContext.SpanID(), inner[0].Parent.SpanID())
}

func TestRecorder_Reset(t *testing.T) {
	recorder := NewRecorder()
	tracer := recorder.TracerProvider().Tracer("test")

	_, span := tracer.Start(context.Background(), "orders")
	span.End()
	require.Len(t, recorder.Spans(), 1)

	recorder.Reset()
	assert.Empty(t, recorder.Spans())
}

func TestRecorder_ConcurrentExport(t *testing.T) {
	recorder := NewRecorder()
	tracer := recorder.TracerProvider().Tracer("test")

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			_, span := tracer.Start(context.Background(), "orders",
				trace.WithSpanKind(trace.SpanKindClient))
			span.End()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Len(t, recorder.Spans(), 16)
}
