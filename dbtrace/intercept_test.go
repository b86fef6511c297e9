package dbtrace

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// newTestInterceptor returns an interceptor backed by an in-memory exporter.
func newTestInterceptor(t *testing.T, opts ...Option) (*Interceptor, *tracetest.InMemoryExporter) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	opts = append([]Option{WithTracerProvider(tp)}, opts...)
	return New(opts...), exporter
}

func testDescriptor() Descriptor {
	return Descriptor{
		Provider:  "pgx",
		System:    "postgresql",
		Database:  "orders",
		Statement: "SELECT * FROM orders",
	}
}

func TestInterceptor_Intercept_Status(t *testing.T) {
	type args struct {
		fnErr error
	}

	tests := []struct {
		name       string
		args       args
		wantStatus codes.Code
		wantDesc   string
	}{
		{
			name:       "given successful command, then span status is unset",
			args:       args{fnErr: nil},
			wantStatus: codes.Unset,
			wantDesc:   "",
		},
		{
			name:       "given failing command, then span status is error with message",
			args:       args{fnErr: errors.New("relation does not exist")},
			wantStatus: codes.Error,
			wantDesc:   "relation does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ic, exporter := newTestInterceptor(t)

			err := ic.Intercept(context.Background(), testDescriptor(),
				func(context.Context) error { return tt.args.fnErr },
			)

			assert.Equal(t, tt.args.fnErr, err)

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.wantStatus, spans[0].Status.Code)
			assert.Equal(t, tt.wantDesc, spans[0].Status.Description)
			assert.Empty(t, spans[0].Events, "failures map to status only, not events")
			assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind)
		})
	}
}

func TestInterceptor_Intercept_SpanName(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		want string
	}{
		{
			name: "given database name, then span is named after it",
			d:    Descriptor{Database: "orders", Statement: "SELECT 1"},
			want: "orders",
		},
		{
			name: "given no database name, then span is named after the verb",
			d:    Descriptor{Statement: "DELETE FROM users"},
			want: "DELETE",
		},
		{
			name: "given neither, then span gets the fallback name",
			d:    Descriptor{},
			want: "SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ic, exporter := newTestInterceptor(t)

			err := ic.Intercept(context.Background(), tt.d,
				func(context.Context) error { return nil },
			)

			require.NoError(t, err)
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.want, spans[0].Name)
		})
	}
}

func TestInterceptor_Filter(t *testing.T) {
	type args struct {
		allow bool
		fnErr error
	}

	tests := []struct {
		name          string
		args          args
		wantSpanCount int
	}{
		{
			name:          "given filter accepts, then span is emitted",
			args:          args{allow: true},
			wantSpanCount: 1,
		},
		{
			name:          "given filter rejects, then no span is started",
			args:          args{allow: false},
			wantSpanCount: 0,
		},
		{
			name:          "given filter rejects a failing command, then error still propagates",
			args:          args{allow: false, fnErr: errors.New("boom")},
			wantSpanCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			ic, exporter := newTestInterceptor(t, WithFilter(
				func(provider string, d Descriptor) bool {
					calls++
					assert.Equal(t, "pgx", provider)
					return tt.args.allow
				},
			))

			err := ic.Intercept(context.Background(), testDescriptor(),
				func(context.Context) error { return tt.args.fnErr },
			)

			assert.Equal(t, tt.args.fnErr, err)
			assert.Equal(t, 1, calls, "filter runs exactly once per command")
			assert.Len(t, exporter.GetSpans(), tt.wantSpanCount)
		})
	}
}

func TestInterceptor_Filter_EmptyProvider(t *testing.T) {
	t.Run("given descriptor with unknown origin, then filter sees empty provider", func(t *testing.T) {
		var gotProvider string
		ic, _ := newTestInterceptor(t, WithFilter(
			func(provider string, _ Descriptor) bool {
				gotProvider = provider
				return true
			},
		))

		d := testDescriptor()
		d.Provider = ""
		err := ic.Intercept(context.Background(), d,
			func(context.Context) error { return nil },
		)

		require.NoError(t, err)
		assert.Empty(t, gotProvider)
	})
}

func TestInterceptor_Enrich(t *testing.T) {
	type args struct {
		configured bool
		fnErr      error
	}

	tests := []struct {
		name         string
		args         args
		wantEnriched bool
	}{
		{
			name:         "given enrich configured and command succeeds, then attribute is set",
			args:         args{configured: true},
			wantEnriched: true,
		},
		{
			name:         "given enrich configured and command fails, then hook is not invoked",
			args:         args{configured: true, fnErr: errors.New("boom")},
			wantEnriched: false,
		},
		{
			name:         "given enrich not configured, then no attribute is set",
			args:         args{configured: false},
			wantEnriched: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			enriched := false
			if tt.args.configured {
				opts = append(opts, WithEnrich(func(span trace.Span, d Descriptor) {
					enriched = true
					span.SetAttributes(attribute.Bool("enriched", true))
				}))
			}
			ic, exporter := newTestInterceptor(t, opts...)

			_ = ic.Intercept(context.Background(), testDescriptor(),
				func(context.Context) error { return tt.args.fnErr },
			)

			assert.Equal(t, tt.wantEnriched, enriched)

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.wantEnriched, hasAttr(spans[0].Attributes, "enriched"))
		})
	}
}

func TestInterceptor_Start_EndIdempotent(t *testing.T) {
	t.Run("given end called twice, then exactly one span is exported", func(t *testing.T) {
		ic, exporter := newTestInterceptor(t)

		_, end := ic.Start(context.Background(), testDescriptor())
		end(nil)
		end(errors.New("late failure"))

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Unset, spans[0].Status.Code)
	})
}

func TestInterceptor_Intercept_PanicStillEndsSpan(t *testing.T) {
	t.Run("given fn panics, then span still reaches a terminal state", func(t *testing.T) {
		ic, exporter := newTestInterceptor(t)

		require.Panics(t, func() {
			_ = ic.Intercept(context.Background(), testDescriptor(),
				func(context.Context) error { panic("hook gone wrong") },
			)
		})

		assert.Len(t, exporter.GetSpans(), 1)
	})
}

func TestInterceptor_Nesting(t *testing.T) {
	t.Run("given active span in context, then new span is its child", func(t *testing.T) {
		ic, exporter := newTestInterceptor(t)

		outer := testDescriptor()
		inner := testDescriptor()
		inner.Provider = "sqlite"

		err := ic.Intercept(context.Background(), outer, func(ctx context.Context) error {
			return ic.Intercept(ctx, inner, func(context.Context) error { return nil })
		})
		require.NoError(t, err)

		spans := exporter.GetSpans()
		require.Len(t, spans, 2)

		// Inner ends first, so it is exported first.
		child, root := spans[0], spans[1]
		assert.False(t, root.Parent.IsValid())
		assert.Equal(t, root.SpanContext.SpanID(), child.Parent.SpanID())
		assert.Equal(t, root.SpanContext.TraceID(), child.SpanContext.TraceID())
	})

	t.Run("given outer fails before inner runs, then only the outer span exists", func(t *testing.T) {
		ic, exporter := newTestInterceptor(t)

		err := ic.Intercept(context.Background(), testDescriptor(),
			func(context.Context) error { return errors.New("compile failure") },
		)
		require.Error(t, err)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.False(t, spans[0].Parent.IsValid())
	})
}

func TestInterceptor_ConcurrentIsolation(t *testing.T) {
	t.Run("given concurrent commands, then every span is a root of its own trace", func(t *testing.T) {
		ic, exporter := newTestInterceptor(t)

		var g errgroup.Group
		for range 16 {
			g.Go(func() error {
				return ic.Intercept(context.Background(), testDescriptor(),
					func(context.Context) error { return nil },
				)
			})
		}
		require.NoError(t, g.Wait())

		spans := exporter.GetSpans()
		require.Len(t, spans, 16)

		traceIDs := make(map[trace.TraceID]struct{}, len(spans))
		for _, s := range spans {
			assert.False(t, s.Parent.IsValid())
			traceIDs[s.SpanContext.TraceID()] = struct{}{}
		}
		assert.Len(t, traceIDs, 16)
	})
}

// hasAttr reports whether the attribute set contains the given key.
func hasAttr(attrs []attribute.KeyValue, key string) bool {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return true
		}
	}
	return false
}
