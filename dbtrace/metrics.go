package dbtrace

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// metrics holds the metric instruments for intercepted commands.
type metrics struct {
	// Command latency histogram
	operationDuration metric.Float64Histogram
}

// newMetrics creates and registers metric instruments.
func newMetrics(meter metric.Meter) (*metrics, error) {
	m := &metrics{}
	var err error

	// Duration histogram with recommended buckets for database operations
	m.operationDuration, err = meter.Float64Histogram(
		"db.client.operation.duration",
		metric.WithDescription("Duration of database client operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// recordOperationDuration records the duration of one intercepted command.
func (m *metrics) recordOperationDuration(
	ctx context.Context,
	duration time.Duration,
	d Descriptor,
	err error,
) {
	if m == nil || m.operationDuration == nil {
		return
	}

	attrs := make([]attribute.KeyValue, 0, 4)
	if d.System != "" {
		attrs = append(attrs, attribute.String(attrDBSystem, d.System))
	}
	if d.Database != "" {
		attrs = append(attrs, attribute.String(attrDBName, d.Database))
	}
	if op := d.Operation(); op != "" {
		attrs = append(attrs, attribute.String(attrDBOperation, op))
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	attrs = append(attrs, attribute.String("status", status))

	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
