package dbtrace

import (
	"go.opentelemetry.io/otel/attribute"
)

// Standardized attribute keys. These are wire-compatible names consumed by
// downstream trace tooling and must match exactly.
const (
	attrDBSystem    = "db.system"
	attrDBName      = "db.name"
	attrDBInstance  = "db.instance"
	attrDBOperation = "db.operation"

	// Statement text keys. Which one is emitted depends on the configured
	// SemConv version; they are never emitted together.
	attrDBStatement = "db.statement"
	attrDBQueryText = "db.query.text"
)

// spanNameFor derives the span name from the descriptor: the target database
// name when known, otherwise the command verb, otherwise "SQL".
func spanNameFor(d Descriptor) string {
	if d.Database != "" {
		return d.Database
	}
	return spanName(d.Statement)
}

// attributes maps a descriptor onto standardized span attributes.
// The mapping is pure: the same descriptor and configuration always yield
// the same attribute set, and missing source fields yield absent attributes,
// never placeholders.
func (cfg *config) attributes(d Descriptor) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 5)

	if d.System != "" {
		attrs = append(attrs, attribute.String(attrDBSystem, d.System))
	}
	if d.Database != "" {
		attrs = append(attrs, attribute.String(attrDBName, d.Database))
	}
	if d.Instance != "" {
		attrs = append(attrs, attribute.String(attrDBInstance, d.Instance))
	}
	if op := extractOperation(d.Statement); op != "" {
		attrs = append(attrs, attribute.String(attrDBOperation, op))
	}

	if cfg.CaptureStatement && d.Statement != "" {
		text := d.Statement
		if cfg.StatementSanitizer != nil {
			text = cfg.StatementSanitizer(text)
		}
		key := attrDBStatement
		if cfg.SemConv == SemConvCurrent {
			key = attrDBQueryText
		}
		attrs = append(attrs, attribute.String(key, text))
	}

	return attrs
}
