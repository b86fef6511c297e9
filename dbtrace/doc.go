// Package dbtrace is the core interception layer shared by the driver-level
// and data-access-level instrumentation packages.
//
// # Features
//
//   - Span per intercepted database command with client kind
//   - Policy hooks: filter (suppress a span), enrich (add attributes),
//     statement-text capture toggle
//   - Legacy (db.statement) and current (db.query.text) attribute conventions
//   - Error-to-status mapping without error events
//   - Guaranteed span end on every exit path of the wrapped call
//
// # Quick Start
//
// Wrap any command execution with Intercept:
//
//	ic := dbtrace.New(
//	    dbtrace.WithStatementText(),
//	    dbtrace.WithFilter(func(provider string, d dbtrace.Descriptor) bool {
//	        return d.Operation() != "PING"
//	    }),
//	)
//
//	err := ic.Intercept(ctx, dbtrace.Descriptor{
//	    Provider:  "pgx",
//	    System:    "postgresql",
//	    Database:  "orders",
//	    Statement: "SELECT * FROM orders WHERE id = $1",
//	}, func(ctx context.Context) error {
//	    return runCommand(ctx)
//	})
//
// The span nests under any span already present in ctx; otherwise it becomes
// its own root. The wrapped call's error propagates unchanged to the caller.
//
// # Policy Hooks
//
// Filter runs exactly once per intercepted command, before span creation.
// Returning false suppresses the span entirely; the command itself still
// executes. Enrich runs after span creation, on the success path only, and
// may add or overwrite attributes.
//
// Hooks are trusted code: a panicking hook propagates to the caller of the
// wrapped command.
package dbtrace
