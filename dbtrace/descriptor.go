package dbtrace

// Descriptor is a read-only snapshot of the command being traced.
// It is passed by value to policy hooks; hooks influence the span only
// through the explicit enrichment callback, never by mutating the snapshot.
type Descriptor struct {
	// Provider is the registration name of the driver or data-access layer
	// that originated the command. It may be empty when the origin cannot
	// be determined; filter callbacks must tolerate an empty provider.
	Provider string

	// System identifies the DBMS product ("postgresql", "sqlite", "mssql").
	System string

	// Database is the name of the target database.
	Database string

	// Instance distinguishes connections to the same database,
	// such as "primary" or "replica-1".
	Instance string

	// Statement is the raw statement text. Whether it reaches the span is
	// controlled by the capture toggle, never by the descriptor itself.
	Statement string
}

// Operation returns the command verb (SELECT, INSERT, ...) derived from the
// statement text, or "" when the statement is empty.
func (d Descriptor) Operation() string {
	return extractOperation(d.Statement)
}
