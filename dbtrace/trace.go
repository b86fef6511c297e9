package dbtrace

import (
	"regexp"
	"strings"
)

// Regex patterns for statement sanitization.
var (
	// stringLiteralRegex matches single-quoted strings, handling escaped quotes.
	// Example matches: 'hello', 'it\'s', 'foo''bar'
	stringLiteralRegex = regexp.MustCompile(`'(?:[^'\\]|\\.)*'`)

	// numericLiteralRegex matches numeric literals (integers and floats).
	// Example matches: 123, 45.67, 0.5
	numericLiteralRegex = regexp.MustCompile(`\b\d+\.?\d*\b`)

	// hexLiteralRegex matches hex literals.
	// Example matches: 0xDEADBEEF, 0xFF, 0x1a2b
	hexLiteralRegex = regexp.MustCompile(`0[xX][0-9a-fA-F]+`)
)

// spanName returns a span name from a statement.
// Returns the command verb (SELECT, INSERT, etc.) or "SQL" for
// empty/unknown statements; OpenTelemetry span names must not be empty.
func spanName(statement string) string {
	op := extractOperation(statement)
	if op != "" {
		return op
	}
	return "SQL"
}

// extractOperation extracts the command verb (first word) from a statement.
// Returns the uppercase verb or empty string if the statement is empty.
//
// Example:
//
//	extractOperation("SELECT * FROM users") // returns "SELECT"
//	extractOperation("insert into users")   // returns "INSERT"
//	extractOperation("")                    // returns ""
func extractOperation(statement string) string {
	statement = strings.TrimSpace(statement)
	if statement == "" {
		return ""
	}

	// Find the first word (the command verb)
	spaceIdx := strings.IndexAny(statement, " \t\n\r")
	if spaceIdx == -1 {
		return strings.ToUpper(statement)
	}

	return strings.ToUpper(statement[:spaceIdx])
}

// DefaultStatementSanitizer is a basic sanitizer that replaces literal
// values with placeholders so sensitive data does not reach traces.
//
// What it sanitizes:
//   - String literals: 'john' → '?'
//   - Numeric literals: 123, 45.67 → ?
//   - Hex literals: 0xDEADBEEF → ?
//
// Note: this is a simple regex-based implementation. For complex statements
// consider a proper SQL parser.
func DefaultStatementSanitizer(statement string) string {
	// Replace string literals (single quotes, handling escaped quotes)
	statement = stringLiteralRegex.ReplaceAllString(statement, "'?'")

	// Replace numeric literals (integers and floats)
	statement = numericLiteralRegex.ReplaceAllString(statement, "?")

	// Replace hex literals (0x...)
	statement = hexLiteralRegex.ReplaceAllString(statement, "?")

	return statement
}
