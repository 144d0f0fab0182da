package dbtools

import "strings"

// StatementKind classifies a SQL statement by its leading keyword.
type StatementKind int

const (
	// StatementUnsupported marks statements RunSQL refuses to execute.
	StatementUnsupported StatementKind = iota

	// StatementRead marks row-returning statements.
	StatementRead

	// StatementWrite marks row-changing statements.
	StatementWrite
)

// String returns the kind as a short lowercase label for logs.
func (k StatementKind) String() string {
	switch k {
	case StatementRead:
		return "read"
	case StatementWrite:
		return "write"
	default:
		return "unsupported"
	}
}

// readKeywords are the leading keywords of row-returning statements.
var readKeywords = map[string]bool{
	"SELECT":   true,
	"SHOW":     true,
	"DESCRIBE": true,
	"EXPLAIN":  true,
}

// writeKeywords are the leading keywords of row-changing statements.
var writeKeywords = map[string]bool{
	"INSERT": true,
	"UPDATE": true,
	"DELETE": true,
}

// Classify reports the kind of a statement together with its uppercased
// leading keyword. Classification looks at the leading keyword only; it
// never parses the statement body. Leading whitespace is ignored and the
// comparison is case-insensitive. A blank statement yields
// StatementUnsupported and an empty keyword.
func Classify(statement string) (StatementKind, string) {
	keyword := leadingKeyword(statement)
	switch {
	case readKeywords[keyword]:
		return StatementRead, keyword
	case writeKeywords[keyword]:
		return StatementWrite, keyword
	default:
		return StatementUnsupported, keyword
	}
}

// leadingKeyword extracts the first word of the statement, stopping at
// whitespace, an opening parenthesis or a semicolon.
func leadingKeyword(statement string) string {
	trimmed := strings.TrimSpace(statement)
	if i := strings.IndexFunc(trimmed, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\r', '(', ';':
			return true
		}
		return false
	}); i >= 0 {
		trimmed = trimmed[:i]
	}
	return strings.ToUpper(trimmed)
}
