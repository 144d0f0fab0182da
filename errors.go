package dbtools

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// statementSummaryLimit caps how much statement text errors and log
// records carry. Bound parameter values never appear in summaries at all;
// they travel out-of-band to the driver.
const statementSummaryLimit = 140

// identifiedByPattern matches the password clause of CREATE USER and
// ALTER USER statements so summaries never echo the secret.
var identifiedByPattern = regexp.MustCompile(`(?i)(IDENTIFIED BY )'[^']*'`)

// Sentinel causes wrapped by the structured error types below.
var (
	errEmptyCommand       = errors.New("command is empty")
	errIncompleteUserSpec = errors.New("username, password and database are all required")
)

// UnsupportedStatementError reports a statement whose leading keyword is
// outside the supported read and write sets. Nothing was sent to the
// database.
type UnsupportedStatementError struct {
	// Keyword is the uppercased leading keyword, or "" when the
	// statement was blank.
	Keyword string
}

func (e *UnsupportedStatementError) Error() string {
	if e.Keyword == "" {
		return "dbtools: unsupported statement: no leading keyword"
	}
	return fmt.Sprintf("dbtools: unsupported statement keyword %q", e.Keyword)
}

// QueryError reports a RunSQL failure: parameter binding, execution, row
// scanning or commit. Statement holds a whitespace-collapsed summary of
// the statement text, never parameter values. Code holds a driver
// diagnostic code when one could be extracted.
type QueryError struct {
	Statement string
	Code      string
	Err       error
}

func (e *QueryError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("dbtools: query failed [%s] (%s): %v", e.Code, e.Statement, e.Err)
	}
	return fmt.Sprintf("dbtools: query failed (%s): %v", e.Statement, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// CommandError reports an ExecuteCommand failure. The attempted
// transaction was rolled back, not committed. Statement holds a
// password-redacted summary of the command text; Code holds a driver
// diagnostic code when one could be extracted.
type CommandError struct {
	Statement string
	Code      string
	Err       error
}

func (e *CommandError) Error() string {
	// Driver errors can echo fragments of the failing statement, so the
	// cause is rendered through the same password scrub as the summary.
	cause := redactSecrets(fmt.Sprintf("%v", e.Err))
	if e.Code != "" {
		return fmt.Sprintf("dbtools: command failed [%s] (%s): %s", e.Code, e.Statement, cause)
	}
	return fmt.Sprintf("dbtools: command failed (%s): %s", e.Statement, cause)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func newQueryError(statement string, err error) *QueryError {
	return &QueryError{
		Statement: summarizeStatement(statement),
		Code:      driverCode(err),
		Err:       err,
	}
}

func newCommandError(command string, err error) *CommandError {
	return &CommandError{
		Statement: summarizeStatement(command),
		Code:      driverCode(err),
		Err:       err,
	}
}

// summarizeStatement collapses whitespace runs, redacts password clauses
// and caps the length, producing statement text safe for one log field.
func summarizeStatement(statement string) string {
	summary := redactSecrets(strings.Join(strings.Fields(statement), " "))
	if len(summary) > statementSummaryLimit {
		// Back the cut up to a rune boundary so the cap cannot split a
		// multi-byte character.
		cut := statementSummaryLimit
		for cut > 0 && !utf8.RuneStart(summary[cut]) {
			cut--
		}
		summary = summary[:cut] + "..."
	}
	return summary
}

// redactedSecret stands in for password material in summaries.
const redactedSecret = "xxxxx"

// redactSecrets scrubs password clauses from text destined for logs or
// error messages.
func redactSecrets(s string) string {
	return identifiedByPattern.ReplaceAllString(s, "$1'"+redactedSecret+"'")
}

// driverCode extracts a stable diagnostic code from the error chains of
// the supported drivers: MySQL server error numbers, PostgreSQL SQLSTATE
// codes and SQLite result codes. It returns "" for anything else.
func driverCode(err error) string {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return "mysql:" + strconv.Itoa(int(mysqlErr.Number))
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return "sqlstate:" + string(pqErr.Code)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return "sqlite:" + strconv.Itoa(int(sqliteErr.Code))
	}

	return ""
}
