package dbtools

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nerrad567/dbtools/logging"
)

// Result is the outcome of RunSQL, discriminated by Kind. Read statements
// carry a Frame; write statements carry the affected-row count. Exactly
// one of the two payload fields is meaningful per value.
type Result struct {
	// Kind is StatementRead or StatementWrite.
	Kind StatementKind

	// Frame holds the materialised rows of a read statement. It is nil
	// for writes and non-nil (possibly empty) for every successful read.
	Frame *Frame

	// Affected is the row count reported by a write statement. It is 0
	// for reads.
	Affected int64
}

// RunSQL executes a single parameterised SQL statement against conn.
//
// The statement is classified by its leading keyword. Row-returning
// statements (SELECT, SHOW, DESCRIBE, EXPLAIN) are executed with the
// bound params and their rows come back fully materialised in a Frame,
// preserving server order. Row-changing statements (INSERT, UPDATE,
// DELETE) run inside a transaction that commits on success and rolls back
// on failure, and report the number of rows affected. Any other leading
// keyword fails with *UnsupportedStatementError before anything reaches
// the database; administrative statements belong in ExecuteCommand.
//
// Parameter values are referenced as :name in the statement text and
// bound by the driver, never interpolated. A params map that is missing a
// referenced name fails the call with *QueryError without executing
// anything. A nil params is fine for statements without placeholders.
//
// RunSQL imposes no deadline of its own; cancellation and timeouts belong
// to ctx and to the caller's handle. Database-side failures are returned
// as *QueryError wrapping the driver error.
func RunSQL(ctx context.Context, conn Conn, statement string, params Params) (*Result, error) {
	kind, keyword := Classify(statement)
	if kind == StatementUnsupported {
		return nil, &UnsupportedStatementError{Keyword: keyword}
	}

	log := logging.Default()
	summary := summarizeStatement(statement)
	start := time.Now()

	// Parameter names are loggable; parameter values never are
	log.Debug("executing statement",
		"kind", kind.String(),
		"statement", summary,
		"params", paramNames(params),
	)

	if kind == StatementRead {
		frame, err := runRead(ctx, conn, statement, params)
		if err != nil {
			queryErr := newQueryError(statement, err)
			log.Error("query failed",
				"statement", queryErr.Statement,
				"code", queryErr.Code,
				"error", err,
			)
			return nil, queryErr
		}

		log.Debug("query returned rows",
			"statement", summary,
			"rows", frame.Len(),
			"duration", time.Since(start),
		)
		return &Result{Kind: StatementRead, Frame: frame}, nil
	}

	affected, err := runWrite(ctx, conn, statement, params)
	if err != nil {
		queryErr := newQueryError(statement, err)
		log.Error("write failed",
			"statement", queryErr.Statement,
			"code", queryErr.Code,
			"error", err,
		)
		return nil, queryErr
	}

	log.Debug("write committed",
		"statement", summary,
		"rows_affected", affected,
		"duration", time.Since(start),
	)
	return &Result{Kind: StatementWrite, Affected: affected}, nil
}

// paramNames returns the parameter keys in sorted order for log fields.
func paramNames(params Params) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// runRead executes a row-returning statement and materialises the result.
// Reads run on the handle directly; they need no transaction of their own.
func runRead(ctx context.Context, conn Conn, statement string, params Params) (*Frame, error) {
	rows, err := sqlx.NamedQueryContext(ctx, conn, statement, map[string]any(params))
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor, nothing to lose

	return scanFrame(rows.Rows)
}

// runWrite executes a row-changing statement inside its own transaction
// and reports the affected-row count.
func runWrite(ctx context.Context, conn Conn, statement string, params Params) (int64, error) {
	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}

	result, err := sqlx.NamedExecContext(ctx, tx, statement, map[string]any(params))
	if err != nil {
		tx.Rollback() //nolint:errcheck // Original error matters more
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		tx.Rollback() //nolint:errcheck // Original error matters more
		return 0, fmt.Errorf("reading affected row count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	return affected, nil
}
