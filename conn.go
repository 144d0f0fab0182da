package dbtools

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Params carries named parameter values for RunSQL. Statement text refers
// to them as :name placeholders. Every value that does not originate in
// static program text must travel here, never concatenated into the
// statement itself.
type Params map[string]any

// Conn is the caller-supplied database handle the package operates on.
// *sqlx.DB and *engine.DB both satisfy it.
//
// The package borrows the handle for the duration of a single call: it
// never opens, closes, pools or retains connections. Lifecycle, pooling
// and timeout policy stay with the caller, and concurrent use is exactly
// as safe as the underlying handle makes it.
type Conn interface {
	sqlx.ExtContext

	// BeginTxx starts the transaction wrapped around write statements
	// and administrative commands.
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

var _ Conn = (*sqlx.DB)(nil)
