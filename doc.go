// Package dbtools provides thin convenience helpers over a caller-supplied
// SQL database handle: one call to run a parameterised statement, one call
// to run an administrative command, and one call to provision a read-only
// user.
//
// This package manages:
//   - Statement classification by leading keyword (read, write, neither)
//   - Named parameter binding via sqlx (:name placeholders)
//   - Per-call transactions for writes and administrative commands
//   - A structured error taxonomy carrying driver diagnostic codes
//
// It deliberately does not manage connections. Every function borrows a
// Conn supplied by the caller and returns it untouched: no pooling, no
// retries, no caching, no migrations. Hosts that want a ready-made pool
// can open one with the engine subpackage.
//
// Security Considerations:
//   - RunSQL accepts values only through bound parameters; statement text
//     and data travel separately to the driver
//   - ExecuteCommand runs its input verbatim and must only ever see
//     trusted, caller-assembled text
//   - Log records and error messages carry statement summaries with
//     password clauses redacted, never bound parameter values
//
// Statement Classification:
//
// RunSQL inspects the first keyword of the statement and nothing else.
// SELECT, SHOW, DESCRIBE and EXPLAIN return a *Frame of materialised
// rows; INSERT, UPDATE and DELETE run transactionally and return the
// affected-row count; everything else is rejected with
// *UnsupportedStatementError before touching the database. The split
// keeps accidental DDL out of the data path and forces administrative
// statements through ExecuteCommand, where the trust contract is
// explicit.
//
// Usage:
//
//	db, err := engine.Open(engine.Config{Driver: "sqlite3", DSN: "./data/app.db"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	result, err := dbtools.RunSQL(ctx, db,
//	    "SELECT id, email FROM users WHERE status = :status",
//	    dbtools.Params{"status": "active"},
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, record := range result.Frame.Records() {
//	    fmt.Println(record["email"])
//	}
//
// Logging:
//
// The package is silent by default. Install a sink once at startup to see
// what it does:
//
//	logging.SetDefault(logging.New(logging.Config{Level: "debug", Format: "auto"}))
package dbtools
