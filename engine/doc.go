// Package engine provides database connectivity for dbtools.
//
// This package manages:
//   - Connection pools for SQLite, MySQL and PostgreSQL
//   - Pool sizing and lifecycle management
//   - Connectivity verification and health checks
//   - DSN redaction for safe logging
//
// The root dbtools package operates on any handle that satisfies its Conn
// interface; this package supplies a ready-made one for hosts that do not
// already own a pool. Hosts with an existing *sqlx.DB can pass it directly
// and never import this package.
//
// Security Considerations:
//   - DSNs can embed credentials; only the redacted form (SafeDSN) is
//     ever written to logs or error text
//   - Prefer supplying the DSN via environment override rather than a
//     config file committed to version control
//
// Usage:
//
//	db, err := engine.Open(cfg.Engine)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	result, err := dbtools.RunSQL(ctx, db, "SELECT 1", nil)
package engine
