package dbtools

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/dbtools/logging"
)

// ExecuteCommand executes an administrative SQL statement verbatim inside
// a transaction that commits on success and rolls back on failure.
//
// It exists for DDL and DCL whose grammar does not accept bound
// placeholders: CREATE USER, GRANT, schema changes and similar. Because
// the text is passed through with no binding and no escaping of any kind,
// command must be assembled exclusively from trusted input. That is the
// security boundary of this function, not an oversight; data-carrying
// statements belong in RunSQL, which binds parameters.
//
// No classification is applied, so dialect-specific administrative
// grammar runs unmodified. Note that some engines auto-commit DDL
// regardless of the wrapping transaction; the transaction is an upper
// bound on atomicity, not a guarantee the engine cannot weaken.
//
// A blank command fails with *CommandError before anything reaches the
// database, as does any database-side failure (wrapping the driver error).
func ExecuteCommand(ctx context.Context, conn Conn, command string) error {
	summary := summarizeStatement(command)
	if summary == "" {
		return &CommandError{Statement: summary, Err: errEmptyCommand}
	}

	log := logging.Default()
	start := time.Now()

	log.Debug("executing command", "command", summary)

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		cmdErr := newCommandError(command, fmt.Errorf("beginning transaction: %w", err))
		log.Error("command failed", "command", cmdErr.Statement, "error", err)
		return cmdErr
	}

	if _, err := tx.ExecContext(ctx, command); err != nil {
		tx.Rollback() //nolint:errcheck // Original error matters more
		cmdErr := newCommandError(command, err)
		// Driver errors can echo fragments of the statement; scrub before logging
		log.Error("command failed",
			"command", cmdErr.Statement,
			"code", cmdErr.Code,
			"error", redactSecrets(err.Error()),
		)
		return cmdErr
	}

	if err := tx.Commit(); err != nil {
		cmdErr := newCommandError(command, fmt.Errorf("committing transaction: %w", err))
		log.Error("command failed", "command", cmdErr.Statement, "error", err)
		return cmdErr
	}

	log.Debug("command committed", "command", summary, "duration", time.Since(start))
	return nil
}
