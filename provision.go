package dbtools

import (
	"context"
	"fmt"

	"github.com/nerrad567/dbtools/logging"
)

// UserSpec describes the account CreateReadOnlyUser provisions. The
// privilege level is fixed by the function: SELECT on the named database,
// nothing else.
type UserSpec struct {
	// Username is the account to create. It is granted from any host ('%').
	Username string

	// Password authenticates the new account. It is interpolated into the
	// CREATE USER statement and therefore redacted from all logs and
	// error text this package produces.
	Password string

	// Database is the schema the account may SELECT from.
	Database string
}

// provisionStep pairs one provisioning statement with the label used in
// errors and logs.
type provisionStep struct {
	label     string
	statement string
}

// provisionSteps builds the fixed statement sequence for spec. MySQL-style
// account grammar does not accept bound identifiers or passwords, so the
// values are interpolated, which is why CreateReadOnlyUser restricts its
// inputs to trusted callers.
func provisionSteps(spec UserSpec) []provisionStep {
	return []provisionStep{
		{
			label:     "create user",
			statement: fmt.Sprintf("CREATE USER '%s'@'%%' IDENTIFIED BY '%s';", spec.Username, spec.Password),
		},
		{
			label:     "grant select",
			statement: fmt.Sprintf("GRANT SELECT ON `%s`.* TO '%s'@'%%';", spec.Database, spec.Username),
		},
		{
			label:     "flush privileges",
			statement: "FLUSH PRIVILEGES;",
		},
	}
}

// CreateReadOnlyUser provisions a database account that can read one
// database and change nothing. It executes exactly three steps in order,
// each through ExecuteCommand in its own transaction:
//
//  1. CREATE USER '<username>'@'%' IDENTIFIED BY '<password>';
//  2. GRANT SELECT ON `<database>`.* TO '<username>'@'%';
//  3. FLUSH PRIVILEGES;
//
// The username, password and database are interpolated into account
// grammar that accepts no bound values, so they must come from trusted,
// caller-validated input; see ExecuteCommand for the trust boundary.
// Specs with an empty field are rejected before anything executes.
//
// There is no compensating rollback across steps. If CREATE USER succeeds
// and a later step fails, the account exists with missing privileges, the
// returned error names the failing step, and cleanup is the caller's
// responsibility. Engines auto-commit account DDL, so a wrapping
// transaction could not restore atomicity anyway. The error satisfies
// errors.As for *CommandError.
func CreateReadOnlyUser(ctx context.Context, conn Conn, spec UserSpec) error {
	if spec.Username == "" || spec.Password == "" || spec.Database == "" {
		return &CommandError{Statement: "create read-only user", Err: errIncompleteUserSpec}
	}

	log := logging.Default()
	log.Info("creating read-only user",
		"username", spec.Username,
		"database", spec.Database,
	)

	for _, step := range provisionSteps(spec) {
		if err := ExecuteCommand(ctx, conn, step.statement); err != nil {
			log.Error("read-only user provisioning failed",
				"username", spec.Username,
				"database", spec.Database,
				"step", step.label,
			)
			return fmt.Errorf("%s step for %q: %w", step.label, spec.Username, err)
		}
	}

	log.Info("read-only user created",
		"username", spec.Username,
		"database", spec.Database,
	)
	return nil
}
