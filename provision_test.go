package dbtools

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvisionSteps(t *testing.T) {
	steps := provisionSteps(UserSpec{
		Username: "reporting",
		Password: "s3cret",
		Database: "analytics",
	})

	require.Len(t, steps, 3)
	assert.Equal(t, "CREATE USER 'reporting'@'%' IDENTIFIED BY 's3cret';", steps[0].statement)
	assert.Equal(t, "GRANT SELECT ON `analytics`.* TO 'reporting'@'%';", steps[1].statement)
	assert.Equal(t, "FLUSH PRIVILEGES;", steps[2].statement)
}

func TestCreateReadOnlyUser(t *testing.T) {
	spec := UserSpec{
		Username: "reporting",
		Password: "s3cret",
		Database: "analytics",
	}

	t.Run("runs the three steps in order", func(t *testing.T) {
		conn, mock := newMockConn(t)

		mock.ExpectBegin()
		mock.ExpectExec("CREATE USER 'reporting'@'%' IDENTIFIED BY 's3cret';").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		mock.ExpectBegin()
		mock.ExpectExec("GRANT SELECT ON `analytics`.* TO 'reporting'@'%';").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		mock.ExpectBegin()
		mock.ExpectExec("FLUSH PRIVILEGES;").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := CreateReadOnlyUser(context.Background(), conn, spec)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops at the failing step without compensation", func(t *testing.T) {
		conn, mock := newMockConn(t)

		mock.ExpectBegin()
		mock.ExpectExec("CREATE USER 'reporting'@'%' IDENTIFIED BY 's3cret';").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		mock.ExpectBegin()
		mock.ExpectExec("GRANT SELECT ON `analytics`.* TO 'reporting'@'%';").
			WillReturnError(&mysql.MySQLError{Number: 1044, Message: "access denied"})
		mock.ExpectRollback()

		// No expectations for FLUSH PRIVILEGES and no DROP USER: the
		// sequence stops where it failed and leaves cleanup to the caller

		err := CreateReadOnlyUser(context.Background(), conn, spec)
		require.Error(t, err)

		var cmdErr *CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.Equal(t, "mysql:1044", cmdErr.Code)
		assert.Contains(t, err.Error(), "grant select step")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("names the failing step", func(t *testing.T) {
		conn, mock := newMockConn(t)

		mock.ExpectBegin()
		mock.ExpectExec("CREATE USER 'reporting'@'%' IDENTIFIED BY 's3cret';").
			WillReturnError(&mysql.MySQLError{Number: 1396, Message: "operation failed"})
		mock.ExpectRollback()

		err := CreateReadOnlyUser(context.Background(), conn, spec)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "create user step")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("never exposes the password in errors", func(t *testing.T) {
		conn, mock := newMockConn(t)

		mock.ExpectBegin()
		mock.ExpectExec("CREATE USER 'reporting'@'%' IDENTIFIED BY 's3cret';").
			WillReturnError(&mysql.MySQLError{Number: 1064, Message: "syntax error"})
		mock.ExpectRollback()

		err := CreateReadOnlyUser(context.Background(), conn, spec)
		require.Error(t, err)

		assert.NotContains(t, err.Error(), "s3cret")

		var cmdErr *CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.NotContains(t, cmdErr.Statement, "s3cret")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects incomplete specs", func(t *testing.T) {
		tests := []struct {
			name string
			spec UserSpec
		}{
			{
				name: "missing username",
				spec: UserSpec{Password: "s3cret", Database: "analytics"},
			},
			{
				name: "missing password",
				spec: UserSpec{Username: "reporting", Database: "analytics"},
			},
			{
				name: "missing database",
				spec: UserSpec{Username: "reporting", Password: "s3cret"},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				conn, mock := newMockConn(t)

				err := CreateReadOnlyUser(context.Background(), conn, tt.spec)
				require.Error(t, err)

				var cmdErr *CommandError
				require.ErrorAs(t, err, &cmdErr)
				assert.Contains(t, err.Error(), "required")

				// Nothing may execute for an incomplete spec
				assert.NoError(t, mock.ExpectationsWereMet())
			})
		}
	})
}
