package sqlxtest

import (
	"context"
	"os"
	"os/exec"

	"github.com/JohnathanALves/reaction/sqlx"
)

const (
	TestPostgresHost     = "TEST_POSTGRES_HOST"
	TestPostgresPort     = "TEST_POSTGRES_PORT"
	TestPostgresDatabase = "TEST_POSTGRES_DATABASE"
	TestPostgresUsername = "TEST_POSTGRES_USERNAME"
	TestPostgresPassword = "TEST_POSTGRES_PASSWORD"
)

// PostgresConfigured reports whether the environment points at a
// Postgres server for tests.
func PostgresConfigured() bool {
	return os.Getenv(TestPostgresHost) != ""
}

// NewTestPostgresDB builds a TestDB administered through psql, with
// statements run against the server's maintenance database.
func NewTestPostgresDB(opts ...TestDBOption) TestDB {
	return newTestDB(postgresDialect, opts...)
}

var postgresDialect = dialect{
	driver:      sqlx.DBDriverPostgres,
	defaultPort: "5432",
	defaultUser: "postgres",
	envHost:     TestPostgresHost,
	envPort:     TestPostgresPort,
	envDatabase: TestPostgresDatabase,
	envUser:     TestPostgresUsername,
	envPassword: TestPostgresPassword,
	adminCmd: func(ctx context.Context, o *options, stmt string) *exec.Cmd {
		cmd := exec.CommandContext(
			ctx,
			"psql",
			"--host", o.host,
			"--port", o.port,
			"--username", o.user,
			"--dbname", "postgres",
			"-c", stmt,
		)
		cmd.Env = append(os.Environ(), "PGPASSWORD="+o.password)

		return cmd
	},
}
