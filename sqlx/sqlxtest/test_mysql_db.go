package sqlxtest

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/JohnathanALves/reaction/sqlx"
)

const (
	TestMySQLHost     = "TEST_MYSQL_HOST"
	TestMySQLPort     = "TEST_MYSQL_PORT"
	TestMySQLDatabase = "TEST_MYSQL_DATABASE"
	TestMySQLUsername = "TEST_MYSQL_USERNAME"
	TestMySQLPassword = "TEST_MYSQL_PASSWORD"
)

// MySQLConfigured reports whether the environment points at a MySQL
// server for tests. Suites skip their MySQL specs when it is false.
func MySQLConfigured() bool {
	return os.Getenv(TestMySQLHost) != ""
}

// NewTestMySQLDB builds a TestDB administered through the mysql client
// binary.
func NewTestMySQLDB(opts ...TestDBOption) TestDB {
	return newTestDB(mysqlDialect, opts...)
}

var mysqlDialect = dialect{
	driver:      sqlx.DBDriverMySQL,
	defaultPort: "3306",
	defaultUser: "root",
	envHost:     TestMySQLHost,
	envPort:     TestMySQLPort,
	envDatabase: TestMySQLDatabase,
	envUser:     TestMySQLUsername,
	envPassword: TestMySQLPassword,
	adminCmd: func(ctx context.Context, o *options, stmt string) *exec.Cmd {
		return exec.CommandContext(
			ctx,
			"mysql",
			"--host", o.host,
			"--port", o.port,
			"--user", o.user,
			fmt.Sprintf("--password=%s", o.password),
			"-e", stmt,
		)
	},
}
