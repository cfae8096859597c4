package sqlxtest

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"code.cloudfoundry.org/lager/lagertest"
	uuid "github.com/satori/go.uuid"

	"github.com/JohnathanALves/reaction/logx/lagerx"
	"github.com/JohnathanALves/reaction/sqlx"
)

const adminCmdTimeout = 5 * time.Second

// TestDB provisions a disposable database for a suite run: Create
// brings it up and applies migrations, Drop removes it again.
type TestDB interface {
	Create(migrations ...sqlx.Migration) error
	Drop() error
	Connect() (*sqlx.DB, error)
	Truncate(truncateStmts ...string) error
}

type TestDBOption func(*options)

func DBHost(host string) TestDBOption {
	return func(o *options) {
		o.host = host
	}
}

func DBPort(port int) TestDBOption {
	return func(o *options) {
		o.port = strconv.Itoa(port)
	}
}

func DBDatabase(database string) TestDBOption {
	return func(o *options) {
		o.database = database
	}
}

func DBUser(user string) TestDBOption {
	return func(o *options) {
		o.user = user
	}
}

func DBPassword(password string) TestDBOption {
	return func(o *options) {
		o.password = password
	}
}

type options struct {
	host     string
	port     string
	database string
	user     string
	password string
}

// dialect is the server-specific slice of a TestDB: which driver to
// connect with, which environment variables configure it, and how to
// run an administrative statement outside the test database.
type dialect struct {
	driver      sqlx.DBDriver
	defaultPort string
	defaultUser string
	envHost     string
	envPort     string
	envDatabase string
	envUser     string
	envPassword string
	adminCmd    func(ctx context.Context, o *options, stmt string) *exec.Cmd
}

type testDB struct {
	dialect dialect
	options *options
}

func newTestDB(d dialect, opts ...TestDBOption) *testDB {
	o := &options{
		host:     envOr(d.envHost, "localhost"),
		port:     envOr(d.envPort, d.defaultPort),
		database: envOr(d.envDatabase, randomDatabaseName()),
		user:     envOr(d.envUser, d.defaultUser),
		password: os.Getenv(d.envPassword),
	}

	for _, opt := range opts {
		opt(o)
	}

	return &testDB{
		dialect: d,
		options: o,
	}
}

func (db *testDB) Create(migrations ...sqlx.Migration) error {
	if err := db.admin("CREATE DATABASE " + db.options.database); err != nil {
		return err
	}

	conn, err := db.Connect()
	if err != nil {
		_ = db.Drop()
		return err
	}
	defer conn.Close()

	logger := lagerx.NewLogger(lagertest.NewTestLogger("test-db"))
	if err := sqlx.ApplyMigrations(context.Background(), logger, conn, "migrations", migrations); err != nil {
		_ = db.Drop()
		return err
	}

	return nil
}

func (db *testDB) Drop() error {
	return db.admin("DROP DATABASE " + db.options.database)
}

func (db *testDB) Connect() (*sqlx.DB, error) {
	port, err := strconv.Atoi(db.options.port)
	if err != nil {
		return nil, err
	}

	return sqlx.Connect(
		db.dialect.driver,
		sqlx.DBUsername(db.options.user),
		sqlx.DBPassword(db.options.password),
		sqlx.DBHost(db.options.host),
		sqlx.DBPort(port),
		sqlx.DBDatabaseName(db.options.database),
	)
}

func (db *testDB) Truncate(truncateStmts ...string) error {
	conn, err := db.Connect()
	if err != nil {
		return err
	}
	defer conn.Close()

	for _, stmt := range truncateStmts {
		if _, err := conn.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

func (db *testDB) admin(stmt string) error {
	ctx, cancel := context.WithTimeout(context.Background(), adminCmdTimeout)
	defer cancel()

	_, err := db.dialect.adminCmd(ctx, db.options, stmt).Output()

	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func randomDatabaseName() string {
	return "test_" + strings.Replace(uuid.NewV4().String(), "-", "_", -1)
}
