package sqlx

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	uuid "github.com/satori/go.uuid"
)

type DBDriver string

const (
	DBDriverMySQL    DBDriver = "mysql"
	DBDriverPostgres DBDriver = "postgres"
)

const (
	pingAttempts = 10
	pingInterval = 100 * time.Millisecond
)

type DBOption func(*dbConfig)

func DBUsername(username string) DBOption {
	return func(c *dbConfig) {
		c.username = username
	}
}

func DBPassword(password string) DBOption {
	return func(c *dbConfig) {
		c.password = password
	}
}

func DBDatabaseName(dbName string) DBOption {
	return func(c *dbConfig) {
		c.dbName = dbName
	}
}

func DBHost(host string) DBOption {
	return func(c *dbConfig) {
		c.host = host
	}
}

func DBPort(port int) DBOption {
	return func(c *dbConfig) {
		c.port = port
	}
}

func DBConnectionMaxLifetime(max time.Duration) DBOption {
	return func(c *dbConfig) {
		c.connMaxLifetime = max
	}
}

func DBRootCAPool(rootCAPool *x509.CertPool) DBOption {
	return func(c *dbConfig) {
		c.tlsConfig = &tls.Config{
			RootCAs:    rootCAPool,
			MinVersion: tls.VersionTLS12,
		}
	}
}

// DBRequireTLS demands an encrypted connection verified against the
// system roots. DBRootCAPool supersedes it when both are set.
func DBRequireTLS() DBOption {
	return func(c *dbConfig) {
		c.requireTLS = true
	}
}

// DB is a driver-aware database handle. The driver decides placeholder
// style and dialect-specific SQL further up the stack.
type DB struct {
	Conn *sql.DB

	driver DBDriver
}

// NewDB wraps an existing connection. Used when the caller manages the
// connection lifecycle, e.g. in tests.
func NewDB(conn *sql.DB, driver DBDriver) *DB {
	return &DB{
		Conn:   conn,
		driver: driver,
	}
}

// Connect opens a handle and waits for the server to answer pings,
// giving up after a bounded number of attempts.
func Connect(driver DBDriver, options ...DBOption) (*DB, error) {
	cfg := &dbConfig{}

	for _, opt := range options {
		opt(cfg)
	}

	db, err := open(driver, cfg)
	if err != nil {
		return nil, err
	}

	db.Conn.SetConnMaxLifetime(cfg.connMaxLifetime)

	for attempt := 0; attempt < pingAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(pingInterval)
		}

		if err = db.Ping(); err == nil {
			return db, nil
		}
	}

	if err = db.Close(); err != nil {
		return nil, err
	}

	return nil, ErrFailedToEstablishConnection
}

func (db *DB) Driver() DBDriver {
	return db.driver
}

func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.Conn.Exec(query, args...)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return db.Conn.ExecContext(ctx, query, args...)
}

func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.Conn.Query(query, args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.Conn.QueryContext(ctx, query, args...)
}

func (db *DB) QueryRow(query string, args ...interface{}) squirrel.RowScanner {
	return db.Conn.QueryRow(query, args...)
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) squirrel.RowScanner {
	return db.Conn.QueryRowContext(ctx, query, args...)
}

// BeginTx generates a driver-aware transaction, with the driver
// duplicated from the driver-aware connection.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.Conn.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &Tx{
		tx:     tx,
		driver: db.driver,
	}, nil
}

func (db *DB) Close() error {
	return db.Conn.Close()
}

func (db *DB) Ping() error {
	return db.Conn.Ping()
}

// StatementBuilder returns a squirrel builder with the placeholder
// format the driver expects.
func StatementBuilder(driver DBDriver) squirrel.StatementBuilderType {
	if driver == DBDriverPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}

	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

func open(driver DBDriver, cfg *dbConfig) (*DB, error) {
	var dataSourceName string
	var err error

	switch driver {
	case DBDriverMySQL:
		dataSourceName, err = cfg.dataSourceNameMySQL()
	case DBDriverPostgres:
		dataSourceName, err = cfg.dataSourceNamePostgres()
	default:
		return nil, ErrUnsupportedSQLDriver
	}

	if err != nil {
		return nil, err
	}

	db, err := sql.Open(string(driver), dataSourceName)
	if err != nil {
		return nil, err
	}

	return &DB{
		Conn:   db,
		driver: driver,
	}, nil
}

type dbConfig struct {
	username string
	password string
	dbName   string
	host     string
	port     int

	tlsConfig  *tls.Config
	requireTLS bool

	connMaxLifetime time.Duration
}

func (c *dbConfig) dataSourceNameMySQL() (string, error) {
	cfg := mysql.NewConfig()
	cfg.User = c.username
	cfg.Passwd = c.password
	cfg.DBName = c.dbName
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.host, strconv.Itoa(c.port))
	cfg.ParseTime = true

	switch {
	case c.tlsConfig != nil:
		tlsConfigName := uuid.NewV4().String()
		if err := mysql.RegisterTLSConfig(tlsConfigName, c.tlsConfig); err != nil {
			return "", err
		}

		cfg.TLSConfig = tlsConfigName
	case c.requireTLS:
		cfg.TLSConfig = "true"
	}

	return cfg.FormatDSN(), nil
}

func (c *dbConfig) dataSourceNamePostgres() (string, error) {
	params := []string{
		fmt.Sprintf("host=%s", c.host),
		fmt.Sprintf("port=%d", c.port),
	}

	if c.username != "" {
		params = append(params, fmt.Sprintf("user=%s", c.username))
	}
	if c.password != "" {
		params = append(params, fmt.Sprintf("password=%s", c.password))
	}
	if c.dbName != "" {
		params = append(params, fmt.Sprintf("dbname=%s", c.dbName))
	}

	// lib/pq does not accept a caller-supplied tls.Config; the CA pool
	// option only toggles server certificate verification.
	switch {
	case c.tlsConfig != nil:
		params = append(params, "sslmode=verify-full")
	case c.requireTLS:
		params = append(params, "sslmode=require")
	default:
		params = append(params, "sslmode=disable")
	}

	return strings.Join(params, " "), nil
}
