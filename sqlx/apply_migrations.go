package sqlx

import (
	"context"
	"fmt"
	"time"

	"github.com/JohnathanALves/reaction/logx"
)

const (
	createMigrationsTableMySQL = "CREATE TABLE IF NOT EXISTS `%s` (id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY, version INTEGER, name VARCHAR(255), applied_at DATETIME)"

	createMigrationsTablePostgres = `CREATE TABLE IF NOT EXISTS %s (id BIGSERIAL NOT NULL PRIMARY KEY, version INTEGER, name VARCHAR(255), applied_at TIMESTAMP)`
)

// ApplyMigrations creates the bookkeeping table when missing and runs
// every migration without a row in it, each inside its own transaction
// together with its bookkeeping insert.
func ApplyMigrations(
	ctx context.Context,
	logger logx.Logger,
	conn *DB,
	tableName string,
	migrations []Migration,
) error {
	createTableLogger := logger.WithName("create-migrations-table").WithData(logx.Data{Key: "table_name", Value: tableName})
	if err := createMigrationsTable(ctx, createTableLogger, conn, tableName); err != nil {
		return err
	}

	if len(migrations) == 0 {
		return nil
	}

	migrationsLogger := logger.WithName("apply-migrations").WithData(logx.Data{Key: "table_name", Value: tableName})

	applied, err := RetrieveAppliedMigrations(ctx, migrationsLogger, conn, tableName)
	if err != nil {
		return err
	}
	migrationsLogger.Debug(retrievedAppliedMigrations, logx.Data{Key: "versions", Value: applied})

	for version, migration := range migrations {
		migrationLogger := logger.WithData(logx.Data{Key: "version", Value: version}, logx.Data{Key: "name", Value: migration.Name})

		if _, ok := applied[version]; ok {
			migrationLogger.Debug(skippedAppliedMigration)
			continue
		}

		if err := applyMigration(ctx, migrationLogger, conn, tableName, version, migration); err != nil {
			return err
		}
	}

	return nil
}

func createMigrationsTable(
	ctx context.Context,
	logger logx.Logger,
	conn *DB,
	tableName string,
) (err error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		logger.Error(failedToStartTransaction, err)
		return
	}

	defer func() {
		if err != nil {
			logger.Error(failedToCreateTable, err)
		}
		err = Commit(logger, tx, err)
	}()

	_, err = tx.ExecContext(ctx, createMigrationsTableStatement(conn.Driver(), tableName))

	return
}

func createMigrationsTableStatement(driver DBDriver, tableName string) string {
	if driver == DBDriverPostgres {
		return fmt.Sprintf(createMigrationsTablePostgres, tableName)
	}

	return fmt.Sprintf(createMigrationsTableMySQL, tableName)
}

func applyMigration(
	ctx context.Context,
	logger logx.Logger,
	conn *DB,
	tableName string,
	version int,
	migration Migration,
) (err error) {
	logger.Debug(starting)

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		logger.Error(failedToStartTransaction, err)
		return
	}

	defer func() {
		if err != nil {
			logger.Error(failedToApplyMigration, err)
		}
		err = Commit(logger, tx, err)
	}()

	if err = migration.Up(ctx, logger, tx); err != nil {
		return
	}

	_, err = StatementBuilder(conn.Driver()).
		Insert(tableName).
		Columns("version", "name", "applied_at").
		Values(version, migration.Name, time.Now()).
		RunWith(tx).
		ExecContext(ctx)

	logger.Debug(finished)

	return
}
