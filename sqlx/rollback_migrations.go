package sqlx

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/JohnathanALves/reaction/logx"
)

// RollbackMigrations undoes applied migrations from the most recent
// down, one per call unless all is set. Each rollback runs in its own
// transaction together with the delete of its bookkeeping row.
func RollbackMigrations(
	ctx context.Context,
	logger logx.Logger,
	conn *DB,
	tableName string,
	migrations []Migration,
	all bool,
) error {
	migrationsLogger := logger.WithName("rollback-migrations").WithData(logx.Data{Key: "table_name", Value: tableName})

	migrationsLogger.Info(starting)
	if len(migrations) == 0 {
		return nil
	}

	applied, err := RetrieveAppliedMigrations(ctx, migrationsLogger, conn, tableName)
	if err != nil {
		return err
	}
	migrationsLogger.Debug(retrievedAppliedMigrations, logx.Data{Key: "versions", Value: applied})

	var pending []int
	for version := len(migrations) - 1; version >= 0; version-- {
		if _, ok := applied[version]; !ok {
			migrationsLogger.Debug(skippedUnappliedMigration, logx.Data{Key: "version", Value: version})
			continue
		}

		pending = append(pending, version)
	}

	if !all && len(pending) > 1 {
		pending = pending[:1]
	}

	for _, version := range pending {
		migration := migrations[version]
		migrationLogger := logger.WithData(logx.Data{Key: "version", Value: version}, logx.Data{Key: "name", Value: migration.Name})

		if err := revertMigration(ctx, migrationLogger, conn, tableName, version, migration); err != nil {
			return err
		}
	}

	return nil
}

func revertMigration(
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
			logger.Error(failedToRollbackMigration, err)
		}
		err = Commit(logger, tx, err)
	}()

	if err = migration.Down(ctx, logger, tx); err != nil {
		return
	}

	_, err = StatementBuilder(conn.Driver()).
		Delete(tableName).
		Where(squirrel.Eq{"version": version}).
		RunWith(tx).
		ExecContext(ctx)

	logger.Debug(finished)

	return
}
