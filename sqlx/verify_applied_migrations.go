package sqlx

import (
	"context"

	"github.com/JohnathanALves/reaction/logx"
)

// VerifyAppliedMigrations reports whether the bookkeeping table holds
// exactly the given migrations, matched by version and name.
func VerifyAppliedMigrations(
	ctx context.Context,
	logger logx.Logger,
	conn *DB,
	tableName string,
	migrations []Migration,
) (bool, error) {
	applied, err := RetrieveAppliedMigrations(ctx, logger.WithName("retrieve-applied-migrations"), conn, tableName)
	if err != nil {
		return false, err
	}

	if len(applied) != len(migrations) {
		logger.Info(migrationCountMismatch,
			logx.Data{Key: "expected", Value: len(migrations)},
			logx.Data{Key: "applied", Value: len(applied)},
		)
		return false, nil
	}

	for version, migration := range migrations {
		appliedMigration, ok := applied[version]
		switch {
		case !ok:
			logger.Info(migrationNotFound, logx.Data{Key: "name", Value: migration.Name})
			return false, nil
		case appliedMigration.Name != migration.Name:
			logger.Info(migrationMismatch,
				logx.Data{Key: "expected_name", Value: migration.Name},
				logx.Data{Key: "applied_name", Value: appliedMigration.Name},
			)
			return false, nil
		}
	}

	logger.Debug(success)

	return true, nil
}
