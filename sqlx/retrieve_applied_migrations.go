package sqlx

import (
	"context"

	"github.com/JohnathanALves/reaction/logx"
)

// RetrieveAppliedMigrations reads the bookkeeping table and returns
// the applied migrations keyed by version.
func RetrieveAppliedMigrations(
	ctx context.Context,
	logger logx.Logger,
	conn *DB,
	tableName string,
) (map[int]AppliedMigration, error) {
	rows, err := StatementBuilder(conn.Driver()).
		Select("version", "name", "applied_at").
		From(tableName).
		RunWith(conn).
		QueryContext(ctx)
	if err != nil {
		logger.Error(failedToQueryMigrations, err)
		return nil, err
	}
	defer rows.Close()

	versions := make(map[int]AppliedMigration)
	for rows.Next() {
		var m AppliedMigration
		if err := rows.Scan(&m.Version, &m.Name, &m.AppliedAt); err != nil {
			logger.Error(failedToScanAppliedMigration, err)
			return nil, err
		}

		versions[m.Version] = m
	}

	if err := rows.Err(); err != nil {
		logger.Error(failedToQueryMigrations, err)
		return nil, err
	}

	return versions, nil
}
