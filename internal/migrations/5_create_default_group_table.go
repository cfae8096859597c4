package migrations

import (
	"context"

	"github.com/JohnathanALves/reaction/logx"
	"github.com/JohnathanALves/reaction/sqlx"
)

var createDefaultGroupTableMySQL = `
CREATE TABLE IF NOT EXISTS default_group
(
  id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  shop_id VARCHAR(255) NOT NULL UNIQUE,
  group_id BIGINT NOT NULL
)
`

var createDefaultGroupTablePostgres = `
CREATE TABLE IF NOT EXISTS default_group
(
	id BIGSERIAL NOT NULL PRIMARY KEY,
	shop_id VARCHAR(255) NOT NULL UNIQUE,
	group_id BIGINT NOT NULL
)`

var addDefaultGroupGroupIDForeignKey = `
ALTER TABLE
	default_group
ADD CONSTRAINT
	default_group_group_id_fkey
FOREIGN KEY(group_id) REFERENCES shop_group(id)
ON DELETE CASCADE
`

var deleteDefaultGroupTable = `DROP TABLE IF EXISTS default_group`

func createDefaultGroupTableUp(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-default-group-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	var err error

	if tx.Driver() == sqlx.DBDriverMySQL {
		_, err = tx.ExecContext(ctx, createDefaultGroupTableMySQL)
	} else {
		_, err = tx.ExecContext(ctx, createDefaultGroupTablePostgres)
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, addDefaultGroupGroupIDForeignKey)

	return err
}

func createDefaultGroupTableDown(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-default-group-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	_, err := tx.ExecContext(ctx, deleteDefaultGroupTable)

	return err
}
