package migrations

import (
	"context"

	"github.com/JohnathanALves/reaction/logx"
	"github.com/JohnathanALves/reaction/sqlx"
)

var createGroupPermissionTableMySQL = `
CREATE TABLE IF NOT EXISTS group_permission
(
  id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  group_id BIGINT NOT NULL,
  permission VARCHAR(255) NOT NULL,
  rank_order INT NOT NULL DEFAULT 0,
  UNIQUE KEY group_permission_group_id_permission_uindex (group_id, permission)
)
`

var createGroupPermissionTablePostgres = `
CREATE TABLE IF NOT EXISTS group_permission
(
	id BIGSERIAL NOT NULL PRIMARY KEY,
	group_id BIGINT NOT NULL,
	permission VARCHAR(255) NOT NULL,
	rank_order INT NOT NULL DEFAULT 0,
	CONSTRAINT group_permission_group_id_permission_uindex UNIQUE (group_id, permission)
)`

var addGroupPermissionGroupIDForeignKey = `
ALTER TABLE
	group_permission
ADD CONSTRAINT
	group_permission_group_id_fkey
FOREIGN KEY(group_id) REFERENCES shop_group(id)
ON DELETE CASCADE
`

var deleteGroupPermissionTable = `DROP TABLE IF EXISTS group_permission`

func createGroupPermissionTableUp(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-group-permission-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	var err error

	if tx.Driver() == sqlx.DBDriverMySQL {
		_, err = tx.ExecContext(ctx, createGroupPermissionTableMySQL)
	} else {
		_, err = tx.ExecContext(ctx, createGroupPermissionTablePostgres)
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, addGroupPermissionGroupIDForeignKey)

	return err
}

func createGroupPermissionTableDown(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-group-permission-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	_, err := tx.ExecContext(ctx, deleteGroupPermissionTable)

	return err
}
