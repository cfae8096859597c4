package migrations

import (
	"context"

	"github.com/JohnathanALves/reaction/logx"
	"github.com/JohnathanALves/reaction/sqlx"
)

// The effective-permission projection has no foreign key into
// shop_group: rows survive the group they were projected from and are
// only ever rewritten wholesale per (user, shop).
var createUserShopPermissionTableMySQL = `
CREATE TABLE IF NOT EXISTS user_shop_permission
(
  id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  user_id VARCHAR(255) NOT NULL,
  shop_id VARCHAR(255) NOT NULL,
  permission VARCHAR(255) NOT NULL,
  rank_order INT NOT NULL DEFAULT 0,
  UNIQUE KEY user_shop_permission_uindex (user_id, shop_id, permission),
  KEY user_shop_permission_user_id_shop_id_index (user_id, shop_id)
)
`

var createUserShopPermissionTablePostgres = `
CREATE TABLE IF NOT EXISTS user_shop_permission
(
	id BIGSERIAL NOT NULL PRIMARY KEY,
	user_id VARCHAR(255) NOT NULL,
	shop_id VARCHAR(255) NOT NULL,
	permission VARCHAR(255) NOT NULL,
	rank_order INT NOT NULL DEFAULT 0,
	CONSTRAINT user_shop_permission_uindex UNIQUE (user_id, shop_id, permission)
)`

var createUserShopPermissionIndexPostgres = `
CREATE INDEX IF NOT EXISTS user_shop_permission_user_id_shop_id_index ON user_shop_permission (user_id, shop_id)
`

var deleteUserShopPermissionTable = `DROP TABLE IF EXISTS user_shop_permission`

func createUserShopPermissionTableUp(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-user-shop-permission-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	var err error

	if tx.Driver() == sqlx.DBDriverMySQL {
		_, err = tx.ExecContext(ctx, createUserShopPermissionTableMySQL)
	} else {
		_, err = tx.ExecContext(ctx, createUserShopPermissionTablePostgres)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, createUserShopPermissionIndexPostgres)
	}
	return err
}

func createUserShopPermissionTableDown(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-user-shop-permission-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	_, err := tx.ExecContext(ctx, deleteUserShopPermissionTable)

	return err
}
