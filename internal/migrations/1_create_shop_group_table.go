package migrations

import (
	"context"

	"github.com/JohnathanALves/reaction/logx"
	"github.com/JohnathanALves/reaction/sqlx"
)

var createShopGroupTableMySQL = `
CREATE TABLE IF NOT EXISTS shop_group
(
  id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  uuid BINARY(16) NOT NULL UNIQUE,
  shop_id VARCHAR(255) NOT NULL,
  name VARCHAR(255) NOT NULL,
  slug VARCHAR(255) NOT NULL,
  version BIGINT NOT NULL DEFAULT 0,
  UNIQUE KEY shop_group_shop_id_name_uindex (shop_id, name),
  KEY shop_group_shop_id_slug_index (shop_id, slug)
)
`

var createShopGroupTablePostgres = `
CREATE TABLE IF NOT EXISTS shop_group
(
	id BIGSERIAL NOT NULL PRIMARY KEY,
	uuid BYTEA NOT NULL UNIQUE,
	shop_id VARCHAR(255) NOT NULL,
	name VARCHAR(255) NOT NULL,
	slug VARCHAR(255) NOT NULL,
	version BIGINT NOT NULL DEFAULT 0,
	CONSTRAINT shop_group_shop_id_name_uindex UNIQUE (shop_id, name)
)`

var createShopGroupSlugIndexPostgres = `
CREATE INDEX IF NOT EXISTS shop_group_shop_id_slug_index ON shop_group (shop_id, slug)
`

var deleteShopGroupTable = `DROP TABLE IF EXISTS shop_group`

func createShopGroupTableUp(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-shop-group-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	var err error

	if tx.Driver() == sqlx.DBDriverMySQL {
		_, err = tx.ExecContext(ctx, createShopGroupTableMySQL)
	} else {
		_, err = tx.ExecContext(ctx, createShopGroupTablePostgres)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, createShopGroupSlugIndexPostgres)
	}
	return err
}

func createShopGroupTableDown(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-shop-group-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	_, err := tx.ExecContext(ctx,
		deleteShopGroupTable)

	return err
}
