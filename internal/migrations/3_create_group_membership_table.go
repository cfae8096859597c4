package migrations

import (
	"context"

	"github.com/JohnathanALves/reaction/logx"
	"github.com/JohnathanALves/reaction/sqlx"
)

var createGroupMembershipTableMySQL = `
CREATE TABLE IF NOT EXISTS group_membership
(
  id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  group_id BIGINT NOT NULL,
  user_id VARCHAR(255) NOT NULL,
  UNIQUE KEY group_membership_group_id_user_id_uindex (group_id, user_id),
  KEY group_membership_user_id_index (user_id)
)
`

var createGroupMembershipTablePostgres = `
CREATE TABLE IF NOT EXISTS group_membership
(
	id BIGSERIAL NOT NULL PRIMARY KEY,
	group_id BIGINT NOT NULL,
	user_id VARCHAR(255) NOT NULL,
	CONSTRAINT group_membership_group_id_user_id_uindex UNIQUE (group_id, user_id)
)`

var createGroupMembershipUserIndexPostgres = `
CREATE INDEX IF NOT EXISTS group_membership_user_id_index ON group_membership (user_id)
`

var addGroupMembershipGroupIDForeignKey = `
ALTER TABLE
	group_membership
ADD CONSTRAINT
	group_membership_group_id_fkey
FOREIGN KEY(group_id) REFERENCES shop_group(id)
ON DELETE CASCADE
`

var deleteGroupMembershipTable = `DROP TABLE IF EXISTS group_membership`

func createGroupMembershipTableUp(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-group-membership-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	var err error

	if tx.Driver() == sqlx.DBDriverMySQL {
		_, err = tx.ExecContext(ctx, createGroupMembershipTableMySQL)
	} else {
		_, err = tx.ExecContext(ctx, createGroupMembershipTablePostgres)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, createGroupMembershipUserIndexPostgres)
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, addGroupMembershipGroupIDForeignKey)

	return err
}

func createGroupMembershipTableDown(ctx context.Context, logger logx.Logger, tx *sqlx.Tx) error {
	logger = logger.WithName("create-group-membership-table")
	logger.Debug(starting)
	defer logger.Debug(finished)

	_, err := tx.ExecContext(ctx, deleteGroupMembershipTable)

	return err
}
