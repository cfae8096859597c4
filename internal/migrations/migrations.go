package migrations

import (
	"github.com/JohnathanALves/reaction/sqlx"
)

var TableName = "reaction_migrations"

var Migrations = []sqlx.Migration{
	{
		Name: "create_shop_group_table",
		Up:   createShopGroupTableUp,
		Down: createShopGroupTableDown,
	},
	{
		Name: "create_group_permission_table",
		Up:   createGroupPermissionTableUp,
		Down: createGroupPermissionTableDown,
	},
	{
		Name: "create_group_membership_table",
		Up:   createGroupMembershipTableUp,
		Down: createGroupMembershipTableDown,
	},
	{
		Name: "create_user_shop_permission_table",
		Up:   createUserShopPermissionTableUp,
		Down: createUserShopPermissionTableDown,
	},
	{
		Name: "create_default_group_table",
		Up:   createDefaultGroupTableUp,
		Down: createDefaultGroupTableDown,
	},
}
