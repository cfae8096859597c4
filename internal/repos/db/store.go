package db

import (
	"context"
	"database/sql"

	"github.com/JohnathanALves/reaction"
	"github.com/JohnathanALves/reaction/logx"
	"github.com/JohnathanALves/reaction/sqlx"
	"github.com/Masterminds/squirrel"
	"github.com/satori/go.uuid"
)

type Store struct {
	conn *sqlx.DB
}

func NewStore(conn *sqlx.DB) *Store {
	return &Store{
		conn: conn,
	}
}

// runner is satisfied by both *sqlx.DB and *sqlx.Tx so the statement
// helpers below can run inside or outside a transaction.
type runner interface {
	squirrel.BaseRunner
	Driver() sqlx.DBDriver
}

func createGroup(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	shopID string,
	name string,
	slug string,
	permissions ...string,
) (group, error) {
	logger = logger.WithName("create-group").WithData(
		logx.Data{Key: "group.shop_id", Value: shopID},
		logx.Data{Key: "group.name", Value: name},
	)
	u := uuid.NewV4()

	_, err := sqlx.StatementBuilder(conn.Driver()).
		Insert("shop_group").
		Columns("uuid", "shop_id", "name", "slug", "version").
		Values(u.Bytes(), shopID, name, slug, 0).
		RunWith(conn).
		ExecContext(ctx)

	switch {
	case err == nil:
	case isDuplicateKeyError(err):
		logger.Debug(errGroupAlreadyExists)
		return group{}, reaction.ErrGroupAlreadyExists
	default:
		logger.Error(failedToCreateGroup, err)
		return group{}, err
	}

	groupID, err := findGroupID(ctx, logger, conn, u.Bytes())
	if err != nil {
		return group{}, err
	}

	err = createGroupPermissions(ctx, logger, conn, groupID, permissions)
	if err != nil {
		return group{}, err
	}

	return group{
		id: groupID,
		Group: reaction.Group{
			ID:          u.String(),
			ShopID:      shopID,
			Name:        name,
			Slug:        slug,
			Permissions: permissions,
		},
	}, nil
}

// findGroupID resolves a row's internal key from its uuid. lib/pq has no
// LastInsertId, so inserts on both drivers re-read the key this way.
func findGroupID(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	uuidBytes []byte,
) (int64, error) {
	logger = logger.WithName("find-group-id")

	var id int64
	err := sqlx.StatementBuilder(conn.Driver()).
		Select("id").
		From("shop_group").
		Where(squirrel.Eq{"uuid": uuidBytes}).
		RunWith(conn).
		ScanContext(ctx, &id)

	switch err {
	case nil:
		return id, nil
	case sql.ErrNoRows:
		logger.Debug(errGroupNotFound)
		return 0, reaction.ErrGroupNotFound
	default:
		logger.Error(failedToFindGroup, err)
		return 0, err
	}
}

func findGroup(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	requestedGroupID string,
) (group, error) {
	logger = logger.WithName("find-group").WithData(
		logx.Data{Key: "group.id", Value: requestedGroupID},
	)

	u, err := uuid.FromString(requestedGroupID)
	if err != nil {
		logger.Debug(errGroupNotFound)
		return group{}, reaction.ErrGroupNotFound
	}

	var (
		id      int64
		shopID  string
		name    string
		slug    string
		version int64
	)

	err = sqlx.StatementBuilder(conn.Driver()).
		Select("id", "shop_id", "name", "slug", "version").
		From("shop_group").
		Where(squirrel.Eq{"uuid": u.Bytes()}).
		RunWith(conn).
		ScanContext(ctx, &id, &shopID, &name, &slug, &version)

	switch err {
	case nil:
	case sql.ErrNoRows:
		logger.Debug(errGroupNotFound)
		return group{}, reaction.ErrGroupNotFound
	default:
		logger.Error(failedToFindGroup, err)
		return group{}, err
	}

	permissions, err := findGroupPermissions(ctx, logger, conn, id)
	if err != nil {
		return group{}, err
	}

	return group{
		id: id,
		Group: reaction.Group{
			ID:          u.String(),
			ShopID:      shopID,
			Name:        name,
			Slug:        slug,
			Permissions: permissions,
			Version:     version,
		},
	}, nil
}

func findGroupBySlug(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	shopID string,
	slug string,
) (group, error) {
	logger = logger.WithName("find-group-by-slug").WithData(
		logx.Data{Key: "group.shop_id", Value: shopID},
		logx.Data{Key: "group.slug", Value: slug},
	)

	var (
		id        int64
		uuidBytes []byte
		name      string
		version   int64
	)

	err := sqlx.StatementBuilder(conn.Driver()).
		Select("id", "uuid", "name", "version").
		From("shop_group").
		Where(squirrel.Eq{"shop_id": shopID, "slug": slug}).
		OrderBy("id").
		Limit(1).
		RunWith(conn).
		ScanContext(ctx, &id, &uuidBytes, &name, &version)

	switch err {
	case nil:
	case sql.ErrNoRows:
		logger.Debug(errGroupNotFound)
		return group{}, reaction.ErrGroupNotFound
	default:
		logger.Error(failedToFindGroup, err)
		return group{}, err
	}

	u, err := uuid.FromBytes(uuidBytes)
	if err != nil {
		logger.Error(failedToParseUUID, err)
		return group{}, err
	}

	permissions, err := findGroupPermissions(ctx, logger, conn, id)
	if err != nil {
		return group{}, err
	}

	return group{
		id: id,
		Group: reaction.Group{
			ID:          u.String(),
			ShopID:      shopID,
			Name:        name,
			Slug:        slug,
			Permissions: permissions,
			Version:     version,
		},
	}, nil
}

func updateGroup(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	g reaction.Group,
) (group, error) {
	logger = logger.WithName("update-group").WithData(
		logx.Data{Key: "group.id", Value: g.ID},
	)

	u, err := uuid.FromString(g.ID)
	if err != nil {
		logger.Debug(errGroupNotFound)
		return group{}, reaction.ErrGroupNotFound
	}

	// The version bump guarantees a matched row counts as changed on MySQL.
	result, err := sqlx.StatementBuilder(conn.Driver()).
		Update("shop_group").
		Set("name", g.Name).
		Set("slug", g.Slug).
		Set("version", g.Version+1).
		Where(squirrel.Eq{"uuid": u.Bytes(), "version": g.Version}).
		RunWith(conn).
		ExecContext(ctx)

	switch {
	case err == nil:
	case isDuplicateKeyError(err):
		logger.Debug(errGroupAlreadyExists)
		return group{}, reaction.ErrGroupAlreadyExists
	default:
		logger.Error(failedToUpdateGroup, err)
		return group{}, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		logger.Error(failedToCountRowsAffected, err)
		return group{}, err
	}

	groupID, err := findGroupID(ctx, logger, conn, u.Bytes())
	if err != nil {
		return group{}, err
	}

	if n == 0 {
		logger.Debug(errGroupConflict)
		return group{}, reaction.ErrGroupConflict
	}

	err = deleteGroupPermissions(ctx, logger, conn, groupID)
	if err != nil {
		return group{}, err
	}

	err = createGroupPermissions(ctx, logger, conn, groupID, g.Permissions)
	if err != nil {
		return group{}, err
	}

	return group{
		id: groupID,
		Group: reaction.Group{
			ID:          u.String(),
			ShopID:      g.ShopID,
			Name:        g.Name,
			Slug:        g.Slug,
			Permissions: g.Permissions,
			Version:     g.Version + 1,
		},
	}, nil
}

func listShopGroups(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	shopID string,
) ([]group, error) {
	logger = logger.WithName("list-shop-groups").WithData(
		logx.Data{Key: "group.shop_id", Value: shopID},
	)

	rows, err := sqlx.StatementBuilder(conn.Driver()).
		Select("id", "uuid", "name", "slug", "version").
		From("shop_group").
		Where(squirrel.Eq{"shop_id": shopID}).
		OrderBy("name").
		RunWith(conn).
		QueryContext(ctx)
	if err != nil {
		logger.Error(failedToListGroups, err)
		return nil, err
	}
	defer rows.Close()

	var groups []group
	for rows.Next() {
		var (
			id        int64
			uuidBytes []byte
			name      string
			slug      string
			version   int64
		)
		e := rows.Scan(&id, &uuidBytes, &name, &slug, &version)
		if e != nil {
			logger.Error(failedToScanRow, e)
			return nil, e
		}

		u, e := uuid.FromBytes(uuidBytes)
		if e != nil {
			logger.Error(failedToParseUUID, e)
			return nil, e
		}

		groups = append(groups, group{
			id: id,
			Group: reaction.Group{
				ID:      u.String(),
				ShopID:  shopID,
				Name:    name,
				Slug:    slug,
				Version: version,
			},
		})
	}

	err = rows.Err()
	if err != nil {
		logger.Error(failedToIterateOverRows, err)
		return nil, err
	}

	for i := range groups {
		permissions, err := findGroupPermissions(ctx, logger, conn, groups[i].id)
		if err != nil {
			return nil, err
		}
		groups[i].Permissions = permissions
	}

	return groups, nil
}

func createGroupPermissions(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	groupID int64,
	permissions []string,
) error {
	logger = logger.WithName("create-group-permissions").WithData(
		logx.Data{Key: "group.id", Value: groupID},
	)

	for i, permission := range permissions {
		_, err := sqlx.StatementBuilder(conn.Driver()).
			Insert("group_permission").
			Columns("group_id", "permission", "rank_order").
			Values(groupID, permission, i).
			RunWith(conn).
			ExecContext(ctx)

		switch {
		case err == nil:
		case isDuplicateKeyError(err):
			logger.Debug(errPermissionAlreadyExists)
		default:
			logger.Error(failedToCreateGroupPermission, err)
			return err
		}
	}

	return nil
}

func deleteGroupPermissions(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	groupID int64,
) error {
	logger = logger.WithName("delete-group-permissions").WithData(
		logx.Data{Key: "group.id", Value: groupID},
	)

	_, err := sqlx.StatementBuilder(conn.Driver()).
		Delete("group_permission").
		Where(squirrel.Eq{"group_id": groupID}).
		RunWith(conn).
		ExecContext(ctx)
	if err != nil {
		logger.Error(failedToDeleteGroupPermissions, err)
		return err
	}

	return nil
}

func findGroupPermissions(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	groupID int64,
) ([]string, error) {
	logger = logger.WithName("find-group-permissions").WithData(
		logx.Data{Key: "group.id", Value: groupID},
	)

	rows, err := sqlx.StatementBuilder(conn.Driver()).
		Select("permission").
		From("group_permission").
		Where(squirrel.Eq{"group_id": groupID}).
		OrderBy("rank_order").
		RunWith(conn).
		QueryContext(ctx)
	if err != nil {
		logger.Error(failedToFindGroupPermissions, err)
		return nil, err
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var permission string
		e := rows.Scan(&permission)
		if e != nil {
			logger.Error(failedToScanRow, e)
			return nil, e
		}
		permissions = append(permissions, permission)
	}

	err = rows.Err()
	if err != nil {
		logger.Error(failedToIterateOverRows, err)
		return nil, err
	}

	return permissions, nil
}

func createMembership(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	groupID int64,
	userID string,
) error {
	logger = logger.WithName("create-membership").WithData(
		logx.Data{Key: "group.id", Value: groupID},
		logx.Data{Key: "membership.user_id", Value: userID},
	)

	builder := sqlx.StatementBuilder(conn.Driver()).
		Insert("group_membership").
		Columns("group_id", "user_id").
		Values(groupID, userID)

	switch conn.Driver() {
	case sqlx.DBDriverPostgres:
		builder = builder.Suffix("ON CONFLICT (group_id, user_id) DO NOTHING")
	default:
		builder = builder.Suffix("ON DUPLICATE KEY UPDATE group_id = group_id")
	}

	_, err := builder.RunWith(conn).ExecContext(ctx)
	if err != nil {
		logger.Error(failedToCreateMembership, err)
		return err
	}

	return nil
}

func deleteMembership(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	groupID int64,
	userID string,
) error {
	logger = logger.WithName("delete-membership").WithData(
		logx.Data{Key: "group.id", Value: groupID},
		logx.Data{Key: "membership.user_id", Value: userID},
	)

	result, err := sqlx.StatementBuilder(conn.Driver()).
		Delete("group_membership").
		Where(squirrel.Eq{"group_id": groupID, "user_id": userID}).
		RunWith(conn).
		ExecContext(ctx)

	switch err {
	case nil:
		n, e := result.RowsAffected()
		if e != nil {
			logger.Error(failedToCountRowsAffected, e)
			return e
		}

		if n == 0 {
			logger.Debug(errMembershipNotFound)
			return reaction.ErrMembershipNotFound
		}

		return nil
	case sql.ErrNoRows:
		logger.Debug(errMembershipNotFound)
		return reaction.ErrMembershipNotFound
	default:
		logger.Error(failedToDeleteMembership, err)
		return err
	}
}

// findMembershipForUpdate locks the membership row for the rest of the
// transaction so a concurrent removal cannot race the projection write.
func findMembershipForUpdate(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	groupID int64,
	userID string,
) (bool, error) {
	logger = logger.WithName("find-membership").WithData(
		logx.Data{Key: "group.id", Value: groupID},
		logx.Data{Key: "membership.user_id", Value: userID},
	)

	var foundGroupID int64
	err := sqlx.StatementBuilder(conn.Driver()).
		Select("group_id").
		From("group_membership").
		Where(squirrel.Eq{"group_id": groupID, "user_id": userID}).
		Suffix("FOR UPDATE").
		RunWith(conn).
		ScanContext(ctx, &foundGroupID)

	switch err {
	case nil:
		return true, nil
	case sql.ErrNoRows:
		logger.Debug(errMembershipNotFound)
		return false, nil
	default:
		logger.Error(failedToFindMembership, err)
		return false, err
	}
}

func replaceUserShopPermissions(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	userID string,
	shopID string,
	permissions []string,
) error {
	logger = logger.WithName("replace-user-shop-permissions").WithData(
		logx.Data{Key: "membership.user_id", Value: userID},
		logx.Data{Key: "group.shop_id", Value: shopID},
	)

	_, err := sqlx.StatementBuilder(conn.Driver()).
		Delete("user_shop_permission").
		Where(squirrel.Eq{"user_id": userID, "shop_id": shopID}).
		RunWith(conn).
		ExecContext(ctx)
	if err != nil {
		logger.Error(failedToReplaceUserPermissions, err)
		return err
	}

	for i, permission := range permissions {
		_, err := sqlx.StatementBuilder(conn.Driver()).
			Insert("user_shop_permission").
			Columns("user_id", "shop_id", "permission", "rank_order").
			Values(userID, shopID, permission, i).
			RunWith(conn).
			ExecContext(ctx)
		if err != nil {
			logger.Error(failedToReplaceUserPermissions, err)
			return err
		}
	}

	return nil
}

func findUserShopPermissions(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	userID string,
	shopID string,
) ([]string, error) {
	logger = logger.WithName("find-user-shop-permissions").WithData(
		logx.Data{Key: "membership.user_id", Value: userID},
		logx.Data{Key: "group.shop_id", Value: shopID},
	)

	rows, err := sqlx.StatementBuilder(conn.Driver()).
		Select("permission").
		From("user_shop_permission").
		Where(squirrel.Eq{"user_id": userID, "shop_id": shopID}).
		OrderBy("rank_order").
		RunWith(conn).
		QueryContext(ctx)
	if err != nil {
		logger.Error(failedToFindUserPermissions, err)
		return nil, err
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var permission string
		e := rows.Scan(&permission)
		if e != nil {
			logger.Error(failedToScanRow, e)
			return nil, e
		}
		permissions = append(permissions, permission)
	}

	err = rows.Err()
	if err != nil {
		logger.Error(failedToIterateOverRows, err)
		return nil, err
	}

	return permissions, nil
}

func listGroupMemberIDs(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	groupID int64,
) ([]string, error) {
	logger = logger.WithName("list-group-member-ids").WithData(
		logx.Data{Key: "group.id", Value: groupID},
	)

	rows, err := sqlx.StatementBuilder(conn.Driver()).
		Select("user_id").
		From("group_membership").
		Where(squirrel.Eq{"group_id": groupID}).
		OrderBy("user_id").
		RunWith(conn).
		QueryContext(ctx)
	if err != nil {
		logger.Error(failedToListMembers, err)
		return nil, err
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var userID string
		e := rows.Scan(&userID)
		if e != nil {
			logger.Error(failedToScanRow, e)
			return nil, e
		}
		userIDs = append(userIDs, userID)
	}

	err = rows.Err()
	if err != nil {
		logger.Error(failedToIterateOverRows, err)
		return nil, err
	}

	return userIDs, nil
}

func listUserGroupIDs(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	userID string,
	shopID string,
) ([]string, error) {
	logger = logger.WithName("list-user-group-ids").WithData(
		logx.Data{Key: "membership.user_id", Value: userID},
		logx.Data{Key: "group.shop_id", Value: shopID},
	)

	rows, err := sqlx.StatementBuilder(conn.Driver()).
		Select("shop_group.uuid").
		From("group_membership").
		JoinClause("INNER JOIN shop_group ON group_membership.group_id = shop_group.id").
		Where(squirrel.Eq{
			"group_membership.user_id": userID,
			"shop_group.shop_id":       shopID,
		}).
		OrderBy("shop_group.uuid").
		RunWith(conn).
		QueryContext(ctx)
	if err != nil {
		logger.Error(failedToListUserGroups, err)
		return nil, err
	}
	defer rows.Close()

	var groupIDs []string
	for rows.Next() {
		var uuidBytes []byte
		e := rows.Scan(&uuidBytes)
		if e != nil {
			logger.Error(failedToScanRow, e)
			return nil, e
		}

		u, e := uuid.FromBytes(uuidBytes)
		if e != nil {
			logger.Error(failedToParseUUID, e)
			return nil, e
		}
		groupIDs = append(groupIDs, u.String())
	}

	err = rows.Err()
	if err != nil {
		logger.Error(failedToIterateOverRows, err)
		return nil, err
	}

	return groupIDs, nil
}

func upsertDefaultGroup(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	shopID string,
	groupID int64,
) error {
	logger = logger.WithName("upsert-default-group").WithData(
		logx.Data{Key: "group.shop_id", Value: shopID},
		logx.Data{Key: "group.id", Value: groupID},
	)

	builder := sqlx.StatementBuilder(conn.Driver()).
		Insert("default_group").
		Columns("shop_id", "group_id").
		Values(shopID, groupID)

	switch conn.Driver() {
	case sqlx.DBDriverPostgres:
		builder = builder.Suffix("ON CONFLICT (shop_id) DO UPDATE SET group_id = EXCLUDED.group_id")
	default:
		builder = builder.Suffix("ON DUPLICATE KEY UPDATE group_id = VALUES(group_id)")
	}

	_, err := builder.RunWith(conn).ExecContext(ctx)
	if err != nil {
		logger.Error(failedToSetDefaultGroup, err)
		return err
	}

	return nil
}

func createDefaultGroupIfUnset(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	shopID string,
	groupID int64,
) error {
	logger = logger.WithName("create-default-group-if-unset").WithData(
		logx.Data{Key: "group.shop_id", Value: shopID},
		logx.Data{Key: "group.id", Value: groupID},
	)

	builder := sqlx.StatementBuilder(conn.Driver()).
		Insert("default_group").
		Columns("shop_id", "group_id").
		Values(shopID, groupID)

	switch conn.Driver() {
	case sqlx.DBDriverPostgres:
		builder = builder.Suffix("ON CONFLICT (shop_id) DO NOTHING")
	default:
		builder = builder.Suffix("ON DUPLICATE KEY UPDATE shop_id = shop_id")
	}

	_, err := builder.RunWith(conn).ExecContext(ctx)
	if err != nil {
		logger.Error(failedToSetDefaultGroup, err)
		return err
	}

	return nil
}

func findDefaultGroupUUID(
	ctx context.Context,
	logger logx.Logger,
	conn runner,
	shopID string,
) (string, error) {
	logger = logger.WithName("find-default-group").WithData(
		logx.Data{Key: "group.shop_id", Value: shopID},
	)

	var uuidBytes []byte
	err := sqlx.StatementBuilder(conn.Driver()).
		Select("shop_group.uuid").
		From("default_group").
		JoinClause("INNER JOIN shop_group ON default_group.group_id = shop_group.id").
		Where(squirrel.Eq{"default_group.shop_id": shopID}).
		RunWith(conn).
		ScanContext(ctx, &uuidBytes)

	switch err {
	case nil:
	case sql.ErrNoRows:
		logger.Debug(errDefaultGroupNotFound)
		return "", reaction.ErrDefaultGroupNotFound
	default:
		logger.Error(failedToFindDefaultGroup, err)
		return "", err
	}

	u, err := uuid.FromBytes(uuidBytes)
	if err != nil {
		logger.Error(failedToParseUUID, err)
		return "", err
	}

	return u.String(), nil
}
