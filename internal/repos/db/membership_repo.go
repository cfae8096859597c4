package db

import (
	"context"

	"github.com/JohnathanALves/reaction"
	"github.com/JohnathanALves/reaction/internal/repos"
	"github.com/JohnathanALves/reaction/logx"
	"github.com/JohnathanALves/reaction/sqlx"
)

func (s *Store) AddMember(
	ctx context.Context,
	logger logx.Logger,
	userID string,
	g reaction.Group,
) (err error) {
	logger = logger.WithName("data-service")

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		logger.Error(failedToStartTransaction, err)
		return
	}

	defer func() {
		if commitErr := sqlx.Commit(logger, tx, err); commitErr != nil {
			err = commitErr
		}
	}()

	var stored group
	stored, err = findGroup(ctx, logger, tx, g.ID)
	if err != nil {
		return
	}

	err = createMembership(ctx, logger, tx, stored.id, userID)
	if err != nil {
		return
	}

	err = replaceUserShopPermissions(ctx, logger, tx, userID, stored.ShopID, stored.Permissions)

	return
}

func (s *Store) RemoveMember(
	ctx context.Context,
	logger logx.Logger,
	userID string,
	g reaction.Group,
	fallback reaction.Group,
) (err error) {
	logger = logger.WithName("data-service")

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		logger.Error(failedToStartTransaction, err)
		return
	}

	defer func() {
		if commitErr := sqlx.Commit(logger, tx, err); commitErr != nil {
			err = commitErr
		}
	}()

	var stored group
	stored, err = findGroup(ctx, logger, tx, g.ID)
	if err != nil {
		return
	}

	var fallbackStored group
	fallbackStored, err = findGroup(ctx, logger, tx, fallback.ID)
	if err != nil {
		return
	}

	err = deleteMembership(ctx, logger, tx, stored.id, userID)
	if err != nil {
		return
	}

	err = replaceUserShopPermissions(ctx, logger, tx, userID, fallbackStored.ShopID, fallbackStored.Permissions)

	return
}

func (s *Store) ReplaceMemberPermissions(
	ctx context.Context,
	logger logx.Logger,
	userID string,
	g reaction.Group,
) (replaced bool, err error) {
	logger = logger.WithName("data-service")

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		logger.Error(failedToStartTransaction, err)
		return
	}

	defer func() {
		if commitErr := sqlx.Commit(logger, tx, err); commitErr != nil {
			err = commitErr
		}
	}()

	var stored group
	stored, err = findGroup(ctx, logger, tx, g.ID)
	if err != nil {
		return
	}

	replaced, err = findMembershipForUpdate(ctx, logger, tx, stored.id, userID)
	if err != nil || !replaced {
		return
	}

	err = replaceUserShopPermissions(ctx, logger, tx, userID, stored.ShopID, g.Permissions)

	return
}

func (s *Store) ListGroupMemberIDs(
	ctx context.Context,
	logger logx.Logger,
	query repos.ListGroupMemberIDsQuery,
) ([]string, error) {
	logger = logger.WithName("data-service")

	stored, err := findGroup(ctx, logger, s.conn, query.GroupID)
	if err != nil {
		return nil, err
	}

	return listGroupMemberIDs(ctx, logger, s.conn, stored.id)
}

func (s *Store) ListUserGroupIDs(
	ctx context.Context,
	logger logx.Logger,
	query repos.ListUserGroupIDsQuery,
) ([]string, error) {
	return listUserGroupIDs(ctx, logger.WithName("data-service"), s.conn, query.UserID, query.ShopID)
}

func (s *Store) ListUserShopPermissions(
	ctx context.Context,
	logger logx.Logger,
	query repos.ListUserShopPermissionsQuery,
) ([]string, error) {
	return findUserShopPermissions(ctx, logger.WithName("data-service"), s.conn, query.UserID, query.ShopID)
}
