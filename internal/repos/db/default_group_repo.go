package db

import (
	"context"

	"github.com/JohnathanALves/reaction"
	"github.com/JohnathanALves/reaction/internal/repos"
	"github.com/JohnathanALves/reaction/logx"
	"github.com/JohnathanALves/reaction/sqlx"
)

func (s *Store) SetDefaultGroup(
	ctx context.Context,
	logger logx.Logger,
	shopID string,
	groupID string,
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
	stored, err = findGroup(ctx, logger, tx, groupID)
	if err != nil {
		return
	}

	if stored.ShopID != shopID {
		logger.Debug(errGroupNotFound)
		err = reaction.ErrGroupNotFound
		return
	}

	err = upsertDefaultGroup(ctx, logger, tx, shopID, stored.id)

	return
}

func (s *Store) SetDefaultGroupIfUnset(
	ctx context.Context,
	logger logx.Logger,
	shopID string,
	groupID string,
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
	stored, err = findGroup(ctx, logger, tx, groupID)
	if err != nil {
		return
	}

	if stored.ShopID != shopID {
		logger.Debug(errGroupNotFound)
		err = reaction.ErrGroupNotFound
		return
	}

	err = createDefaultGroupIfUnset(ctx, logger, tx, shopID, stored.id)

	return
}

func (s *Store) FindDefaultGroupID(
	ctx context.Context,
	logger logx.Logger,
	query repos.FindDefaultGroupQuery,
) (string, error) {
	return findDefaultGroupUUID(ctx, logger.WithName("data-service"), s.conn, query.ShopID)
}
