package db

import (
	"context"

	"github.com/JohnathanALves/reaction"
	"github.com/JohnathanALves/reaction/internal/repos"
	"github.com/JohnathanALves/reaction/logx"
	"github.com/JohnathanALves/reaction/sqlx"
)

func (s *Store) CreateGroup(
	ctx context.Context,
	logger logx.Logger,
	shopID string,
	name string,
	slug string,
	permissions ...string,
) (g reaction.Group, err error) {
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

	var g2 group
	g2, err = createGroup(ctx, logger, tx, shopID, name, slug, permissions...)
	if err != nil {
		return
	}
	g = g2.Group

	return
}

func (s *Store) FindGroup(
	ctx context.Context,
	logger logx.Logger,
	query repos.FindGroupQuery,
) (reaction.Group, error) {
	g, err := findGroup(ctx, logger.WithName("data-service"), s.conn, query.GroupID)
	if err != nil {
		return reaction.Group{}, err
	}

	return g.Group, nil
}

func (s *Store) FindGroupBySlug(
	ctx context.Context,
	logger logx.Logger,
	query repos.FindGroupBySlugQuery,
) (reaction.Group, error) {
	g, err := findGroupBySlug(ctx, logger.WithName("data-service"), s.conn, query.ShopID, query.Slug)
	if err != nil {
		return reaction.Group{}, err
	}

	return g.Group, nil
}

func (s *Store) ListShopGroups(
	ctx context.Context,
	logger logx.Logger,
	query repos.ListShopGroupsQuery,
) ([]reaction.Group, error) {
	shopGroups, err := listShopGroups(ctx, logger.WithName("data-service"), s.conn, query.ShopID)
	if err != nil {
		return nil, err
	}

	var groups []reaction.Group
	for _, g := range shopGroups {
		groups = append(groups, g.Group)
	}

	return groups, nil
}

func (s *Store) UpdateGroup(
	ctx context.Context,
	logger logx.Logger,
	updated reaction.Group,
) (g reaction.Group, err error) {
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

	var g2 group
	g2, err = updateGroup(ctx, logger, tx, updated)
	if err != nil {
		return
	}
	g = g2.Group

	return
}
