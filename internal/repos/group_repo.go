package repos

import (
	"context"

	"github.com/JohnathanALves/reaction"
	"github.com/JohnathanALves/reaction/logx"
)

type FindGroupQuery struct {
	GroupID string
}

type FindGroupBySlugQuery struct {
	ShopID string
	Slug   string
}

type ListShopGroupsQuery struct {
	ShopID string
}

type GroupRepo interface {
	// CreateGroup persists a new group and returns it with its ID and
	// initial version assigned. Name collisions within the shop return
	// reaction.ErrGroupAlreadyExists.
	CreateGroup(
		ctx context.Context,
		logger logx.Logger,
		shopID string,
		name string,
		slug string,
		permissions ...string,
	) (reaction.Group, error)

	FindGroup(
		ctx context.Context,
		logger logx.Logger,
		query FindGroupQuery,
	) (reaction.Group, error)

	FindGroupBySlug(
		ctx context.Context,
		logger logx.Logger,
		query FindGroupBySlugQuery,
	) (reaction.Group, error)

	ListShopGroups(
		ctx context.Context,
		logger logx.Logger,
		query ListShopGroupsQuery,
	) ([]reaction.Group, error)

	// UpdateGroup is a version-checked write: the stored row must still
	// carry group.Version or reaction.ErrGroupConflict is returned. On
	// success the returned group carries the incremented version.
	UpdateGroup(
		ctx context.Context,
		logger logx.Logger,
		group reaction.Group,
	) (reaction.Group, error)
}
