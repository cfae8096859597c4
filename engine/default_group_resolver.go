package engine

import (
	"context"
	"time"

	"github.com/JohnathanALves/reaction"
	"github.com/JohnathanALves/reaction/errdefs"
	"github.com/JohnathanALves/reaction/internal/repos"
	"github.com/JohnathanALves/reaction/logx"
	"github.com/JohnathanALves/reaction/metrics"
)

// DefaultGroupResolver answers "where do removed users land" for a shop.
// It reads only the stored shop-to-group mapping registered at
// provisioning time, never a naming convention.
type DefaultGroupResolver struct {
	logger     logx.Logger
	statter    metrics.Statter
	authorizer reaction.Authorizer

	groupRepo        repos.GroupRepo
	defaultGroupRepo repos.DefaultGroupRepo
}

func newDefaultGroupResolver(
	logger logx.Logger,
	statter metrics.Statter,
	authorizer reaction.Authorizer,
	groupRepo repos.GroupRepo,
	defaultGroupRepo repos.DefaultGroupRepo,
) *DefaultGroupResolver {
	return &DefaultGroupResolver{
		logger:     logger,
		statter:    statter,
		authorizer: authorizer,

		groupRepo:        groupRepo,
		defaultGroupRepo: defaultGroupRepo,
	}
}

func (r *DefaultGroupResolver) Resolve(
	ctx context.Context,
	shopID string,
) (g reaction.Group, err error) {
	start := time.Now()
	defer func() { recordRequest(r.statter, "ResolveDefaultGroup", start, err) }()

	logger := r.logger.WithName("resolve-default-group").WithData(
		logx.Data{Key: "group.shop_id", Value: shopID},
	)
	logger.Debug(starting)

	groupID, err := r.defaultGroupRepo.FindDefaultGroupID(ctx, logger, repos.FindDefaultGroupQuery{ShopID: shopID})
	if err != nil {
		return reaction.Group{}, err
	}

	g, err = r.groupRepo.FindGroup(ctx, logger, repos.FindGroupQuery{GroupID: groupID})
	if err != nil {
		return reaction.Group{}, err
	}

	logger.Debug(success)
	return g, nil
}

func (r *DefaultGroupResolver) SetDefault(
	ctx context.Context,
	actor reaction.Actor,
	shopID string,
	groupID string,
) (err error) {
	start := time.Now()
	defer func() { recordRequest(r.statter, "SetDefaultGroup", start, err) }()

	logger := r.logger.WithName("set-default-group").WithData(
		logx.Data{Key: "group.shop_id", Value: shopID},
		logx.Data{Key: "group.id", Value: groupID},
		logx.Data{Key: "actor.id", Value: actor.ID},
	)
	logger.Debug(starting)

	allowed, err := r.authorizer.CanAdminister(ctx, actor, shopID)
	if err != nil {
		logger.Error(failedToCheckAuthorization, err)
		return err
	}
	if !allowed {
		logger.Debug(errAccessDenied)
		return errdefs.NewErrAccessDenied("set-default-group")
	}

	err = r.defaultGroupRepo.SetDefaultGroup(ctx, logger, shopID, groupID)
	if err != nil {
		return err
	}

	logger.Debug(success)
	return nil
}
