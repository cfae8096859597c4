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

// DefaultGroupSlug marks the group that becomes a shop's fallback at
// provisioning time.
const DefaultGroupSlug = "customer"

const (
	// updateGroupWriteAttempts bounds re-reads of a group whose version
	// moved under a concurrent writer.
	updateGroupWriteAttempts = 3

	// cascadeAttemptsPerMember bounds the idempotent projection writes
	// during an update fan-out.
	cascadeAttemptsPerMember = 3
)

type GroupService struct {
	logger     logx.Logger
	statter    metrics.Statter
	authorizer reaction.Authorizer

	groupRepo        repos.GroupRepo
	membershipRepo   repos.MembershipRepo
	defaultGroupRepo repos.DefaultGroupRepo
}

func newGroupService(
	logger logx.Logger,
	statter metrics.Statter,
	authorizer reaction.Authorizer,
	groupRepo repos.GroupRepo,
	membershipRepo repos.MembershipRepo,
	defaultGroupRepo repos.DefaultGroupRepo,
) *GroupService {
	return &GroupService{
		logger:     logger,
		statter:    statter,
		authorizer: authorizer,

		groupRepo:        groupRepo,
		membershipRepo:   membershipRepo,
		defaultGroupRepo: defaultGroupRepo,
	}
}

func (s *GroupService) CreateGroup(
	ctx context.Context,
	actor reaction.Actor,
	shopID string,
	spec reaction.GroupSpec,
) (g reaction.Group, err error) {
	start := time.Now()
	defer func() { recordRequest(s.statter, "CreateGroup", start, err) }()

	logger := s.logger.WithName("create-group").WithData(
		logx.Data{Key: "group.shop_id", Value: shopID},
		logx.Data{Key: "actor.id", Value: actor.ID},
	)
	logger.Debug(starting)

	allowed, err := s.authorizer.CanAdminister(ctx, actor, shopID)
	if err != nil {
		logger.Error(failedToCheckAuthorization, err)
		return reaction.Group{}, err
	}
	if !allowed {
		logger.Debug(errAccessDenied)
		return reaction.Group{}, errdefs.NewErrAccessDenied("create-group")
	}

	if shopID == "" {
		return reaction.Group{}, reaction.ErrShopIDEmpty
	}
	if spec.Name == "" {
		return reaction.Group{}, reaction.ErrGroupNameEmpty
	}

	slug := spec.Slug
	if slug == "" {
		slug = deriveSlug(spec.Name)
	}

	g, err = s.groupRepo.CreateGroup(ctx, logger, shopID, spec.Name, slug, normalizePermissions(spec.Permissions)...)
	if err != nil {
		return reaction.Group{}, err
	}

	if g.Slug == DefaultGroupSlug {
		err = s.defaultGroupRepo.SetDefaultGroupIfUnset(ctx, logger, shopID, g.ID)
		if err != nil {
			return reaction.Group{}, err
		}
	}

	logger.Debug(success)
	return g, nil
}

func (s *GroupService) UpdateGroup(
	ctx context.Context,
	actor reaction.Actor,
	shopID string,
	groupID string,
	changes reaction.GroupUpdate,
) (g reaction.Group, err error) {
	start := time.Now()
	defer func() { recordRequest(s.statter, "UpdateGroup", start, err) }()

	logger := s.logger.WithName("update-group").WithData(
		logx.Data{Key: "group.shop_id", Value: shopID},
		logx.Data{Key: "group.id", Value: groupID},
		logx.Data{Key: "actor.id", Value: actor.ID},
	)
	logger.Debug(starting)

	allowed, err := s.authorizer.CanAdminister(ctx, actor, shopID)
	if err != nil {
		logger.Error(failedToCheckAuthorization, err)
		return reaction.Group{}, err
	}
	if !allowed {
		logger.Debug(errAccessDenied)
		return reaction.Group{}, errdefs.NewErrAccessDenied("update-group")
	}

	g, err = s.writeGroupUpdate(ctx, logger, shopID, groupID, changes)
	if err != nil {
		return reaction.Group{}, err
	}

	if changes.Permissions != nil {
		err = s.cascadePermissions(ctx, logger, g)
		if err != nil {
			// The group record stays updated; the error carries how many
			// members still hold the previous projection.
			return g, err
		}
	}

	logger.Debug(success)
	return g, nil
}

func (s *GroupService) writeGroupUpdate(
	ctx context.Context,
	logger logx.Logger,
	shopID string,
	groupID string,
	changes reaction.GroupUpdate,
) (reaction.Group, error) {
	for attempt := 0; attempt < updateGroupWriteAttempts; attempt++ {
		stored, err := s.groupRepo.FindGroup(ctx, logger, repos.FindGroupQuery{GroupID: groupID})
		if err != nil {
			return reaction.Group{}, err
		}

		if stored.ShopID != shopID {
			logger.Debug(errGroupNotFound)
			return reaction.Group{}, reaction.ErrGroupNotFound
		}

		merged := stored
		if changes.Name != nil {
			if *changes.Name == "" {
				return reaction.Group{}, reaction.ErrGroupNameEmpty
			}
			merged.Name = *changes.Name
		}
		if changes.Slug != nil {
			merged.Slug = *changes.Slug
		}
		if changes.Permissions != nil {
			merged.Permissions = normalizePermissions(*changes.Permissions)
		}

		updated, err := s.groupRepo.UpdateGroup(ctx, logger, merged)
		if err == reaction.ErrGroupConflict {
			logger.Debug(retryingGroupWrite)
			continue
		}
		if err != nil {
			return reaction.Group{}, err
		}

		return updated, nil
	}

	return reaction.Group{}, reaction.ErrGroupConflict
}

// cascadePermissions rewrites every member's shop projection to the
// group's new permissions. Members that disappear mid-fan-out are skipped;
// failures do not stop the fan-out.
func (s *GroupService) cascadePermissions(
	ctx context.Context,
	logger logx.Logger,
	g reaction.Group,
) error {
	logger = logger.WithName("cascade-permissions")

	memberIDs, err := s.membershipRepo.ListGroupMemberIDs(ctx, logger, repos.ListGroupMemberIDsQuery{GroupID: g.ID})
	if err != nil {
		return err
	}

	var failed int
	for _, userID := range memberIDs {
		err := s.replaceMemberPermissions(ctx, logger, userID, g)
		if err != nil {
			logger.Error(failedToCascadePermissions, err, logx.Data{Key: "membership.user_id", Value: userID})
			failed++
		}
	}

	if failed > 0 {
		return reaction.NewErrGroupCascadeIncomplete(failed, len(memberIDs))
	}

	return nil
}

func (s *GroupService) replaceMemberPermissions(
	ctx context.Context,
	logger logx.Logger,
	userID string,
	g reaction.Group,
) error {
	var err error
	for attempt := 0; attempt < cascadeAttemptsPerMember; attempt++ {
		var replaced bool
		replaced, err = s.membershipRepo.ReplaceMemberPermissions(ctx, logger, userID, g)
		if err == nil {
			if !replaced {
				logger.Debug(skippedDepartedMember, logx.Data{Key: "membership.user_id", Value: userID})
			}
			return nil
		}
	}

	return err
}

func (s *GroupService) GetGroup(
	ctx context.Context,
	groupID string,
) (g reaction.Group, err error) {
	start := time.Now()
	defer func() { recordRequest(s.statter, "GetGroup", start, err) }()

	logger := s.logger.WithName("get-group").WithData(
		logx.Data{Key: "group.id", Value: groupID},
	)

	g, err = s.groupRepo.FindGroup(ctx, logger, repos.FindGroupQuery{GroupID: groupID})
	return
}

func (s *GroupService) GetGroupBySlug(
	ctx context.Context,
	shopID string,
	slug string,
) (g reaction.Group, err error) {
	start := time.Now()
	defer func() { recordRequest(s.statter, "GetGroupBySlug", start, err) }()

	logger := s.logger.WithName("get-group-by-slug").WithData(
		logx.Data{Key: "group.shop_id", Value: shopID},
		logx.Data{Key: "group.slug", Value: slug},
	)

	g, err = s.groupRepo.FindGroupBySlug(ctx, logger, repos.FindGroupBySlugQuery{ShopID: shopID, Slug: slug})
	return
}

func (s *GroupService) ListShopGroups(
	ctx context.Context,
	shopID string,
) (groups []reaction.Group, err error) {
	start := time.Now()
	defer func() { recordRequest(s.statter, "ListShopGroups", start, err) }()

	logger := s.logger.WithName("list-shop-groups").WithData(
		logx.Data{Key: "group.shop_id", Value: shopID},
	)

	groups, err = s.groupRepo.ListShopGroups(ctx, logger, repos.ListShopGroupsQuery{ShopID: shopID})
	return
}
