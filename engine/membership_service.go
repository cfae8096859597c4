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

type MembershipService struct {
	logger     logx.Logger
	statter    metrics.Statter
	authorizer reaction.Authorizer

	groupRepo        repos.GroupRepo
	membershipRepo   repos.MembershipRepo
	defaultGroupRepo repos.DefaultGroupRepo
}

func newMembershipService(
	logger logx.Logger,
	statter metrics.Statter,
	authorizer reaction.Authorizer,
	groupRepo repos.GroupRepo,
	membershipRepo repos.MembershipRepo,
	defaultGroupRepo repos.DefaultGroupRepo,
) *MembershipService {
	return &MembershipService{
		logger:     logger,
		statter:    statter,
		authorizer: authorizer,

		groupRepo:        groupRepo,
		membershipRepo:   membershipRepo,
		defaultGroupRepo: defaultGroupRepo,
	}
}

// AddUser makes userID a member of the group and replaces the user's
// effective permissions for the group's shop with exactly the group's
// permissions. Adding an existing member rewrites the same projection.
func (s *MembershipService) AddUser(
	ctx context.Context,
	actor reaction.Actor,
	userID string,
	groupID string,
) (err error) {
	start := time.Now()
	defer func() { recordRequest(s.statter, "AddUser", start, err) }()

	logger := s.logger.WithName("add-user").WithData(
		logx.Data{Key: "membership.user_id", Value: userID},
		logx.Data{Key: "group.id", Value: groupID},
		logx.Data{Key: "actor.id", Value: actor.ID},
	)
	logger.Debug(starting)

	// The lookup precedes the oracle only to learn which shop to ask about.
	g, err := s.groupRepo.FindGroup(ctx, logger, repos.FindGroupQuery{GroupID: groupID})
	if err != nil {
		return err
	}

	allowed, err := s.authorizer.CanInvite(ctx, actor, g.ShopID, g.ID)
	if err != nil {
		logger.Error(failedToCheckAuthorization, err)
		return err
	}
	if !allowed {
		logger.Debug(errAccessDenied)
		return errdefs.NewErrAccessDenied("add-user")
	}

	if userID == "" {
		return reaction.ErrUserIDEmpty
	}

	err = s.membershipRepo.AddMember(ctx, logger, userID, g)
	if err != nil {
		return err
	}

	logger.Debug(success)
	return nil
}

// RemoveUser drops userID from the group and projects the shop's default
// group permissions in place of the removed group's. The default mapping
// is resolved up front so a misprovisioned shop fails before any mutation.
func (s *MembershipService) RemoveUser(
	ctx context.Context,
	actor reaction.Actor,
	userID string,
	groupID string,
) (err error) {
	start := time.Now()
	defer func() { recordRequest(s.statter, "RemoveUser", start, err) }()

	logger := s.logger.WithName("remove-user").WithData(
		logx.Data{Key: "membership.user_id", Value: userID},
		logx.Data{Key: "group.id", Value: groupID},
		logx.Data{Key: "actor.id", Value: actor.ID},
	)
	logger.Debug(starting)

	g, err := s.groupRepo.FindGroup(ctx, logger, repos.FindGroupQuery{GroupID: groupID})
	if err != nil {
		return err
	}

	allowed, err := s.authorizer.CanInvite(ctx, actor, g.ShopID, g.ID)
	if err != nil {
		logger.Error(failedToCheckAuthorization, err)
		return err
	}
	if !allowed {
		logger.Debug(errAccessDenied)
		return errdefs.NewErrAccessDenied("remove-user")
	}

	if userID == "" {
		return reaction.ErrUserIDEmpty
	}

	defaultGroupID, err := s.defaultGroupRepo.FindDefaultGroupID(ctx, logger, repos.FindDefaultGroupQuery{ShopID: g.ShopID})
	if err != nil {
		return err
	}

	fallback, err := s.groupRepo.FindGroup(ctx, logger, repos.FindGroupQuery{GroupID: defaultGroupID})
	if err != nil {
		return err
	}

	err = s.membershipRepo.RemoveMember(ctx, logger, userID, g, fallback)
	if err != nil {
		return err
	}

	logger.Debug(success)
	return nil
}

// ListUserPermissions returns the user's current effective permissions for
// the shop, in group order.
func (s *MembershipService) ListUserPermissions(
	ctx context.Context,
	userID string,
	shopID string,
) (permissions []string, err error) {
	start := time.Now()
	defer func() { recordRequest(s.statter, "ListUserPermissions", start, err) }()

	logger := s.logger.WithName("list-user-permissions").WithData(
		logx.Data{Key: "membership.user_id", Value: userID},
		logx.Data{Key: "group.shop_id", Value: shopID},
	)

	permissions, err = s.membershipRepo.ListUserShopPermissions(ctx, logger, repos.ListUserShopPermissionsQuery{
		UserID: userID,
		ShopID: shopID,
	})
	return
}

// ListGroupMembers returns one Membership per current member of the
// group.
func (s *MembershipService) ListGroupMembers(
	ctx context.Context,
	groupID string,
) (members []reaction.Membership, err error) {
	start := time.Now()
	defer func() { recordRequest(s.statter, "ListGroupMembers", start, err) }()

	logger := s.logger.WithName("list-group-members").WithData(
		logx.Data{Key: "group.id", Value: groupID},
	)

	userIDs, err := s.membershipRepo.ListGroupMemberIDs(ctx, logger, repos.ListGroupMemberIDsQuery{
		GroupID: groupID,
	})
	if err != nil {
		return nil, err
	}

	for _, userID := range userIDs {
		members = append(members, reaction.Membership{UserID: userID, GroupID: groupID})
	}

	return members, nil
}

func (s *MembershipService) ListUserGroups(
	ctx context.Context,
	userID string,
	shopID string,
) (groups []reaction.Group, err error) {
	start := time.Now()
	defer func() { recordRequest(s.statter, "ListUserGroups", start, err) }()

	logger := s.logger.WithName("list-user-groups").WithData(
		logx.Data{Key: "membership.user_id", Value: userID},
		logx.Data{Key: "group.shop_id", Value: shopID},
	)

	groupIDs, err := s.membershipRepo.ListUserGroupIDs(ctx, logger, repos.ListUserGroupIDsQuery{
		UserID: userID,
		ShopID: shopID,
	})
	if err != nil {
		return nil, err
	}

	for _, groupID := range groupIDs {
		g, err := s.groupRepo.FindGroup(ctx, logger, repos.FindGroupQuery{GroupID: groupID})
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}

	return groups, nil
}
