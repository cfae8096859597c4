package repos

import (
	"context"

	"github.com/JohnathanALves/reaction"
	"github.com/JohnathanALves/reaction/logx"
)

type ListGroupMemberIDsQuery struct {
	GroupID string
}

type ListUserGroupIDsQuery struct {
	UserID string
	ShopID string
}

type ListUserShopPermissionsQuery struct {
	UserID string
	ShopID string
}

// MembershipRepo stores group memberships and the per-(user, shop)
// effective-permission projection. Every mutation is atomic: the
// membership change and the projection rewrite land together or not at
// all.
type MembershipRepo interface {
	// AddMember records the user's membership in the group (idempotent)
	// and replaces the user's projection for the group's shop with
	// exactly the group's permissions.
	AddMember(
		ctx context.Context,
		logger logx.Logger,
		userID string,
		group reaction.Group,
	) error

	// RemoveMember deletes the membership and replaces the user's
	// projection for the shop with the fallback group's permissions.
	// It returns reaction.ErrGroupNotFound when either group does not
	// exist and reaction.ErrMembershipNotFound when the user is not a
	// member.
	RemoveMember(
		ctx context.Context,
		logger logx.Logger,
		userID string,
		group reaction.Group,
		fallback reaction.Group,
	) error

	// ReplaceMemberPermissions rewrites the user's projection with the
	// group's permissions only while the membership still exists. It
	// reports false, without error, when the membership is gone, and
	// reaction.ErrGroupNotFound when the group itself is.
	ReplaceMemberPermissions(
		ctx context.Context,
		logger logx.Logger,
		userID string,
		group reaction.Group,
	) (bool, error)

	// ListGroupMemberIDs returns reaction.ErrGroupNotFound when the
	// group does not exist.
	ListGroupMemberIDs(
		ctx context.Context,
		logger logx.Logger,
		query ListGroupMemberIDsQuery,
	) ([]string, error)

	ListUserGroupIDs(
		ctx context.Context,
		logger logx.Logger,
		query ListUserGroupIDsQuery,
	) ([]string, error)

	ListUserShopPermissions(
		ctx context.Context,
		logger logx.Logger,
		query ListUserShopPermissionsQuery,
	) ([]string, error)
}
