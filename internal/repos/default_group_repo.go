package repos

import (
	"context"

	"github.com/JohnathanALves/reaction/logx"
)

type FindDefaultGroupQuery struct {
	ShopID string
}

// DefaultGroupRepo stores the shop's designated default group. The
// mapping is written at provisioning time and read on every member
// removal; there is no name- or slug-based fallback at read time.
type DefaultGroupRepo interface {
	// SetDefaultGroup registers the group as the shop's default,
	// replacing any previous designation.
	SetDefaultGroup(
		ctx context.Context,
		logger logx.Logger,
		shopID string,
		groupID string,
	) error

	// SetDefaultGroupIfUnset registers the group as the shop's default
	// only when the shop has none.
	SetDefaultGroupIfUnset(
		ctx context.Context,
		logger logx.Logger,
		shopID string,
		groupID string,
	) error

	// FindDefaultGroupID returns reaction.ErrDefaultGroupNotFound when
	// the shop has no designated default.
	FindDefaultGroupID(
		ctx context.Context,
		logger logx.Logger,
		query FindDefaultGroupQuery,
	) (string, error)
}
