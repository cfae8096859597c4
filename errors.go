package reaction

import (
	"errors"

	"github.com/JohnathanALves/reaction/errdefs"
)

var (
	ErrNoAuthorizer = errors.New("reaction: no authorizer set (use engine.WithAuthorizer to set)")

	ErrGroupNotFound      = errdefs.NewErrNotFound("group")
	ErrGroupAlreadyExists = errdefs.NewErrAlreadyExists("group")
	ErrGroupConflict      = errdefs.NewErrConflict("group")

	ErrMembershipNotFound   = errdefs.NewErrNotFound("membership")
	ErrDefaultGroupNotFound = errdefs.NewErrNotFound("default group")

	ErrGroupNameEmpty = errdefs.NewErrCannotBeEmpty("group name")
	ErrShopIDEmpty    = errdefs.NewErrCannotBeEmpty("shop id")
	ErrUserIDEmpty    = errdefs.NewErrCannotBeEmpty("user id")
)

// NewErrGroupCascadeIncomplete reports an update whose group record was
// written but whose fan-out left some members on the previous permissions.
func NewErrGroupCascadeIncomplete(failed, total int) error {
	return errdefs.NewErrPartialUpdate("group members", failed, total)
}
