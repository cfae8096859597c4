package reaction

import "context"

// Authorizer is the authorization oracle consulted before every
// mutating operation. Implementations are supplied by the embedding
// platform; the engine never answers permission questions itself.
//
// A false verdict means the operation is denied and no state is
// touched. An error means the oracle could not answer; the operation
// fails without mutating state, but the error is surfaced as-is rather
// than being reported as a denial.
type Authorizer interface {
	// CanAdminister reports whether the actor may manage the shop's
	// groups (create, update, designate defaults).
	CanAdminister(ctx context.Context, actor Actor, shopID string) (bool, error)

	// CanInvite reports whether the actor may add users to or remove
	// users from the given group.
	CanInvite(ctx context.Context, actor Actor, shopID, groupID string) (bool, error)
}
