package reaction

// Group is a named bundle of permission tokens owned by a single shop.
// Group names are unique within a shop; slugs are the URL-safe form of
// the name. Permissions behave as an ordered set: insertion order is
// preserved and duplicates are removed.
type Group struct {
	ID          string
	ShopID      string
	Name        string
	Slug        string
	Permissions []string

	// Version increments on every stored write and guards concurrent
	// group updates.
	Version int64
}

// GroupSpec describes a group to be created. Slug is optional; when
// empty it is derived from Name.
type GroupSpec struct {
	Name        string
	Slug        string
	Permissions []string
}

// GroupUpdate carries a partial group update. Nil fields are left
// unchanged.
type GroupUpdate struct {
	Name        *string
	Slug        *string
	Permissions *[]string
}

// Membership ties a user to one group. A user's effective permissions
// for a shop come from the group most recently granted there, not from
// the union of memberships.
type Membership struct {
	UserID  string
	GroupID string
}

// Actor is the identity performing an operation, as opposed to the
// user being acted upon.
type Actor struct {
	ID        string
	Namespace string
}
