package inmemory

import (
	"sync"

	"github.com/JohnathanALves/reaction"
)

type shopName struct {
	shopID string
	name   string
}

type userShop struct {
	userID string
	shopID string
}

// Store keeps all engine state in process memory. A single lock guards
// every mutation, so each operation is atomic with respect to the
// membership set and the permission projection.
type Store struct {
	mu sync.RWMutex

	groups         map[string]reaction.Group
	groupIDsByName map[shopName]string

	memberships map[reaction.Membership]struct{}
	permissions map[userShop][]string

	defaultGroups map[string]string
}

func NewStore() *Store {
	return &Store{
		groups:         make(map[string]reaction.Group),
		groupIDsByName: make(map[shopName]string),
		memberships:    make(map[reaction.Membership]struct{}),
		permissions:    make(map[userShop][]string),
		defaultGroups:  make(map[string]string),
	}
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}

	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyGroup(g reaction.Group) reaction.Group {
	g.Permissions = copyStrings(g.Permissions)
	return g
}
