package inmemory

import (
	"context"
	"sort"

	"github.com/JohnathanALves/reaction"
	"github.com/JohnathanALves/reaction/internal/repos"
	"github.com/JohnathanALves/reaction/logx"
)

func (s *Store) AddMember(
	ctx context.Context,
	logger logx.Logger,
	userID string,
	group reaction.Group,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.groups[group.ID]
	if !exists {
		return reaction.ErrGroupNotFound
	}

	s.memberships[reaction.Membership{UserID: userID, GroupID: stored.ID}] = struct{}{}
	s.permissions[userShop{userID: userID, shopID: stored.ShopID}] = copyStrings(stored.Permissions)

	return nil
}

func (s *Store) RemoveMember(
	ctx context.Context,
	logger logx.Logger,
	userID string,
	group reaction.Group,
	fallback reaction.Group,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.groups[group.ID]; !exists {
		return reaction.ErrGroupNotFound
	}

	stored, exists := s.groups[fallback.ID]
	if !exists {
		return reaction.ErrGroupNotFound
	}

	key := reaction.Membership{UserID: userID, GroupID: group.ID}
	if _, exists := s.memberships[key]; !exists {
		return reaction.ErrMembershipNotFound
	}

	delete(s.memberships, key)
	s.permissions[userShop{userID: userID, shopID: stored.ShopID}] = copyStrings(stored.Permissions)

	return nil
}

func (s *Store) ReplaceMemberPermissions(
	ctx context.Context,
	logger logx.Logger,
	userID string,
	group reaction.Group,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.groups[group.ID]
	if !exists {
		return false, reaction.ErrGroupNotFound
	}

	if _, exists := s.memberships[reaction.Membership{UserID: userID, GroupID: group.ID}]; !exists {
		return false, nil
	}

	s.permissions[userShop{userID: userID, shopID: stored.ShopID}] = copyStrings(group.Permissions)

	return true, nil
}

func (s *Store) ListGroupMemberIDs(
	ctx context.Context,
	logger logx.Logger,
	query repos.ListGroupMemberIDsQuery,
) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.groups[query.GroupID]; !exists {
		return nil, reaction.ErrGroupNotFound
	}

	var userIDs []string
	for key := range s.memberships {
		if key.GroupID == query.GroupID {
			userIDs = append(userIDs, key.UserID)
		}
	}

	sort.Strings(userIDs)

	return userIDs, nil
}

func (s *Store) ListUserGroupIDs(
	ctx context.Context,
	logger logx.Logger,
	query repos.ListUserGroupIDsQuery,
) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var groupIDs []string
	for key := range s.memberships {
		if key.UserID != query.UserID {
			continue
		}
		group, exists := s.groups[key.GroupID]
		if !exists || group.ShopID != query.ShopID {
			continue
		}
		groupIDs = append(groupIDs, key.GroupID)
	}

	sort.Strings(groupIDs)

	return groupIDs, nil
}

func (s *Store) ListUserShopPermissions(
	ctx context.Context,
	logger logx.Logger,
	query repos.ListUserShopPermissionsQuery,
) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	permissions, exists := s.permissions[userShop{userID: query.UserID, shopID: query.ShopID}]
	if !exists {
		return nil, nil
	}

	return copyStrings(permissions), nil
}
