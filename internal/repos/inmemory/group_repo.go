package inmemory

import (
	"context"
	"sort"

	uuid "github.com/satori/go.uuid"

	"github.com/JohnathanALves/reaction"
	"github.com/JohnathanALves/reaction/internal/repos"
	"github.com/JohnathanALves/reaction/logx"
)

func (s *Store) CreateGroup(
	ctx context.Context,
	logger logx.Logger,
	shopID string,
	name string,
	slug string,
	permissions ...string,
) (reaction.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := shopName{shopID: shopID, name: name}
	if _, exists := s.groupIDsByName[key]; exists {
		err := reaction.ErrGroupAlreadyExists
		logger.Error(errGroupAlreadyExists, err)
		return reaction.Group{}, err
	}

	group := reaction.Group{
		ID:          uuid.NewV4().String(),
		ShopID:      shopID,
		Name:        name,
		Slug:        slug,
		Permissions: copyStrings(permissions),
	}

	s.groups[group.ID] = group
	s.groupIDsByName[key] = group.ID

	return copyGroup(group), nil
}

func (s *Store) FindGroup(
	ctx context.Context,
	logger logx.Logger,
	query repos.FindGroupQuery,
) (reaction.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, exists := s.groups[query.GroupID]
	if !exists {
		return reaction.Group{}, reaction.ErrGroupNotFound
	}

	return copyGroup(group), nil
}

func (s *Store) FindGroupBySlug(
	ctx context.Context,
	logger logx.Logger,
	query repos.FindGroupBySlugQuery,
) (reaction.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, group := range s.groups {
		if group.ShopID == query.ShopID && group.Slug == query.Slug {
			return copyGroup(group), nil
		}
	}

	return reaction.Group{}, reaction.ErrGroupNotFound
}

func (s *Store) ListShopGroups(
	ctx context.Context,
	logger logx.Logger,
	query repos.ListShopGroupsQuery,
) ([]reaction.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var groups []reaction.Group
	for _, group := range s.groups {
		if group.ShopID == query.ShopID {
			groups = append(groups, copyGroup(group))
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Name < groups[j].Name
	})

	return groups, nil
}

func (s *Store) UpdateGroup(
	ctx context.Context,
	logger logx.Logger,
	group reaction.Group,
) (reaction.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.groups[group.ID]
	if !exists {
		return reaction.Group{}, reaction.ErrGroupNotFound
	}

	if existing.Version != group.Version {
		err := reaction.ErrGroupConflict
		logger.Error(errGroupConflict, err)
		return reaction.Group{}, err
	}

	if existing.Name != group.Name {
		key := shopName{shopID: existing.ShopID, name: group.Name}
		if otherID, taken := s.groupIDsByName[key]; taken && otherID != group.ID {
			err := reaction.ErrGroupAlreadyExists
			logger.Error(errGroupAlreadyExists, err)
			return reaction.Group{}, err
		}

		delete(s.groupIDsByName, shopName{shopID: existing.ShopID, name: existing.Name})
		s.groupIDsByName[key] = group.ID
	}

	stored := copyGroup(group)
	stored.ShopID = existing.ShopID
	stored.Version = existing.Version + 1
	s.groups[group.ID] = stored

	return copyGroup(stored), nil
}
