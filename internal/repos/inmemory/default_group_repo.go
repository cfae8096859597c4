package inmemory

import (
	"context"

	"github.com/JohnathanALves/reaction"
	"github.com/JohnathanALves/reaction/internal/repos"
	"github.com/JohnathanALves/reaction/logx"
)

func (s *Store) SetDefaultGroup(
	ctx context.Context,
	logger logx.Logger,
	shopID string,
	groupID string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, exists := s.groups[groupID]
	if !exists || group.ShopID != shopID {
		return reaction.ErrGroupNotFound
	}

	s.defaultGroups[shopID] = groupID

	return nil
}

func (s *Store) SetDefaultGroupIfUnset(
	ctx context.Context,
	logger logx.Logger,
	shopID string,
	groupID string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.defaultGroups[shopID]; exists {
		return nil
	}

	group, exists := s.groups[groupID]
	if !exists || group.ShopID != shopID {
		return reaction.ErrGroupNotFound
	}

	s.defaultGroups[shopID] = groupID

	return nil
}

func (s *Store) FindDefaultGroupID(
	ctx context.Context,
	logger logx.Logger,
	query repos.FindDefaultGroupQuery,
) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groupID, exists := s.defaultGroups[query.ShopID]
	if !exists {
		return "", reaction.ErrDefaultGroupNotFound
	}

	return groupID, nil
}
