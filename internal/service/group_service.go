package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/splitsmart/splitsmart/internal/cache"
	"github.com/splitsmart/splitsmart/internal/models"
	"github.com/splitsmart/splitsmart/internal/money"
	"github.com/splitsmart/splitsmart/internal/storage"
)

// ErrUnknownGroupMember means a group was created with a username that
// is not registered.
var ErrUnknownGroupMember = errors.New("group member is not a registered user")

// GroupService manages group creation and lookup.
type GroupService struct {
	store        storage.Store
	balanceCache cache.BalanceCache
	storeTimeout time.Duration
}

// NewGroupService creates a new GroupService.
func NewGroupService(store storage.Store, balanceCache cache.BalanceCache, storeTimeout time.Duration) *GroupService {
	return &GroupService{
		store:        store,
		balanceCache: balanceCache,
		storeTimeout: storeTimeout,
	}
}

// CreateGroup creates a group with the given members, all balances at
// zero. Every member must be a registered user; the creator is added
// automatically when missing from the list. Duplicate names collapse to
// one membership.
func (s *GroupService) CreateGroup(ctx context.Context, creator, name string, members []string) (*models.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	unique := make([]string, 0, len(members)+1)
	seen := make(map[string]bool, len(members)+1)
	for _, m := range append([]string{creator}, members...) {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		unique = append(unique, m)
	}

	for _, m := range unique {
		exists, err := s.store.UserExists(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("failed to check member %q: %w", m, err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrUnknownGroupMember, m)
		}
	}

	group := &models.Group{Name: name, Members: unique}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	slog.Info("Group created", "group_id", group.ID, "name", name, "members", len(unique))
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.store.GetGroup(ctx, groupID)
}

// ListGroups retrieves all groups the named user belongs to.
func (s *GroupService) ListGroups(ctx context.Context, username string) ([]*models.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.store.ListGroupsByMember(ctx, username)
}

// GetBalances returns the group's balance map, read through the balance
// cache. The cache is invalidated by the expense and settlement
// services whenever the group changes.
func (s *GroupService) GetBalances(ctx context.Context, groupID string) (map[string]money.Cents, error) {
	if balances, ok := s.balanceCache.Get(ctx, groupID); ok {
		return balances, nil
	}

	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	s.balanceCache.Set(ctx, groupID, group.Balances)
	return group.Balances, nil
}
