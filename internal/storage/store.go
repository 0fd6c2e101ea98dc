// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitsmart/splitsmart/internal/models"
)

// Sentinel errors returned by Store implementations. Callers match these
// with errors.Is to distinguish not-found and write-conflict outcomes
// from infrastructure failures.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("username already in use")
	ErrGroupNotFound = errors.New("group not found")

	// ErrVersionConflict means a save lost the optimistic-concurrency
	// race: the stored group's version no longer matches the version the
	// caller read. The operation should be retried from a fresh read.
	ErrVersionConflict = errors.New("group was modified concurrently")
)

// Store defines the interface for user and group persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateUser persists a new user. Returns ErrUserExists if the
	// username is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByName retrieves a user by username. Returns
	// ErrUserNotFound if no such user exists.
	GetUserByName(ctx context.Context, name string) (*models.User, error)

	// UserExists reports whether a username is registered.
	UserExists(ctx context.Context, name string) (bool, error)

	// CreateGroup persists a new group with all balances at zero.
	// The group's ID, Version, and CreatedAt fields are populated by the
	// store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID, including members, balances, and
	// the full expense log. Returns ErrGroupNotFound if no such group.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByMember retrieves all groups the named user belongs to.
	ListGroupsByMember(ctx context.Context, name string) ([]*models.Group, error)

	// SaveGroup atomically persists a group's balances and any newly
	// appended expenses. The group's Version must match the stored row;
	// on success the version is incremented both in the store and on the
	// passed group. Returns ErrVersionConflict when the check fails.
	SaveGroup(ctx context.Context, group *models.Group) error

	// Close releases any resources held by the store.
	Close() error
}
