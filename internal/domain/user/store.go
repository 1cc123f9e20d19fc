// Package user owns platform accounts and their registered delivery targets.
package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"classly/internal/common"
	"classly/internal/model"
	"classly/internal/pagination"
)

// Store persists users on gorm.
type Store struct {
	db *gorm.DB
}

// NewStore creates a gorm-backed user store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create inserts a user. A taken email surfaces as DuplicateError.
func (s *Store) Create(ctx context.Context, u *model.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.NewDuplicateError("user", "email")
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by id, nil when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return &u, nil
}

// List returns one page of users plus the total count.
func (s *Store) List(ctx context.Context, q pagination.QueryDescriptor) ([]model.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting users: %w", err)
	}

	var items []model.User
	if err := s.db.WithContext(ctx).Scopes(q.Scope()).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("listing users: %w", err)
	}
	return items, total, nil
}

// Update saves a modified user.
func (s *Store) Update(ctx context.Context, u *model.User) error {
	if err := s.db.WithContext(ctx).Save(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.NewDuplicateError("user", "email")
		}
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

// Delete removes a user by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

// AddPushSubscription registers a browser push subscription for the user.
func (s *Store) AddPushSubscription(ctx context.Context, sub *model.PushSubscription) error {
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.NewDuplicateError("push subscription", "endpoint")
		}
		return fmt.Errorf("inserting push subscription: %w", err)
	}
	return nil
}

// AddDeviceToken registers a mobile device token for the user.
func (s *Store) AddDeviceToken(ctx context.Context, tok *model.DeviceToken) error {
	if err := s.db.WithContext(ctx).Create(tok).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.NewDuplicateError("device token", "token")
		}
		return fmt.Errorf("inserting device token: %w", err)
	}
	return nil
}
