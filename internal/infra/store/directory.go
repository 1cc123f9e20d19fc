package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"classly/internal/domain/notification"
	"classly/internal/model"
)

var _ notification.RecipientDirectory = (*UserDirectory)(nil)

// UserDirectory implements notification.RecipientDirectory on gorm.
type UserDirectory struct {
	db *gorm.DB
}

// NewUserDirectory creates a gorm-backed recipient directory.
func NewUserDirectory(db *gorm.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

// Recipient loads a user with their registered delivery targets, nil when
// the user does not exist.
func (d *UserDirectory) Recipient(ctx context.Context, userID string) (*model.User, error) {
	var u model.User
	err := d.db.WithContext(ctx).
		Preload("PushSubscriptions").
		Preload("DeviceTokens").
		First(&u, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return &u, nil
}

// RemovePushSubscription drops an expired browser subscription.
func (d *UserDirectory) RemovePushSubscription(ctx context.Context, id string) error {
	if err := d.db.WithContext(ctx).Delete(&model.PushSubscription{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting push subscription: %w", err)
	}
	return nil
}

// RemoveDeviceToken drops an unregistered device token.
func (d *UserDirectory) RemoveDeviceToken(ctx context.Context, id string) error {
	if err := d.db.WithContext(ctx).Delete(&model.DeviceToken{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting device token: %w", err)
	}
	return nil
}
