// Package store provides the gorm-backed persistence implementations.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"classly/internal/domain/notification"
	"classly/internal/model"
	"classly/internal/pagination"
)

var _ notification.Store = (*NotificationStore)(nil)

// NotificationStore implements notification.Store on gorm.
type NotificationStore struct {
	db *gorm.DB
}

// NewNotificationStore creates a gorm-backed notification store.
func NewNotificationStore(db *gorm.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

// Create inserts a new notification record.
func (s *NotificationStore) Create(ctx context.Context, n *model.Notification) error {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

// GetByID retrieves a notification by id, nil when absent.
func (s *NotificationStore) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	var n model.Notification
	err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching notification: %w", err)
	}
	return &n, nil
}

// UpdateStatus sets the terminal status. CreatedAt stays untouched; this is
// the record's second and final mutation on the dispatch path.
func (s *NotificationStore) UpdateStatus(ctx context.Context, id string, status model.NotificationStatus) error {
	err := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("updating notification status: %w", err)
	}
	return nil
}

// ListByUser returns one page of the user's notifications and the total count.
func (s *NotificationStore) ListByUser(ctx context.Context, userID string, q pagination.QueryDescriptor) ([]model.Notification, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("counting notifications: %w", err)
	}

	var items []model.Notification
	err = s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Scopes(q.Scope()).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing notifications: %w", err)
	}
	return items, total, nil
}

// CountUnread counts the user's unread notifications.
func (s *NotificationStore) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flips read on the caller's own rows only and reports how many
// actually changed. Already-read rows and foreign ids contribute nothing.
func (s *NotificationStore) MarkRead(ctx context.Context, userID string, ids []string) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND id IN ? AND read = ?", userID, ids, false).
		Update("read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("marking notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ListStale returns PENDING notifications last touched before olderThan,
// oldest first, capped at limit.
func (s *NotificationStore) ListStale(ctx context.Context, olderThan time.Time, limit int) ([]model.Notification, error) {
	var items []model.Notification
	err := s.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", model.NotificationPending, olderThan).
		Order("updated_at ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("listing stale notifications: %w", err)
	}
	return items, nil
}
