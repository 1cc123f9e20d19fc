package notification

import (
	"context"
	"time"

	"classly/internal/model"
	"classly/internal/pagination"
)

// Store defines the contract for persisting notification records.
// Implementations live in infra/store.
type Store interface {
	// Create inserts a new notification record.
	Create(ctx context.Context, n *model.Notification) error

	// GetByID retrieves a notification by its ID. Returns nil, nil when no
	// record exists.
	GetByID(ctx context.Context, id string) (*model.Notification, error)

	// UpdateStatus sets the terminal delivery status of a notification.
	UpdateStatus(ctx context.Context, id string, status model.NotificationStatus) error

	// ListByUser retrieves one page of a user's notifications plus the total count.
	ListByUser(ctx context.Context, userID string, q pagination.QueryDescriptor) ([]model.Notification, int64, error)

	// CountUnread counts the user's notifications with read = false.
	CountUnread(ctx context.Context, userID string) (int64, error)

	// MarkRead sets read = true on the given ids where they belong to userID
	// and returns the number of rows actually updated. Foreign ids are
	// silently ignored.
	MarkRead(ctx context.Context, userID string, ids []string) (int64, error)

	// ListStale returns up to limit PENDING notifications last touched
	// before olderThan, oldest first. Terminal records never qualify.
	ListStale(ctx context.Context, olderThan time.Time, limit int) ([]model.Notification, error)
}

// RecipientDirectory resolves notification recipients and their registered
// delivery targets.
type RecipientDirectory interface {
	// Recipient returns the user with push subscriptions and device tokens
	// loaded. Returns nil, nil when the user does not exist.
	Recipient(ctx context.Context, userID string) (*model.User, error)

	// RemovePushSubscription drops a subscription the push service reported gone.
	RemovePushSubscription(ctx context.Context, id string) error

	// RemoveDeviceToken drops a token the push backend reported unregistered.
	RemoveDeviceToken(ctx context.Context, id string) error
}
