package notification

import (
	"context"
	"fmt"
	"log/slog"

	"classly/internal/common"
	"classly/internal/model"
	"classly/internal/pagination"
)

// Enqueuer defines the contract for enqueuing delivery tasks, decoupling
// the service from the queue implementation.
type Enqueuer interface {
	EnqueueDeliver(notificationID string) error
}

// Service orchestrates the notification dispatch path: resolve recipient →
// persist pending record → enqueue fan-out. It also serves the history,
// unread-count and mark-as-read operations.
type Service struct {
	store     Store
	directory RecipientDirectory
	enqueuer  Enqueuer
	limiter   RecipientRateLimiter
}

// NewService creates a new notification service. limiter may be nil.
func NewService(store Store, directory RecipientDirectory, enqueuer Enqueuer, limiter RecipientRateLimiter) *Service {
	return &Service{
		store:     store,
		directory: directory,
		enqueuer:  enqueuer,
		limiter:   limiter,
	}
}

// Dispatch validates the recipient, persists a PENDING record synchronously
// and enqueues the asynchronous delivery fan-out. The returned record is in
// PENDING state; it is durably visible to concurrent readers before any
// delivery attempt starts. An unknown recipient fails the whole operation
// and leaves no record behind.
func (s *Service) Dispatch(ctx context.Context, req *SendRequest) (*model.Notification, error) {
	recipient, err := s.directory.Recipient(ctx, req.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("resolving recipient: %w", err)
	}
	if recipient == nil {
		return nil, common.NewNotFoundError("user", req.RecipientID)
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, req.RecipientID)
		if err != nil {
			// Fail open: a limiter outage must not block notifications.
			slog.Error("recipient rate limit check failed, proceeding", "recipient", req.RecipientID, "error", err)
		} else if !allowed {
			return nil, common.NewValidationError(fmt.Sprintf("notification rate limit exceeded for recipient %s", req.RecipientID))
		}
	}

	n := &model.Notification{
		UserID:    recipient.ID,
		Type:      req.Type,
		Title:     req.Title,
		Content:   req.Content,
		ActionURL: req.ActionURL,
		Status:    model.NotificationPending,
	}
	if err := s.store.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}

	if err := s.enqueuer.EnqueueDeliver(n.ID); err != nil {
		// The pending record exists but will never be picked up; mark it
		// failed so it does not linger as a ghost.
		_ = s.store.UpdateStatus(ctx, n.ID, model.NotificationFailed)
		return nil, fmt.Errorf("enqueuing delivery: %w", err)
	}

	slog.Info("notification dispatched",
		"id", n.ID,
		"recipient", recipient.ID,
		"type", req.Type,
	)
	return n, nil
}

// History returns one page of the user's notifications, newest first by
// default. Callers normalize the paging request; q is a valid descriptor.
func (s *Service) History(ctx context.Context, userID string, q pagination.QueryDescriptor) (*pagination.Envelope[model.Notification], error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	items, total, err := s.store.ListByUser(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	env := pagination.NewEnvelope(items, total, q)
	return &env, nil
}

// UnreadCount returns the number of unread notifications for the user.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return 0, err
	}
	count, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags the given notifications as read. Only rows owned by userID
// are touched; ids belonging to other users are ignored without error. The
// returned count reflects rows actually updated.
func (s *Service) MarkRead(ctx context.Context, userID string, ids []string) (int64, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return 0, err
	}
	updated, err := s.store.MarkRead(ctx, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("marking notifications read: %w", err)
	}
	return updated, nil
}

func (s *Service) requireUser(ctx context.Context, userID string) error {
	u, err := s.directory.Recipient(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolving user: %w", err)
	}
	if u == nil {
		return common.NewNotFoundError("user", userID)
	}
	return nil
}
