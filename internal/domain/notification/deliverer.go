package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"classly/internal/model"
)

// outcome is the result of one channel within a dispatch invocation.
// A channel with no live target is not attempted at all.
type outcome struct {
	attempted bool
	succeeded bool
}

// Deliverer runs the delivery fan-out for a single notification: it loads
// the record and its recipient, attempts every eligible channel concurrently,
// and persists the terminal status exactly once. Per-channel failures are
// absorbed into the aggregate status, never returned to the caller.
type Deliverer struct {
	store      Store
	directory  RecipientDirectory
	email      EmailSender
	webPush    WebPushSender
	devicePush DevicePushSender
	timeout    time.Duration
}

// NewDeliverer creates a deliverer. A nil sender disables its channel.
func NewDeliverer(
	store Store,
	directory RecipientDirectory,
	email EmailSender,
	webPush WebPushSender,
	devicePush DevicePushSender,
	channelTimeout time.Duration,
) *Deliverer {
	if channelTimeout <= 0 {
		channelTimeout = 15 * time.Second
	}
	return &Deliverer{
		store:      store,
		directory:  directory,
		email:      email,
		webPush:    webPush,
		devicePush: devicePush,
		timeout:    channelTimeout,
	}
}

// Deliver performs the fan-out for a pending notification and returns the
// record in its terminal state. It returns an error only when the record
// cannot be loaded or the final status cannot be persisted, never for
// individual channel failures.
func (d *Deliverer) Deliver(ctx context.Context, notificationID string) (*model.Notification, error) {
	start := time.Now()

	n, err := d.store.GetByID(ctx, notificationID)
	if err != nil {
		return nil, fmt.Errorf("fetching notification %s: %w", notificationID, err)
	}
	if n == nil {
		return nil, fmt.Errorf("notification not found: %s", notificationID)
	}

	// A terminal record means a previous invocation already ran to
	// completion; a redelivered queue task must not mutate it again.
	if n.Status != model.NotificationPending {
		return n, nil
	}

	recipient, err := d.directory.Recipient(ctx, n.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolving recipient %s: %w", n.UserID, err)
	}
	if recipient == nil {
		// Recipient deleted between creation and delivery.
		if err := d.store.UpdateStatus(ctx, n.ID, model.NotificationFailed); err != nil {
			return nil, fmt.Errorf("persisting failed status: %w", err)
		}
		n.Status = model.NotificationFailed
		return n, nil
	}

	outcomes := make([]outcome, 3)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		outcomes[0] = d.attemptEmail(ctx, recipient, n)
	}()
	go func() {
		defer wg.Done()
		outcomes[1] = d.attemptWebPush(ctx, recipient, n)
	}()
	go func() {
		defer wg.Done()
		outcomes[2] = d.attemptDevicePush(ctx, recipient, n)
	}()
	wg.Wait()

	status := aggregate(outcomes)
	if err := d.store.UpdateStatus(ctx, n.ID, status); err != nil {
		return nil, fmt.Errorf("persisting terminal status: %w", err)
	}
	n.Status = status

	slog.Info("notification delivered",
		"id", n.ID,
		"recipient", n.UserID,
		"type", n.Type,
		"status", status,
		"duration", time.Since(start),
	)
	return n, nil
}

// aggregate folds channel outcomes into the terminal status. With zero
// eligible channels the notification counts as trivially SENT; the record
// keeps its history value and no channel ever retries it.
func aggregate(outcomes []outcome) model.NotificationStatus {
	var attempted, succeeded int
	for _, o := range outcomes {
		if !o.attempted {
			continue
		}
		attempted++
		if o.succeeded {
			succeeded++
		}
	}
	switch {
	case attempted == 0:
		return model.NotificationSent
	case succeeded == attempted:
		return model.NotificationSent
	case succeeded > 0:
		return model.NotificationPartiallySent
	default:
		return model.NotificationFailed
	}
}

func (d *Deliverer) attemptEmail(ctx context.Context, u *model.User, n *model.Notification) outcome {
	var o outcome
	if d.email == nil || u.Email == "" || !u.EmailNotificationsEnabled {
		return o
	}
	o.attempted = true

	cctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.email.SendEmail(cctx, u.Email, n); err != nil {
		slog.Error("delivery failed", "channel", string(ChannelEmail), "notification", n.ID, "error", err)
		return o
	}
	o.succeeded = true
	return o
}

func (d *Deliverer) attemptWebPush(ctx context.Context, u *model.User, n *model.Notification) outcome {
	var o outcome
	if d.webPush == nil || len(u.PushSubscriptions) == 0 {
		return o
	}

	var delivered, failed int
	for _, sub := range u.PushSubscriptions {
		cctx, cancel := context.WithTimeout(ctx, d.timeout)
		err := d.webPush.SendWebPush(cctx, sub, n)
		cancel()

		switch {
		case err == nil:
			delivered++
		case errors.Is(err, ErrTargetGone):
			// Expired subscription: skip it and drop the dead row so the
			// next dispatch does not retry it.
			if rmErr := d.directory.RemovePushSubscription(ctx, sub.ID); rmErr != nil {
				slog.Error("pruning push subscription failed", "subscription", sub.ID, "error", rmErr)
			}
			slog.Info("skipped expired push subscription", "notification", n.ID, "subscription", sub.ID)
		default:
			failed++
			slog.Error("delivery failed", "channel", string(ChannelWebPush), "notification", n.ID, "subscription", sub.ID, "error", err)
		}
	}

	// All targets gone means the channel had nothing live to attempt.
	o.attempted = delivered > 0 || failed > 0
	o.succeeded = delivered > 0
	return o
}

func (d *Deliverer) attemptDevicePush(ctx context.Context, u *model.User, n *model.Notification) outcome {
	var o outcome
	if d.devicePush == nil || len(u.DeviceTokens) == 0 {
		return o
	}

	var delivered, failed int
	for _, tok := range u.DeviceTokens {
		cctx, cancel := context.WithTimeout(ctx, d.timeout)
		err := d.devicePush.SendDevicePush(cctx, tok, n)
		cancel()

		switch {
		case err == nil:
			delivered++
		case errors.Is(err, ErrTargetGone):
			if rmErr := d.directory.RemoveDeviceToken(ctx, tok.ID); rmErr != nil {
				slog.Error("pruning device token failed", "token", tok.ID, "error", rmErr)
			}
			slog.Info("skipped unregistered device token", "notification", n.ID, "token", tok.ID)
		default:
			failed++
			slog.Error("delivery failed", "channel", string(ChannelMobilePush), "notification", n.ID, "token", tok.ID, "error", err)
		}
	}

	o.attempted = delivered > 0 || failed > 0
	o.succeeded = delivered > 0
	return o
}
