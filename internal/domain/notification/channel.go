package notification

import (
	"context"
	"errors"

	"classly/internal/model"
)

// Channel identifies one delivery mechanism.
type Channel string

const (
	ChannelEmail      Channel = "email"
	ChannelWebPush    Channel = "web_push"
	ChannelMobilePush Channel = "mobile_push"
)

// ErrTargetGone marks a delivery target that no longer exists: an expired
// push subscription or an unregistered device token. Senders wrap it so the
// deliverer can tell a dead target (skip and prune) from a real failure.
var ErrTargetGone = errors.New("delivery target gone")

// EmailSender delivers a notification to an email address.
// Implementations live in infra/email.
type EmailSender interface {
	SendEmail(ctx context.Context, to string, n *model.Notification) error
}

// WebPushSender delivers a notification to one browser push subscription.
// Implementations live in infra/push.
type WebPushSender interface {
	SendWebPush(ctx context.Context, sub model.PushSubscription, n *model.Notification) error
}

// DevicePushSender delivers a notification to one mobile device token.
// Implementations live in infra/push.
type DevicePushSender interface {
	SendDevicePush(ctx context.Context, token model.DeviceToken, n *model.Notification) error
}
