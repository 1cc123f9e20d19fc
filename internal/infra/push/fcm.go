package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"classly/internal/domain/notification"
	"classly/internal/model"
)

var _ notification.DevicePushSender = (*FCMSender)(nil)

// FCMSender delivers notifications to mobile devices through Firebase
// Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
}

// NewFCMSender creates an FCM sender from a service-account credentials file.
func NewFCMSender(ctx context.Context, credentialsFile string) (*FCMSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing messaging client: %w", err)
	}
	return &FCMSender{client: client}, nil
}

// SendDevicePush pushes one notification to one device token. An
// unregistered token is reported as notification.ErrTargetGone so the
// caller prunes it instead of failing.
func (s *FCMSender) SendDevicePush(ctx context.Context, token model.DeviceToken, n *model.Notification) error {
	msg := &messaging.Message{
		Token: token.Token,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Content,
		},
	}
	if n.ActionURL != "" {
		msg.Data = map[string]string{"actionUrl": n.ActionURL}
	}

	if _, err := s.client.Send(ctx, msg); err != nil {
		if messaging.IsUnregistered(err) {
			return fmt.Errorf("token %s: %w", token.ID, notification.ErrTargetGone)
		}
		return fmt.Errorf("sending fcm message: %w", err)
	}
	return nil
}
