// Package push delivers notifications to browsers (web push) and mobile
// devices (FCM).
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"classly/internal/domain/notification"
	"classly/internal/model"
)

var _ notification.WebPushSender = (*WebPushSender)(nil)

// WebPushSender delivers notifications to browser push subscriptions using
// VAPID-authenticated web push.
type WebPushSender struct {
	publicKey  string
	privateKey string
	subscriber string
	ttl        int
}

// NewWebPushSender creates a web-push sender. The keys are the URL-safe
// unpadded base64 pair produced by the vapidkeys command.
func NewWebPushSender(vapidPublicKey, vapidPrivateKey, subscriber string) *WebPushSender {
	return &WebPushSender{
		publicKey:  vapidPublicKey,
		privateKey: vapidPrivateKey,
		subscriber: subscriber,
		ttl:        3600,
	}
}

// webPushPayload is the JSON body handed to the service worker.
type webPushPayload struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	ActionURL string `json:"actionUrl,omitempty"`
}

// SendWebPush pushes one notification to one subscription. A 404/410 from
// the push service means the subscription is gone; that is reported as
// notification.ErrTargetGone so the caller prunes it instead of failing.
func (s *WebPushSender) SendWebPush(ctx context.Context, sub model.PushSubscription, n *model.Notification) error {
	payload, err := json.Marshal(webPushPayload{
		Title:     n.Title,
		Body:      n.Content,
		ActionURL: n.ActionURL,
	})
	if err != nil {
		return fmt.Errorf("marshaling push payload: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             s.ttl,
	})
	if err != nil {
		return fmt.Errorf("sending web push: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return fmt.Errorf("subscription %s: %w", sub.ID, notification.ErrTargetGone)
	case resp.StatusCode >= 400:
		return fmt.Errorf("push service returned status %d", resp.StatusCode)
	}
	return nil
}
