package notification

import "context"

// RecipientRateLimiter defines the contract for per-recipient dispatch
// rate limiting. Implementations live in infra/ratelimit.
type RecipientRateLimiter interface {
	// Allow reports whether another notification may be dispatched to the
	// given recipient right now.
	Allow(ctx context.Context, recipientID string) (bool, error)
}
