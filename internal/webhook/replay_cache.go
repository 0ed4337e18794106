package webhook

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// replayWindow is how long a webhook delivery id is remembered for
// dedup purposes. Connectors routinely retry undelivered webhooks; this
// keeps retried deliveries from being processed twice.
const replayWindow = 24 * time.Hour

// ReplayCache deduplicates inbound webhook deliveries by connector-supplied
// delivery id. It is not the payment system of record — only a
// best-effort dedup side channel, same posture as pkg's redis-backed
// caches adapted from entity lookups.
type ReplayCache struct {
	client *redis.Client
}

// NewReplayCache wraps an existing Redis client.
func NewReplayCache(client *redis.Client) *ReplayCache {
	return &ReplayCache{client: client}
}

// SeenBefore records deliveryID as seen and reports whether it had already
// been recorded, atomically, so two concurrent deliveries of the same
// webhook can't both be treated as first-seen.
func (c *ReplayCache) SeenBefore(ctx context.Context, connectorID, deliveryID string) (bool, error) {
	key := "webhook:seen:" + connectorID + ":" + deliveryID
	ok, err := c.client.SetNX(ctx, key, "1", replayWindow).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}
