package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const presenceTTL = 2 * time.Minute

// PresenceStore tracks which users currently hold at least one live realtime
// connection. Keys expire on their own, so a crashed process never leaves
// users marked online forever.
// Key format: presence:<user_id>
type PresenceStore struct {
	client *redis.Client
}

// NewPresenceStore creates a PresenceStore wrapping the given Redis client.
func NewPresenceStore(client *redis.Client) *PresenceStore {
	return &PresenceStore{client: client}
}

// MarkOnline records the user as connected (expires after presenceTTL unless
// refreshed).
func (p *PresenceStore) MarkOnline(ctx context.Context, userID string) error {
	return p.client.Set(ctx, p.key(userID), "1", presenceTTL).Err()
}

// MarkOffline clears the user's presence flag.
func (p *PresenceStore) MarkOffline(ctx context.Context, userID string) error {
	return p.client.Del(ctx, p.key(userID)).Err()
}

func (p *PresenceStore) key(userID string) string {
	return "presence:" + userID
}
