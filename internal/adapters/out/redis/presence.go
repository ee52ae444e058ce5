// Package redis provides the Redis-backed presence cache. Presence is
// ephemeral state: it records which actors currently hold a live push
// connection so the notification path can choose between an immediate
// push and a logged miss. Every entry carries a TTL and the cache can be
// rebuilt from scratch after a Redis restart.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const presenceKeyPrefix = "presence:"

// PresenceCache records which actors are online and over which
// connection. An actor with multiple live connections holds one entry;
// the newest connection id wins, which is enough because the hub fans
// a push out to all of the actor's connections anyway.
type PresenceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPresenceCache creates a presence cache over the given client.
// The ttl bounds how stale a crashed connection's entry can get; the
// read pump refreshes it on every pong.
func NewPresenceCache(client *redis.Client, ttl time.Duration) (*PresenceCache, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("redis client")
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsInvalidError("presence ttl")
	}

	return &PresenceCache{
		client: client,
		ttl:    ttl,
	}, nil
}

// SetOnline marks the actor as online over the given connection.
func (c *PresenceCache) SetOnline(ctx context.Context, actorID kernel.UUID, connID string) error {
	if err := actorID.Validate(); err != nil {
		return err
	}
	if connID == "" {
		return errs.NewValueIsRequiredError("connection id")
	}

	if err := c.client.Set(ctx, presenceKey(actorID), connID, c.ttl).Err(); err != nil {
		return fmt.Errorf("set presence for %s: %w", actorID, err)
	}
	return nil
}

// Refresh extends the TTL of the actor's presence entry. Refreshing an
// absent entry is a no-op: the connection already expired and the next
// SetOnline recreates it.
func (c *PresenceCache) Refresh(ctx context.Context, actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	if err := c.client.Expire(ctx, presenceKey(actorID), c.ttl).Err(); err != nil {
		return fmt.Errorf("refresh presence for %s: %w", actorID, err)
	}
	return nil
}

// SetOffline removes the actor's presence entry, if the given connection
// still owns it. A newer connection's entry is left untouched so a
// reconnect racing a disconnect does not flap the actor offline.
func (c *PresenceCache) SetOffline(ctx context.Context, actorID kernel.UUID, connID string) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	current, err := c.client.Get(ctx, presenceKey(actorID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get presence for %s: %w", actorID, err)
	}
	if current != connID {
		return nil
	}

	if err := c.client.Del(ctx, presenceKey(actorID)).Err(); err != nil {
		return fmt.Errorf("delete presence for %s: %w", actorID, err)
	}
	return nil
}

// IsOnline reports whether the actor currently has a live presence entry.
func (c *PresenceCache) IsOnline(ctx context.Context, actorID kernel.UUID) (bool, error) {
	if err := actorID.Validate(); err != nil {
		return false, err
	}

	count, err := c.client.Exists(ctx, presenceKey(actorID)).Result()
	if err != nil {
		return false, fmt.Errorf("check presence for %s: %w", actorID, err)
	}
	return count > 0, nil
}

func presenceKey(actorID kernel.UUID) string {
	return presenceKeyPrefix + actorID.String()
}
