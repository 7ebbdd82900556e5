package redis

import (
	"context"
	"fmt"
	"time"

	"biolink-saas/internal/domain/ports/adapter"
)

var _ adapter.CacheInvalidator = (*TagCache)(nil)

// TagCache stores values under plain keys and remembers, per tag, which keys
// belong to it. Invalidating a tag deletes every member key and the tag set.
type TagCache struct {
	client RedisClient
}

func NewTagCache(client RedisClient) *TagCache {
	return &TagCache{client: client}
}

func tagKey(tag string) string { return "tag:" + tag }

// Set stores value at key and attaches key to every tag. Tag sets live at
// least as long as the entry they index.
func (c *TagCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration, tags ...string) error {
	if err := c.client.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	for _, tag := range tags {
		tk := tagKey(tag)
		if err := c.client.SAdd(ctx, tk, key); err != nil {
			return fmt.Errorf("tag %s: %w", tag, err)
		}
		if err := c.client.Expire(ctx, tk, ttl); err != nil {
			return fmt.Errorf("tag %s expire: %w", tag, err)
		}
	}
	return nil
}

func (c *TagCache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key)
}

// InvalidateTag evicts every key stored under tag.
func (c *TagCache) InvalidateTag(ctx context.Context, tag string) error {
	tk := tagKey(tag)
	keys, err := c.client.SMembers(ctx, tk)
	if err != nil {
		return fmt.Errorf("invalidate %s: %w", tag, err)
	}
	return c.client.Del(ctx, append(keys, tk)...)
}
