package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// UserTTL bounds staleness of cached user projections.
	UserTTL = 5 * time.Minute
	// PostTTL bounds staleness of cached posts; every post mutation
	// invalidates the key, so the TTL only covers out-of-band writes.
	PostTTL = 10 * time.Minute
)

// UserKey returns the cache key for a user record.
func UserKey(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s", userID)
}

// PostKey returns the cache key for a post aggregate (post plus comments).
func PostKey(postID uuid.UUID) string {
	return fmt.Sprintf("post:%s", postID)
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals value and stores it under key with the given TTL.
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside implements the cache-aside pattern: read dest from cache, or invoke
// fetch to populate dest and write it back. Cache failures never fail the
// read; the fetch result wins.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if found, err := GetJSON(ctx, key, dest); err == nil && found {
		return nil
	}
	if err := fetch(); err != nil {
		return err
	}
	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate removes a single key. A nil client is a no-op.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateUser drops the cached projection for a user.
func InvalidateUser(ctx context.Context, userID uuid.UUID) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePost drops the cached aggregate for a post.
func InvalidatePost(ctx context.Context, postID uuid.UUID) {
	Invalidate(ctx, PostKey(postID))
}
