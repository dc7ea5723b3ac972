package rbac

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheVersionKey = "rbac:claims:version"

// ClaimCache wraps Redis based caching of merged permission claims with a
// version counter, bumped whenever a grant changes any role.
type ClaimCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClaimCache instantiates the cache helper.
func NewClaimCache(client *redis.Client, ttl time.Duration) *ClaimCache {
	return &ClaimCache{client: client, ttl: ttl}
}

func (c *ClaimCache) version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

func (c *ClaimCache) buildKey(ctx context.Context, roles []string) (string, error) {
	ver, err := c.version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("rbac:claims:v%d:%s", ver, strings.Join(roles, ",")), nil
}

// Get returns the cached permission list for the role set, if present.
func (c *ClaimCache) Get(ctx context.Context, roles []string) ([]string, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	key, err := c.buildKey(ctx, roles)
	if err != nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var perms []string
	if err := json.Unmarshal(raw, &perms); err != nil {
		return nil, false
	}
	return perms, true
}

// Set stores the permission list for the role set.
func (c *ClaimCache) Set(ctx context.Context, roles []string, perms []string) {
	if c == nil || c.client == nil {
		return
	}
	key, err := c.buildKey(ctx, roles)
	if err != nil {
		return
	}
	raw, err := json.Marshal(perms)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Invalidate bumps the cache version, orphaning every cached entry.
func (c *ClaimCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Incr(ctx, cacheVersionKey).Err()
}
