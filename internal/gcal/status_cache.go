package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const statusCacheTTL = 5 * time.Minute

// RedisStatusCache keeps the per-user connection status for a few
// minutes, the status endpoint is polled by the client on every screen
// and must not hit postgres each time. Every connection mutation
// invalidates the key; stale reads are bounded by the TTL.
type RedisStatusCache struct {
	redisClient *redis.Client
}

func NewRedisStatusCache(redisClient *redis.Client) *RedisStatusCache {
	return &RedisStatusCache{
		redisClient: redisClient,
	}
}

func (c *RedisStatusCache) Get(ctx context.Context, userID uuid.UUID) (*StatusResponse, bool) {
	cmd := c.redisClient.Get(ctx, c.key(userID))
	if err := cmd.Err(); err != nil {
		if err != redis.Nil {
			log.Errorf("failed to get calendar status from redis for %s: %s", userID, err)
		}
		return nil, false
	}

	statusBytes := cmd.Val()
	if statusBytes == "" {
		return nil, false
	}

	var status StatusResponse
	if err := json.Unmarshal([]byte(statusBytes), &status); err != nil {
		log.Errorf("failed to unmarshal cached calendar status for %s: %s", userID, err)
		return nil, false
	}

	return &status, true
}

func (c *RedisStatusCache) Set(ctx context.Context, userID uuid.UUID, status *StatusResponse) {
	statusBytes, err := json.Marshal(status)
	if err != nil {
		log.Errorf("failed to marshal calendar status for %s: %s", userID, err)
		return
	}

	if cmd := c.redisClient.Set(ctx, c.key(userID), statusBytes, statusCacheTTL); cmd.Err() != nil {
		log.Errorf("failed to cache calendar status for %s: %s", userID, cmd.Err())
	}
}

func (c *RedisStatusCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if cmd := c.redisClient.Del(ctx, c.key(userID)); cmd.Err() != nil {
		log.Errorf("failed to invalidate calendar status for %s: %s", userID, cmd.Err())
	}
}

func (c *RedisStatusCache) key(userID uuid.UUID) string {
	return fmt.Sprintf("calendar-status::%s", userID)
}
