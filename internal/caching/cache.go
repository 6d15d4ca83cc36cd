package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"accounthub/internal/models"
)

// Cache is a Redis-backed read-through cache plus a fixed-window rate
// limiter. Workspace lookups sit on the hot path of every workspace-scoped
// request, so they get a short TTL entry; a miss returns (nil, nil).
type Cache interface {
	GetWorkspace(ctx context.Context, id uuid.UUID) (*models.Workspace, error)
	SetWorkspace(ctx context.Context, workspace *models.Workspace, ttl time.Duration) error
	DeleteWorkspace(ctx context.Context, id uuid.UUID) error

	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (r *redisCache) GetWorkspace(ctx context.Context, id uuid.UUID) (*models.Workspace, error) {
	key := fmt.Sprintf("accounthub:workspace:%s", id.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var workspace models.Workspace
	if err := json.Unmarshal(data, &workspace); err != nil {
		return nil, err
	}
	return &workspace, nil
}

func (r *redisCache) SetWorkspace(ctx context.Context, workspace *models.Workspace, ttl time.Duration) error {
	key := fmt.Sprintf("accounthub:workspace:%s", workspace.ID.String())
	data, err := json.Marshal(workspace)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCache) DeleteWorkspace(ctx context.Context, id uuid.UUID) error {
	key := fmt.Sprintf("accounthub:workspace:%s", id.String())
	return r.client.Del(ctx, key).Err()
}

// IsRateLimited counts hits for key in a fixed window. The window starts on
// the first hit and the counter expires with it.
func (r *redisCache) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("accounthub:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}
