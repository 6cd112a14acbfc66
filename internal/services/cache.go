package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"studyhub-backend/internal/models"
)

const statsCacheKeyPrefix = "stats:"

// StatsCache holds computed stats snapshots per user.
type StatsCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.StudyStats, bool, error)
	Set(ctx context.Context, userID uuid.UUID, stats *models.StudyStats) error
	Invalidate(ctx context.Context, userIDs ...uuid.UUID) error
}

type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatsCache(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

func statsCacheKey(userID uuid.UUID) string {
	return statsCacheKeyPrefix + userID.String()
}

func (c *RedisStatsCache) Get(ctx context.Context, userID uuid.UUID) (*models.StudyStats, bool, error) {
	raw, err := c.client.Get(ctx, statsCacheKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var stats models.StudyStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false, fmt.Errorf("decode cached stats: %w", err)
	}
	return &stats, true, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, userID uuid.UUID, stats *models.StudyStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsCacheKey(userID), raw, c.ttl).Err()
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, userIDs ...uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = statsCacheKey(id)
	}
	return c.client.Del(ctx, keys...).Err()
}

type noopStatsCache struct{}

func (noopStatsCache) Get(context.Context, uuid.UUID) (*models.StudyStats, bool, error) {
	return nil, false, nil
}

func (noopStatsCache) Set(context.Context, uuid.UUID, *models.StudyStats) error { return nil }

func (noopStatsCache) Invalidate(context.Context, ...uuid.UUID) error { return nil }
