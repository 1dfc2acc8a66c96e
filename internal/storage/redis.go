package storage

import (
	"context"
	"time"

	"overcooked-menu/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStats counts how many portions of each dish were ordered per day.
type RedisStats struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStats(client *redis.Client, ttl time.Duration) *RedisStats {
	return &RedisStats{Client: client, TTL: ttl}
}

func (s *RedisStats) PopularityKey(day string) string {
	return "popularity:daily:" + day
}

func (s *RedisStats) RecordOrder(ctx context.Context, day string, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	key := s.PopularityKey(day)
	pipe := s.Client.TxPipeline()
	for _, item := range items {
		pipe.ZIncrBy(ctx, key, float64(item.Quantity), item.DishID)
	}
	if s.TTL > 0 {
		pipe.Expire(ctx, key, s.TTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStats) TopDishes(ctx context.Context, day string, n int) ([]domain.DishPopularity, error) {
	if n <= 0 {
		return []domain.DishPopularity{}, nil
	}
	result, err := s.Client.ZRevRangeWithScores(ctx, s.PopularityKey(day), 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	top := make([]domain.DishPopularity, 0, len(result))
	for _, member := range result {
		dishID, _ := member.Member.(string)
		top = append(top, domain.DishPopularity{DishID: dishID, Score: member.Score})
	}
	return top, nil
}
