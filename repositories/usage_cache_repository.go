package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisUsageCacheRepository struct {
	redis *redis.Client
}

func NewRedisUsageCacheRepository(redisClient *redis.Client) *RedisUsageCacheRepository {
	return &RedisUsageCacheRepository{redis: redisClient}
}

func usageCacheKey(userID uint) string {
	return fmt.Sprintf("user:%d:storage", userID)
}

func (r *RedisUsageCacheRepository) Get(ctx context.Context, userID uint) (StorageUsage, bool, error) {
	fields, err := r.redis.HGetAll(ctx, usageCacheKey(userID)).Result()
	if err != nil {
		return StorageUsage{}, false, err
	}
	if len(fields) == 0 {
		return StorageUsage{}, false, nil
	}

	used, usedErr := strconv.ParseInt(fields["used"], 10, 64)
	quota, quotaErr := strconv.ParseInt(fields["quota"], 10, 64)
	if usedErr != nil || quotaErr != nil {
		// 缓存内容损坏时按未命中处理
		return StorageUsage{}, false, nil
	}
	return StorageUsage{Used: used, Quota: quota}, true, nil
}

func (r *RedisUsageCacheRepository) Set(ctx context.Context, userID uint, usage StorageUsage, expireSeconds int) error {
	key := usageCacheKey(userID)
	if err := r.redis.HSet(ctx, key, "used", usage.Used, "quota", usage.Quota).Err(); err != nil {
		return err
	}

	expire := time.Duration(expireSeconds) * time.Second
	if expire <= 0 {
		expire = 5 * time.Minute
	}
	return r.redis.Expire(ctx, key, expire).Err()
}

func (r *RedisUsageCacheRepository) Invalidate(ctx context.Context, userID uint) error {
	return r.redis.Del(ctx, usageCacheKey(userID)).Err()
}
