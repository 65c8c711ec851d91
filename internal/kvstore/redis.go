package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/khatoa-app/khatoa/internal/config"
)

// Redis реализует Store поверх redis. В отличие от кэша записи не получают
// TTL: это основное хранилище, а не ускоритель.
type Redis struct {
	Db *redis.Client
}

// NewRedis подключается к redis и проверяет соединение.
func NewRedis(ctx context.Context, cfg config.RedisConnection) (*Redis, error) {
	const op = "kvstore.NewRedis"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Redis{Db: db}, nil
}

// Get читает и десериализует значение по ключу.
func (r *Redis) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "kvstore.Redis.Get"
	val, err := r.Db.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err = json.Unmarshal([]byte(val), result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сериализует значение в JSON и сохраняет без срока жизни.
func (r *Redis) Set(ctx context.Context, key string, value any) error {
	const op = "kvstore.Redis.Set"
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return r.Db.Set(ctx, key, jsonData, 0).Err()
}

// Delete удаляет ключ.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.Db.Del(ctx, key).Err()
}
