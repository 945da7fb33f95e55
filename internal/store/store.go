package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store is a TTL'd JSON snapshot cache. Request handling stays stateless:
// handlers only read through it and the background refresher writes it.
type Store interface {
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	HealthCheck(ctx context.Context) error
	Close() error
}

type redisStore struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewRedis creates a Redis-backed snapshot cache and verifies connectivity.
func NewRedis(addr string, db int, password string, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		DB:       db,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &redisStore{redis: rdb, logger: logger}, nil
}

// NewRedisWithClient wraps an existing client (used by tests with miniredis).
func NewRedisWithClient(rdb *redis.Client, logger *zap.Logger) Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisStore{redis: rdb, logger: logger}
}

func (s *redisStore) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		s.logger.Warn("store.set_failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (s *redisStore) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (s *redisStore) HealthCheck(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func (s *redisStore) Close() error {
	return s.redis.Close()
}
