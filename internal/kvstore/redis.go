package kvstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lukman83/baydeals/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig locates the Redis server shared by all caches.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Redis stores one cache as a single Redis hash, so Clear drops exactly
// that cache and nothing else in the database.
type Redis struct {
	client *redis.Client
	hash   string
	logger *zap.Logger
}

// NewRedisClient connects and pings. The client can back several caches.
func NewRedisClient(ctx context.Context, cfg RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	if logger != nil {
		logger.Info("Redis connected", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	}
	return client, nil
}

// NewRedis returns the cache named name, e.g. "translations".
func NewRedis(client *redis.Client, name string, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{client: client, hash: HashKey(name), logger: logger}
}

// HashKey is the Redis key holding the named cache.
func HashKey(name string) string {
	return "baydeals:cache:" + name
}

func (r *Redis) Get(ctx context.Context, key string) (json.RawMessage, error) {
	val, err := r.client.HGet(ctx, r.hash, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return nil, errors.NewCacheError("get failed", "get", key, err)
	}
	return val, nil
}

func (r *Redis) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := r.client.HSet(ctx, r.hash, key, []byte(value)).Err(); err != nil {
		r.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("set failed", "set", key, err)
	}
	return nil
}

func (r *Redis) SetMany(ctx context.Context, entries map[string]json.RawMessage) error {
	if len(entries) == 0 {
		return nil
	}
	values := make(map[string]any, len(entries))
	for k, v := range entries {
		values[k] = []byte(v)
	}
	if err := r.client.HSet(ctx, r.hash, values).Err(); err != nil {
		r.logger.Error("Cache set many failed", zap.Int("count", len(entries)), zap.Error(err))
		return errors.NewCacheError("set many failed", "set_many", r.hash, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.HDel(ctx, r.hash, key).Err(); err != nil {
		return errors.NewCacheError("delete failed", "delete", key, err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.hash).Err(); err != nil {
		return errors.NewCacheError("clear failed", "clear", r.hash, err)
	}
	return nil
}
