package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook/internal/config"
	"salonbook/internal/models"
	"salonbook/internal/notify"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const directoryKey = "salonbook:staff_directory"

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// RedisSequence is a booking counter shared by every process pointing at the
// same Redis key.
type RedisSequence struct {
	client *redis.Client
	key    string
}

func NewRedisSequence(client *redis.Client, key string) *RedisSequence {
	return &RedisSequence{client: client, key: key}
}

func (s *RedisSequence) Next(ctx context.Context) (int64, error) {
	if s.client == nil {
		return 0, fmt.Errorf("redis client is nil")
	}
	n, err := s.client.Incr(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment booking sequence: %w", err)
	}
	return n, nil
}

// Reset deletes the counter so the next value is 1.
func (s *RedisSequence) Reset(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return s.client.Del(ctx, s.key).Err()
}

// RedisDirectoryCache stores the staff directory as one JSON value with a TTL.
type RedisDirectoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDirectoryCache(client *redis.Client, ttl time.Duration) *RedisDirectoryCache {
	return &RedisDirectoryCache{client: client, ttl: ttl}
}

func (c *RedisDirectoryCache) GetDirectory(ctx context.Context) ([]models.StaffDirectoryEntry, bool, error) {
	if c.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}
	val, err := c.client.Get(ctx, directoryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get staff directory from redis: %w", err)
	}

	var entries []models.StaffDirectoryEntry
	if err := json.Unmarshal(val, &entries); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached staff directory: %w", err)
	}
	return entries, true, nil
}

func (c *RedisDirectoryCache) SetDirectory(ctx context.Context, entries []models.StaffDirectoryEntry) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if entries == nil {
		entries = []models.StaffDirectoryEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode staff directory: %w", err)
	}
	if err := c.client.Set(ctx, directoryKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set staff directory in redis: %w", err)
	}
	return nil
}

func (c *RedisDirectoryCache) InvalidateDirectory(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Del(ctx, directoryKey).Err()
}

// RedisOutbox appends composed WhatsApp messages to a Redis list that the
// front desk tooling drains.
type RedisOutbox struct {
	client *redis.Client
	key    string
	maxLen int64
}

func NewRedisOutbox(client *redis.Client, key string, maxLen int64) *RedisOutbox {
	return &RedisOutbox{client: client, key: key, maxLen: maxLen}
}

func (o *RedisOutbox) Push(ctx context.Context, msg notify.Message) error {
	if o.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode outbox message: %w", err)
	}

	pipe := o.client.TxPipeline()
	pipe.RPush(ctx, o.key, data)
	if o.maxLen > 0 {
		pipe.LTrim(ctx, o.key, -o.maxLen, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push outbox message: %w", err)
	}
	return nil
}

// Recent returns up to limit of the newest messages, oldest first.
func (o *RedisOutbox) Recent(ctx context.Context, limit int64) ([]notify.Message, error) {
	if o.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if limit <= 0 {
		limit = 50
	}
	vals, err := o.client.LRange(ctx, o.key, -limit, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read outbox: %w", err)
	}

	out := make([]notify.Message, 0, len(vals))
	for _, v := range vals {
		var msg notify.Message
		if err := json.Unmarshal([]byte(v), &msg); err != nil {
			return nil, fmt.Errorf("failed to decode outbox message: %w", err)
		}
		out = append(out, msg)
	}
	return out, nil
}
