package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/voxrelay/voxrelay/internal/models"
)

const audioKeyPrefix = "voxrelay:audio:"

// RedisStore is an optional AudioStore backed by Redis. Records carry the
// retention window as a key TTL, so Redis does the eviction on its own and
// Sweep has nothing left to remove.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
}

// Ensure RedisStore implements AudioStore at compile time.
var _ AudioStore = (*RedisStore)(nil)

func NewRedisStore(redisURL string, retention time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client, retention: retention}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Put(ctx context.Context, record *models.AudioRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal audio record: %w", err)
	}
	return s.client.Set(ctx, audioKeyPrefix+record.ID, data, s.retention).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.AudioRecord, error) {
	data, err := s.client.Get(ctx, audioKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audio record: %w", err)
	}

	var record models.AudioRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal audio record: %w", err)
	}
	return &record, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	removed, err := s.client.Del(ctx, audioKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete audio record: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

// Sweep is a no-op for Redis: the retention window is enforced by key TTLs.
func (s *RedisStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}

// Count walks the keyspace with SCAN rather than KEYS so health checks don't
// block the server.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	var cursor uint64
	count := 0
	for {
		keys, next, err := s.client.Scan(ctx, cursor, audioKeyPrefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to count audio records: %w", err)
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}
