package datalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"shortsmith/config"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis connection and hash key
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Key      string // hash of id -> record JSON
}

// RedisStore keeps records in a Redis hash keyed by content id.
type RedisStore struct {
	client *redis.Client
	key    string
}

// RedisConfigFromEnv reads REDIS_ADDR, REDIS_PASS, REDIS_DB and VIDEO_LOG_KEY.
// ok is false when REDIS_ADDR is unset.
func RedisConfigFromEnv() (cfg RedisConfig, ok bool) {
	cfg.Addr = os.Getenv("REDIS_ADDR")
	if cfg.Addr == "" {
		return cfg, false
	}
	cfg.Password = os.Getenv("REDIS_PASS")
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil && db >= 0 {
			cfg.DB = db
		}
	}
	cfg.Key = os.Getenv("VIDEO_LOG_KEY")
	if cfg.Key == "" {
		cfg.Key = "shortsmith:videos"
	}
	return cfg, true
}

// NewRedisStore connects and verifies the server is reachable.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return &RedisStore{client: client, key: cfg.Key}, nil
}

// Save stores r unless its id is already present.
func (s *RedisStore) Save(ctx context.Context, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := s.client.HSetNX(ctx, s.key, r.ID, data).Err(); err != nil {
		return fmt.Errorf("failed to save video record: %w", err)
	}
	return nil
}

// Done reports whether id has been stored.
func (s *RedisStore) Done(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.HExists(ctx, s.key, id).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check video record: %w", err)
	}
	return ok, nil
}

// List returns all records oldest first.
func (s *RedisStore) List(ctx context.Context) ([]Record, error) {
	raw, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list video records: %w", err)
	}
	records := make([]Record, 0, len(raw))
	for id, v := range raw {
		var r Record
		if err := json.Unmarshal([]byte(v), &r); err != nil {
			config.Log.WithField("id", id).Warnf("Skipping unreadable video record: %v", err)
			continue
		}
		records = append(records, r)
	}
	sortByTime(records)
	return records, nil
}

// Close closes the underlying Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// OpenFromEnv returns a RedisStore when REDIS_ADDR is set and reachable,
// otherwise a JSONStore at config.VideoLogPath.
func OpenFromEnv() Store {
	cfg, ok := RedisConfigFromEnv()
	if !ok {
		return NewJSONStore(config.VideoLogPath)
	}
	store, err := NewRedisStore(cfg)
	if err != nil {
		config.Log.Warnf("Redis video log unavailable, falling back to %s: %v", config.VideoLogPath, err)
		return NewJSONStore(config.VideoLogPath)
	}
	config.Log.WithField("key", cfg.Key).Info("Video log backed by Redis")
	return store
}
