package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abrezinsky/rollart/internal/models"
)

// redisClient is the part of redis.Cmdable the sink uses
type redisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSink keeps the latest snapshot under a key and publishes every
// snapshot on a pub/sub channel.
type RedisSink struct {
	client  redisClient
	key     string
	channel string
	ttl     time.Duration
}

// NewRedisSink creates a sink; an empty key or channel disables that half
func NewRedisSink(client redisClient, key, channel string) *RedisSink {
	return &RedisSink{client: client, key: key, channel: channel, ttl: 12 * time.Hour}
}

// NewRedisClient connects to addr and pings it with a short timeout
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping %s failed: %w", addr, err)
	}
	return client, nil
}

// Name identifies the sink in logs
func (s *RedisSink) Name() string {
	return "redis"
}

// Send stores and publishes the snapshot
func (s *RedisSink) Send(ctx context.Context, snap models.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis: marshal snapshot failed: %w", err)
	}
	if s.key != "" {
		if err := s.client.Set(ctx, s.key, body, s.ttl).Err(); err != nil {
			return fmt.Errorf("redis: set %s failed: %w", s.key, err)
		}
	}
	if s.channel != "" {
		if err := s.client.Publish(ctx, s.channel, body).Err(); err != nil {
			return fmt.Errorf("redis: publish %s failed: %w", s.channel, err)
		}
	}
	return nil
}
