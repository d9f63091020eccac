package alert

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisChannel = "wine-inventory:alerts"

type RedisSink struct {
	client  *redis.Client
	channel string
}

func NewRedisSink(client *redis.Client, channel string) *RedisSink {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisSink{client: client, channel: channel}
}

func (s *RedisSink) SendAlert(ctx context.Context, message string) error {
	if err := s.client.Publish(ctx, s.channel, message).Err(); err != nil {
		return fmt.Errorf("publish alert to %s: %w", s.channel, err)
	}
	return nil
}
