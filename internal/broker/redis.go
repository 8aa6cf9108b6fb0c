package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"quizblog/gateway/internal/models"
)

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSink publishes every event as JSON on one Pub/Sub channel.
type RedisSink struct {
	client  redisPublisher
	channel string
	log     *zap.Logger
}

func NewRedisSink(client *redis.Client, channel string, log *zap.Logger) *RedisSink {
	return &RedisSink{client: client, channel: channel, log: log}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Publish(ctx context.Context, event models.DomainEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return retry(ctx, s.Name(), s.log, func() error {
		return s.client.Publish(ctx, s.channel, data).Err()
	})
}
