package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher republishes progress events on a Redis channel so
// external UIs can follow a run without linking the pipeline.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisPublisher(opts *redis.Options, channel string, logger *slog.Logger) (*RedisPublisher, error) {
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to Redis", "error", err)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis", "channel", channel)
	return &RedisPublisher{client: client, channel: channel, logger: logger}, nil
}

// Relay consumes a subscription until it is closed or the context ends.
// Intended to run in its own goroutine.
func (p *RedisPublisher) Relay(ctx context.Context, stream <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-stream:
			if !ok {
				return
			}
			if err := p.publish(ctx, event); err != nil {
				p.logger.Warn("failed to relay event to Redis",
					"step", event.StepID,
					"error", err,
				)
			}
		}
	}
}

func (p *RedisPublisher) publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.client.Publish(ctx, p.channel, data).Err()
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
