package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"accounthub/internal/models"
	"accounthub/pkg/logger"
)

const channel = "accounthub:events"

// RedisPublisher emits lifecycle events on a Redis pub/sub channel.
// Fire-and-forget: failures are logged and absorbed.
type RedisPublisher struct {
	client *redis.Client
	log    *logger.Logger
}

func NewRedisPublisher(client *redis.Client, log *logger.Logger) models.Publisher {
	return &RedisPublisher{client: client, log: log}
}

func (p *RedisPublisher) Publish(ctx context.Context, event string, payload any) error {
	envelope := map[string]any{
		"name":         event,
		"payload":      payload,
		"published_at": time.Now(),
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		p.log.Error().Err(err).Str("event", event).Msg("failed to encode event")
		return nil
	}

	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		p.log.Error().Err(err).Str("event", event).Msg("failed to publish event")
		return nil
	}

	p.log.Debug().Str("event", event).Msg("event published")
	return nil
}
