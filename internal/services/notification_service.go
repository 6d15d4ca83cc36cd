package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"accounthub/internal/models"
	"accounthub/pkg/logger"
)

// NotificationQueue is the Redis list an external mailer drains.
const NotificationQueue = "accounthub:notifications"

// notificationService enqueues templated notifications onto a Redis list for
// an external mailer to drain. Fire-and-forget: every failure is logged and
// absorbed, never returned to the triggering operation.
type notificationService struct {
	client *redis.Client
	log    *logger.Logger
}

func NewNotificationService(client *redis.Client, log *logger.Logger) models.Notifier {
	return &notificationService{client: client, log: log}
}

func (s *notificationService) SendTemplatedNotification(ctx context.Context, templateID string, payload map[string]any) error {
	envelope := map[string]any{
		"template":  templateID,
		"payload":   payload,
		"queued_at": time.Now(),
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		s.log.Error().Err(err).Str("template", templateID).Msg("failed to encode notification")
		return nil
	}

	if err := s.client.LPush(ctx, NotificationQueue, data).Err(); err != nil {
		s.log.Error().Err(err).Str("template", templateID).Msg("failed to enqueue notification")
		return nil
	}

	s.log.Debug().Str("template", templateID).Msg("notification enqueued")
	return nil
}
