package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	VideoCreated    = "video.created"
	VideoUpdated    = "video.updated"
	VideoDeleted    = "video.deleted"
	PlaylistCreated = "playlist.created"
	PlaylistUpdated = "playlist.updated"
	PlaylistDeleted = "playlist.deleted"
)

type Event struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher fans mutations out to other listeners. Handlers treat a failed
// publish as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, eventType, id string, payload any)
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, any) {}

type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	logger  *zap.Logger
	now     func() time.Time
}

func NewRedisPublisher(rdb *redis.Client, channel string, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel, logger: logger, now: time.Now}
}

func (p *RedisPublisher) Publish(ctx context.Context, eventType, id string, payload any) {
	if err := p.publish(ctx, Event{Type: eventType, ID: id, Payload: payload, OccurredAt: p.now()}); err != nil {
		p.logger.Warn("failed to publish event",
			zap.String("type", eventType),
			zap.String("id", id),
			zap.Error(err),
		)
	}
}

func (p *RedisPublisher) publish(ctx context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, string(data)).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
