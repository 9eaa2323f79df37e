package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisPublisherDeliversOnChannel(t *testing.T) {
	ctx := context.Background()
	client := setupTestRedis(t)

	sub := client.Subscribe(ctx, "vidplay:events")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	pub := NewRedisPublisher(client, "vidplay:events", zap.NewNop())
	pub.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	pub.Publish(ctx, VideoCreated, "v-1", map[string]string{"title": "Intro"})

	select {
	case msg := <-sub.Channel():
		var evt struct {
			Type    string            `json:"type"`
			ID      string            `json:"id"`
			Payload map[string]string `json:"payload"`
		}
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &evt))
		assert.Equal(t, VideoCreated, evt.Type)
		assert.Equal(t, "v-1", evt.ID)
		assert.Equal(t, "Intro", evt.Payload["title"])
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestRedisPublisherSwallowsErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	pub := NewRedisPublisher(client, "vidplay:events", zap.NewNop())
	assert.NotPanics(t, func() {
		pub.Publish(context.Background(), PlaylistDeleted, "p-1", nil)
	})
	assert.Error(t, pub.publish(context.Background(), Event{Type: PlaylistDeleted}))
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NotPanics(t, func() {
		p.Publish(context.Background(), VideoDeleted, "1", nil)
	})
}
