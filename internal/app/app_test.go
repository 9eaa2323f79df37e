package app

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/grvbrk/vidplay/internal/config"
	"github.com/grvbrk/vidplay/internal/events"
	"github.com/grvbrk/vidplay/internal/store"
	"github.com/grvbrk/vidplay/internal/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Env:            "development",
		StoreDriver:    config.StoreMemory,
		SeedData:       true,
		EventsChannel:  "vidplay:events",
		UploadTick:     time.Millisecond,
		UploadDuration: time.Millisecond,
	}
}

func TestNewApplicationMemory(t *testing.T) {
	app, err := NewApplication(context.Background(), memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	videos, err := app.VideoHandler.VideoStore.GetVideos(context.Background())
	require.NoError(t, err)
	assert.Len(t, videos, 3)
	assert.IsType(t, events.NopPublisher{}, app.VideoHandler.Events)
	assert.False(t, app.SessionStore.Options.Secure)
}

func TestNewApplicationWithoutSeed(t *testing.T) {
	cfg := memoryConfig()
	cfg.SeedData = false

	app, err := NewApplication(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	playlists, err := app.PlaylistHandler.PlaylistStore.GetPlaylists(context.Background())
	require.NoError(t, err)
	assert.Empty(t, playlists)
}

func TestNewApplicationWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := memoryConfig()
	cfg.RedisURL = "redis://" + mr.Addr()

	app, err := NewApplication(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &events.RedisPublisher{}, app.VideoHandler.Events)
}

func TestCloseStopsUploads(t *testing.T) {
	cfg := memoryConfig()
	cfg.UploadDuration = time.Hour

	app, err := NewApplication(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	tracker := app.UploadHandler.Tracker
	u, err := tracker.Start("clip.mp4", 10, func(ctx context.Context) (string, error) {
		return "never", nil
	})
	require.NoError(t, err)
	got, err := tracker.Get(u.ID)
	require.NoError(t, err)
	assert.Equal(t, upload.StatusUploading, got.Status)

	app.Close()

	_, err = tracker.Get(u.ID)
	assert.ErrorIs(t, err, upload.ErrNotFound)
	_, err = tracker.Start("late.mp4", 10, func(ctx context.Context) (string, error) { return "", nil })
	assert.ErrorIs(t, err, upload.ErrClosed)
}

func TestNewApplicationRejectsUnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreDriver = "sqlite"

	_, err := NewApplication(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestNewSessionOptions(t *testing.T) {
	cfg := memoryConfig()
	cfg.Env = "production"
	cfg.SessionAuthKey = "0123456789abcdef0123456789abcdef"
	cfg.SessionEncryptionKey = "0123456789abcdef"

	app, err := New(cfg, zap.NewNop(), Dependencies{
		VideoStore:    store.NewMemoryVideoStore(),
		PlaylistStore: store.NewMemoryPlaylistStore(),
		Publisher:     events.NopPublisher{},
	})
	require.NoError(t, err)
	assert.True(t, app.SessionStore.Options.Secure)
	assert.True(t, app.SessionStore.Options.HttpOnly)
}

func TestNewRejectsBadEncryptionKey(t *testing.T) {
	cfg := memoryConfig()
	cfg.SessionEncryptionKey = "short"

	_, err := New(cfg, zap.NewNop(), Dependencies{
		VideoStore:    store.NewMemoryVideoStore(),
		PlaylistStore: store.NewMemoryPlaylistStore(),
		Publisher:     events.NopPublisher{},
	})
	assert.Error(t, err)
}
