package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/grvbrk/vidplay/internal/config"
	"github.com/grvbrk/vidplay/internal/events"
	"github.com/grvbrk/vidplay/internal/handlers"
	handler_analytics "github.com/grvbrk/vidplay/internal/handlers/analytics"
	"github.com/grvbrk/vidplay/internal/middlewares"
	"github.com/grvbrk/vidplay/internal/models"
	"github.com/grvbrk/vidplay/internal/store"
	"github.com/grvbrk/vidplay/internal/store/analytics"
	"github.com/grvbrk/vidplay/internal/upload"
	"github.com/grvbrk/vidplay/migrations"
	"go.uber.org/zap"
)

type Application struct {
	Config            *config.Config
	Logger            *zap.Logger
	SessionStore      *sessions.CookieStore
	MiddlewareHandler *middlewares.MiddlewareHandler
	VideoHandler      *handlers.VideoHandler
	PlaylistHandler   *handlers.PlaylistHandler
	PlaybackHandler   *handlers.PlaybackHandler
	DraftHandler      *handlers.DraftHandler
	UploadHandler     *handlers.UploadHandler
	PlayHandler       *handler_analytics.PlayHandler

	tracker *upload.Tracker
	closers []func()
}

// Dependencies are the swappable backends behind the handlers.
type Dependencies struct {
	VideoStore    store.VideoStore
	PlaylistStore store.PlaylistStore
	PlayStore     analytics.PlayStore
	Publisher     events.Publisher
}

// NewApplication connects the backends selected by cfg and wires the
// handlers on top of them.
func NewApplication(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Application, error) {
	var closers []func()
	deps := Dependencies{
		PlayStore: analytics.NewMemoryPlayStore(),
		Publisher: events.NopPublisher{},
	}

	switch cfg.StoreDriver {
	case config.StoreMemory:
		var videos []models.Video
		var playlists []models.Playlist
		if cfg.SeedData {
			now := time.Now()
			videos = store.SeedVideos(now)
			playlists = store.SeedPlaylists(now)
		}
		deps.VideoStore = store.NewMemoryVideoStore(videos...)
		deps.PlaylistStore = store.NewMemoryPlaylistStore(playlists...)
		logger.Info("using in-memory store", zap.Bool("seeded", cfg.SeedData))

	case config.StorePostgres:
		pool, err := store.ConnectPGDB(ctx, cfg.DBURL, logger)
		if err != nil {
			return nil, err
		}
		closers = append(closers, pool.Close)

		if err := store.MigrateFS(pool, migrations.FS, "."); err != nil {
			closeAll(closers)
			return nil, fmt.Errorf("postgres migration failed: %w", err)
		}
		logger.Info("database migrated")

		deps.VideoStore = store.NewPostgresVideoStore(pool)
		deps.PlaylistStore = store.NewPostgresPlaylistStore(pool)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if cfg.RedisURL != "" {
		rdb, err := store.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			closeAll(closers)
			return nil, err
		}
		closers = append(closers, func() { rdb.Close() })
		deps.Publisher = events.NewRedisPublisher(rdb, cfg.EventsChannel, logger)
		logger.Info("publishing events to redis", zap.String("channel", cfg.EventsChannel))
	}

	if cfg.ClickhouseAddr != "" {
		chCfg := store.ClickhouseConfig{
			Addr:     cfg.ClickhouseAddr,
			Database: cfg.ClickhouseDatabase,
			Username: cfg.ClickhouseUsername,
			Password: cfg.ClickhousePassword,
		}
		conn, err := store.ConnectClickhouse(ctx, chCfg, logger)
		if err != nil {
			closeAll(closers)
			return nil, err
		}
		closers = append(closers, func() { conn.Close() })

		if err := store.MigrateClickhouse(chCfg, migrations.AnalyticsFS, "analytics"); err != nil {
			closeAll(closers)
			return nil, fmt.Errorf("clickhouse migration failed: %w", err)
		}
		logger.Info("clickhouse migrated")

		deps.PlayStore = analytics.NewClickhousePlayStore(conn)
	}

	app, err := New(cfg, logger, deps)
	if err != nil {
		closeAll(closers)
		return nil, err
	}
	app.closers = closers
	return app, nil
}

// New wires handlers over already constructed backends.
func New(cfg *config.Config, logger *zap.Logger, deps Dependencies) (*Application, error) {
	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		return nil, err
	}

	tracker := upload.NewTracker(cfg.UploadTick, cfg.UploadDuration, cfg.UploadRetention, logger)
	if deps.PlayStore == nil {
		deps.PlayStore = analytics.NewMemoryPlayStore()
	}

	return &Application{
		Config:            cfg,
		Logger:            logger,
		SessionStore:      sessionStore,
		MiddlewareHandler: middlewares.NewMiddlewareHandler(logger, cfg.AllowedOrigins),
		VideoHandler:      handlers.NewVideoHandler(deps.VideoStore, deps.Publisher, logger),
		PlaylistHandler:   handlers.NewPlaylistHandler(deps.PlaylistStore, deps.Publisher, logger),
		PlaybackHandler:   handlers.NewPlaybackHandler(deps.PlaylistStore, deps.VideoStore, deps.PlayStore, sessionStore, logger),
		DraftHandler:      handlers.NewDraftHandler(deps.VideoStore, deps.PlaylistStore, sessionStore, deps.Publisher, logger),
		UploadHandler:     handlers.NewUploadHandler(deps.VideoStore, tracker, deps.Publisher, logger),
		PlayHandler:       handler_analytics.NewPlayHandler(deps.PlayStore, deps.VideoStore, logger),
		tracker:           tracker,
	}, nil
}

func newSessionStore(cfg *config.Config) (*sessions.CookieStore, error) {
	authKey := []byte(cfg.SessionAuthKey)
	if len(authKey) == 0 {
		authKey = securecookie.GenerateRandomKey(64)
	}

	encryptionKey := []byte(cfg.SessionEncryptionKey)
	if len(encryptionKey) == 0 {
		encryptionKey = securecookie.GenerateRandomKey(32)
	}
	switch len(encryptionKey) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("session encryption key must be 16, 24 or 32 bytes, got %d", len(encryptionKey))
	}

	options := &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
	}

	if cfg.IsProduction() {
		options.Secure = true
		options.SameSite = http.SameSiteNoneMode
	} else {
		options.Secure = false
		options.SameSite = http.SameSiteLaxMode
	}

	sessionStore := sessions.NewCookieStore(authKey, encryptionKey)
	sessionStore.Options = options
	return sessionStore, nil
}

func closeAll(closers []func()) {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}

// Close stops in-flight uploads, then releases the connections opened by
// NewApplication.
func (app *Application) Close() {
	app.tracker.Close()
	closeAll(app.closers)
}
