package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/grvbrk/vidplay/internal/app"
	"github.com/grvbrk/vidplay/internal/handlers"
)

func SetupRoutes(app *app.Application) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if app.Config.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitAll(app.Config.RateLimitPerMinute, time.Minute))
	}
	r.Use(app.MiddlewareHandler.RequestLogger)
	r.Use(app.MiddlewareHandler.Security)
	r.Use(app.MiddlewareHandler.Cors)

	r.Get("/health", handlers.HandlerHealth)

	r.Route("/videos", func(r chi.Router) {
		r.Get("/", app.VideoHandler.HandlerGetVideos)
		r.Post("/", app.VideoHandler.HandlerCreateVideo)
		r.Post("/upload", app.UploadHandler.HandlerUploadVideo)
		r.Get("/{id}", app.VideoHandler.HandlerGetVideoByID)
		r.Put("/{id}", app.VideoHandler.HandlerUpdateVideo)
		r.Delete("/{id}", app.VideoHandler.HandlerDeleteVideo)
		r.Get("/{id}/plays", app.PlayHandler.HandlerGetVideoPlays)
	})

	r.Get("/uploads/{id}", app.UploadHandler.HandlerGetUpload)

	r.Route("/playlists", func(r chi.Router) {
		r.Get("/", app.PlaylistHandler.HandlerGetPlaylists)
		r.Post("/", app.PlaylistHandler.HandlerCreatePlaylist)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.PlaylistHandler.HandlerGetPlaylistByID)
			r.Put("/", app.PlaylistHandler.HandlerUpdatePlaylist)
			r.Delete("/", app.PlaylistHandler.HandlerDeletePlaylist)

			r.Route("/playback", func(r chi.Router) {
				r.Get("/", app.PlaybackHandler.HandlerGetPlayback)
				r.Post("/next", app.PlaybackHandler.HandlerNext)
				r.Post("/previous", app.PlaybackHandler.HandlerPrevious)
				r.Post("/jump", app.PlaybackHandler.HandlerJump)
			})
		})
	})

	r.Route("/playlist-draft", func(r chi.Router) {
		r.Get("/", app.DraftHandler.HandlerGetDraft)
		r.Post("/videos/{videoId}", app.DraftHandler.HandlerToggleVideo)
		r.Delete("/videos/{videoId}", app.DraftHandler.HandlerRemoveVideo)
		r.Post("/move", app.DraftHandler.HandlerMoveVideo)
		r.Post("/submit", app.DraftHandler.HandlerSubmitDraft)
	})

	return r
}
