package analytics

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grvbrk/vidplay/internal/store"
	"github.com/grvbrk/vidplay/internal/store/analytics"
	"github.com/grvbrk/vidplay/internal/utils"
	"go.uber.org/zap"
)

type PlayHandler struct {
	PlayStore  analytics.PlayStore
	VideoStore store.VideoStore
	Logger     *zap.Logger
}

func NewPlayHandler(playStore analytics.PlayStore, videoStore store.VideoStore, logger *zap.Logger) *PlayHandler {
	return &PlayHandler{
		PlayStore:  playStore,
		VideoStore: videoStore,
		Logger:     logger,
	}
}

func (ah *PlayHandler) HandlerGetVideoPlays(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "id")

	if _, err := ah.VideoStore.GetVideoByID(r.Context(), videoID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Video not found")
			return
		}
		ah.Logger.Error("Error getting video for analytics", zap.String("video_id", videoID), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch video analytics")
		return
	}

	plays, err := ah.PlayStore.GetVideoPlays(r.Context(), videoID)
	if err != nil {
		ah.Logger.Error("Error getting video plays from store", zap.String("video_id", videoID), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch video analytics")
		return
	}

	utils.WriteJSON(w, http.StatusOK, plays)
}
