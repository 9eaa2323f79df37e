package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grvbrk/vidplay/internal/events"
	"github.com/grvbrk/vidplay/internal/models"
	"github.com/grvbrk/vidplay/internal/store"
	"github.com/grvbrk/vidplay/internal/utils"
	"go.uber.org/zap"
)

type VideoHandler struct {
	VideoStore store.VideoStore
	Events     events.Publisher
	Logger     *zap.Logger
}

func NewVideoHandler(videoStore store.VideoStore, publisher events.Publisher, logger *zap.Logger) *VideoHandler {
	return &VideoHandler{
		VideoStore: videoStore,
		Events:     publisher,
		Logger:     logger,
	}
}

type createVideoRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Duration     int    `json:"duration"`
	Category     string `json:"category"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

func (vh *VideoHandler) HandlerGetVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := vh.VideoStore.GetVideos(r.Context())
	if err != nil {
		vh.Logger.Error("Error getting videos from store", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch videos")
		return
	}

	utils.WriteJSON(w, http.StatusOK, videos)
}

func (vh *VideoHandler) HandlerGetVideoByID(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "id")

	video, err := vh.VideoStore.GetVideoByID(r.Context(), videoID)
	if err != nil {
		writeStoreError(w, vh.Logger, err, "Video not found", "Failed to fetch video")
		return
	}

	utils.WriteJSON(w, http.StatusOK, video)
}

func (vh *VideoHandler) HandlerCreateVideo(w http.ResponseWriter, r *http.Request) {
	var req createVideoRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		vh.Logger.Error("Error decoding create video request", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create video")
		return
	}

	if req.Title == "" {
		utils.WriteError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if req.Duration < 0 {
		utils.WriteError(w, http.StatusBadRequest, "Duration must not be negative")
		return
	}

	video := &models.Video{
		Title:        req.Title,
		Description:  req.Description,
		Duration:     req.Duration,
		Category:     req.Category,
		URL:          req.URL,
		ThumbnailURL: req.ThumbnailURL,
	}

	if err := vh.VideoStore.CreateVideo(r.Context(), video); err != nil {
		vh.Logger.Error("Error creating video", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create video")
		return
	}

	vh.Logger.Info("video created", zap.String("video_id", video.ID))
	vh.Events.Publish(r.Context(), events.VideoCreated, video.ID, video)
	utils.WriteJSON(w, http.StatusCreated, video)
}

func (vh *VideoHandler) HandlerUpdateVideo(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "id")

	var patch models.VideoPatch
	if err := utils.ReadJSON(r, &patch); err != nil {
		vh.Logger.Error("Error decoding update video request", zap.String("video_id", videoID), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to update video")
		return
	}

	if patch.Duration != nil && *patch.Duration < 0 {
		utils.WriteError(w, http.StatusBadRequest, "Duration must not be negative")
		return
	}

	video, err := vh.VideoStore.UpdateVideo(r.Context(), videoID, patch)
	if err != nil {
		writeStoreError(w, vh.Logger, err, "Video not found", "Failed to update video")
		return
	}

	vh.Events.Publish(r.Context(), events.VideoUpdated, video.ID, video)
	utils.WriteJSON(w, http.StatusOK, video)
}

func (vh *VideoHandler) HandlerDeleteVideo(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "id")

	if err := vh.VideoStore.DeleteVideo(r.Context(), videoID); err != nil {
		writeStoreError(w, vh.Logger, err, "Video not found", "Failed to delete video")
		return
	}

	vh.Logger.Info("video deleted", zap.String("video_id", videoID))
	vh.Events.Publish(r.Context(), events.VideoDeleted, videoID, nil)
	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"success": true})
}
