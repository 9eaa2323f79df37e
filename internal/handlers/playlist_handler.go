package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/grvbrk/vidplay/internal/events"
	"github.com/grvbrk/vidplay/internal/models"
	"github.com/grvbrk/vidplay/internal/store"
	"github.com/grvbrk/vidplay/internal/utils"
	"go.uber.org/zap"
)

type PlaylistHandler struct {
	PlaylistStore store.PlaylistStore
	Events        events.Publisher
	Logger        *zap.Logger
}

func NewPlaylistHandler(playlistStore store.PlaylistStore, publisher events.Publisher, logger *zap.Logger) *PlaylistHandler {
	return &PlaylistHandler{
		PlaylistStore: playlistStore,
		Events:        publisher,
		Logger:        logger,
	}
}

type createPlaylistRequest struct {
	Title       string                      `json:"title"`
	Description string                      `json:"description"`
	Videos      []models.PlaylistVideoInput `json:"videos"`
}

// validate returns the message for the first missing required field.
func (req createPlaylistRequest) validate() string {
	if req.Title == "" {
		return "Title is required"
	}
	if len(req.Videos) == 0 {
		return "At least one video is required"
	}
	for _, v := range req.Videos {
		if v.VideoID == "" {
			return "Every video needs a videoId"
		}
	}
	return ""
}

func (ph *PlaylistHandler) HandlerGetPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := ph.PlaylistStore.GetPlaylists(r.Context())
	if err != nil {
		ph.Logger.Error("Error getting playlists from store", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch playlists")
		return
	}

	utils.WriteJSON(w, http.StatusOK, playlists)
}

func (ph *PlaylistHandler) HandlerGetPlaylistByID(w http.ResponseWriter, r *http.Request) {
	playlistID := chi.URLParam(r, "id")

	playlist, err := ph.PlaylistStore.GetPlaylistByID(r.Context(), playlistID)
	if err != nil {
		writeStoreError(w, ph.Logger, err, "Playlist not found", "Failed to fetch playlist")
		return
	}

	utils.WriteJSON(w, http.StatusOK, playlist)
}

func (ph *PlaylistHandler) HandlerCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req createPlaylistRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		ph.Logger.Error("Error decoding create playlist request", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create playlist")
		return
	}

	if msg := req.validate(); msg != "" {
		utils.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	playlist := &models.Playlist{
		Title:       req.Title,
		Description: req.Description,
		Videos:      models.BuildEntries("", req.Videos, uuid.NewString),
	}

	if err := ph.PlaylistStore.CreatePlaylist(r.Context(), playlist); err != nil {
		ph.Logger.Error("Error creating playlist", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create playlist")
		return
	}

	ph.Logger.Info("playlist created", zap.String("playlist_id", playlist.ID), zap.Int("videos", len(playlist.Videos)))
	ph.Events.Publish(r.Context(), events.PlaylistCreated, playlist.ID, playlist)
	utils.WriteJSON(w, http.StatusCreated, playlist)
}

func (ph *PlaylistHandler) HandlerUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	playlistID := chi.URLParam(r, "id")

	var patch models.PlaylistPatch
	if err := utils.ReadJSON(r, &patch); err != nil {
		ph.Logger.Error("Error decoding update playlist request", zap.String("playlist_id", playlistID), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to update playlist")
		return
	}

	playlist, err := ph.PlaylistStore.UpdatePlaylist(r.Context(), playlistID, patch)
	if err != nil {
		writeStoreError(w, ph.Logger, err, "Playlist not found", "Failed to update playlist")
		return
	}

	ph.Events.Publish(r.Context(), events.PlaylistUpdated, playlist.ID, playlist)
	utils.WriteJSON(w, http.StatusOK, playlist)
}

func (ph *PlaylistHandler) HandlerDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	playlistID := chi.URLParam(r, "id")

	if err := ph.PlaylistStore.DeletePlaylist(r.Context(), playlistID); err != nil {
		writeStoreError(w, ph.Logger, err, "Playlist not found", "Failed to delete playlist")
		return
	}

	ph.Logger.Info("playlist deleted", zap.String("playlist_id", playlistID))
	ph.Events.Publish(r.Context(), events.PlaylistDeleted, playlistID, nil)
	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"success": true})
}
