package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/grvbrk/vidplay/internal/events"
	"github.com/grvbrk/vidplay/internal/models"
	"github.com/grvbrk/vidplay/internal/playback"
	"github.com/grvbrk/vidplay/internal/store"
	"github.com/grvbrk/vidplay/internal/utils"
	"go.uber.org/zap"
)

// DraftHandler manages the playlist being authored. The selection is a list
// of video ids kept in the session until it is submitted.
type DraftHandler struct {
	VideoStore    store.VideoStore
	PlaylistStore store.PlaylistStore
	Sessions      sessions.Store
	Events        events.Publisher
	Logger        *zap.Logger
}

func NewDraftHandler(videoStore store.VideoStore, playlistStore store.PlaylistStore, sessionStore sessions.Store, publisher events.Publisher, logger *zap.Logger) *DraftHandler {
	return &DraftHandler{
		VideoStore:    videoStore,
		PlaylistStore: playlistStore,
		Sessions:      sessionStore,
		Events:        publisher,
		Logger:        logger,
	}
}

type DraftView struct {
	Videos []models.Video `json:"videos"`
}

type moveRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

type submitDraftRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (dh *DraftHandler) view(r *http.Request, ids []string) (DraftView, error) {
	videos, err := dh.VideoStore.GetVideos(r.Context())
	if err != nil {
		return DraftView{}, err
	}

	byID := make(map[string]models.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}

	view := DraftView{Videos: make([]models.Video, 0, len(ids))}
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			view.Videos = append(view.Videos, v)
		}
	}
	return view, nil
}

func (dh *DraftHandler) respond(w http.ResponseWriter, r *http.Request, ids []string) {
	view, err := dh.view(r, ids)
	if err != nil {
		dh.Logger.Error("Error resolving playlist draft", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch playlist draft")
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

// saveDraft saves ids into the session and writes the resulting view.
func (dh *DraftHandler) saveDraft(w http.ResponseWriter, r *http.Request, session *sessions.Session, ids []string) {
	session.Values[draftKey] = ids
	if err := session.Save(r, w); err != nil {
		dh.Logger.Error("Error saving playlist draft", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to save playlist draft")
		return
	}
	dh.respond(w, r, ids)
}

func (dh *DraftHandler) HandlerGetDraft(w http.ResponseWriter, r *http.Request) {
	session := getSession(dh.Sessions, r, dh.Logger)
	dh.respond(w, r, sessionDraft(session))
}

func (dh *DraftHandler) HandlerToggleVideo(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoId")
	session := getSession(dh.Sessions, r, dh.Logger)
	ids := sessionDraft(session)

	selected := false
	for _, id := range ids {
		if id == videoID {
			selected = true
			break
		}
	}

	if !selected {
		if len(ids) >= maxDraftVideos {
			utils.WriteError(w, http.StatusBadRequest, fmt.Sprintf("A playlist draft holds at most %d videos", maxDraftVideos))
			return
		}
		if _, err := dh.VideoStore.GetVideoByID(r.Context(), videoID); err != nil {
			writeStoreError(w, dh.Logger, err, "Video not found", "Failed to update playlist draft")
			return
		}
	}

	dh.saveDraft(w, r, session, playback.Toggle(ids, videoID))
}

func (dh *DraftHandler) HandlerRemoveVideo(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoId")
	session := getSession(dh.Sessions, r, dh.Logger)

	ids := playback.RemoveByID(sessionDraft(session), videoID, func(id string) string { return id })
	dh.saveDraft(w, r, session, ids)
}

func (dh *DraftHandler) HandlerMoveVideo(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		dh.Logger.Error("Error decoding move request", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to update playlist draft")
		return
	}
	if req.From == nil || req.To == nil {
		utils.WriteError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	session := getSession(dh.Sessions, r, dh.Logger)
	dh.saveDraft(w, r, session, playback.Move(sessionDraft(session), *req.From, *req.To))
}

func (dh *DraftHandler) HandlerSubmitDraft(w http.ResponseWriter, r *http.Request) {
	var req submitDraftRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		dh.Logger.Error("Error decoding submit draft request", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create playlist")
		return
	}

	session := getSession(dh.Sessions, r, dh.Logger)
	ids := sessionDraft(session)

	if req.Title == "" {
		utils.WriteError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if len(ids) == 0 {
		utils.WriteError(w, http.StatusBadRequest, "At least one video is required")
		return
	}

	playlist := &models.Playlist{
		Title:       req.Title,
		Description: req.Description,
		Videos:      make([]models.PlaylistVideo, 0, len(ids)),
	}
	for i, id := range ids {
		playlist.Videos = append(playlist.Videos, models.PlaylistVideo{VideoID: id, Order: i})
	}

	if err := dh.PlaylistStore.CreatePlaylist(r.Context(), playlist); err != nil {
		dh.Logger.Error("Error creating playlist from draft", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create playlist")
		return
	}

	delete(session.Values, draftKey)
	if err := session.Save(r, w); err != nil {
		dh.Logger.Warn("Error clearing playlist draft", zap.String("playlist_id", playlist.ID), zap.Error(err))
	}

	dh.Logger.Info("playlist created from draft", zap.String("playlist_id", playlist.ID), zap.Int("videos", len(ids)))
	dh.Events.Publish(r.Context(), events.PlaylistCreated, playlist.ID, playlist)
	utils.WriteJSON(w, http.StatusCreated, playlist)
}
