package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/grvbrk/vidplay/internal/models"
	"github.com/grvbrk/vidplay/internal/playback"
	"github.com/grvbrk/vidplay/internal/store"
	"github.com/grvbrk/vidplay/internal/store/analytics"
	"github.com/grvbrk/vidplay/internal/utils"
	"go.uber.org/zap"
)

var playbackRates = []float64{0.5, 1, 1.5, 2}

type Player struct {
	Src           string    `json:"src"`
	Poster        string    `json:"poster"`
	Autoplay      bool      `json:"autoplay"`
	PlaybackRates []float64 `json:"playbackRates"`
}

type PlaybackView struct {
	PlaylistID  string          `json:"playlistId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Index       int             `json:"index"`
	Total       int             `json:"total"`
	HasPrevious bool            `json:"hasPrevious"`
	HasNext     bool            `json:"hasNext"`
	Current     *models.Video   `json:"current"`
	Player      *Player         `json:"player"`
	Items       []playback.Item `json:"items"`
}

func newPlaybackView(pl *models.Playlist, nav *playback.Navigator) PlaybackView {
	view := PlaybackView{
		PlaylistID:  pl.ID,
		Title:       pl.Title,
		Description: pl.Description,
		Index:       nav.Index(),
		Total:       nav.Len(),
		HasPrevious: nav.HasPrevious(),
		HasNext:     nav.HasNext(),
		Current:     nav.Current(),
		Items:       nav.Items(),
	}
	if view.Current != nil {
		view.Player = &Player{
			Src:           view.Current.URL,
			Poster:        view.Current.ThumbnailURL,
			PlaybackRates: playbackRates,
		}
	}
	return view
}

// PlaybackHandler keeps the position in the last navigated playlist in the
// caller's session cookie.
type PlaybackHandler struct {
	PlaylistStore store.PlaylistStore
	VideoStore    store.VideoStore
	Plays         analytics.PlayStore
	Sessions      sessions.Store
	Logger        *zap.Logger
}

func NewPlaybackHandler(playlistStore store.PlaylistStore, videoStore store.VideoStore, plays analytics.PlayStore, sessionStore sessions.Store, logger *zap.Logger) *PlaybackHandler {
	return &PlaybackHandler{
		PlaylistStore: playlistStore,
		VideoStore:    videoStore,
		Plays:         plays,
		Sessions:      sessionStore,
		Logger:        logger,
	}
}

type jumpRequest struct {
	Index *int `json:"index"`
}

// load resolves the playlist and restores the navigator from the session.
// It writes the error response itself and returns ok=false on failure.
func (h *PlaybackHandler) load(w http.ResponseWriter, r *http.Request) (*models.Playlist, *playback.Navigator, *sessions.Session, bool) {
	playlistID := chi.URLParam(r, "id")

	pl, err := h.PlaylistStore.GetPlaylistByID(r.Context(), playlistID)
	if err != nil {
		writeStoreError(w, h.Logger, err, "Playlist not found", "Failed to fetch playlist")
		return nil, nil, nil, false
	}

	videos, err := h.VideoStore.GetVideos(r.Context())
	if err != nil {
		h.Logger.Error("Error getting videos for playback", zap.String("playlist_id", playlistID), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch playlist")
		return nil, nil, nil, false
	}

	session := getSession(h.Sessions, r, h.Logger)
	nav := playback.NewNavigator(playback.Resolve(pl.Videos, videos), sessionIndex(session, pl.ID))
	return pl, nav, session, true
}

// respond writes the view and records a play for the video now in front of
// the viewer. A failed record is logged and otherwise ignored.
func (h *PlaybackHandler) respond(w http.ResponseWriter, r *http.Request, pl *models.Playlist, nav *playback.Navigator) {
	view := newPlaybackView(pl, nav)
	if view.Current != nil {
		play := analytics.Play{VideoID: view.Current.ID, PlaylistID: pl.ID, PlayedAt: time.Now().UTC()}
		if err := h.Plays.RecordPlay(r.Context(), play); err != nil {
			h.Logger.Warn("Error recording play", zap.String("video_id", play.VideoID), zap.Error(err))
		}
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *PlaybackHandler) save(w http.ResponseWriter, r *http.Request, session *sessions.Session, pl *models.Playlist, nav *playback.Navigator) {
	setSessionIndex(session, pl.ID, nav.Index())
	if err := session.Save(r, w); err != nil {
		h.Logger.Error("Error saving playback session", zap.String("playlist_id", pl.ID), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to save playback position")
		return
	}
	h.respond(w, r, pl, nav)
}

func (h *PlaybackHandler) HandlerGetPlayback(w http.ResponseWriter, r *http.Request) {
	pl, nav, _, ok := h.load(w, r)
	if !ok {
		return
	}
	h.respond(w, r, pl, nav)
}

func (h *PlaybackHandler) HandlerNext(w http.ResponseWriter, r *http.Request) {
	pl, nav, session, ok := h.load(w, r)
	if !ok {
		return
	}
	nav.Advance()
	h.save(w, r, session, pl, nav)
}

func (h *PlaybackHandler) HandlerPrevious(w http.ResponseWriter, r *http.Request) {
	pl, nav, session, ok := h.load(w, r)
	if !ok {
		return
	}
	nav.Retreat()
	h.save(w, r, session, pl, nav)
}

func (h *PlaybackHandler) HandlerJump(w http.ResponseWriter, r *http.Request) {
	pl, nav, session, ok := h.load(w, r)
	if !ok {
		return
	}

	var req jumpRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		h.Logger.Error("Error decoding jump request", zap.String("playlist_id", pl.ID), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to change video")
		return
	}

	if req.Index == nil || !nav.InRange(*req.Index) {
		utils.WriteError(w, http.StatusBadRequest, "Index out of range")
		return
	}

	nav.JumpTo(*req.Index)
	h.save(w, r, session, pl, nav)
}
