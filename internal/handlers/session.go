package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	sessionName         = "vidplay_session"
	draftKey            = "draft_videos"
	playbackPlaylistKey = "playback_playlist"
	playbackIndexKey    = "playback_index"
)

// maxDraftVideos keeps the encoded draft well inside securecookie's 4096
// byte cookie limit.
const maxDraftVideos = 40

// getSession never fails: a cookie that no longer decodes (rotated keys,
// tampering) is replaced with a fresh session.
func getSession(store sessions.Store, r *http.Request, logger *zap.Logger) *sessions.Session {
	session, err := store.Get(r, sessionName)
	if err != nil {
		logger.Warn("discarding unreadable session", zap.Error(err))
		session, _ = store.New(r, sessionName)
		if session == nil {
			session = sessions.NewSession(store, sessionName)
		}
	}
	return session
}

// sessionIndex returns the saved position for playlistID. Only the last
// navigated playlist is remembered, any other starts at 0.
func sessionIndex(session *sessions.Session, playlistID string) int {
	if id, _ := session.Values[playbackPlaylistKey].(string); id != playlistID {
		return 0
	}
	index, _ := session.Values[playbackIndexKey].(int)
	return index
}

func setSessionIndex(session *sessions.Session, playlistID string, index int) {
	session.Values[playbackPlaylistKey] = playlistID
	session.Values[playbackIndexKey] = index
}

func sessionDraft(session *sessions.Session) []string {
	ids, _ := session.Values[draftKey].([]string)
	return ids
}
