package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/grvbrk/vidplay/internal/store"
	"github.com/grvbrk/vidplay/internal/store/analytics"
	"github.com/grvbrk/vidplay/internal/upload"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type publishedEvent struct {
	Type string
	ID   string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType, id string, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, ID: id})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	videos    *store.MemoryVideoStore
	playlists *store.MemoryPlaylistStore
	events    *recordingPublisher
	plays     *analytics.MemoryPlayStore
	tracker   *upload.Tracker
	router    chi.Router
	cookies   []*http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	now := time.Now()
	logger := zap.NewNop()
	env := &testEnv{
		videos:    store.NewMemoryVideoStore(store.SeedVideos(now)...),
		playlists: store.NewMemoryPlaylistStore(store.SeedPlaylists(now)...),
		events:    &recordingPublisher{},
		plays:     analytics.NewMemoryPlayStore(),
		tracker:   upload.NewTracker(time.Millisecond, 20*time.Millisecond, time.Minute, logger),
	}
	t.Cleanup(env.tracker.Close)

	sessionStore := sessions.NewCookieStore(securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32))
	sessionStore.Options = &sessions.Options{Path: "/", MaxAge: 3600, HttpOnly: true}

	vh := NewVideoHandler(env.videos, env.events, logger)
	ph := NewPlaylistHandler(env.playlists, env.events, logger)
	pbh := NewPlaybackHandler(env.playlists, env.videos, env.plays, sessionStore, logger)
	dh := NewDraftHandler(env.videos, env.playlists, sessionStore, env.events, logger)
	uh := NewUploadHandler(env.videos, env.tracker, env.events, logger)

	r := chi.NewRouter()
	r.Get("/health", HandlerHealth)
	r.Get("/videos", vh.HandlerGetVideos)
	r.Post("/videos", vh.HandlerCreateVideo)
	r.Post("/videos/upload", uh.HandlerUploadVideo)
	r.Get("/videos/{id}", vh.HandlerGetVideoByID)
	r.Put("/videos/{id}", vh.HandlerUpdateVideo)
	r.Delete("/videos/{id}", vh.HandlerDeleteVideo)
	r.Get("/uploads/{id}", uh.HandlerGetUpload)
	r.Get("/playlists", ph.HandlerGetPlaylists)
	r.Post("/playlists", ph.HandlerCreatePlaylist)
	r.Get("/playlists/{id}", ph.HandlerGetPlaylistByID)
	r.Put("/playlists/{id}", ph.HandlerUpdatePlaylist)
	r.Delete("/playlists/{id}", ph.HandlerDeletePlaylist)
	r.Get("/playlists/{id}/playback", pbh.HandlerGetPlayback)
	r.Post("/playlists/{id}/playback/next", pbh.HandlerNext)
	r.Post("/playlists/{id}/playback/previous", pbh.HandlerPrevious)
	r.Post("/playlists/{id}/playback/jump", pbh.HandlerJump)
	r.Get("/playlist-draft", dh.HandlerGetDraft)
	r.Post("/playlist-draft/videos/{videoId}", dh.HandlerToggleVideo)
	r.Delete("/playlist-draft/videos/{videoId}", dh.HandlerRemoveVideo)
	r.Post("/playlist-draft/move", dh.HandlerMoveVideo)
	r.Post("/playlist-draft/submit", dh.HandlerSubmitDraft)
	env.router = r

	return env
}

// do sends a request through the router. Cookies set by earlier responses
// are replayed so session state carries over like in a browser.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(req)
}

func (e *testEnv) send(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range e.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	if set := w.Result().Cookies(); len(set) > 0 {
		e.cookies = set
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
