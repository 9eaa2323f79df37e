package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/grvbrk/vidplay/internal/store"
	"github.com/grvbrk/vidplay/internal/store/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingPlayStore struct{}

func (failingPlayStore) RecordPlay(context.Context, analytics.Play) error { return nil }

func (failingPlayStore) GetVideoPlays(context.Context, string) (*analytics.VideoPlays, error) {
	return nil, errors.New("clickhouse down")
}

func newRouter(plays analytics.PlayStore) chi.Router {
	videos := store.NewMemoryVideoStore(store.SeedVideos(time.Now())...)
	h := NewPlayHandler(plays, videos, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/videos/{id}/plays", h.HandlerGetVideoPlays)
	return r
}

func TestGetVideoPlays(t *testing.T) {
	plays := analytics.NewMemoryPlayStore()
	ctx := context.Background()
	require.NoError(t, plays.RecordPlay(ctx, analytics.Play{VideoID: "1", PlaylistID: "1", PlayedAt: time.Now()}))
	require.NoError(t, plays.RecordPlay(ctx, analytics.Play{VideoID: "1", PlaylistID: "2", PlayedAt: time.Now()}))
	require.NoError(t, plays.RecordPlay(ctx, analytics.Play{VideoID: "2", PlaylistID: "1", PlayedAt: time.Now()}))

	r := newRouter(plays)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/videos/1/plays", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got analytics.VideoPlays
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, uint64(2), got.Total)
	require.Len(t, got.Recent, 2)
	assert.Equal(t, "2", got.Recent[0].PlaylistID)
}

func TestGetVideoPlaysErrors(t *testing.T) {
	t.Run("unknown video", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(analytics.NewMemoryPlayStore()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/videos/nope/plays", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(failingPlayStore{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/videos/1/plays", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Failed to fetch video analytics"}`, w.Body.String())
	})
}
