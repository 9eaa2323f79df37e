package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grvbrk/vidplay/internal/models"
)

// PlaylistStore persists playlists together with their entries. Entries
// reference videos by id only; implementations do not check that the video
// exists and do not touch playlists when a video is deleted.
type PlaylistStore interface {
	GetPlaylists(ctx context.Context) ([]models.Playlist, error)
	GetPlaylistByID(ctx context.Context, playlistID string) (*models.Playlist, error)
	CreatePlaylist(ctx context.Context, playlist *models.Playlist) error
	UpdatePlaylist(ctx context.Context, playlistID string, patch models.PlaylistPatch) (*models.Playlist, error)
	DeletePlaylist(ctx context.Context, playlistID string) error
}

type MemoryPlaylistStore struct {
	mu        sync.RWMutex
	playlists []models.Playlist
	now       func() time.Time
	newID     func() string
}

func NewMemoryPlaylistStore(seed ...models.Playlist) *MemoryPlaylistStore {
	playlists := make([]models.Playlist, 0, len(seed))
	for _, pl := range seed {
		playlists = append(playlists, clonePlaylist(pl))
	}
	return &MemoryPlaylistStore{
		playlists: playlists,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func clonePlaylist(pl models.Playlist) models.Playlist {
	pl.Videos = slices.Clone(pl.Videos)
	if pl.Videos == nil {
		pl.Videos = []models.PlaylistVideo{}
	}
	return pl
}

func (m *MemoryPlaylistStore) indexOf(playlistID string) int {
	return slices.IndexFunc(m.playlists, func(pl models.Playlist) bool {
		return pl.ID == playlistID
	})
}

func (m *MemoryPlaylistStore) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	playlists := make([]models.Playlist, 0, len(m.playlists))
	for _, pl := range m.playlists {
		playlists = append(playlists, clonePlaylist(pl))
	}
	return playlists, nil
}

func (m *MemoryPlaylistStore) GetPlaylistByID(ctx context.Context, playlistID string) (*models.Playlist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(playlistID)
	if i == -1 {
		return nil, ErrNotFound
	}
	pl := clonePlaylist(m.playlists[i])
	return &pl, nil
}

func (m *MemoryPlaylistStore) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	playlist.ID = m.newID()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now
	for i := range playlist.Videos {
		playlist.Videos[i].PlaylistID = playlist.ID
		if playlist.Videos[i].ID == "" {
			playlist.Videos[i].ID = m.newID()
		}
	}

	m.playlists = append(m.playlists, clonePlaylist(*playlist))
	return nil
}

func (m *MemoryPlaylistStore) UpdatePlaylist(ctx context.Context, playlistID string, patch models.PlaylistPatch) (*models.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(playlistID)
	if i == -1 {
		return nil, ErrNotFound
	}

	m.playlists[i].Apply(patch, m.now(), m.newID)
	pl := clonePlaylist(m.playlists[i])
	return &pl, nil
}

func (m *MemoryPlaylistStore) DeletePlaylist(ctx context.Context, playlistID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(playlistID)
	if i == -1 {
		return ErrNotFound
	}

	m.playlists = slices.Delete(m.playlists, i, i+1)
	return nil
}
